package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	ErrInvalidID      = errors.New("id must be a positive integer")
	ErrNegativeSalary = errors.New("salary must not be negative")
)

// ParseID parses a path id, accepting only positive base-10 integers.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// ParseSalary accepts a JSON integer or a numeric string. Anything that does not parse to an
// integer (null, "", "abc", 12.5, true) yields no salary; a negative value is an error.
func ParseSalary(raw json.RawMessage) (*int64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var text string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, nil
		}
		text = strings.TrimSpace(text)
	} else {
		text = string(raw)
	}

	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		// JSON numbers such as 85000.0 or 8.5e4 are still integral
		f, ferr := strconv.ParseFloat(text, 64)
		if ferr != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64/2 {
			return nil, nil
		}
		v = int64(f)
	}
	if v < 0 {
		return nil, ErrNegativeSalary
	}
	return &v, nil
}
