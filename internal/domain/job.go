package domain

import "time"

type Job struct {
	ID           int64          `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Company      string         `json:"company"`
	Location     string         `json:"location"`
	Salary       *int64         `json:"salary"`
	EmployerID   int64          `json:"employerId"`
	Employer     *UserSummary   `json:"employer,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	Applications []*Application `json:"applications,omitempty"`
}
