package handler

import (
	"net/http"

	"github.com/jobboard-dev/jobboard/backend/internal/auth"
	"github.com/jobboard-dev/jobboard/backend/internal/domain"
)

type ContextKey string

var (
	IdentityCtx ContextKey = "identity"
	MyInfoCtx   ContextKey = "myInfo"
	PathIDCtx   ContextKey = "pathID"
)

func identityFrom(r *http.Request) auth.Identity {
	return r.Context().Value(IdentityCtx).(auth.Identity)
}

func myInfoFrom(r *http.Request) *domain.User {
	return r.Context().Value(MyInfoCtx).(*domain.User)
}

func pathIDFrom(r *http.Request) int64 {
	return r.Context().Value(PathIDCtx).(int64)
}
