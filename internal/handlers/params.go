package handlers

import (
	"context"
	"net/http"
	"strconv"
)

// getParam returns a path or query parameter value regardless of whether
// the router stores it with a leading colon or not. It also supports the
// standard net/http PathValue API available in recent Go versions.
func getParam(r *http.Request, name string) string {
	if r == nil {
		return ""
	}

	if val := r.URL.Query().Get(":" + name); val != "" {
		return val
	}

	if val := r.URL.Query().Get(name); val != "" {
		return val
	}

	return r.PathValue(name)
}

func getIntParam(r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(getParam(r, name))
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

type contextKey string

const (
	ContextKeyUserID = contextKey("user_id")
	ContextKeyRole   = contextKey("role")
)

// UserIDFromContext returns the authenticated user id placed there by the
// auth middleware.
func UserIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(ContextKeyUserID).(int)
	return id, ok
}

func RoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(ContextKeyRole).(string)
	return role, ok
}

// callerID reads the authenticated user or writes a 401. Routes behind the
// auth middleware should never hit the failure path.
func callerID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, ok := UserIDFromContext(r.Context())
	if !ok {
		respondErrorCode(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return 0, false
	}
	return id, true
}
