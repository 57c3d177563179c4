package testutil

import (
	"net/http"

	id "gatehouse/pkg/domain"
	"gatehouse/pkg/requestcontext"
)

// WithPrincipal adds an authenticated user to the request context.
// This simulates what the auth middleware does for bearer-token requests.
func WithPrincipal(req *http.Request, userID id.UserID, name string, role id.Role) *http.Request {
	return req.WithContext(requestcontext.WithPrincipal(req.Context(), userID, name, role))
}

// AsRole adds a freshly generated user with the given role to the request.
func AsRole(req *http.Request, role id.Role) *http.Request {
	return WithPrincipal(req, id.NewUserID(), "Test "+string(role), role)
}
