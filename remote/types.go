package remote

import (
	"fmt"

	"github.com/FatjonaGashi/library-management-system/catalog"
)

// ============================================================================
// REMOTE: Client side of the library HTTP API
// ============================================================================
// The client only moves bytes. It never interprets a query; the server (or
// the local engine, when the assistant falls back) does that.
// Every call that needs identity takes the bearer token explicitly.
// ============================================================================

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Token string       `json:"token"`
	User  catalog.User `json:"user"`
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("library api returned %d", e.Code)
	}
	return fmt.Sprintf("library api returned %d: %s", e.Code, e.Message)
}

// errorBody covers both {"error": ...} and {"message": ...} payloads.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type queryRequest struct {
	Query string `json:"query"`
}

type insightsResponse struct {
	Insights []string `json:"insights"`
}
