package dbadmin

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Kind enumerates every failure the engine can produce.
type Kind int

const (
	// KindConnection: the pool is exhausted or the backend is unreachable.
	KindConnection Kind = iota
	// KindQuery: the backend rejected a statement (unique violation,
	// datatype mismatch, anything else).
	KindQuery
	// KindMissingParameter: a required key was absent from the request.
	KindMissingParameter
	// KindInvalidInteger: a key was present but not a signed 32-bit integer.
	KindInvalidInteger
	// KindRowCount: a single-record query returned zero or many rows.
	KindRowCount
	// KindUnknownRoutine: a route referenced a routine the schema cache has
	// never seen. Registration-time defect, not a user error.
	KindUnknownRoutine
	// KindUnknownField: a sort field is not declared on the target view.
	KindUnknownField
	// KindSchemaType: the introspection views reported a type outside the
	// supported vocabulary.
	KindSchemaType
	// KindColumnType: a result column has no substitution rule.
	KindColumnType
	// KindTemplate: template missing from the store, or missing row markers.
	KindTemplate
)

// Error is the uniform failure shape: a user-facing message, a
// developer-facing detail for the log, and a static origin tag identifying
// the construction site. No stack introspection.
type Error struct {
	Kind   Kind
	User   string
	Detail string
	Origin string
}

func (e *Error) Error() string { return e.User }

func newError(kind Kind, user, detail, origin string) *Error {
	return &Error{Kind: kind, User: user, Detail: detail, Origin: origin}
}

// HandlerFunc is an http handler that reports failures instead of writing
// them, so the boundary below can log and respond uniformly.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Boundary is the outermost error handler. Every failure is logged with an
// epoch-millisecond timestamp that also appears in the response body, so an
// operator can match a user report against the log. The developer detail
// never reaches the client.
func Boundary(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}
		ts := time.Now().UnixMilli()
		var e *Error
		if errors.As(err, &e) {
			slog.Error("request failed",
				"ts", ts,
				"path", r.URL.Path,
				"origin", e.Origin,
				"detail", e.Detail,
				"message", e.User)
		} else {
			slog.Error("request failed", "ts", ts, "path", r.URL.Path, "message", err.Error())
		}
		http.Error(w, fmt.Sprintf("%d %s", ts, err.Error()), http.StatusInternalServerError)
	}
}
