package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// User is the authenticated caller injected into r.Context().
// Only the id is known here; names and avatars live in the users collection.
type User struct {
	ID primitive.ObjectID
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// DebugSubjectHeader carries the caller id in dev auth mode.
const DebugSubjectHeader = "X-Debug-Subject"

// CurrentUser returns the user & “found?” flag.
func CurrentUser(r *http.Request) (*User, bool) {
	u, ok := r.Context().Value(currentUserKey).(*User)
	return u, ok && u != nil
}

// UserID returns the caller's id, or NilObjectID and false for anonymous requests.
func UserID(r *http.Request) (primitive.ObjectID, bool) {
	u, ok := CurrentUser(r)
	if !ok {
		return primitive.NilObjectID, false
	}
	return u.ID, true
}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, currentUserKey, u)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// Verifier resolves a bearer token to the id of the user it was issued to.
type Verifier interface {
	Verify(ctx context.Context, token string) (primitive.ObjectID, error)
}

// LoadUser injects the caller into context when the request carries a bearer
// token. Requests without an Authorization header pass through anonymously so
// public routes keep working; a header that is present but unusable is a 401.
func LoadUser(v Verifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if authz == "" {
				next.ServeHTTP(w, r)
				return
			}

			const prefix = "Bearer "
			if !strings.HasPrefix(authz, prefix) {
				writeUnauthorized(w, "malformed Authorization header")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, prefix))
			if raw == "" {
				writeUnauthorized(w, "missing bearer token")
				return
			}

			id, err := v.Verify(r.Context(), raw)
			if err != nil {
				logger.Debug("bearer token rejected", zap.Error(err))
				writeUnauthorized(w, "invalid token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), &User{ID: id})))
		})
	}
}

// LoadDevUser is a local-only shim that takes the caller id from the
// X-Debug-Subject header, falling back to defaultSubject when set.
// Do NOT use this in production deployments.
func LoadDevUser(defaultSubject string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sub := strings.TrimSpace(r.Header.Get(DebugSubjectHeader))
			if sub == "" {
				sub = strings.TrimSpace(defaultSubject)
			}
			if sub == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, err := primitive.ObjectIDFromHex(sub)
			if err != nil {
				writeUnauthorized(w, "debug subject must be a user id")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), &User{ID: id})))
		})
	}
}

// RequireSignedIn ensures there is a user in context (set by LoadUser or
// LoadDevUser). API callers only, so the failure is always a JSON 401.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		writeUnauthorized(w, "authentication required")
	})
}

// helpers

// writeUnauthorized mirrors the body shape of features/errors without
// importing it (features depend on system, not the other way round).
func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": msg,
		"code":  "unauthenticated",
	})
}
