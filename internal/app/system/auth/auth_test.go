package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/devhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const testSecret = "test-secret-key-must-be-32-chars-long"

// echoUser writes the caller id, or "anonymous".
func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.UserID(r)
		if !ok {
			w.Write([]byte("anonymous"))
			return
		}
		w.Write([]byte(id.Hex()))
	})
}

func TestLoadUser_NoHeader_PassesThroughAnonymous(t *testing.T) {
	v := auth.NewJWTVerifier(testSecret, "")
	handler := auth.LoadUser(v, zap.NewNop())(echoUser())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "anonymous" {
		t.Errorf("expected anonymous, got %q", rec.Body.String())
	}
}

func TestLoadUser_ValidToken_SetsUser(t *testing.T) {
	v := auth.NewJWTVerifier(testSecret, "devhub")
	userID := primitive.NewObjectID()
	token, err := v.Sign(userID, time.Hour)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	handler := auth.LoadUser(v, zap.NewNop())(echoUser())
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != userID.Hex() {
		t.Errorf("expected %s, got %q", userID.Hex(), rec.Body.String())
	}
}

func TestLoadUser_BadHeaders_Return401(t *testing.T) {
	v := auth.NewJWTVerifier(testSecret, "")
	handler := auth.LoadUser(v, zap.NewNop())(echoUser())

	tests := []struct {
		name   string
		header string
	}{
		{"not bearer", "Basic abc"},
		{"empty token", "Bearer   "},
		{"garbage token", "Bearer not.a.jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.Header.Set("Authorization", tt.header)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), `"code":"unauthenticated"`) {
				t.Errorf("expected JSON error body, got %q", rec.Body.String())
			}
		})
	}
}

func TestJWTVerifier_Rejects(t *testing.T) {
	userID := primitive.NewObjectID()
	good := auth.NewJWTVerifier(testSecret, "devhub")

	expired, err := good.Sign(userID, -time.Minute)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	otherKey, err := auth.NewJWTVerifier("another-secret-key-that-is-32-chars!", "devhub").Sign(userID, time.Hour)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	otherIssuer, err := auth.NewJWTVerifier(testSecret, "someone-else").Sign(userID, time.Hour)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expired},
		{"wrong key", otherKey},
		{"wrong issuer", otherIssuer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := good.Verify(context.Background(), tt.token)
			if !errors.Is(err, auth.ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestLoadDevUser(t *testing.T) {
	userID := primitive.NewObjectID()
	fallback := primitive.NewObjectID()

	tests := []struct {
		name     string
		header   string
		fallback string
		wantCode int
		wantBody string
	}{
		{"header wins", userID.Hex(), fallback.Hex(), http.StatusOK, userID.Hex()},
		{"fallback used", "", fallback.Hex(), http.StatusOK, fallback.Hex()},
		{"no subject is anonymous", "", "", http.StatusOK, "anonymous"},
		{"bad subject", "alice", "", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := auth.LoadDevUser(tt.fallback)(echoUser())
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set(auth.DebugSubjectHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("expected %q, got %q", tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestRequireSignedIn(t *testing.T) {
	handler := auth.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("protected content"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/protected", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: expected 401, got %d", rec.Code)
	}

	req := httptest.NewRequest("GET", "/protected", nil)
	req = req.WithContext(auth.WithUser(req.Context(), &auth.User{ID: primitive.NewObjectID()}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("signed in: expected 200, got %d", rec.Code)
	}
}
