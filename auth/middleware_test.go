package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMiddleware(t *testing.T) {
	tm := NewTokenManager([]byte("test-secret"), time.Hour)
	other := NewTokenManager([]byte("another-secret"), time.Hour)
	expired := NewTokenManager([]byte("test-secret"), -time.Minute)

	validToken, err := tm.Issue(123)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	foreignToken, err := other.Issue(123)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	expiredToken, err := expired.Issue(123)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	testCases := []struct {
		name               string
		authHeader         string
		expectedStatusCode int
		expectedBody       string
		expectedUserID     int // only checked when the request goes through
	}{
		{
			name:               "Success - Valid token",
			authHeader:         "Bearer " + validToken,
			expectedStatusCode: http.StatusOK,
			expectedUserID:     123,
		},
		{
			name:               "Error - No Authorization header",
			authHeader:         "",
			expectedStatusCode: http.StatusUnauthorized,
			expectedBody:       "No token provided",
		},
		{
			name:               "Error - Header without Bearer prefix",
			authHeader:         validToken,
			expectedStatusCode: http.StatusUnauthorized,
			expectedBody:       "No token provided",
		},
		{
			name:               "Error - Garbage token",
			authHeader:         "Bearer not-a-real-token",
			expectedStatusCode: http.StatusForbidden,
			expectedBody:       "Failed to authenticate token",
		},
		{
			name:               "Error - Token signed with a different secret",
			authHeader:         "Bearer " + foreignToken,
			expectedStatusCode: http.StatusForbidden,
			expectedBody:       "Failed to authenticate token",
		},
		{
			name:               "Error - Expired token",
			authHeader:         "Bearer " + expiredToken,
			expectedStatusCode: http.StatusForbidden,
			expectedBody:       "Failed to authenticate token",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var gotUserID int
			var nextCalled bool
			next := func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				gotUserID, _ = UserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/todos", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rr := httptest.NewRecorder()

			tm.Middleware(next)(rr, req)

			if rr.Code != tc.expectedStatusCode {
				t.Errorf("expected status: %d, got: %d", tc.expectedStatusCode, rr.Code)
			}
			if tc.expectedBody != "" && !strings.Contains(rr.Body.String(), tc.expectedBody) {
				t.Errorf("expected body to contain '%s'; got '%s'", tc.expectedBody, rr.Body.String())
			}

			if tc.expectedStatusCode == http.StatusOK {
				if !nextCalled {
					t.Fatal("expected the next handler to be called")
				}
				if gotUserID != tc.expectedUserID {
					t.Errorf("expected user id %d in context, got %d", tc.expectedUserID, gotUserID)
				}
			} else if nextCalled {
				t.Error("next handler was called on a rejected request")
			}
		})
	}
}
