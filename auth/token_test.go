package auth

import (
	"strings"
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	tm := NewTokenManager([]byte("test-secret"), time.Hour)

	tokenString, err := tm.Issue(42)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if parts := strings.Split(tokenString, "."); len(parts) != 3 {
		t.Fatalf("expected a three-part JWT, got %q", tokenString)
	}

	userID, err := tm.Verify(tokenString)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if userID != 42 {
		t.Errorf("expected user id 42, got %d", userID)
	}
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	tm := NewTokenManager([]byte("test-secret"), time.Hour)
	other := NewTokenManager([]byte("another-secret"), time.Hour)
	expired := NewTokenManager([]byte("test-secret"), -time.Minute)

	goodToken, err := tm.Issue(7)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	foreignToken, err := other.Issue(7)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	expiredToken, err := expired.Issue(7)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	testCases := []struct {
		name  string
		token string
	}{
		{
			name:  "Error - Signed with a different secret",
			token: foreignToken,
		},
		{
			name:  "Error - Expired",
			token: expiredToken,
		},
		{
			name:  "Error - Corrupted signature",
			token: goodToken[:len(goodToken)-2] + "xx",
		},
		{
			name:  "Error - Not a JWT at all",
			token: "definitely-not-a-token",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tm.Verify(tc.token); err == nil {
				t.Error("expected verification to fail, but it succeeded")
			}
		})
	}
}
