package auth

import (
	"testing"
)

const testSecret = "test-secret-key"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("alice", testSecret, 30)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	claims, err := ValidateAccessToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateAccessToken failed: %v", err)
	}

	if claims.Subject != "alice" {
		t.Errorf("Expected subject 'alice', got %q", claims.Subject)
	}
	if claims.Type != AccessToken {
		t.Errorf("Expected token type %q, got %q", AccessToken, claims.Type)
	}
	if claims.ID == "" {
		t.Error("Expected non-empty token ID")
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken("alice", testSecret, 30)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := ValidateAccessToken(token, "other-secret"); err == nil {
		t.Error("Expected validation to fail with wrong secret")
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	token, err := GenerateAccessToken("alice", testSecret, -1)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := ValidateAccessToken(token, testSecret); err == nil {
		t.Error("Expected validation to fail for expired token")
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	if _, err := ValidateAccessToken("not-a-token", testSecret); err == nil {
		t.Error("Expected validation to fail for malformed token")
	}
}
