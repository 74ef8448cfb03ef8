package auth

import (
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cretpassword")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "s3cretpassword" {
		t.Fatal("Hash must not equal the plaintext password")
	}

	if !CheckPassword("s3cretpassword", hash) {
		t.Error("Expected correct password to verify")
	}
	if CheckPassword("wrongpassword", hash) {
		t.Error("Expected wrong password to fail verification")
	}
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("samepassword")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	h2, err := HashPassword("samepassword")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if h1 == h2 {
		t.Error("Expected distinct hashes for the same password")
	}
}
