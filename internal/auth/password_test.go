package auth

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("securePassword123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if hash == "" {
		t.Error("expected non-empty hash")
	}

	if hash == "securePassword123" {
		t.Error("hash should not equal plaintext password")
	}

	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("expected argon2id encoding, got %q", hash)
	}
}

func TestHashPassword_DifferentHashes(t *testing.T) {
	password := "securePassword123"

	hash1, err := HashPassword(password)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hash2, err := HashPassword(password)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if hash1 == hash2 {
		t.Error("same password should produce different hashes due to salt")
	}
}

func TestVerifyPassword_Correct(t *testing.T) {
	password := "securePassword123"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	if !VerifyPassword(hash, password) {
		t.Error("expected correct password to verify")
	}
}

func TestVerifyPassword_Incorrect(t *testing.T) {
	hash, err := HashPassword("securePassword123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	if VerifyPassword(hash, "wrongPassword456") {
		t.Error("expected incorrect password to fail verification")
	}
}

func TestVerifyPassword_EmptyPassword(t *testing.T) {
	hash, err := HashPassword("securePassword123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	if VerifyPassword(hash, "") {
		t.Error("expected empty password to fail verification")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	malformed := []string{
		"",
		"not-a-hash",
		"$argon2id$v=19$m=65536,t=3,p=4$salt",
		"$argon2id$v=19$bogus$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=3,p=4$!!!$aGFzaA",
		"$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$!!!",
		"$argon2i$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=3,p=4$c2FsdA$aGFzaA",
	}

	for _, hash := range malformed {
		if VerifyPassword(hash, "password") {
			t.Errorf("expected malformed hash %q to fail verification", hash)
		}
	}
}

func TestVerifyPassword_OutOfRangeParameters(t *testing.T) {
	// argon2.IDKey panics on these parameter values; VerifyPassword
	// must reject them before key derivation instead.
	hashes := []string{
		"$argon2id$v=19$m=65536,t=0,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=3,p=0$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=4,t=3,p=4$c2FsdA$aGFzaA",
	}

	for _, hash := range hashes {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("VerifyPassword panicked on %q: %v", hash, r)
				}
			}()

			if VerifyPassword(hash, "password") {
				t.Errorf("expected out-of-range hash %q to fail verification", hash)
			}
		}()
	}
}
