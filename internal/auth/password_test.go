package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !CheckPassword("secret1", hash) {
		t.Error("expected password to verify against its own hash")
	}

	if CheckPassword("secret2", hash) {
		t.Error("expected a different password to fail verification")
	}
}

func TestHashPassword_SaltRandomization(t *testing.T) {
	first, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	second, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if first == second {
		t.Error("expected two hashes of the same password to differ")
	}
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	if CheckPassword("secret1", "not-a-bcrypt-hash") {
		t.Error("expected malformed hash to fail verification")
	}

	if CheckPassword("secret1", "") {
		t.Error("expected empty hash to fail verification")
	}
}
