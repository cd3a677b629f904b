package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if !CheckPassword("s3cret-pass", hash) {
		t.Error("expected matching password to verify")
	}
	if CheckPassword("wrong-pass", hash) {
		t.Error("expected wrong password to fail")
	}
}

func TestGenerateAndParseJWT(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateJWT("42", "admin")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ParseJWT(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "42" || claims.Role != "admin" {
		t.Errorf("unexpected claims: %+v", claims)
	}

	if _, err := ParseJWT(token + "tampered"); err == nil {
		t.Error("expected tampered token to fail")
	}
}
