package security

import "testing"

func TestBcryptHasherRoundTrip(t *testing.T) {
	h := BcryptHasher{Cost: 4}
	hash, err := h.Hash("admin123")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if err := ValidateHash(hash); err != nil {
		t.Fatalf("ValidateHash: %v", err)
	}
	if err := h.Compare(hash, "admin123"); err != nil {
		t.Errorf("Compare with right password: %v", err)
	}
	if err := h.Compare(hash, "admin124"); err == nil {
		t.Error("Compare with wrong password should fail")
	}
}

func TestValidateHashRejectsPlainText(t *testing.T) {
	if err := ValidateHash("admin123"); err == nil {
		t.Error("expected plain text to be rejected")
	}
}
