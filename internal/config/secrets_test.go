package config

import (
	"errors"
	"testing"
)

func TestSigningSecret_RoundTrip(t *testing.T) {
	setupMockKeyring(t)

	got, err := LoadSigningSecret()
	if err != nil {
		t.Fatalf("LoadSigningSecret() error = %v", err)
	}
	if got != "" {
		t.Fatalf("expected no secret, got %q", got)
	}

	if err := SaveSigningSecret("s3cret"); err != nil {
		t.Fatalf("SaveSigningSecret() error = %v", err)
	}
	if got, _ = LoadSigningSecret(); got != "s3cret" {
		t.Fatalf("LoadSigningSecret() = %q", got)
	}

	if err := DeleteSigningSecret(); err != nil {
		t.Fatalf("DeleteSigningSecret() error = %v", err)
	}
	if got, _ = LoadSigningSecret(); got != "" {
		t.Fatalf("secret still stored: %q", got)
	}
	if err := DeleteSigningSecret(); err != nil {
		t.Fatalf("second DeleteSigningSecret() error = %v", err)
	}
}

func TestSaveSigningSecret_Empty(t *testing.T) {
	setupMockKeyring(t)

	if err := SaveSigningSecret(""); !errors.Is(err, ErrMissingSigningSecret) {
		t.Fatalf("err = %v, want ErrMissingSigningSecret", err)
	}
}

func TestSigningSecret_NotListedAsAccount(t *testing.T) {
	setupMockKeyring(t)

	if err := SaveSigningSecret("s3cret"); err != nil {
		t.Fatal(err)
	}
	if err := SaveToken("a@example.com", "", "tok"); err != nil {
		t.Fatal(err)
	}

	accounts, err := ListAccounts()
	if err != nil {
		t.Fatal(err)
	}
	if len(accounts) != 1 || accounts[0] != "a@example.com" {
		t.Fatalf("accounts = %v", accounts)
	}
}
