package config

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

// ErrMissingSigningSecret is returned when saving an empty signing secret.
var ErrMissingSigningSecret = errors.New("missing signing secret")

// signingSecretKey sits outside the token: namespace so account listings
// skip it.
const signingSecretKey = "signing_secret"

// SaveSigningSecret stores the HS256 secret used by the token commands.
func SaveSigningSecret(secret string) error {
	if secret == "" {
		return ErrMissingSigningSecret
	}

	ring, err := openKeyring()
	if err != nil {
		return fmt.Errorf("open keyring: %w", err)
	}

	if err := ring.Set(keyring.Item{
		Key:  signingSecretKey,
		Data: []byte(secret),
	}); err != nil {
		return fmt.Errorf("store signing secret: %w", err)
	}
	return nil
}

// LoadSigningSecret returns the stored signing secret, or "" when none is
// stored.
func LoadSigningSecret() (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", fmt.Errorf("open keyring: %w", err)
	}

	item, err := ring.Get(signingSecretKey)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("read signing secret: %w", err)
	}
	return string(item.Data), nil
}

// DeleteSigningSecret removes the stored signing secret. Removing a secret
// that is not stored is not an error.
func DeleteSigningSecret() error {
	ring, err := openKeyring()
	if err != nil {
		return fmt.Errorf("open keyring: %w", err)
	}

	if err := ring.Remove(signingSecretKey); err != nil && !isNotFound(err) {
		return fmt.Errorf("remove signing secret: %w", err)
	}
	return nil
}
