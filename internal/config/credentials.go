package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/99designs/keyring"

	"github.com/salmonumbrella/formkit/internal/keyringutil"
	"github.com/salmonumbrella/formkit/internal/validation"
)

// ErrAccountNotFound is returned for an account with no stored token.
var ErrAccountNotFound = errors.New("account not found")

// Token describes a stored account. The secret itself is never included;
// use GetToken.
type Token struct {
	Email     string    `json:"email"`
	Endpoint  string    `json:"endpoint,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	IsPrimary bool      `json:"is_primary,omitempty"`
}

type storedToken struct {
	APIToken  string    `json:"api_token"`
	Endpoint  string    `json:"endpoint,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	IsPrimary bool      `json:"is_primary,omitempty"`
}

// Keyring selection for headless hosts: FORMKIT_KEYRING_BACKEND=file keeps
// tokens in an encrypted file under Dir, unlocked with
// FORMKIT_KEYRING_PASSWORD when set.
const (
	envKeyringBackend  = "FORMKIT_KEYRING_BACKEND"
	envKeyringPassword = "FORMKIT_KEYRING_PASSWORD"
)

var openKeyring = func() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyringConfig())
	if err != nil {
		return nil, err
	}
	return keyringutil.Wrap(ring, keyringutil.DefaultTimeout), nil
}

func keyringConfig() keyring.Config {
	cfg := keyring.Config{
		ServiceName: AppName,
		// Native stores first; the encrypted file covers builds without CGO.
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.WinCredBackend,
			keyring.SecretServiceBackend,
			keyring.FileBackend,
		},
		FileDir:          keyringDir(),
		FilePasswordFunc: keyring.TerminalPrompt,
	}
	if strings.EqualFold(os.Getenv(envKeyringBackend), string(keyring.FileBackend)) {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	}
	if pw := os.Getenv(envKeyringPassword); pw != "" {
		cfg.FilePasswordFunc = keyring.FixedStringPrompt(pw)
	}
	return cfg
}

var now = time.Now

// SaveToken stores the bearer token an account uses for endpoint. The first
// account saved becomes primary; saving again keeps the primary flag.
func SaveToken(email, endpoint, token string) error {
	email = normalize(email)
	if err := validation.Email(email); err != nil {
		return err
	}
	if token == "" {
		return fmt.Errorf("missing token")
	}

	ring, err := openKeyring()
	if err != nil {
		return err
	}

	isPrimary := false
	if existing, err := load(ring, tokenKey(email)); err == nil {
		isPrimary = existing.IsPrimary
	} else {
		accounts, _ := ListAccounts() //nolint:errcheck // best-effort check for existing accounts
		isPrimary = len(accounts) == 0
	}

	return store(ring, tokenKey(email), storedToken{
		APIToken:  token,
		Endpoint:  strings.TrimSpace(endpoint),
		CreatedAt: now().UTC(),
		IsPrimary: isPrimary,
	})
}

// SetPrimaryAccount marks email as the primary account and clears the flag
// on all others.
func SetPrimaryAccount(email string) error {
	email = normalize(email)
	if email == "" {
		return fmt.Errorf("missing email")
	}

	ring, err := openKeyring()
	if err != nil {
		return err
	}

	keys, err := ring.Keys()
	if err != nil {
		return err
	}

	found := false
	for _, k := range keys {
		keyEmail, ok := parseTokenKey(k)
		if !ok {
			continue
		}
		st, err := load(ring, k)
		if err != nil {
			continue
		}

		isTarget := keyEmail == email
		found = found || isTarget
		st.IsPrimary = isTarget

		if setErr := store(ring, k, st); setErr != nil && isTarget {
			return fmt.Errorf("failed to set primary account: %w", setErr)
		}
	}

	if !found {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, email)
	}
	return nil
}

// GetPrimaryAccount returns the primary account email, the first account
// when none is marked, or "" when there are none.
func GetPrimaryAccount() (string, error) {
	tokens, err := ListTokens()
	if err != nil {
		return "", err
	}

	for _, t := range tokens {
		if t.IsPrimary {
			return t.Email, nil
		}
	}
	if len(tokens) > 0 {
		return tokens[0].Email, nil
	}
	return "", nil
}

// GetToken returns the bearer token stored for email.
func GetToken(email string) (string, error) {
	st, err := getStored(email)
	if err != nil {
		return "", err
	}
	return st.APIToken, nil
}

// GetAccount returns the metadata stored for email.
func GetAccount(email string) (Token, error) {
	st, err := getStored(email)
	if err != nil {
		return Token{}, err
	}
	return Token{
		Email:     normalize(email),
		Endpoint:  st.Endpoint,
		CreatedAt: st.CreatedAt,
		IsPrimary: st.IsPrimary,
	}, nil
}

func getStored(email string) (storedToken, error) {
	email = normalize(email)
	if email == "" {
		return storedToken{}, fmt.Errorf("missing email")
	}

	ring, err := openKeyring()
	if err != nil {
		return storedToken{}, err
	}

	st, err := load(ring, tokenKey(email))
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return storedToken{}, fmt.Errorf("%w: %s", ErrAccountNotFound, email)
	}
	return st, err
}

// DeleteToken removes the token stored for email.
func DeleteToken(email string) error {
	email = normalize(email)
	if email == "" {
		return fmt.Errorf("missing email")
	}

	ring, err := openKeyring()
	if err != nil {
		return err
	}

	if err := ring.Remove(tokenKey(email)); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: %s", ErrAccountNotFound, email)
		}
		return err
	}
	return nil
}

// ListAccounts returns every account email with a stored token, sorted.
func ListAccounts() ([]string, error) {
	ring, err := openKeyring()
	if err != nil {
		return nil, err
	}

	keys, err := ring.Keys()
	if err != nil {
		return nil, err
	}

	accounts := make([]string, 0, len(keys))
	for _, k := range keys {
		if email, ok := parseTokenKey(k); ok {
			accounts = append(accounts, email)
		}
	}
	sort.Strings(accounts)
	return accounts, nil
}

// ListTokens returns metadata for every stored account, sorted by email.
// Secrets are loaded from the keyring but not returned.
func ListTokens() ([]Token, error) {
	ring, err := openKeyring()
	if err != nil {
		return nil, err
	}

	keys, err := ring.Keys()
	if err != nil {
		return nil, err
	}

	tokens := make([]Token, 0, len(keys))
	for _, k := range keys {
		email, ok := parseTokenKey(k)
		if !ok {
			continue
		}
		st, err := load(ring, k)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, Token{
			Email:     email,
			Endpoint:  st.Endpoint,
			CreatedAt: st.CreatedAt,
			IsPrimary: st.IsPrimary,
		})
	}

	sort.Slice(tokens, func(i, j int) bool { return tokens[i].Email < tokens[j].Email })
	return tokens, nil
}

func load(ring keyring.Keyring, key string) (storedToken, error) {
	item, err := ring.Get(key)
	if err != nil {
		return storedToken{}, err
	}
	var st storedToken
	if err := json.Unmarshal(item.Data, &st); err != nil {
		return storedToken{}, fmt.Errorf("decoding %s: %w", key, err)
	}
	return st, nil
}

func store(ring keyring.Keyring, key string, st storedToken) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return ring.Set(keyring.Item{
		Key:  key,
		Data: payload,
	})
}

func parseTokenKey(k string) (email string, ok bool) {
	rest, found := strings.CutPrefix(k, "token:")
	if !found || strings.TrimSpace(rest) == "" {
		return "", false
	}
	return rest, true
}

func tokenKey(email string) string {
	return "token:" + email
}

// isNotFound reports a missing key. The file backend's Remove returns the
// underlying fs error instead of keyring.ErrKeyNotFound.
func isNotFound(err error) bool {
	return errors.Is(err, keyring.ErrKeyNotFound) || errors.Is(err, fs.ErrNotExist)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
