package keyringutil

import (
	"errors"
	"testing"
	"time"

	keyringlib "github.com/99designs/keyring"
	cerrors "github.com/salmonumbrella/formkit/internal/errors"
)

// stuckKeyring blocks every call until release is closed.
type stuckKeyring struct {
	release chan struct{}
}

func (k *stuckKeyring) Get(key string) (keyringlib.Item, error) {
	<-k.release
	return keyringlib.Item{Key: key}, nil
}

func (k *stuckKeyring) GetMetadata(string) (keyringlib.Metadata, error) {
	<-k.release
	return keyringlib.Metadata{}, nil
}

func (k *stuckKeyring) Set(keyringlib.Item) error {
	<-k.release
	return nil
}

func (k *stuckKeyring) Remove(string) error {
	<-k.release
	return nil
}

func (k *stuckKeyring) Keys() ([]string, error) {
	<-k.release
	return nil, nil
}

func TestWrap_Timeouts(t *testing.T) {
	ring := &stuckKeyring{release: make(chan struct{})}
	defer close(ring.release)
	wrapped := Wrap(ring, 10*time.Millisecond)

	calls := map[string]func() error{
		"get":      func() error { _, err := wrapped.Get("k"); return err },
		"metadata": func() error { _, err := wrapped.GetMetadata("k"); return err },
		"set":      func() error { return wrapped.Set(keyringlib.Item{Key: "k"}) },
		"remove":   func() error { return wrapped.Remove("k") },
		"keys":     func() error { _, err := wrapped.Keys(); return err },
	}

	for op, call := range calls {
		t.Run(op, func(t *testing.T) {
			start := time.Now()
			err := call()

			var te *TimeoutError
			if !errors.As(err, &te) {
				t.Fatalf("error = %v (%T), want *TimeoutError", err, err)
			}
			if te.Operation != op || te.Timeout != 10*time.Millisecond {
				t.Errorf("TimeoutError = %+v", te)
			}
			if cerrors.GetSuggestion(err) != cerrors.SuggestionUnlockKeyring {
				t.Errorf("suggestion = %q", cerrors.GetSuggestion(err))
			}
			if time.Since(start) > time.Second {
				t.Errorf("timeout took %s", time.Since(start))
			}
		})
	}
}

func TestWrap_PassesThrough(t *testing.T) {
	wrapped := Wrap(keyringlib.NewArrayKeyring(nil), 0)

	if err := wrapped.Set(keyringlib.Item{Key: "token:a@example.com", Data: []byte("secret")}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	item, err := wrapped.Get("token:a@example.com")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(item.Data) != "secret" {
		t.Errorf("Data = %q", item.Data)
	}

	keys, err := wrapped.Keys()
	if err != nil || len(keys) != 1 {
		t.Fatalf("Keys() = %v, %v", keys, err)
	}

	if err := wrapped.Remove("token:a@example.com"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := wrapped.Get("token:a@example.com"); !errors.Is(err, keyringlib.ErrKeyNotFound) {
		t.Errorf("Get() after Remove error = %v, want ErrKeyNotFound", err)
	}
}

func TestWrap_Nil(t *testing.T) {
	if Wrap(nil, time.Second) != nil {
		t.Error("Wrap(nil) != nil")
	}
}

func TestWrap_DefaultTimeout(t *testing.T) {
	wrapped := Wrap(keyringlib.NewArrayKeyring(nil), -1).(*timeoutKeyring)
	if wrapped.timeout != DefaultTimeout {
		t.Errorf("timeout = %s, want %s", wrapped.timeout, DefaultTimeout)
	}
}
