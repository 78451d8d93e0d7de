package crypto

import (
	"errors"
	"testing"

	"github.com/zalando/go-keyring"
)

func TestSystemKeyring_RoundTrip(t *testing.T) {
	keyring.MockInit()
	k := NewKeyring()
	account := Account("postgres", "localhost", 5414, "dalibo")

	if _, err := k.GetPassword(account); !errors.Is(err, ErrNoPassword) {
		t.Fatalf("expected ErrNoPassword, got %v", err)
	}

	if err := k.SetPassword(account, "s3cret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := k.GetPassword(account)
	if err != nil || got != "s3cret" {
		t.Fatalf("expected stored password, got %q (%v)", got, err)
	}

	if err := k.DeletePassword(account); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := k.DeletePassword(account); !errors.Is(err, ErrNoPassword) {
		t.Fatalf("expected ErrNoPassword on second delete, got %v", err)
	}
}

func TestSystemKeyring_RejectsEmptyPassword(t *testing.T) {
	keyring.MockInit()
	if err := NewKeyring().SetPassword("a", ""); err == nil {
		t.Fatalf("expected error")
	}
}

func TestAccount(t *testing.T) {
	if got := Account("postgres", "localhost", 5414, "dalibo"); got != "postgres@localhost:5414/dalibo" {
		t.Fatalf("unexpected account %q", got)
	}
}
