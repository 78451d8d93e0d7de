package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andy/clientcomptage/internal/config"
	"github.com/andy/clientcomptage/internal/crypto"
	"github.com/andy/clientcomptage/internal/db"
	"github.com/andy/clientcomptage/internal/domain"
	"github.com/andy/clientcomptage/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

// mock implementations
type nopStore struct{}

func (nopStore) Exec(ctx context.Context, query string) error { return nil }
func (nopStore) Fetch(ctx context.Context, query string) (*domain.ResultSet, error) {
	return &domain.ResultSet{}, nil
}
func (nopStore) Migrate(ctx context.Context) error { return nil }
func (nopStore) Close() error                      { return nil }

type mockKeyring struct {
	passwords map[string]string
}

func (m *mockKeyring) GetPassword(account string) (string, error) {
	if p, ok := m.passwords[account]; ok {
		return p, nil
	}
	return "", crypto.ErrNoPassword
}
func (m *mockKeyring) SetPassword(account, password string) error {
	m.passwords[account] = password
	return nil
}
func (m *mockKeyring) DeletePassword(account string) error {
	delete(m.passwords, account)
	return nil
}

// dialRecorder accepts only the expected password
type dialRecorder struct {
	password string
	calls    []db.Params
}

func (d *dialRecorder) dial(ctx context.Context, p db.Params) (repository.Store, error) {
	d.calls = append(d.calls, p)
	if p.Password != d.password {
		return nil, &pgconn.PgError{Code: "28P01", Message: "password authentication failed"}
	}
	return nopStore{}, nil
}

func newTestApp(policy domain.PasswordPolicy, dialer *dialRecorder) (*App, *int) {
	cfg := config.DefaultConfig()
	cfg.Database.PasswordPrompt = policy

	prompts := 0
	a := NewWithConfig(cfg, commonlog.GetLogger("test"))
	a.Keyring = &mockKeyring{passwords: map[string]string{}}
	a.Dial = dialer.dial
	a.Interactive = func() bool { return true }
	a.Prompt = func(ctx context.Context, label string) (string, error) {
		prompts++
		return "s3cret", nil
	}
	return a, &prompts
}

func TestConnect_UsesConfiguredParameters(t *testing.T) {
	dialer := &dialRecorder{}
	a, prompts := newTestApp(domain.PasswordAuto, dialer)

	if _, err := a.Connect(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := db.Params{Host: "localhost", Port: 5414, Name: "dalibo", User: "postgres"}
	if len(dialer.calls) != 1 || dialer.calls[0] != want {
		t.Fatalf("expected one dial with %+v, got %+v", want, dialer.calls)
	}
	if *prompts != 0 {
		t.Fatalf("expected no prompt")
	}
}

func TestConnect_AutoPromptsOnceAfterAuthFailure(t *testing.T) {
	dialer := &dialRecorder{password: "s3cret"}
	a, prompts := newTestApp(domain.PasswordAuto, dialer)

	if _, err := a.Connect(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *prompts != 1 || len(dialer.calls) != 2 {
		t.Fatalf("expected 1 prompt and 2 dials, got %d and %d", *prompts, len(dialer.calls))
	}
}

func TestConnect_AutoDoesNotPromptWithoutTerminal(t *testing.T) {
	dialer := &dialRecorder{password: "s3cret"}
	a, prompts := newTestApp(domain.PasswordAuto, dialer)
	a.Interactive = func() bool { return false }

	_, err := a.Connect(context.Background())
	if !db.IsAuthFailure(err) {
		t.Fatalf("expected auth failure, got %v", err)
	}
	if *prompts != 0 {
		t.Fatalf("expected no prompt")
	}
}

func TestConnect_NeverPrompts(t *testing.T) {
	dialer := &dialRecorder{password: "s3cret"}
	a, prompts := newTestApp(domain.PasswordNever, dialer)

	if _, err := a.Connect(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if *prompts != 0 || len(dialer.calls) != 1 {
		t.Fatalf("expected a single dial without prompt")
	}
}

func TestConnect_AlwaysPromptsFirst(t *testing.T) {
	dialer := &dialRecorder{password: "s3cret"}
	a, prompts := newTestApp(domain.PasswordAlways, dialer)

	if _, err := a.Connect(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *prompts != 1 || len(dialer.calls) != 1 {
		t.Fatalf("expected 1 prompt then 1 dial, got %d and %d", *prompts, len(dialer.calls))
	}
}

func TestConnect_KeyringRemembersPromptedPassword(t *testing.T) {
	dialer := &dialRecorder{password: "s3cret"}
	a, prompts := newTestApp(domain.PasswordAuto, dialer)
	a.Config.Database.UseKeyring = true

	if _, err := a.Connect(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *prompts != 1 {
		t.Fatalf("expected first run to prompt")
	}

	// Second run finds the password in the keyring
	dialer.calls = nil
	if _, err := a.Connect(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *prompts != 1 || len(dialer.calls) != 1 {
		t.Fatalf("expected keyring password to be used, got %d prompts and %d dials", *prompts, len(dialer.calls))
	}
}

func TestConnect_PromptErrorAborts(t *testing.T) {
	dialer := &dialRecorder{password: "s3cret"}
	a, _ := newTestApp(domain.PasswordAlways, dialer)
	a.Prompt = func(context.Context, string) (string, error) { return "", errors.New("no tty") }

	if _, err := a.Connect(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if len(dialer.calls) != 0 {
		t.Fatalf("expected no dial")
	}
}

func TestConnect_StaleKeyringPasswordIsReplaced(t *testing.T) {
	dialer := &dialRecorder{password: "s3cret"}
	a, prompts := newTestApp(domain.PasswordAuto, dialer)
	a.Config.Database.UseKeyring = true
	kr := a.Keyring.(*mockKeyring)
	account := crypto.Account("postgres", "localhost", 5414, "dalibo")
	kr.passwords[account] = "old"

	if _, err := a.Connect(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *prompts != 1 || len(dialer.calls) != 2 {
		t.Fatalf("expected 1 prompt and 2 dials, got %d and %d", *prompts, len(dialer.calls))
	}
	if kr.passwords[account] != "s3cret" {
		t.Fatalf("expected keyring to hold the new password, got %q", kr.passwords[account])
	}
}

func TestSaveConfigIfMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clientcomptage", "config.yaml")

	a, err := New(path, commonlog.GetLogger("test"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	a.Config.Database.Port = 5432

	saved, err := a.SaveConfigIfMissing()
	if err != nil || !saved {
		t.Fatalf("expected config to be written, got %v, %v", saved, err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file at %s: %v", path, err)
	}

	// An existing file is left alone
	saved, err = a.SaveConfigIfMissing()
	if err != nil || saved {
		t.Fatalf("expected existing config to be kept, got %v, %v", saved, err)
	}

	reloaded, err := New(path, commonlog.GetLogger("test"))
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Config.Database.Port != 5432 {
		t.Fatalf("expected saved port, got %d", reloaded.Config.Database.Port)
	}
}

func TestSaveConfigIfMissing_InMemoryConfig(t *testing.T) {
	a, _ := newTestApp(domain.PasswordAuto, &dialRecorder{})

	saved, err := a.SaveConfigIfMissing()
	if err != nil || saved {
		t.Fatalf("expected nothing written, got %v, %v", saved, err)
	}
}

func TestConnect_InterruptDuringPromptAborts(t *testing.T) {
	dialer := &dialRecorder{password: "s3cret"}
	a, _ := newTestApp(domain.PasswordAlways, dialer)
	ctx, cancel := context.WithCancel(context.Background())
	a.Prompt = func(ctx context.Context, label string) (string, error) {
		cancel()
		return readWithContext(ctx, func() ([]byte, error) {
			select {} // a terminal nobody types into
		})
	}

	_, err := a.Connect(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(dialer.calls) != 0 {
		t.Fatalf("expected no dial")
	}
}

func TestReadWithContext(t *testing.T) {
	password, err := readWithContext(context.Background(), func() ([]byte, error) {
		return []byte("s3cret"), nil
	})
	if err != nil || password != "s3cret" {
		t.Fatalf("expected s3cret, got %q, %v", password, err)
	}

	_, err = readWithContext(context.Background(), func() ([]byte, error) {
		return nil, errors.New("not a terminal")
	})
	if err == nil || !strings.Contains(err.Error(), "not a terminal") {
		t.Fatalf("expected read error, got %v", err)
	}
}
