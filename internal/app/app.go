package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/andy/clientcomptage/internal/config"
	"github.com/andy/clientcomptage/internal/crypto"
	"github.com/andy/clientcomptage/internal/db"
	"github.com/andy/clientcomptage/internal/domain"
	"github.com/andy/clientcomptage/internal/repository"
	"github.com/tliron/commonlog"
	"golang.org/x/term"
)

// Dialer opens a Store for the given connection parameters
type Dialer func(ctx context.Context, p db.Params) (repository.Store, error)

// App is the dependency injection container for all application components
type App struct {
	Config *config.Config
	// ConfigPath is where Config was read from; empty when built in memory
	ConfigPath string

	Keyring crypto.Keyring
	Log     commonlog.Logger

	// Replaced in tests
	Dial        Dialer
	Prompt      func(ctx context.Context, label string) (string, error)
	Interactive func() bool
}

// New creates a new App from the config file at path, or the default
// location when path is empty. Nothing is opened yet.
func New(path string, log commonlog.Logger) (*App, error) {
	var cfg *config.Config
	var err error
	if path == "" {
		path = config.DefaultConfigPath()
		cfg, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	a := NewWithConfig(cfg, log)
	a.ConfigPath = path
	return a, nil
}

// SaveConfigIfMissing writes the current configuration to ConfigPath
// unless a file is already there. It reports whether it wrote one.
func (a *App) SaveConfigIfMissing() (bool, error) {
	if a.ConfigPath == "" {
		return false, nil
	}
	if _, err := os.Stat(a.ConfigPath); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	if err := a.Config.Save(a.ConfigPath); err != nil {
		return false, fmt.Errorf("failed to save config: %w", err)
	}
	return true, nil
}

// NewWithConfig creates an App with a provided config (useful for testing)
func NewWithConfig(cfg *config.Config, log commonlog.Logger) *App {
	a := &App{
		Config:      cfg,
		Keyring:     crypto.NewKeyring(),
		Log:         log,
		Prompt:      promptForPassword,
		Interactive: stdinIsTerminal,
	}
	a.Dial = a.dialPostgres
	return a
}

// Params returns the connection parameters from the configuration
func (a *App) Params() db.Params {
	c := a.Config.Database
	return db.Params{
		Host: c.Host,
		Port: c.Port,
		Name: c.Name,
		User: c.User,
	}
}

// Connect opens the single connection of this run, applying the password
// policy: "always" prompts first, "auto" prompts once if the server
// rejects the login, "never" does not prompt.
func (a *App) Connect(ctx context.Context) (repository.Store, error) {
	c := a.Config.Database
	params := a.Params()
	account := crypto.Account(c.User, c.Host, c.Port, c.Name)

	fromKeyring := false
	if c.UseKeyring {
		password, err := a.Keyring.GetPassword(account)
		switch {
		case err == nil:
			params.Password = password
			fromKeyring = true
		case !errors.Is(err, crypto.ErrNoPassword):
			a.Log.Debugf("keyring unavailable: %v", err)
		}
	}

	prompted := false
	if c.PasswordPrompt == domain.PasswordAlways {
		password, err := a.Prompt(ctx, fmt.Sprintf("Password for user %s: ", c.User))
		if err != nil {
			return nil, err
		}
		params.Password = password
		prompted = true
	}

	a.Log.Debugf("connecting to %s:%d/%s as %s", c.Host, c.Port, c.Name, c.User)
	store, err := a.Dial(ctx, params)
	if err != nil && fromKeyring && !prompted && db.IsAuthFailure(err) {
		// Stale entry: forget it so a prompt can replace it
		if derr := a.Keyring.DeletePassword(account); derr != nil {
			a.Log.Debugf("could not forget password: %v", derr)
		}
		params.Password = ""
	}
	if err != nil && a.shouldPrompt(params, prompted, err) {
		password, perr := a.Prompt(ctx, fmt.Sprintf("Password for user %s: ", c.User))
		if perr != nil {
			return nil, perr
		}
		params.Password = password
		prompted = true
		store, err = a.Dial(ctx, params)
	}
	if err != nil {
		return nil, err
	}

	if prompted && c.UseKeyring {
		if err := a.Keyring.SetPassword(account, params.Password); err != nil {
			a.Log.Warningf("could not remember password: %v", err)
		}
	}

	return store, nil
}

func (a *App) shouldPrompt(params db.Params, prompted bool, err error) bool {
	return a.Config.Database.PasswordPrompt == domain.PasswordAuto &&
		!prompted &&
		params.Password == "" &&
		db.IsAuthFailure(err) &&
		a.Interactive()
}

// dialPostgres is the production Dialer
func (a *App) dialPostgres(ctx context.Context, p db.Params) (repository.Store, error) {
	database, err := db.Open(ctx, p)
	if err != nil {
		return nil, err
	}

	if version, err := database.ServerVersion(ctx); err == nil {
		a.Log.Debugf("connected to PostgreSQL %s on %s:%d", version, p.Host, p.Port)
	} else {
		a.Log.Debugf("%v", err)
	}

	return repository.NewPostgresStore(database), nil
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// promptForPassword reads a password from the terminal without echo.
// An interrupt while typing aborts the prompt.
func promptForPassword(ctx context.Context, label string) (string, error) {
	fd := int(os.Stdin.Fd())
	fmt.Fprint(os.Stderr, label)
	defer fmt.Fprintln(os.Stderr) // New line after password input

	state, err := term.GetState(fd)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	password, err := readWithContext(ctx, func() ([]byte, error) {
		return term.ReadPassword(fd)
	})
	if ctx.Err() != nil {
		// ReadPassword is still blocked and will not restore echo itself
		_ = term.Restore(fd, state)
	}
	return password, err
}

// readWithContext runs read in the background and gives up when ctx ends
func readWithContext(ctx context.Context, read func() ([]byte, error)) (string, error) {
	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		data, err := read()
		done <- result{data, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		if r.err != nil {
			return "", fmt.Errorf("failed to read password: %w", r.err)
		}
		return string(r.data), nil
	}
}
