package crypto

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// ErrNoPassword is returned when nothing is stored for an account
var ErrNoPassword = errors.New("no password stored")

// Keyring provides secure password storage abstraction
type Keyring interface {
	GetPassword(account string) (string, error)
	SetPassword(account, password string) error
	DeletePassword(account string) error
}

const ServiceName = "clientcomptage"

// Account names the keyring entry for a role on a server
func Account(user, host string, port int, dbname string) string {
	return fmt.Sprintf("%s@%s:%d/%s", user, host, port, dbname)
}

type systemKeyring struct{}

// NewKeyring returns the platform keyring (Keychain, Secret Service or
// Windows Credential Manager)
func NewKeyring() Keyring {
	return &systemKeyring{}
}

// GetPassword retrieves the password stored for account
func (k *systemKeyring) GetPassword(account string) (string, error) {
	password, err := keyring.Get(ServiceName, account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoPassword
		}
		return "", fmt.Errorf("failed to retrieve password from keyring: %w", err)
	}

	if password == "" {
		return "", ErrNoPassword
	}

	return password, nil
}

// SetPassword stores the password for account
func (k *systemKeyring) SetPassword(account, password string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}

	if err := keyring.Set(ServiceName, account, password); err != nil {
		return fmt.Errorf("failed to store password in keyring: %w", err)
	}

	return nil
}

// DeletePassword removes the password stored for account
func (k *systemKeyring) DeletePassword(account string) error {
	err := keyring.Delete(ServiceName, account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNoPassword
		}
		return fmt.Errorf("failed to delete password from keyring: %w", err)
	}

	return nil
}
