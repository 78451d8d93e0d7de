package domain

// PasswordPolicy controls when the user is asked for the database password
type PasswordPolicy string

const (
	PasswordAuto   PasswordPolicy = "auto"   // prompt only if the server asks for one
	PasswordAlways PasswordPolicy = "always" // prompt before connecting
	PasswordNever  PasswordPolicy = "never"
)

// Valid reports whether p is a known policy
func (p PasswordPolicy) Valid() bool {
	switch p {
	case PasswordAuto, PasswordAlways, PasswordNever:
		return true
	}
	return false
}

// Options holds everything parsed from the command line.
// It is built once and passed by value afterwards.
type Options struct {
	Action  Action
	Hours   string // raw VALUES payload for ActionInsert, never sanitized
	Script  bool
	Verbose bool

	ConfigPath string

	// Connection overrides, zero value means "use the configuration"
	Host           string
	Port           int
	DBName         string
	User           string
	PasswordPolicy PasswordPolicy
}
