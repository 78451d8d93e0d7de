package cli

import (
	"strconv"

	"github.com/andy/clientcomptage/internal/domain"
	"github.com/spf13/pflag"
)

// actionFlag is a boolean flag selecting an action. Flags are applied in
// command-line order, so the last action given wins.
type actionFlag struct {
	target *domain.Action
	action domain.Action
}

var _ pflag.Value = (*actionFlag)(nil)

func (f *actionFlag) Set(s string) error {
	on, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	if on {
		*f.target = f.action
	}
	return nil
}

func (f *actionFlag) String() string {
	return strconv.FormatBool(f.target != nil && *f.target == f.action)
}

func (f *actionFlag) Type() string {
	return "bool"
}

// insertFlag selects the insert action and keeps its raw payload
type insertFlag struct {
	target *domain.Action
	hours  *string
}

var _ pflag.Value = (*insertFlag)(nil)

func (f *insertFlag) Set(s string) error {
	*f.target = domain.ActionInsert
	*f.hours = s
	return nil
}

func (f *insertFlag) String() string {
	if f.hours == nil {
		return ""
	}
	return *f.hours
}

func (f *insertFlag) Type() string {
	return "string"
}

// policyFlag is a boolean flag forcing a password policy
type policyFlag struct {
	target *domain.PasswordPolicy
	policy domain.PasswordPolicy
}

var _ pflag.Value = (*policyFlag)(nil)

func (f *policyFlag) Set(s string) error {
	on, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	if on {
		*f.target = f.policy
	}
	return nil
}

func (f *policyFlag) String() string {
	return strconv.FormatBool(f.target != nil && *f.target == f.policy)
}

func (f *policyFlag) Type() string {
	return "bool"
}

// boolVarP registers a value flag that needs no argument
func boolVarP(flags *pflag.FlagSet, value pflag.Value, name, shorthand, usage string) {
	flags.VarPF(value, name, shorthand, usage).NoOptDefVal = "true"
}

// valueFlags take the next argument as their value
var valueFlags = map[string]bool{
	"-a": true, "--ajout": true,
	"-h": true, "--host": true,
	"-p": true, "--port": true,
	"-d": true, "--dbname": true,
	"-U": true, "--username": true,
	"-c": true, "--config": true,
}

// scanInfoFlags finds --help or --version anywhere before "--", skipping
// flag values so that `-a --help` still inserts. The first one found wins.
func scanInfoFlags(args []string) (help, version bool) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			return false, false
		case valueFlags[arg]:
			i++
		case arg == "--help" || arg == "-?":
			return true, false
		case arg == "--version" || arg == "-V":
			return false, true
		}
	}
	return false, false
}
