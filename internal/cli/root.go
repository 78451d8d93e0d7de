package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/andy/clientcomptage/internal/app"
	"github.com/andy/clientcomptage/internal/domain"
	"github.com/andy/clientcomptage/internal/tui"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
)

// Env is everything a run needs from the outside world
type Env struct {
	Progname string
	Stdout   io.Writer
	Stderr   io.Writer
	// Log writes diagnostics to Stderr, see installLogging
	Log commonlog.Logger

	// NewApp builds the dependency container once options are parsed
	NewApp func(opts domain.Options, log commonlog.Logger) (*app.App, error)
	// Browse runs the interactive report browser
	Browse func(ctx context.Context, fetcher tui.ReportFetcher) error
}

// DefaultEnv wires the real terminal, config file and database
func DefaultEnv(progname string) *Env {
	return &Env{
		Progname: progname,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Log:      installLogging(progname, os.Stderr),
		NewApp: func(opts domain.Options, log commonlog.Logger) (*app.App, error) {
			return app.New(opts.ConfigPath, log)
		},
		Browse: tui.Run,
	}
}

// Execute runs the program for argv and returns the process exit code
func Execute(ctx context.Context, argv []string) int {
	progname := "clientcomptage"
	if len(argv) > 0 {
		progname = filepath.Base(argv[0])
		argv = argv[1:]
	}
	return Run(ctx, argv, DefaultEnv(progname))
}

// Run parses args and performs the selected action
func Run(ctx context.Context, args []string, env *Env) int {
	// Help and version win over everything else, including bad flags
	help, version := scanInfoFlags(args)
	if help {
		cmd := newRootCmd(env.Progname, &domain.Options{})
		cmd.SetOut(env.Stdout)
		if err := cmd.Help(); err != nil {
			return 1
		}
		return 0
	}
	if version {
		fmt.Fprintln(env.Stdout, versionString(env.Progname))
		return 0
	}

	var opts domain.Options
	code := 0

	cmd := newRootCmd(env.Progname, &opts)
	cmd.SetArgs(args)
	cmd.SetOut(env.Stdout)
	cmd.SetErr(env.Stderr)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		code = execute(cmd.Context(), opts, env)
		return nil
	}

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(env.Stderr, "%s: %v\n", env.Progname, err)
		fmt.Fprintf(env.Stderr, "Try \"%s --help\" for more information.\n", env.Progname)
		return 1
	}

	return code
}

// newRootCmd declares the getopt-style flags, filling opts while parsing
func newRootCmd(progname string, opts *domain.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   progname + " [OPTIONS]",
		Short: "Record worked hours and print time reports from PostgreSQL",
		Long: progname + ` records worked time ranges in the comptage table and prints
the per day, per month and per week reports computed by the database.

With --script the SQL is printed instead of being executed, as a psql script.`,
		Example: `  ` + progname + ` -a "'2022-01-01 08:00', '2022-01-01 12:00'"
  ` + progname + ` -j
  ` + progname + ` --script -s | psql -d dalibo`,
		Args:                  cobra.ArbitraryArgs,
		DisableFlagsInUseLine: true,
		SilenceUsage:          true,
		SilenceErrors:         true,
		// Replaced by Run; a runnable command gets the flag list in its help
		RunE: func(cmd *cobra.Command, args []string) error { return nil },
	}

	flags := cmd.Flags()
	flags.SortFlags = false

	// Actions
	flags.VarP(&insertFlag{target: &opts.Action, hours: &opts.Hours}, "ajout", "a", "add a worked time range, given as SQL values for (deb,fin)")
	boolVarP(flags, &actionFlag{target: &opts.Action, action: domain.ActionByDay}, "jour", "j", "report by day")
	boolVarP(flags, &actionFlag{target: &opts.Action, action: domain.ActionByMonth}, "mois", "m", "report by month")
	boolVarP(flags, &actionFlag{target: &opts.Action, action: domain.ActionByWeek}, "semaines", "s", "report by week")
	boolVarP(flags, &actionFlag{target: &opts.Action, action: domain.ActionBrowse}, "interactive", "i", "browse the reports in a terminal UI")
	boolVarP(flags, &actionFlag{target: &opts.Action, action: domain.ActionInit}, "init", "", "create the comptage table and the report views")

	// Output
	flags.BoolVar(&opts.Script, "script", false, "print the SQL instead of executing it")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose")

	// Connection
	flags.StringVarP(&opts.Host, "host", "h", "", "database server host (default from config: localhost)")
	flags.IntVarP(&opts.Port, "port", "p", 0, "database server port (default from config: 5414)")
	flags.StringVarP(&opts.DBName, "dbname", "d", "", "database name (default from config: dalibo)")
	flags.StringVarP(&opts.User, "username", "U", "", "database user name (default from config: postgres)")
	boolVarP(flags, &policyFlag{target: &opts.PasswordPolicy, policy: domain.PasswordNever}, "no-password", "w", "never prompt for password")
	boolVarP(flags, &policyFlag{target: &opts.PasswordPolicy, policy: domain.PasswordAlways}, "password", "W", "force password prompt")
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "configuration file (default ~/.config/clientcomptage/config.yaml)")

	// Information
	flags.BoolP("help", "?", false, "show this help, then exit")
	flags.BoolP("version", "V", false, "output version information, then exit")

	return cmd
}
