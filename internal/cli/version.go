package cli

import (
	"fmt"
	"runtime/debug"
)

const Version = "0.0.1"

const pgxModule = "github.com/jackc/pgx/v5"

// versionString names the program and the linked PostgreSQL driver
func versionString(progname string) string {
	return fmt.Sprintf("%s %s (compiled with pgx %s)", progname, Version, pgxVersion())
}

func pgxVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range info.Deps {
			if dep.Path == pgxModule {
				return dep.Version
			}
		}
	}
	return "v5"
}
