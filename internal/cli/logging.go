package cli

import (
	"io"
	"strings"

	"github.com/tliron/commonlog"
	"github.com/tliron/commonlog/simple"
	"github.com/tliron/kutil/util"
)

// installLogging makes w the destination of every commonlog logger and
// returns the program logger. Lines are written synchronously so nothing
// is lost when the process exits. Info is shown by default.
func installLogging(progname string, w io.Writer) commonlog.Logger {
	backend := simple.NewBackend()
	backend.Buffered = false
	backend.Format = formatLine
	backend.Writer = util.NewSyncedWriter(w)
	backend.SetMaxLevel(commonlog.Info)
	commonlog.SetBackend(backend)

	return commonlog.GetLogger(progname)
}

// setVerbose switches debug messages on or off
func setVerbose(verbose bool) {
	level := commonlog.Info
	if verbose {
		level = commonlog.Debug
	}
	commonlog.SetMaxLevel(level)
}

// formatLine renders "<prog>: <level>: <message>", like the PostgreSQL tools
func formatLine(message *commonlog.LinearMessage, name []string, level commonlog.Level, colorize bool) string {
	var b strings.Builder

	if len(name) > 0 {
		b.WriteString(strings.Join(name, "."))
		b.WriteString(": ")
	}
	b.WriteString(levelName(level))
	b.WriteString(": ")
	b.WriteString(message.Message)

	if values := message.ValuesString(false); values != "" {
		b.WriteRune(' ')
		b.WriteString(values)
	}

	return b.String()
}

func levelName(level commonlog.Level) string {
	switch level {
	case commonlog.Critical:
		return "fatal"
	case commonlog.Warning:
		return "warning"
	default:
		return strings.ToLower(simple.FormatLevel(level, false))
	}
}
