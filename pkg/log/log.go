// Package log is goldlink's logging setup. The teacher (dongAxis-rvld)
// has no logging at all, only fmt.Println for a fatal message; a
// production linker driven repeatedly out of a build system wants
// leveled, contextual, optionally-rotated logging instead, so this
// package wraps github.com/inconshreveable/log15 the way
// gagliardetto-codemill's dependency graph does, with rotation supplied
// by gopkg.in/natefinch/lumberjack.v2 when a log file path is configured.
package log

import (
	"os"

	log15 "github.com/inconshreveable/log15"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the interface every pass and CLI entry point logs through.
// It is satisfied directly by log15.Logger.
type Logger = log15.Logger

var root = log15.New()

func init() {
	root.SetHandler(log15.LvlFilterHandler(log15.LvlWarn, log15.StreamHandler(os.Stderr, log15.TerminalFormat())))
}

// Configure sets the process-wide logger's verbosity and, if logFile is
// non-empty, redirects output through a rotating lumberjack writer
// instead of stderr. maxSizeMB/maxBackups follow lumberjack's own units.
func Configure(verbose bool, logFile string, maxSizeMB, maxBackups int) {
	lvl := log15.LvlWarn
	if verbose {
		lvl = log15.LvlInfo
	}

	if logFile == "" {
		root.SetHandler(log15.LvlFilterHandler(lvl, log15.StreamHandler(os.Stderr, log15.TerminalFormat())))
		return
	}

	rotator := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		Compress:   true,
	}
	root.SetHandler(log15.LvlFilterHandler(lvl, log15.StreamHandler(rotator, log15.LogfmtFormat())))
}

// Root returns the process-wide logger.
func Root() Logger {
	return root
}

// New returns a logger tagged with ctx key/value pairs, e.g.
// log.New("pass", "resolve_obj_symbols").
func New(ctx ...any) Logger {
	return root.New(ctx...)
}
