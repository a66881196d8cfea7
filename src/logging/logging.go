// Package logging configures the process-wide logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Setup configures logrus. Without a log file, output goes to stderr at the
// configured level. With one, the file receives everything at that level and
// warnings and errors are mirrored to stderr. The returned closer flushes
// the log file, if any.
func Setup(logFile, level string) (io.Closer, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}

	logrus.StandardLogger().ReplaceHooks(make(logrus.LevelHooks))
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	if logFile == "" {
		return nopCloser{}, nil
	}

	if dir := filepath.Dir(logFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	f, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	// File sink carries the full configured level; console stays at
	// warnings so normal runs are quiet.
	logrus.SetLevel(lvl)
	logrus.SetOutput(f)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	logrus.AddHook(&consoleHook{out: os.Stderr})

	return f, nil
}

// consoleHook mirrors warnings and errors to the console while the main
// output goes to the log file.
type consoleHook struct {
	out io.Writer
}

func (h *consoleHook) Levels() []logrus.Level {
	return []logrus.Level{
		logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel,
	}
}

func (h *consoleHook) Fire(e *logrus.Entry) error {
	fmt.Fprintf(h.out, "%s: %s\n", e.Level, e.Message)
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
