// Package logging configures the process-wide zerolog logger. The TUI owns
// the terminal, so records go to a file and never to stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EnvDebug enables debug level when set to anything but "", "0" or "false".
const EnvDebug = "EASEL_DEBUG"

// Setup points the global logger at path, creating parent directories. The
// returned closer flushes and closes the file. An empty path discards output.
func Setup(path string, debug bool) (io.Closer, error) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug || debugFromEnv() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if strings.TrimSpace(path) == "" {
		log.Logger = zerolog.New(io.Discard)
		return io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.Logger = zerolog.New(file).With().Timestamp().Logger()
	return file, nil
}

// New returns a sub-logger tagged with component.
func New(component string) zerolog.Logger {
	return log.With().
		Str("component", component).
		Logger()
}

func debugFromEnv() bool {
	v, ok := os.LookupEnv(EnvDebug)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false":
		return false
	}
	return true
}
