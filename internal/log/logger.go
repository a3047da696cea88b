package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFileName is the rotating diagnostic log inside the log directory.
const LogFileName = "caption-tidy.log"

// Settings configures diagnostics and the registry change journal.
type Settings struct {
	// Enabled turns on the rotating log file and the change journal.
	Enabled bool
	// Level is a zerolog level name; empty means "info".
	Level string
	// RetentionDays bounds how long rotated logs and journal sessions are
	// kept.
	RetentionDays int
	// Console receives human readable output. Nil disables it.
	Console io.Writer
	// Dir overrides the log directory; empty uses LogDir().
	Dir string
}

// LogDir returns ~/.caption-tidy/logs.
func LogDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".caption-tidy", "logs"), nil
}

// Initialize configures the global zerolog logger and the change journal.
// The returned closer flushes the log file; it is never nil.
func Initialize(s Settings) (io.Closer, error) {
	level := zerolog.InfoLevel
	if s.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(s.Level))
		if err != nil {
			return nopCloser{}, fmt.Errorf("invalid log level %q: %w", s.Level, err)
		}
		level = parsed
	}
	zerolog.SetGlobalLevel(level)

	var writers []io.Writer
	if s.Console != nil {
		writers = append(writers, zerolog.ConsoleWriter{Out: s.Console, TimeFormat: "15:04:05"})
	}

	var closer io.Closer = nopCloser{}
	dir := s.Dir
	if s.Enabled {
		if dir == "" {
			d, err := LogDir()
			if err != nil {
				return closer, err
			}
			dir = d
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return closer, fmt.Errorf("failed to create log directory: %w", err)
		}
		rotating := &lumberjack.Logger{
			Filename:   filepath.Join(dir, LogFileName),
			MaxSize:    1,
			MaxBackups: 2,
			MaxAge:     s.RetentionDays,
		}
		writers = append(writers, rotating)
		closer = rotating
	}

	var out io.Writer = io.Discard
	if len(writers) > 0 {
		out = zerolog.MultiLevelWriter(writers...)
	}
	zlog.Logger = zerolog.New(out).With().Timestamp().Logger()

	sessionMutex.Lock()
	loggingEnabled = s.Enabled
	if s.Enabled {
		sessionDir = filepath.Join(dir, "sessions")
	}
	sessionMutex.Unlock()

	if s.Enabled && s.RetentionDays > 0 {
		if err := CleanupOldSessions(s.RetentionDays); err != nil {
			zlog.Warn().Err(err).Msg("failed to clean up old journal sessions")
		}
	}

	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
