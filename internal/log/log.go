package log

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// OperationType is a registry mutation recorded in the change journal.
type OperationType string

const (
	OpLearn  OperationType = "learn"
	OpAdd    OperationType = "add"
	OpRemove OperationType = "remove"
)

// OperationLog is one journaled registry change.
type OperationLog struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Type      OperationType `json:"type"`
	Name      string        `json:"name"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

type SessionMetadata struct {
	CommandArgs   []string  `json:"command_args"`
	Timestamp     time.Time `json:"timestamp"`
	SessionID     string    `json:"session_id"`
	RegistryPath  string    `json:"registry_path"`
	TotalOps      int       `json:"total_operations"`
	SuccessfulOps int       `json:"successful_operations"`
	FailedOps     int       `json:"failed_operations"`
}

// LogSession groups the registry changes made by one command invocation.
type LogSession struct {
	Metadata   SessionMetadata `json:"metadata"`
	Operations []OperationLog  `json:"operations"`
}

var (
	currentSession *LogSession
	sessionMutex   sync.Mutex
	loggingEnabled = true
	sessionDir     string
)

// StartSession begins journaling registry changes for command.
func StartSession(command string, args []string, registryPath string) error {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()

	if !loggingEnabled {
		return nil
	}

	now := time.Now()
	currentSession = &LogSession{
		Metadata: SessionMetadata{
			CommandArgs:  append([]string{command}, args...),
			Timestamp:    now,
			SessionID:    fmt.Sprintf("%s_%03d", now.Format("20060102_150405"), now.Nanosecond()/1000000),
			RegistryPath: registryPath,
		},
		Operations: []OperationLog{},
	}
	return nil
}

// EndSession writes the current session when it recorded any change.
func EndSession() error {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()

	if !loggingEnabled || currentSession == nil {
		return nil
	}

	updateStats()
	var err error
	if len(currentSession.Operations) > 0 {
		err = WriteSession(currentSession)
	}
	currentSession = nil
	return err
}

// LogOperation appends a change to the current session.
func LogOperation(opType OperationType, name string, err error) {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()

	if !loggingEnabled || currentSession == nil {
		return
	}

	op := OperationLog{
		ID:        fmt.Sprintf("%s_%d", currentSession.Metadata.SessionID, len(currentSession.Operations)),
		Timestamp: time.Now(),
		Type:      opType,
		Name:      name,
		Success:   err == nil,
	}
	if err != nil {
		op.Error = err.Error()
	}
	currentSession.Operations = append(currentSession.Operations, op)
}

func updateStats() {
	if currentSession == nil {
		return
	}

	successful := 0
	for _, op := range currentSession.Operations {
		if op.Success {
			successful++
		}
	}
	currentSession.Metadata.TotalOps = len(currentSession.Operations)
	currentSession.Metadata.SuccessfulOps = successful
	currentSession.Metadata.FailedOps = len(currentSession.Operations) - successful
}

// SessionDir returns the directory journal sessions are written to.
func SessionDir() (string, error) {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()
	return sessionDirUnsafe()
}

func sessionPath() (string, error) {
	dir, err := sessionDirUnsafe()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create session directory: %w", err)
	}
	now := time.Now()
	stem := fmt.Sprintf("%s.%03d", now.Format("2006-01-02_150405"), now.Nanosecond()/1000000)
	path := filepath.Join(dir, stem+".json")
	// Sessions ending within the same millisecond get a suffix; "_" sorts
	// after ".", so newest-first ordering still holds.
	for n := 1; ; n++ {
		if _, err := os.Stat(path); err != nil {
			return path, nil
		}
		path = filepath.Join(dir, fmt.Sprintf("%s_%d.json", stem, n))
	}
}

// sessionDirUnsafe is SessionDir for callers holding sessionMutex.
func sessionDirUnsafe() (string, error) {
	if sessionDir != "" {
		return sessionDir, nil
	}
	logDir, err := LogDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(logDir, "sessions"), nil
}

// WriteSession saves session as a new timestamped file. It reads the session
// directory without locking; EndSession calls it with sessionMutex held.
func WriteSession(session *LogSession) error {
	if session == nil {
		return nil
	}

	path, err := sessionPath()
	if err != nil {
		return fmt.Errorf("failed to get session path: %w", err)
	}
	return writeSessionFile(session, path)
}

func writeSessionFile(session *LogSession, path string) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// ReadSession loads one session file.
func ReadSession(path string) (*LogSession, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session LogSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// sessionFiles lists session files newest first.
func sessionFiles() ([]string, error) {
	dir, err := SessionDir()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list session files: %w", err)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	return files, nil
}

// ReadSessions returns up to limit sessions, newest first. Corrupted files
// are skipped.
func ReadSessions(limit int) ([]*LogSession, error) {
	files, err := sessionFiles()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}

	sessions := make([]*LogSession, 0, len(files))
	for _, file := range files {
		session, err := ReadSession(file)
		if err != nil {
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// CleanupOldSessions removes session files older than retentionDays.
func CleanupOldSessions(retentionDays int) error {
	files, err := sessionFiles()
	if err != nil {
		return err
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	var firstErr error
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(file); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to remove old session file %s: %w", file, err)
		}
	}
	return firstErr
}
