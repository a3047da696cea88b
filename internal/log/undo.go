package log

import (
	"errors"
	"fmt"
	"time"
)

// NameStore is the part of the registry an undo needs.
type NameStore interface {
	Add(name string) error
	Remove(name string) error
}

type UndoResult struct {
	Operation OperationLog
	Success   bool
	Error     error
}

// UndoOperation reverses one journaled change against names. Learned and
// added names are removed again; removed names are re-added.
func UndoOperation(op OperationLog, names NameStore) UndoResult {
	result := UndoResult{Operation: op}

	if op.Name == "" {
		result.Error = fmt.Errorf("cannot undo %s: name missing", op.Type)
		return result
	}

	switch op.Type {
	case OpLearn, OpAdd:
		if err := names.Remove(op.Name); err != nil {
			result.Error = fmt.Errorf("failed to remove %q: %w", op.Name, err)
			return result
		}
		result.Success = true

	case OpRemove:
		if err := names.Add(op.Name); err != nil {
			result.Error = fmt.Errorf("failed to restore %q: %w", op.Name, err)
			return result
		}
		result.Success = true

	default:
		result.Error = fmt.Errorf("unknown operation type: %s", op.Type)
	}

	return result
}

// UndoSession reverses the successful operations of session, newest first.
func UndoSession(session *LogSession, names NameStore) (successful int, failed int, errs []error) {
	for i := len(session.Operations) - 1; i >= 0; i-- {
		op := session.Operations[i]
		if !op.Success {
			continue
		}

		result := UndoOperation(op, names)
		if result.Success {
			successful++
			continue
		}
		failed++
		if result.Error != nil {
			errs = append(errs, result.Error)
		}
	}
	return successful, failed, errs
}

var ErrNoSessions = errors.New("no journal sessions found")

// FindLatestSession returns the newest journal session and its file.
func FindLatestSession() (*LogSession, string, error) {
	files, err := sessionFiles()
	if err != nil {
		return nil, "", fmt.Errorf("failed to list sessions: %w", err)
	}
	for _, file := range files {
		session, err := ReadSession(file)
		if err != nil {
			continue
		}
		return session, file, nil
	}
	return nil, "", ErrNoSessions
}

type SessionSummary struct {
	Session      *LogSession
	FilePath     string
	RelativeTime string
	Icon         string
}

// GetSessionSummaries describes every readable session, newest first.
func GetSessionSummaries() ([]SessionSummary, error) {
	files, err := sessionFiles()
	if err != nil {
		return nil, err
	}

	summaries := make([]SessionSummary, 0, len(files))
	for _, file := range files {
		session, err := ReadSession(file)
		if err != nil {
			continue
		}
		summaries = append(summaries, SessionSummary{
			Session:      session,
			FilePath:     file,
			RelativeTime: formatRelativeTime(session.Metadata.Timestamp),
			Icon:         getCommandIcon(session.Metadata.CommandArgs),
		})
	}
	return summaries, nil
}

func formatRelativeTime(t time.Time) string {
	duration := time.Since(t)
	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		mins := int(duration.Minutes())
		return fmt.Sprintf("%d minute%s ago", mins, plural(mins))
	case duration < 24*time.Hour:
		hours := int(duration.Hours())
		return fmt.Sprintf("%d hour%s ago", hours, plural(hours))
	case duration < 7*24*time.Hour:
		days := int(duration.Hours() / 24)
		return fmt.Sprintf("%d day%s ago", days, plural(days))
	default:
		return t.Format("Jan 2, 2006")
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func getCommandIcon(args []string) string {
	if len(args) == 0 {
		return "❓"
	}

	switch args[0] {
	case "parse", "batch":
		return "🎬"
	case "caption":
		return "💬"
	case "add", "remove", "names":
		return "📚"
	case "undo":
		return "↩️"
	default:
		return "📝"
	}
}
