// audit/repository.go
package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type Repository interface {
	LogSave(ctx context.Context, log SaveLog) error
	QueryLogs(ctx context.Context, from, to time.Time, ruleID string) ([]SaveLog, error)
}

// FileRepository appends save-workflow log entries as JSON lines next to
// the backup archive. A desktop client must be able to record offline
// saves without any server, so the log is a plain local file.
type FileRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileRepository creates a repository writing to savelog.jsonl under dir.
func NewFileRepository(dir string) (*FileRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create audit dir: %w", err)
	}
	return &FileRepository{path: filepath.Join(dir, "savelog.jsonl")}, nil
}

// LogSave appends one entry to the log file.
func (r *FileRepository) LogSave(_ context.Context, log SaveLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("marshal save log: %w", err)
	}

	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open save log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append save log: %w", err)
	}
	return nil
}

// QueryLogs scans the log file for entries within the time frame,
// optionally filtered by rule id. Zero from/to bounds are open.
func (r *FileRepository) QueryLogs(_ context.Context, from, to time.Time, ruleID string) ([]SaveLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []SaveLog{}, nil
		}
		return nil, fmt.Errorf("open save log: %w", err)
	}
	defer f.Close()

	logs := []SaveLog{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var entry SaveLog
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		if !from.IsZero() && entry.Timestamp.Before(from) {
			continue
		}
		if !to.IsZero() && entry.Timestamp.After(to) {
			continue
		}
		if ruleID != "" && entry.RuleID != ruleID {
			continue
		}
		logs = append(logs, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan save log: %w", err)
	}

	return logs, nil
}
