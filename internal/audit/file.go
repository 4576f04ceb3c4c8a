package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/logger"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/models"
)

const (
	activeFileName     = "audit.log"
	rotatedTimeFormat  = "20060102T150405"
	defaultMaxSize     = 5 * 1024 * 1024
	defaultMaxAgeDays  = 30
	rotatedFilePattern = "audit-*.log"
)

// FileSink appends JSON-lines records to a flat file, rotating it by size
// and deleting rotated files past the retention age. All failures are
// swallowed after a log line; best-effort by contract.
type FileSink struct {
	dir     string
	maxSize int64
	maxAge  time.Duration
	log     zerolog.Logger

	mu   sync.Mutex
	size int64
}

// NewFileSink creates the sink and its directory. Zero config values fall
// back to 5MB rotation and 30-day retention.
func NewFileSink(cfg models.AuditConfig) (*FileSink, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "audit"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create audit directory: %w", err)
	}

	maxSize := cfg.MaxSizeBytes
	if maxSize <= 0 {
		maxSize = defaultMaxSize
	}
	maxAgeDays := cfg.MaxAgeDays
	if maxAgeDays <= 0 {
		maxAgeDays = defaultMaxAgeDays
	}

	s := &FileSink{
		dir:     dir,
		maxSize: maxSize,
		maxAge:  time.Duration(maxAgeDays) * 24 * time.Hour,
		log:     logger.WithComponent("audit"),
	}
	if info, err := os.Stat(s.activePath()); err == nil {
		s.size = info.Size()
	}
	return s, nil
}

func (s *FileSink) activePath() string {
	return filepath.Join(s.dir, activeFileName)
}

// Record implements Sink.
func (s *FileSink) Record(category string, fields map[string]interface{}) {
	entry := make(map[string]interface{}, len(fields)+2)
	for k, v := range fields {
		entry[k] = v
	}
	entry["ts"] = time.Now().Format(time.RFC3339)
	entry["category"] = category

	line, err := json.Marshal(entry)
	if err != nil {
		s.log.Warn().Err(err).Str("category", category).Msg("audit record not serializable")
		return
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.size+int64(len(line)) > s.maxSize {
		s.rotate()
	}

	f, err := os.OpenFile(s.activePath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		s.log.Warn().Err(err).Msg("audit file open failed")
		return
	}
	defer f.Close()

	n, err := f.Write(line)
	if err != nil {
		s.log.Warn().Err(err).Msg("audit write failed")
	}
	s.size += int64(n)
}

// rotate renames the active file to a timestamped name and prunes rotated
// files older than the retention window. Caller holds the mutex.
func (s *FileSink) rotate() {
	rotated := filepath.Join(s.dir,
		"audit-"+time.Now().Format(rotatedTimeFormat)+".log")
	if err := os.Rename(s.activePath(), rotated); err != nil {
		s.log.Warn().Err(err).Msg("audit rotation failed")
		return
	}
	s.size = 0
	s.cleanup()
}

func (s *FileSink) cleanup() {
	matches, err := filepath.Glob(filepath.Join(s.dir, rotatedFilePattern))
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-s.maxAge)
	for _, path := range matches {
		if strings.HasSuffix(path, activeFileName) {
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				s.log.Warn().Err(err).Str("file", path).Msg("audit retention delete failed")
			}
		}
	}
}
