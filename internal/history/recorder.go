// Package history keeps an append-only JSONL audit trail of liquidation runs.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"panicsell-go/internal/liquidation"
)

// Record is the persisted summary of one run.
type Record struct {
	RunID      string    `json:"run_id"`
	At         time.Time `json:"at"`
	Owner      string    `json:"owner"`
	State      string    `json:"state"`
	Attempted  int       `json:"attempted"`
	Built      int       `json:"built"`
	Succeeded  int       `json:"succeeded"`
	Signatures []string  `json:"signatures,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// NewRecord summarizes res for owner.
func NewRecord(owner string, at time.Time, res *liquidation.Result) Record {
	rec := Record{
		RunID:     res.RunID,
		At:        at.UTC(),
		Owner:     owner,
		State:     res.State.String(),
		Attempted: res.Attempted,
		Built:     res.Built,
		Succeeded: res.Succeeded,
	}
	for _, sig := range res.Signatures {
		rec.Signatures = append(rec.Signatures, sig.String())
	}
	if res.Err != nil {
		rec.Error = res.Err.Error()
	}
	return rec
}

// JSONLRecorder appends run records as JSON lines.
type JSONLRecorder struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// NewJSONLRecorder creates/opens the target file and returns a recorder.
func NewJSONLRecorder(path string) (*JSONLRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return &JSONLRecorder{
		file: file,
		enc:  json.NewEncoder(file),
	}, nil
}

// Record writes a single run to the underlying file.
func (r *JSONLRecorder) Record(rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return os.ErrClosed
	}
	return r.enc.Encode(rec)
}

// Close closes the file handle.
func (r *JSONLRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}
