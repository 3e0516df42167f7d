// Package journal appends semantic events to a JSON lines file.
package journal

import (
	"bufio"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/jonboulle/clockwork"
	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Sink = (*Journal)(nil)

// Record is one journal line.
type Record struct {
	ID  string    `json:"id"`
	Seq uint64    `json:"seq"`
	At  time.Time `json:"at"`
	domain.Event
}

// Journal implements ports.Sink by appending one Record per event.
type Journal struct {
	path  string
	clock clockwork.Clock
	mu    sync.Mutex
	file  *os.File
	seq   uint64
}

// Open opens or creates the journal at path, creating parent directories as needed.
func Open(path string, clock clockwork.Clock) (*Journal, error) {
	path = filepath.Clean(path)

	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create journal directory"), "path", path)
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, domain.FilePerm)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrJournalWriteFailed.Error()), "path", path)
	}

	seq, err := countRecords(path)
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	return &Journal{path: path, clock: clock, file: file, seq: seq}, nil
}

// Path returns the journal file path.
func (j *Journal) Path() string {
	return j.path
}

// Emit appends event to the journal.
func (j *Journal) Emit(_ context.Context, event domain.Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.seq++
	record := Record{Seq: j.seq, At: j.clock.Now().UTC(), Event: event}
	record.ID = recordID(record)

	data, err := json.Marshal(record)
	if err != nil {
		return zerr.Wrap(err, domain.ErrJournalWriteFailed.Error())
	}
	data = append(data, '\n')

	if _, err := j.file.Write(data); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrJournalWriteFailed.Error()), "path", j.path)
	}
	return nil
}

// Close closes the journal file.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}

// recordID derives a stable identifier from the record's sequence, time and event.
func recordID(r Record) string {
	hasher := xxhash.New()

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], r.Seq)
	_, _ = hasher.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(r.At.UnixNano())) //nolint:gosec // sign is irrelevant for hashing
	_, _ = hasher.Write(buf[:])

	_, _ = hasher.WriteString(string(r.Type))
	_, _ = hasher.WriteString(r.Path)
	_, _ = hasher.WriteString(r.Identity.String())
	_, _ = hasher.WriteString(r.OldParent)
	_, _ = hasher.WriteString(r.NewParent)

	return fmt.Sprintf("%016x", hasher.Sum64())
}

// Read decodes every record from r.
func Read(r io.Reader) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var record Record
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to decode journal record"), "seq", len(records)+1)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, zerr.Wrap(err, "failed to read journal")
	}
	return records, nil
}

func countRecords(path string) (uint64, error) {
	//nolint:gosec // Path is cleaned and provided by trusted caller
	file, err := os.Open(path)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to read journal"), "path", path)
	}
	defer file.Close() //nolint:errcheck // read-only

	records, err := Read(file)
	if err != nil {
		return 0, zerr.With(err, "path", path)
	}
	return uint64(len(records)), nil
}
