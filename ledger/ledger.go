// Package ledger implements the append-only decision log. Every processed
// submission produces exactly one entry, entries are never mutated or
// deleted, and duplicate detection scans this file as its only source of
// truth.
package ledger

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/apex/log"

	"report-validation-pipeline/models"
)

// maxLineBytes bounds the memory spent on a single ledger record during
// scans. Lines larger than this are skipped like corrupt ones; the scan
// keeps going.
const maxLineBytes = 4 * 1024 * 1024

// Ledger is the durable append-only decision log. Appends are serialized so
// that no interleaved or partial lines are ever written; scans open their own
// read handle and see every append that completed before the scan started.
type Ledger struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// Open creates the ledger file (and its directory) if needed and opens it
// for appending.
func Open(path string) (*Ledger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger file: %w", err)
	}

	return &Ledger{path: path, file: file}, nil
}

// Append writes one entry as a single JSON line and syncs it to disk before
// returning, so the entry is durably visible before the caller responds.
func (l *Ledger) Append(entry *models.LedgerEntry) error {
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger entry: %w", err)
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.file.Write(line); err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync ledger: %w", err)
	}
	return nil
}

// Accepted returns all accepted entries in append order. Rejected entries
// never count as precedent for duplicate checks and are filtered out here.
func (l *Ledger) Accepted() ([]models.LedgerEntry, error) {
	var accepted []models.LedgerEntry
	err := l.scan(func(entry *models.LedgerEntry) {
		if entry.Accepted {
			accepted = append(accepted, *entry)
		}
	})
	if err != nil {
		return nil, err
	}
	return accepted, nil
}

// Stats summarizes the whole ledger for the status and stats endpoints.
func (l *Ledger) Stats() (*models.LedgerStats, error) {
	stats := &models.LedgerStats{ByCategory: make(map[string]int)}
	err := l.scan(func(entry *models.LedgerEntry) {
		stats.Total++
		switch entry.Status {
		case models.StatusAccepted:
			stats.Accepted++
		case models.StatusRejected:
			stats.Rejected++
		case models.StatusError:
			stats.Errors++
		}
		if entry.Accepted {
			stats.ByCategory[entry.Category]++
			if entry.Urgency == models.UrgencyUrgent {
				stats.Urgent++
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Close closes the append handle.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

// scan reads the ledger line by line, invoking fn for every parseable entry.
func (l *Ledger) scan(fn func(*models.LedgerEntry)) error {
	file, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open ledger for reading: %w", err)
	}
	defer file.Close()

	reader := bufio.NewReaderSize(file, 64*1024)
	for {
		line, tooLong, err := readLine(reader)
		if tooLong {
			log.Warnf("Skipping oversized ledger line (over %d bytes)", maxLineBytes)
		} else if len(line) > 0 {
			var entry models.LedgerEntry
			if uerr := json.Unmarshal(line, &entry); uerr != nil {
				log.Warnf("Skipping corrupt ledger line: %v", uerr)
			} else {
				fn(&entry)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to scan ledger: %w", err)
		}
	}
}

// readLine reads one line of any length, accumulating at most maxLineBytes.
// A longer line is consumed to its end and reported as tooLong instead of
// aborting the scan.
func readLine(r *bufio.Reader) ([]byte, bool, error) {
	var line []byte
	tooLong := false
	for {
		chunk, isPrefix, err := r.ReadLine()
		if !tooLong {
			if len(line)+len(chunk) > maxLineBytes {
				tooLong = true
				line = nil
			} else {
				line = append(line, chunk...)
			}
		}
		if err != nil || !isPrefix {
			return line, tooLong, err
		}
	}
}
