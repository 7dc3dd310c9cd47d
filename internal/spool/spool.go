// Package spool implements the file-discovery/locking layer spec §6
// scopes out of the core and specifies only at its calling contract: find
// a recording on disk, lock it so no other process decodes it twice,
// recover its timestamp and dial frequency from its filename, and remove
// it once decoding succeeds.
package spool

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/ka9q/ft8-lib/internal/ft8"
)

// Entry is one discovered recording awaiting decode, with the metadata
// recovered from its filename rather than from WAV tags or extended
// attributes (the simpler of the two mechanisms spec §6 allows).
type Entry struct {
	Path        string
	SlotStart   time.Time
	BaseFreqMHz float64
	Protocol    ft8.Protocol
}

// Lock holds an exclusive advisory lock on one spool file for the duration
// of one decode pass, taken with golang.org/x/sys/unix.Flock so a second
// decoder process racing the same directory skips files already claimed
// instead of double-decoding them.
type Lock struct {
	file *os.File
}

// filenamePattern is "<epoch_seconds>_<dial_khz>_<ft8|ft4>.wav" (optionally
// ".gz"), e.g. "1706650800_14074_ft8.wav.gz": a Unix timestamp for the
// slot's start, the dial frequency in whole kHz, and the protocol.
func parseFilename(name string) (time.Time, float64, ft8.Protocol, error) {
	base := strings.TrimSuffix(strings.TrimSuffix(name, ".gz"), ".wav")
	parts := strings.Split(base, "_")
	if len(parts) != 3 {
		return time.Time{}, 0, 0, fmt.Errorf("spool: filename %q does not match <epoch>_<dial_khz>_<protocol>", name)
	}

	epoch, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return time.Time{}, 0, 0, fmt.Errorf("spool: filename %q has an invalid timestamp: %w", name, err)
	}

	dialKHz, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return time.Time{}, 0, 0, fmt.Errorf("spool: filename %q has an invalid dial frequency: %w", name, err)
	}

	var protocol ft8.Protocol
	switch strings.ToLower(parts[2]) {
	case "ft8":
		protocol = ft8.ProtocolFT8
	case "ft4":
		protocol = ft8.ProtocolFT4
	default:
		return time.Time{}, 0, 0, fmt.Errorf("spool: filename %q has an unknown protocol %q", name, parts[2])
	}

	return time.Unix(epoch, 0).UTC(), dialKHz / 1000.0, protocol, nil
}

// Scan lists decodable recordings in dir, oldest slot first, skipping
// anything whose filename doesn't match the spool convention rather than
// failing the whole scan.
func Scan(dir string) ([]Entry, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("spool: read dir %s: %w", dir, err)
	}

	entries := make([]Entry, 0, len(files))
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		if !strings.HasSuffix(f.Name(), ".wav") && !strings.HasSuffix(f.Name(), ".wav.gz") {
			continue
		}
		slotStart, baseFreq, protocol, err := parseFilename(f.Name())
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Path:        filepath.Join(dir, f.Name()),
			SlotStart:   slotStart,
			BaseFreqMHz: baseFreq,
			Protocol:    protocol,
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].SlotStart.Before(entries[j].SlotStart) })
	return entries, nil
}

// TryLock attempts a non-blocking exclusive lock on path. ok is false (with
// a nil error) when another process already holds the lock; the caller
// should skip this entry and move to the next, not treat it as failure.
func TryLock(path string) (*Lock, bool, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, false, fmt.Errorf("spool: open %s: %w", path, err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if err == unix.EWOULDBLOCK {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("spool: flock %s: %w", path, err)
	}

	return &Lock{file: f}, true, nil
}

// Release drops the lock, leaving the file on disk.
func (l *Lock) Release() error {
	if l.file == nil {
		return nil
	}
	err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	closeErr := l.file.Close()
	l.file = nil
	if err != nil {
		return fmt.Errorf("spool: unlock: %w", err)
	}
	return closeErr
}

// Done releases the lock and removes the spool file, called once a
// recording has been decoded successfully (spec §6's "deletes them after
// success").
func (l *Lock) Done(path string) error {
	if err := l.Release(); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("spool: remove %s: %w", path, err)
	}
	return nil
}
