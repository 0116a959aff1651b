// Package replay records the per-tick input of a match as zstd-compressed
// JSON lines and re-runs it through a fresh world to verify determinism.
//
// The first line of a replay is a Header carrying everything needed to
// rebuild the world; every following line is an Entry.
package replay

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/justchen1369/acolyte-fight-sub000/internal/world"
	"github.com/justchen1369/acolyte-fight-sub000/spells/contract"
)

// FormatVersion is bumped whenever Header or Entry change incompatibly.
const FormatVersion = 1

// Extension is appended to replay file names.
const Extension = ".jsonl.zst"

var (
	ErrClosed         = errors.New("replay: writer closed")
	ErrMissingHeader  = errors.New("replay: missing header")
	ErrVersion        = errors.New("replay: unsupported format version")
	ErrMissingRuleset = errors.New("replay: header has no ruleset")
)

// Header describes the match a replay belongs to.
type Header struct {
	Version   int               `json:"version"`
	MatchID   string            `json:"matchId"`
	StartedAt time.Time         `json:"startedAt"`
	Config    world.Config      `json:"config"`
	Ruleset   *contract.Ruleset `json:"ruleset"`
}

// Entry is the input of one tick and the checksum the world reported after
// stepping it.
type Entry struct {
	Tick     uint64          `json:"tick"`
	Input    world.TickInput `json:"input"`
	Checksum string          `json:"checksum"`
}

// FileName builds the file name a match's replay is stored under.
func FileName(matchID string, startedAt time.Time) string {
	id := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, matchID)
	if id == "" {
		id = "match"
	}
	return fmt.Sprintf("%s-%s%s", id, startedAt.UTC().Format("20060102T150405"), Extension)
}

// Writer appends entries to a compressed replay stream. It is safe for
// concurrent use.
type Writer struct {
	mu     sync.Mutex
	closer io.Closer
	enc    *zstd.Encoder
	w      *bufio.Writer
	closed bool
}

// Create opens path (creating parent directories) and writes the header.
func Create(path string, header Header) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("replay: create directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("replay: open %s: %w", path, err)
	}
	w, err := newWriter(f, f, header)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return w, nil
}

// NewWriter writes a replay to dst. Closing the Writer flushes the stream but
// does not close dst.
func NewWriter(dst io.Writer, header Header) (*Writer, error) {
	return newWriter(dst, nil, header)
}

func newWriter(dst io.Writer, closer io.Closer, header Header) (*Writer, error) {
	if header.Ruleset == nil {
		return nil, ErrMissingRuleset
	}
	enc, err := zstd.NewWriter(dst, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("replay: zstd writer: %w", err)
	}
	w := &Writer{
		closer: closer,
		enc:    enc,
		w:      bufio.NewWriterSize(enc, 64*1024),
	}
	header.Version = FormatVersion
	if err := w.writeLine(header); err != nil {
		_ = enc.Close()
		return nil, err
	}
	return w, nil
}

// Record appends one tick.
func (w *Writer) Record(tick uint64, input world.TickInput, checksum string) error {
	return w.Write(Entry{Tick: tick, Input: input, Checksum: checksum})
}

// Write appends an entry.
func (w *Writer) Write(entry Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	return w.writeLine(entry)
}

func (w *Writer) writeLine(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("replay: marshal: %w", err)
	}
	if _, err := w.w.Write(b); err != nil {
		return fmt.Errorf("replay: write: %w", err)
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("replay: write: %w", err)
	}
	return nil
}

// Flush pushes buffered entries through the compressor.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("replay: flush: %w", err)
	}
	return w.enc.Flush()
}

// Close flushes and finishes the zstd frame. Closing twice is a no-op.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	err := w.w.Flush()
	if closeErr := w.enc.Close(); err == nil {
		err = closeErr
	}
	if w.closer != nil {
		if closeErr := w.closer.Close(); err == nil {
			err = closeErr
		}
	}
	if err != nil {
		return fmt.Errorf("replay: close: %w", err)
	}
	return nil
}

// Reader iterates over the entries of a replay.
type Reader struct {
	closer io.Closer
	dec    *zstd.Decoder
	sc     *bufio.Scanner
	header Header
	line   int
}

// Open reads the header of the replay stored at path.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: open %s: %w", path, err)
	}
	r, err := newReader(f, f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return r, nil
}

// NewReader reads a replay from src.
func NewReader(src io.Reader) (*Reader, error) {
	return newReader(src, nil)
}

func newReader(src io.Reader, closer io.Closer) (*Reader, error) {
	dec, err := zstd.NewReader(src)
	if err != nil {
		return nil, fmt.Errorf("replay: zstd reader: %w", err)
	}
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	r := &Reader{closer: closer, dec: dec, sc: sc}

	if !sc.Scan() {
		dec.Close()
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("replay: read header: %w", err)
		}
		return nil, ErrMissingHeader
	}
	r.line++
	if err := json.Unmarshal(sc.Bytes(), &r.header); err != nil {
		dec.Close()
		return nil, fmt.Errorf("replay: header: %w", err)
	}
	if r.header.Version != FormatVersion {
		dec.Close()
		return nil, fmt.Errorf("%w: %d", ErrVersion, r.header.Version)
	}
	if r.header.Ruleset == nil {
		dec.Close()
		return nil, ErrMissingRuleset
	}
	return r, nil
}

// Header returns the decoded header.
func (r *Reader) Header() Header {
	return r.header
}

// Next returns the next entry, or io.EOF once the stream is exhausted.
func (r *Reader) Next() (Entry, error) {
	for r.sc.Scan() {
		r.line++
		line := r.sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			return Entry{}, fmt.Errorf("replay: line %d: %w", r.line, err)
		}
		return entry, nil
	}
	if err := r.sc.Err(); err != nil {
		return Entry{}, fmt.Errorf("replay: line %d: %w", r.line, err)
	}
	return Entry{}, io.EOF
}

// Close releases the decoder and the underlying file, if any.
func (r *Reader) Close() error {
	r.dec.Close()
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
