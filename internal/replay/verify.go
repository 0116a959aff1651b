package replay

import (
	"errors"
	"fmt"
	"io"

	"github.com/justchen1369/acolyte-fight-sub000/internal/world"
)

// MismatchError reports the first tick whose checksum diverged.
type MismatchError struct {
	Tick uint64
	Want string
	Got  string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("replay: checksum mismatch at tick %d: got=%s want=%s", e.Tick, e.Got, e.Want)
}

// VerifyOptions bounds a verification run. Zero values verify everything.
type VerifyOptions struct {
	// FromTick skips checksum comparison before this tick. Earlier ticks are
	// still stepped.
	FromTick uint64
	// ToTick stops after this tick when non-zero.
	ToTick uint64
	Deps   world.Deps
}

// VerifyResult summarises a successful verification.
type VerifyResult struct {
	MatchID       string
	Ticks         uint64
	Checked       uint64
	FinalChecksum string
	Winner        string
}

// Verify rebuilds the world described by the header, steps every recorded
// tick and compares checksums.
func Verify(r *Reader, opts VerifyOptions) (VerifyResult, error) {
	header := r.Header()
	rules := header.Ruleset
	if err := rules.Index(); err != nil {
		return VerifyResult{}, fmt.Errorf("replay: ruleset: %w", err)
	}
	w, err := world.New(header.Config, rules, opts.Deps)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("replay: %w", err)
	}

	result := VerifyResult{MatchID: header.MatchID}
	for {
		entry, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return result, err
		}
		if opts.ToTick != 0 && entry.Tick > opts.ToTick {
			break
		}
		if want := w.Tick() + 1; entry.Tick != want {
			return result, fmt.Errorf("replay: tick gap: want=%d got=%d", want, entry.Tick)
		}
		w.Step(entry.Input)
		w.DrainEvents()
		w.DrainSnapshots()
		result.Ticks++
		result.FinalChecksum = w.Checksum()
		if entry.Tick < opts.FromTick {
			continue
		}
		result.Checked++
		if result.FinalChecksum != entry.Checksum {
			return result, &MismatchError{Tick: entry.Tick, Want: entry.Checksum, Got: result.FinalChecksum}
		}
	}
	result.Winner, _, _ = w.Winner()
	return result, nil
}
