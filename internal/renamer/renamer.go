package renamer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"

	"tidy/internal/organizer"
)

// Status tracks a move through its lifecycle. A move is planned, then either
// skipped outright or moved; anything that goes wrong mid-flight is failed.
type Status string

const (
	StatusPlanned Status = "planned"
	StatusMoving  Status = "moving"
	StatusMoved   Status = "moved"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Renamer executes planned moves. It never overwrites: a taken target gets a
// numeric suffix before the extension instead.
type Renamer struct{}

func New() *Renamer { return &Renamer{} }

// Apply executes each move in order. One failing move never aborts the batch;
// a cancelled context marks the remaining moves skipped.
func (r *Renamer) Apply(ctx context.Context, moves []organizer.Move) []organizer.Outcome {
	outcomes := make([]organizer.Outcome, 0, len(moves))
	for _, move := range moves {
		if ctx.Err() != nil {
			outcomes = append(outcomes, organizer.Outcome{
				Move: move, FinalTarget: move.Target, Status: string(StatusSkipped), Err: ctx.Err(),
			})
			continue
		}
		outcomes = append(outcomes, r.applyOne(move))
	}
	return outcomes
}

func (r *Renamer) applyOne(move organizer.Move) organizer.Outcome {
	outcome := func(final string, s Status, err error) organizer.Outcome {
		return organizer.Outcome{Move: move, FinalTarget: final, Status: string(s), Err: err}
	}

	if _, err := os.Lstat(move.Source); err != nil {
		log.Warnf("source vanished before move: %s", move.Source)
		return outcome(move.Target, StatusSkipped, nil)
	}
	if sameFile(move.Source, move.Target) {
		return outcome(move.Target, StatusSkipped, nil)
	}

	if err := os.MkdirAll(filepath.Dir(move.Target), 0o755); err != nil {
		return outcome(move.Target, StatusFailed, fmt.Errorf("creating target directory: %w", err))
	}

	final, err := dedupeTarget(move.Target)
	if err != nil {
		return outcome(move.Target, StatusFailed, err)
	}

	if err := moveFile(move.Source, final); err != nil {
		return outcome(final, StatusFailed, err)
	}
	return outcome(final, StatusMoved, nil)
}

// dedupeTarget returns target if free, otherwise the first "<stem>-N<ext>"
// variant that is.
func dedupeTarget(target string) (string, error) {
	if !exists(target) {
		return target, nil
	}
	ext := filepath.Ext(target)
	stem := strings.TrimSuffix(target, ext)
	for n := 1; n < 10000; n++ {
		candidate := fmt.Sprintf("%s-%d%s", stem, n, ext)
		if !exists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free name for %s after 10000 attempts", target)
}

// moveFile renames, falling back to copy-and-remove when source and target
// sit on different filesystems.
func moveFile(source, target string) error {
	err := os.Rename(source, target)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return fmt.Errorf("renaming %s: %w", source, err)
	}
	if err := copyFile(source, target); err != nil {
		return err
	}
	if err := os.Remove(source); err != nil {
		return fmt.Errorf("removing source after copy: %w", err)
	}
	return nil
}

func copyFile(source, target string) error {
	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stating source: %w", err)
	}
	// O_EXCL keeps the no-overwrite guarantee even if the target appeared
	// between the dedupe check and now.
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating target: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(target)
		return fmt.Errorf("copying to target: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(target)
		return fmt.Errorf("closing target: %w", err)
	}
	return nil
}

func isCrossDevice(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

var _ organizer.Applier = (*Renamer)(nil)
