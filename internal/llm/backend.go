package llm

import (
	"context"
	"errors"
	"fmt"

	"tidy/internal/metadata"
)

// Backend is one interchangeable text-generation backend. Generate is a
// blocking, synchronous round-trip: one prompt in, one raw response out.
type Backend interface {
	Name() string
	Available() bool
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// GuardrailError is a safety-policy refusal. It is a first-class outcome, not
// a failure: the engine responds by shrinking the prompt and, if the refusal
// persists, escalating down the backend chain.
type GuardrailError struct {
	Backend string
	Detail  string
}

func (e *GuardrailError) Error() string {
	return fmt.Sprintf("%s refused by guardrail: %s", e.Backend, e.Detail)
}

// UnavailableError means the backend cannot serve requests at all; the engine
// escalates immediately.
type UnavailableError struct {
	Backend string
	Detail  string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %s", e.Backend, e.Detail)
}

// MalformedError means a response arrived but the expected delimited block
// could not be extracted from it.
type MalformedError struct {
	Detail string
	Raw    string
}

func (e *MalformedError) Error() string {
	return "malformed response: " + e.Detail
}

func IsGuardrail(err error) bool {
	var g *GuardrailError
	return errors.As(err, &g)
}

func IsUnavailable(err error) bool {
	var u *UnavailableError
	return errors.As(err, &u)
}

func IsMalformed(err error) bool {
	var m *MalformedError
	return errors.As(err, &m)
}

// RenameResult is the Phase 1 naming decision for one file.
type RenameResult struct {
	NewName string
	Reason  string
}

// KeepResult decides whether the original filename stem is worth preserving.
// Reason is always populated, for keep and discard alike.
type KeepResult struct {
	KeepOriginal bool
	Reason       string
}

// BatchItem is one row of a Phase 2 categorization batch. Index is the
// file's original index from scan ordering and is echoed back by the model.
type BatchItem struct {
	Index       int
	Name        string
	Ext         string
	Description string
}

// Client is the capability surface the organizer consumes. Implementations
// must always produce a result for every call: the engine guarantees this by
// terminating its chain with the heuristic backend, which cannot fail.
type Client interface {
	SuggestRename(ctx context.Context, meta *metadata.FileMetadata, currentName, userContext string) (RenameResult, error)
	SuggestKeep(ctx context.Context, meta *metadata.FileMetadata, currentName, newName string) (KeepResult, error)
	SuggestCategories(ctx context.Context, items []BatchItem, userContext string) (map[int]Category, map[int]string, error)
	Available() bool
}
