package llm

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"tidy/internal/metadata"
	"tidy/internal/util"
)

// EventRecorder receives backend-fallback events for the decision log. A nil
// recorder is valid and drops events.
type EventRecorder interface {
	RecordFallback(backend, purpose, detail string)
}

// Engine drives an ordered chain of text backends and translates their
// backend-specific failure modes (guardrail, malformed, unavailable) into a
// single escalation policy. The heuristic terminal means every Suggest call
// returns a usable result.
type Engine struct {
	backends []Backend
	terminal *Heuristic
	recorder EventRecorder
}

func NewEngine(backends []Backend, recorder EventRecorder) *Engine {
	return &Engine{
		backends: backends,
		terminal: NewHeuristic(),
		recorder: recorder,
	}
}

// Available is always true: the heuristic terminal cannot fail.
func (e *Engine) Available() bool { return true }

func (e *Engine) SuggestRename(ctx context.Context, meta *metadata.FileMetadata, currentName, userContext string) (RenameResult, error) {
	prompt := buildRenamePrompt(meta, currentName, userContext)
	res, err := roundTrip(e, ctx, prompt, "rename", renameExampleOutput, renameMaxTokens, parseRenameResponse)
	if err != nil {
		e.record("heuristic", "rename", "chain exhausted, using heuristic: "+err.Error())
		res, _ = e.terminal.SuggestRename(ctx, meta, currentName, userContext)
		return res, nil
	}
	res.NewName = util.SanitizeFilename(res.NewName)
	return res, nil
}

func (e *Engine) SuggestKeep(ctx context.Context, meta *metadata.FileMetadata, currentName, newName string) (KeepResult, error) {
	prompt := buildKeepPrompt(meta, currentName, newName)
	res, err := roundTrip(e, ctx, prompt, "keep decision", keepExampleOutput, keepMaxTokens, parseKeepResponse)
	if err != nil {
		e.record("heuristic", "keep decision", "chain exhausted, using heuristic: "+err.Error())
		return e.terminal.SuggestKeep(ctx, meta, currentName, newName)
	}
	if res.Reason == "" {
		if res.KeepOriginal {
			res.Reason = "original stem judged meaningful"
		} else {
			res.Reason = "original stem judged disposable"
		}
	}
	return res, nil
}

func (e *Engine) SuggestCategories(ctx context.Context, items []BatchItem, userContext string) (map[int]Category, map[int]string, error) {
	if len(items) == 0 {
		return map[int]Category{}, map[int]string{}, nil
	}
	prompt := buildSortPrompt(items, userContext)
	type sortReply struct {
		categories map[int]Category
		reasons    map[int]string
	}
	res, err := roundTrip(e, ctx, prompt, "category assignment", sortExampleOutput, sortMaxTokens,
		func(raw string) (sortReply, error) {
			cats, reasons, perr := parseCategoryResponse(raw)
			return sortReply{categories: cats, reasons: reasons}, perr
		})
	if err != nil {
		e.record("heuristic", "category assignment", "chain exhausted, using heuristic: "+err.Error())
		return e.terminal.SuggestCategories(ctx, items, userContext)
	}
	return res.categories, res.reasons, nil
}

// roundTrip walks the backend chain for one request. Per backend: an
// unavailable backend is skipped; a guardrail block earns exactly one retry
// with a shrunk payload on the same backend; a malformed response earns
// exactly one retry with the strict format-fix prompt on the same backend.
// Any remaining failure escalates to the next backend.
func roundTrip[T any](e *Engine, ctx context.Context, prompt, purpose, example string, maxTokens int, parse func(string) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for _, b := range e.backends {
		if !b.Available() {
			log.Debugf("%s unavailable for %s, escalating", b.Name(), purpose)
			lastErr = &UnavailableError{Backend: b.Name(), Detail: "availability probe failed"}
			continue
		}
		log.Debugf("asking %s for %s", b.Name(), purpose)
		raw, err := b.Generate(ctx, prompt, maxTokens)
		if err != nil && IsGuardrail(err) {
			e.record(b.Name(), purpose, "guardrail block, retrying with shrunk payload")
			log.Debugf("retrying %s with shrunk payload for %s", b.Name(), purpose)
			raw, err = b.Generate(ctx, shrinkPrompt(prompt), maxTokens)
		}
		if err != nil {
			e.record(b.Name(), purpose, "escalating: "+err.Error())
			lastErr = err
			continue
		}
		res, perr := parse(raw)
		if perr == nil {
			return res, nil
		}
		if IsMalformed(perr) {
			e.record(b.Name(), purpose, "malformed response, retrying with strict prompt")
			log.Debugf("asking %s for %s (format fix)", b.Name(), purpose)
			if fixed, gerr := b.Generate(ctx, buildFormatFixPrompt(prompt, example), maxTokens); gerr == nil {
				if res, perr2 := parse(fixed); perr2 == nil {
					return res, nil
				}
			}
		}
		e.record(b.Name(), purpose, "escalating: "+perr.Error())
		lastErr = perr
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no backends configured")
	}
	return zero, lastErr
}

func (e *Engine) record(backend, purpose, detail string) {
	if e.recorder != nil {
		e.recorder.RecordFallback(backend, purpose, detail)
	}
}

var _ Client = (*Engine)(nil)
