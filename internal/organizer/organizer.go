package organizer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"

	"tidy/internal/llm"
	"tidy/internal/metadata"
	"tidy/internal/scanner"
	"tidy/internal/util"
)

// DefaultBatchSize caps how many files share one Phase 2 categorization
// request.
const DefaultBatchSize = 50

// Move is one apply instruction derived from an active plan record.
type Move struct {
	Source   string
	Target   string
	Category string
	Reason   string
}

// Outcome reports what the applier did with one move. FinalTarget may differ
// from the requested target when a collision suffix was needed.
type Outcome struct {
	Move
	FinalTarget string
	Status      string
	Err         error
}

// Applier executes planned moves. The renamer satisfies this.
type Applier interface {
	Apply(ctx context.Context, moves []Move) []Outcome
}

// MoveRecorder receives applied-move records for the decision log. A nil
// recorder drops them.
type MoveRecorder interface {
	RecordMove(source, target, category, status, reason string)
}

// Options configures one organize run.
type Options struct {
	TargetRoot  string
	UserContext string
	BatchSize   int
	MaxPreview  int
	Explain     bool
	OneByOne    bool
}

// Organizer runs the two-phase pipeline: per-file naming, then batched
// categorization, then (optionally) apply.
type Organizer struct {
	registry *metadata.Registry
	client   llm.Client
	recorder MoveRecorder
	out      io.Writer
	opts     Options
}

func New(registry *metadata.Registry, client llm.Client, recorder MoveRecorder, out io.Writer, opts Options) *Organizer {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.MaxPreview <= 0 {
		opts.MaxPreview = metadata.DefaultMaxPreview
	}
	return &Organizer{registry: registry, client: client, recorder: recorder, out: out, opts: opts}
}

var (
	phase1Tag = color.New(color.FgCyan).SprintFunc()
	phase2Tag = color.New(color.FgMagenta).SprintFunc()
	infoTag   = color.New(color.FgYellow).SprintFunc()
	applyTag  = color.New(color.FgGreen).SprintFunc()
	failTag   = color.New(color.FgRed).SprintFunc()
)

// Plan runs both planning phases without touching the filesystem.
func (o *Organizer) Plan(ctx context.Context, files []scanner.File) (*Plan, error) {
	plan := &Plan{TargetRoot: o.opts.TargetRoot}

	for i, f := range files {
		rec := o.planOne(ctx, i, f)
		plan.Records = append(plan.Records, rec)
	}

	if err := o.categorize(ctx, plan); err != nil {
		return nil, err
	}
	for i := range plan.Records {
		rec := &plan.Records[i]
		if rec.SkipReason != "" {
			continue
		}
		rec.Target = resolveTarget(o.opts.TargetRoot, rec.Category, rec.NewName, rec.Ext)
	}
	return plan, nil
}

// planOne is Phase 1 for a single file: extract metadata, propose a name,
// decide whether the original stem survives.
func (o *Organizer) planOne(ctx context.Context, index int, f scanner.File) Record {
	rec := Record{Index: index, Source: f.Path, Name: f.Name, Ext: f.Ext}

	meta, err := o.registry.Extract(f.Path, o.opts.MaxPreview)
	if err != nil {
		var extractErr *metadata.ExtractionError
		if errors.As(err, &extractErr) {
			rec.SkipReason = string(extractErr.Reason)
			detail := extractErr.Detail
			if detail == "" {
				detail = string(extractErr.Reason)
			}
			fmt.Fprintf(o.out, "%s skipping %s: %s\n", infoTag("[INFO]"), f.Name, detail)
			return rec
		}
		rec.SkipReason = err.Error()
		fmt.Fprintf(o.out, "%s skipping %s: %v\n", infoTag("[INFO]"), f.Name, err)
		return rec
	}
	rec.Extractor = meta.Extractor
	rec.Description = meta.Description()

	rename, err := o.client.SuggestRename(ctx, meta, f.Name, o.opts.UserContext)
	if err != nil {
		rec.SkipReason = err.Error()
		fmt.Fprintf(o.out, "%s skipping %s: %v\n", infoTag("[INFO]"), f.Name, err)
		return rec
	}
	stem := normalizeNewName(rename.NewName, f.Name, f.Ext)
	rec.RenameReason = rename.Reason

	keep, err := o.client.SuggestKeep(ctx, meta, f.Name, stem)
	if err != nil {
		log.Warnf("keep decision for %s: %v", f.Name, err)
		keep = llm.KeepResult{KeepOriginal: true, Reason: "keep decision unavailable"}
	}
	rec.KeepOriginal = keep.KeepOriginal
	rec.NewName = finalStem(f.Name, stem, keep.KeepOriginal)

	fmt.Fprintf(o.out, "%s %s -> %s\n", phase1Tag("[PLAN1]"), f.Name, rec.NewName)
	if o.opts.Explain {
		fmt.Fprintf(o.out, "        rename: %s\n", orDash(rec.RenameReason))
		fmt.Fprintf(o.out, "        keep original: %v (%s)\n", keep.KeepOriginal, orDash(keep.Reason))
	}
	return rec
}

// categorize is Phase 2: active records are batched, each batch goes out as
// one request, and replies are merged by the indices the model echoed back.
// Indices the model dropped default to Other.
func (o *Organizer) categorize(ctx context.Context, plan *Plan) error {
	active := plan.Active()
	for start := 0; start < len(active); start += o.opts.BatchSize {
		end := start + o.opts.BatchSize
		if end > len(active) {
			end = len(active)
		}
		batch := active[start:end]

		items := make([]llm.BatchItem, 0, len(batch))
		for _, rec := range batch {
			items = append(items, llm.BatchItem{
				Index:       rec.Index,
				Name:        rec.NewName,
				Ext:         rec.Ext,
				Description: util.Shorten(rec.Description, 160),
			})
		}

		categories, reasons, err := o.client.SuggestCategories(ctx, items, o.opts.UserContext)
		if err != nil {
			return fmt.Errorf("categorizing batch: %w", err)
		}
		for _, rec := range batch {
			target := &plan.Records[rec.Index]
			if cat, ok := categories[rec.Index]; ok {
				target.Category = cat
				target.CategoryReason = reasons[rec.Index]
			} else {
				target.Category = llm.CategoryOther
				target.CategoryReason = "no category assigned"
			}
			fmt.Fprintf(o.out, "%s %s -> %s\n", phase2Tag("[PLAN2]"), target.NewName, target.Category)
			if o.opts.Explain && target.CategoryReason != "" {
				fmt.Fprintf(o.out, "        category: %s\n", target.CategoryReason)
			}
		}
	}
	return nil
}

// Run plans and, unless dryRun, applies. The plan is always returned so
// callers can render the summary table.
func (o *Organizer) Run(ctx context.Context, files []scanner.File, applier Applier, dryRun bool) (*Plan, []Outcome, error) {
	if o.opts.OneByOne {
		return o.runOneByOne(ctx, files, applier, dryRun)
	}
	plan, err := o.Plan(ctx, files)
	if err != nil {
		return nil, nil, err
	}
	if dryRun {
		fmt.Fprintf(o.out, "%s no files moved\n", infoTag("[DRY RUN]"))
		return plan, nil, nil
	}
	outcomes := o.apply(ctx, plan.Moves(), applier)
	return plan, outcomes, nil
}

// runOneByOne is the degenerate mode: each file is planned and applied in
// isolation, so one pathological file cannot poison a shared batch.
func (o *Organizer) runOneByOne(ctx context.Context, files []scanner.File, applier Applier, dryRun bool) (*Plan, []Outcome, error) {
	combined := &Plan{TargetRoot: o.opts.TargetRoot}
	var outcomes []Outcome
	for i, f := range files {
		plan, err := o.Plan(ctx, []scanner.File{f})
		if err != nil {
			log.Warnf("planning %s: %v", f.Name, err)
			continue
		}
		for _, rec := range plan.Records {
			rec.Index = i
			combined.Records = append(combined.Records, rec)
		}
		if !dryRun {
			outcomes = append(outcomes, o.apply(ctx, plan.Moves(), applier)...)
		}
	}
	if dryRun {
		fmt.Fprintf(o.out, "%s no files moved\n", infoTag("[DRY RUN]"))
	}
	return combined, outcomes, nil
}

func (o *Organizer) apply(ctx context.Context, moves []Move, applier Applier) []Outcome {
	outcomes := applier.Apply(ctx, moves)
	for _, out := range outcomes {
		switch out.Status {
		case "moved":
			fmt.Fprintf(o.out, "%s %s -> %s\n", applyTag("[APPLY]"), out.Source, out.FinalTarget)
		case "skipped":
			fmt.Fprintf(o.out, "%s skipped %s\n", infoTag("[APPLY]"), out.Source)
		default:
			fmt.Fprintf(o.out, "%s failed %s: %v\n", failTag("[APPLY]"), out.Source, out.Err)
		}
		reason := out.Reason
		if out.Err != nil {
			reason = out.Err.Error()
		}
		if o.recorder != nil {
			o.recorder.RecordMove(out.Source, out.FinalTarget, out.Category, out.Status, reason)
		}
	}
	return outcomes
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
