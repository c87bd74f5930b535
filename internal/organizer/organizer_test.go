package organizer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tidy/internal/llm"
	"tidy/internal/metadata"
	"tidy/internal/scanner"
)

// stubClient returns fixed answers and records the batches it saw. When trace
// is set it also appends one entry per categorize call, so tests can check
// ordering against the applier.
type stubClient struct {
	renames    map[string]llm.RenameResult // keyed by current name
	keeps      map[string]llm.KeepResult
	categories map[int]llm.Category
	batches    [][]llm.BatchItem
	trace      *[]string
}

func (s *stubClient) SuggestRename(_ context.Context, _ *metadata.FileMetadata, currentName, _ string) (llm.RenameResult, error) {
	if r, ok := s.renames[currentName]; ok {
		return r, nil
	}
	return llm.RenameResult{NewName: "unnamed", Reason: "stub"}, nil
}

func (s *stubClient) SuggestKeep(_ context.Context, _ *metadata.FileMetadata, currentName, _ string) (llm.KeepResult, error) {
	if k, ok := s.keeps[currentName]; ok {
		return k, nil
	}
	return llm.KeepResult{KeepOriginal: false, Reason: "stub"}, nil
}

func (s *stubClient) SuggestCategories(_ context.Context, items []llm.BatchItem, _ string) (map[int]llm.Category, map[int]string, error) {
	s.batches = append(s.batches, items)
	if s.trace != nil && len(items) > 0 {
		*s.trace = append(*s.trace, "categorize "+items[0].Name)
	}
	out := make(map[int]llm.Category)
	for _, item := range items {
		if cat, ok := s.categories[item.Index]; ok {
			out[item.Index] = cat
		}
	}
	return out, map[int]string{}, nil
}

func (s *stubClient) Available() bool { return true }

// recordingApplier pretends every move succeeded.
type recordingApplier struct {
	applied []Move
	trace   *[]string
}

func (r *recordingApplier) Apply(_ context.Context, moves []Move) []Outcome {
	r.applied = append(r.applied, moves...)
	if r.trace != nil {
		for _, m := range moves {
			*r.trace = append(*r.trace, "apply "+filepath.Base(m.Source))
		}
	}
	out := make([]Outcome, len(moves))
	for i, m := range moves {
		out[i] = Outcome{Move: m, FinalTarget: m.Target, Status: "moved"}
	}
	return out
}

func seedFile(t *testing.T, dir, name, content string) scanner.File {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return scanner.File{Path: path, Name: name, Ext: metadata.ExtensionOf(name), Size: int64(len(content))}
}

func newTestOrganizer(t *testing.T, client llm.Client, opts Options) (*Organizer, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	return New(metadata.DefaultRegistry(), client, nil, out, opts), out
}

func TestDryRunPlansWithoutMoving(t *testing.T) {
	src := t.TempDir()
	target := t.TempDir()
	file := seedFile(t, src, "note.txt", "hello world")

	client := &stubClient{
		renames:    map[string]llm.RenameResult{"note.txt": {NewName: "hello-world-note", Reason: "from preview"}},
		categories: map[int]llm.Category{0: llm.CategoryDocument},
	}
	org, out := newTestOrganizer(t, client, Options{TargetRoot: target})
	applier := &recordingApplier{}

	plan, outcomes, err := org.Run(context.Background(), []scanner.File{file}, applier, true)
	require.NoError(t, err)
	assert.Empty(t, outcomes)
	assert.Empty(t, applier.applied, "dry run must not reach the applier")
	assert.Contains(t, out.String(), "[DRY RUN]")

	require.Len(t, plan.Records, 1)
	rec := plan.Records[0]
	assert.Equal(t, "hello-world-note", rec.NewName)
	assert.Equal(t, llm.CategoryDocument, rec.Category)
	assert.Equal(t, filepath.Join(target, "Document", "hello-world-note.txt"), rec.Target)

	// Source untouched, target root untouched.
	_, err = os.Stat(file.Path)
	require.NoError(t, err)
	entries, err := os.ReadDir(target)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMissingBatchIndexDefaultsToOther(t *testing.T) {
	src := t.TempDir()
	files := []scanner.File{
		seedFile(t, src, "a.txt", "alpha content"),
		seedFile(t, src, "b.txt", "beta content"),
		seedFile(t, src, "c.txt", "gamma content"),
	}

	// The model answers for 0 and 1 but drops index 2.
	client := &stubClient{
		categories: map[int]llm.Category{0: llm.CategoryDocument, 1: llm.CategoryDocument},
	}
	org, _ := newTestOrganizer(t, client, Options{TargetRoot: t.TempDir()})

	plan, err := org.Plan(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, plan.Records, 3)
	assert.Equal(t, llm.CategoryDocument, plan.Records[0].Category)
	assert.Equal(t, llm.CategoryDocument, plan.Records[1].Category)
	assert.Equal(t, llm.CategoryOther, plan.Records[2].Category)
	assert.Equal(t, "no category assigned", plan.Records[2].CategoryReason)
}

func TestBatchSizeSplitsPhaseTwo(t *testing.T) {
	src := t.TempDir()
	var files []scanner.File
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		files = append(files, seedFile(t, src, name, "content of "+name))
	}

	client := &stubClient{categories: map[int]llm.Category{}}
	org, _ := newTestOrganizer(t, client, Options{TargetRoot: t.TempDir(), BatchSize: 2})

	_, err := org.Plan(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, client.batches, 2)
	assert.Len(t, client.batches[0], 2)
	assert.Len(t, client.batches[1], 1)
	assert.Equal(t, 2, client.batches[1][0].Index, "original index survives batching")
}

func TestKeepOriginalPrefixesStem(t *testing.T) {
	src := t.TempDir()
	file := seedFile(t, src, "GV60_manual.txt", "installation manual for the GV60 fireplace")

	client := &stubClient{
		renames: map[string]llm.RenameResult{"GV60_manual.txt": {NewName: "fireplace-install-guide"}},
		keeps:   map[string]llm.KeepResult{"GV60_manual.txt": {KeepOriginal: true, Reason: "model number"}},
	}
	org, _ := newTestOrganizer(t, client, Options{TargetRoot: t.TempDir()})

	plan, err := org.Plan(context.Background(), []scanner.File{file})
	require.NoError(t, err)
	assert.Equal(t, "GV60_manual_fireplace-install-guide", plan.Records[0].NewName)
}

func TestUnreadableFileSkippedNotFatal(t *testing.T) {
	src := t.TempDir()
	good := seedFile(t, src, "good.txt", "fine content")
	missing := scanner.File{Path: filepath.Join(src, "gone.txt"), Name: "gone.txt", Ext: "txt"}

	client := &stubClient{categories: map[int]llm.Category{}}
	org, out := newTestOrganizer(t, client, Options{TargetRoot: t.TempDir()})

	plan, err := org.Plan(context.Background(), []scanner.File{missing, good})
	require.NoError(t, err)
	require.Len(t, plan.Records, 2)
	assert.NotEmpty(t, plan.Records[0].SkipReason)
	assert.Empty(t, plan.Records[1].SkipReason)
	assert.Contains(t, out.String(), "[INFO]")

	// Skipped files never reach Phase 2.
	require.Len(t, client.batches, 1)
	require.Len(t, client.batches[0], 1)
	assert.Equal(t, 1, client.batches[0][0].Index)
}

func TestApplyRecordsOutcomes(t *testing.T) {
	src := t.TempDir()
	file := seedFile(t, src, "note.txt", "hello world")

	client := &stubClient{
		renames:    map[string]llm.RenameResult{"note.txt": {NewName: "greeting-note"}},
		categories: map[int]llm.Category{0: llm.CategoryDocument},
	}
	org, out := newTestOrganizer(t, client, Options{TargetRoot: t.TempDir()})
	applier := &recordingApplier{}

	_, outcomes, err := org.Run(context.Background(), []scanner.File{file}, applier, false)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, "moved", outcomes[0].Status)
	require.Len(t, applier.applied, 1)
	assert.Equal(t, file.Path, applier.applied[0].Source)
	assert.Contains(t, out.String(), "[APPLY]")
}

func TestOneByOneInterleavesPlanAndApply(t *testing.T) {
	src := t.TempDir()
	files := []scanner.File{
		seedFile(t, src, "first.txt", "alpha content"),
		seedFile(t, src, "second.txt", "beta content"),
	}

	var trace []string
	client := &stubClient{
		renames: map[string]llm.RenameResult{
			"first.txt":  {NewName: "first-note"},
			"second.txt": {NewName: "second-note"},
		},
		categories: map[int]llm.Category{0: llm.CategoryDocument},
		trace:      &trace,
	}
	org, _ := newTestOrganizer(t, client, Options{TargetRoot: t.TempDir(), OneByOne: true})
	applier := &recordingApplier{trace: &trace}

	plan, outcomes, err := org.Run(context.Background(), files, applier, false)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"categorize first-note",
		"apply first.txt",
		"categorize second-note",
		"apply second.txt",
	}, trace, "each file must be applied before the next is planned")

	require.Len(t, plan.Records, 2)
	for i, rec := range plan.Records {
		assert.Equal(t, i, rec.Index, "combined plan keeps scan order indices")
	}
	require.Len(t, outcomes, 2)
	assert.Equal(t, "moved", outcomes[0].Status)
	assert.Equal(t, "moved", outcomes[1].Status)
}

func TestOneByOneDryRunMovesNothing(t *testing.T) {
	src := t.TempDir()
	files := []scanner.File{
		seedFile(t, src, "a.txt", "alpha content"),
		seedFile(t, src, "b.txt", "beta content"),
	}

	client := &stubClient{categories: map[int]llm.Category{0: llm.CategoryDocument}}
	org, out := newTestOrganizer(t, client, Options{TargetRoot: t.TempDir(), OneByOne: true})
	applier := &recordingApplier{}

	plan, outcomes, err := org.Run(context.Background(), files, applier, true)
	require.NoError(t, err)
	assert.Empty(t, outcomes)
	assert.Empty(t, applier.applied)
	assert.Len(t, plan.Records, 2)
	assert.Contains(t, out.String(), "[DRY RUN]")
}

func TestNormalizeNewName(t *testing.T) {
	tests := []struct {
		name     string
		proposed string
		current  string
		ext      string
		want     string
	}{
		{"plain", "Quarterly Report", "q.txt", "txt", "Quarterly-Report"},
		{"duplicate extension", "report.txt", "q.txt", "txt", "report"},
		{"double extension", "report.txt.txt", "q.txt", "txt", "report"},
		{"arrow echo", "q.txt -> better-name", "q.txt", "txt", "better-name"},
		{"verbatim echo", "q.txt", "q.txt", "txt", "q"},
		{"empty proposal", "", "q.txt", "txt", "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeNewName(tt.proposed, tt.current, tt.ext))
		})
	}
}

func TestFinalStem(t *testing.T) {
	assert.Equal(t, "new-name", finalStem("IMG_1234.jpg", "new-name", false))
	assert.Equal(t, "IMG_1234_new-name", finalStem("IMG_1234.jpg", "new-name", true))
	assert.Equal(t, "same", finalStem("same.txt", "same", true), "no prefix when stems match")
}

func TestResolveTarget(t *testing.T) {
	assert.Equal(t,
		filepath.Join("/dst", "Document", "report.pdf"),
		resolveTarget("/dst", llm.CategoryDocument, "report", "PDF"),
	)
	assert.Equal(t,
		filepath.Join("/dst", "Other", "blob"),
		resolveTarget("/dst", llm.CategoryOther, "blob", ""),
	)
}
