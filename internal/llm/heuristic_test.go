package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tidy/internal/metadata"
)

func TestHeuristicSuggestRename(t *testing.T) {
	h := NewHeuristic()

	tests := []struct {
		name        string
		fields      map[string]string
		currentName string
		wantName    string
	}{
		{
			name:        "title wins",
			fields:      map[string]string{metadata.FieldTitle: "Project Plan 2026"},
			currentName: "doc.txt",
			wantName:    "Project-Plan-2026",
		},
		{
			name: "title plus keywords",
			fields: map[string]string{
				metadata.FieldTitle:    "Parser",
				metadata.FieldKeywords: "go, lexer, grammar",
			},
			currentName: "x.go",
			wantName:    "Parser-go-lexer",
		},
		{
			name:        "description fallback truncates to twelve words",
			fields:      map[string]string{metadata.FieldDescription: "one two three four five six seven eight nine ten eleven twelve thirteen"},
			currentName: "y.txt",
			wantName:    "one-two-three-four-five-six-seven-eight-nine-ten-eleven-twelve",
		},
		{
			name:        "stem fallback",
			fields:      nil,
			currentName: "holiday-plan.txt",
			wantName:    "holiday-plan",
		},
		{
			name:        "hex stem rejected",
			fields:      nil,
			currentName: "deadbeefdeadbeefdeadbeef.bin",
			wantName:    "file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := &metadata.FileMetadata{Extension: metadata.ExtensionOf(tt.currentName), Fields: tt.fields}
			res, err := h.SuggestRename(context.Background(), meta, tt.currentName, "")
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, res.NewName)
			assert.NotEmpty(t, res.Reason)
		})
	}
}

func TestHeuristicSuggestKeep(t *testing.T) {
	h := NewHeuristic()

	tests := []struct {
		currentName string
		wantKeep    bool
	}{
		{"550e8400-e29b-41d4-a716-446655440000.pdf", false},
		{"deadbeefcafef00ddeadbeef.jpg", false},
		{"IMG_1234.jpg", false},
		{"DSC00017.jpg", false},
		{"screenshot 2024.png", false},
		{"smith-family-reunion.jpg", true},
		{"GV60_manual.pdf", true},
	}

	for _, tt := range tests {
		t.Run(tt.currentName, func(t *testing.T) {
			res, err := h.SuggestKeep(context.Background(), &metadata.FileMetadata{}, tt.currentName, "new-name")
			require.NoError(t, err)
			assert.Equal(t, tt.wantKeep, res.KeepOriginal)
			assert.NotEmpty(t, res.Reason, "keep decisions always carry a reason")
		})
	}
}

func TestHeuristicSuggestCategories(t *testing.T) {
	h := NewHeuristic()

	cats, reasons, err := h.SuggestCategories(context.Background(), []BatchItem{
		{Index: 0, Name: "notes", Ext: "md"},
		{Index: 1, Name: "song", Ext: "mp3"},
		{Index: 2, Name: "mystery", Ext: "xyz"},
		{Index: 5, Name: "deck", Ext: "pptx"},
	}, "")
	require.NoError(t, err)
	assert.Equal(t, CategoryDocument, cats[0])
	assert.Equal(t, CategoryAudio, cats[1])
	assert.Equal(t, CategoryOther, cats[2])
	assert.Equal(t, CategoryPresentation, cats[5])
	assert.Len(t, reasons, 4)
}
