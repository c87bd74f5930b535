package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRenameResponse(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantName string
		wantErr  bool
	}{
		{
			name:     "clean block",
			raw:      "<response><new_name>Quarterly_Report_2024</new_name><reason>title says so</reason></response>",
			wantName: "Quarterly_Report_2024",
		},
		{
			name:     "surrounded by prose",
			raw:      "Sure! Here is my suggestion:\n<response><new_name>Cat_Photo</new_name></response>\nHope that helps.",
			wantName: "Cat_Photo",
		},
		{
			name:     "inside code fence",
			raw:      "```xml\n<response><new_name>Fenced_Name</new_name></response>\n```",
			wantName: "Fenced_Name",
		},
		{
			name:     "missing wrapper but inner tag present",
			raw:      "<new_name>Bare_Inner</new_name>",
			wantName: "Bare_Inner",
		},
		{
			name:     "cdata payload",
			raw:      "<response><new_name><![CDATA[Wrapped_Name]]></new_name></response>",
			wantName: "Wrapped_Name",
		},
		{
			name:    "no block at all",
			raw:     "I cannot help with that.",
			wantErr: true,
		},
		{
			name:    "block without new_name",
			raw:     "<response><reason>only a reason</reason></response>",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := parseRenameResponse(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsMalformed(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, res.NewName)
		})
	}
}

func TestParseKeepResponse(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantKeep bool
	}{
		{"true", "<response><keep_original>true</keep_original></response>", true},
		{"yes", "<response><keep_original>yes</keep_original></response>", true},
		{"one", "<response><keep_original>1</keep_original></response>", true},
		{"false", "<response><keep_original>false</keep_original></response>", false},
		{"no", "<response><keep_original>no</keep_original></response>", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := parseKeepResponse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKeep, res.KeepOriginal)
		})
	}

	_, err := parseKeepResponse("<response><reason>no verdict</reason></response>")
	require.Error(t, err)
	assert.True(t, IsMalformed(err))
}

func TestParseCategoryResponseXML(t *testing.T) {
	raw := `<response>
	  <file index="0"><category>Document</category><reason>report text</reason></file>
	  <file index="2"><category>Image</category></file>
	</response>`

	cats, reasons, err := parseCategoryResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, CategoryDocument, cats[0])
	assert.Equal(t, CategoryImage, cats[2])
	assert.Equal(t, "report text", reasons[0])

	// Index 1 was dropped by the model; the parser must not invent it.
	_, ok := cats[1]
	assert.False(t, ok)
}

func TestParseCategoryResponsePlainLines(t *testing.T) {
	raw := "file_0: Document - monthly report\nfile_1: Spreadsheet\nfile_3: images"

	cats, reasons, err := parseCategoryResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, CategoryDocument, cats[0])
	assert.Equal(t, CategorySpreadsheet, cats[1])
	assert.Equal(t, CategoryImage, cats[3])
	assert.Equal(t, "monthly report", reasons[0])
	assert.Empty(t, reasons[1])
}

func TestParseCategoryResponseIndicesNotRenumbered(t *testing.T) {
	// Out-of-order, sparse indices must survive exactly as written.
	raw := "file_7: Audio\nfile_3: Video"

	cats, _, err := parseCategoryResponse(raw)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, CategoryAudio, cats[7])
	assert.Equal(t, CategoryVideo, cats[3])
}

func TestParseCategoryResponseEmpty(t *testing.T) {
	_, _, err := parseCategoryResponse("nothing useful here")
	require.Error(t, err)
	assert.True(t, IsMalformed(err))
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"Document", CategoryDocument},
		{"documents", CategoryDocument},
		{"IMAGE", CategoryImage},
		{"pictures", CategoryImage},
		{"Spreadsheet (financial)", CategorySpreadsheet},
		{"totally made up", CategoryOther},
		{"", CategoryOther},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeCategory(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeReasonDropsPlaceholders(t *testing.T) {
	assert.Empty(t, normalizeReason("short justification"))
	assert.Empty(t, normalizeReason("  N/A "))
	assert.Equal(t, "manual for a gas fireplace", normalizeReason("manual  for a\tgas fireplace"))
}
