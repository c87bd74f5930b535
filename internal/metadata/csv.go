package metadata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"tidy/internal/util"
)

const csvSampleRows = 50

// CSVExtractor reads the header row and a bounded row sample from delimited
// tabular files.
type CSVExtractor struct {
	suffixes map[string]bool
}

func NewCSVExtractor() *CSVExtractor {
	return &CSVExtractor{suffixes: suffixSet("csv", "tsv")}
}

func (e *CSVExtractor) Name() string { return "csv" }

func (e *CSVExtractor) Supports(path string) bool {
	return e.suffixes[ExtensionOf(path)]
}

func (e *CSVExtractor) Extract(path string, maxPreview int) (*FileMetadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Reason: ReasonParseFailure, Detail: err.Error()}
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Reason: ReasonParseFailure, Detail: err.Error()}
	}
	defer file.Close()

	reader := csv.NewReader(file)
	if ExtensionOf(path) == "tsv" {
		reader.Comma = '\t'
	}
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, &ExtractionError{Path: path, Reason: ReasonParseFailure, Detail: err.Error()}
	}
	rows := 0
	for rows < csvSampleRows {
		if _, err := reader.Read(); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &ExtractionError{Path: path, Reason: ReasonParseFailure, Detail: err.Error()}
		}
		rows++
	}

	columns := strings.Join(header, ", ")
	desc := fmt.Sprintf("table with columns: %s", columns)
	if rows >= csvSampleRows {
		desc = fmt.Sprintf("%s (%d+ rows)", desc, csvSampleRows)
	} else {
		desc = fmt.Sprintf("%s (%d rows)", desc, rows)
	}

	return &FileMetadata{
		Path:      path,
		Extension: ExtensionOf(path),
		Size:      info.Size(),
		Fields: map[string]string{
			FieldKeywords:    util.Shorten(columns, 200),
			FieldDescription: util.Shorten(desc, maxPreview),
		},
		ContentAware: true,
	}, nil
}
