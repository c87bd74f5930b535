package util

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

const binarySniffBytes = 512

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Typographic characters that commonly leak into previews from exported
// documents; normalized so prompts stay plain ASCII-ish.
var charReplacements = map[string]string{
	"‘": "'", "’": "'",
	"“": `"`, "”": `"`,
	"–": "-", "—": "--",
	"…": "...",
	" ": " ",
}

// IsLikelyBinary sniffs the first bytes of a file for NUL, which is a cheap
// and reliable signal that text extraction will produce garbage.
func IsLikelyBinary(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	buf := make([]byte, binarySniffBytes)
	n, err := file.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	return bytes.Contains(buf[:n], []byte{0}), nil
}

// CleanContent strips a UTF-8 BOM, replaces invalid UTF-8 sequences, and
// normalizes common typographic characters so downstream prompt building
// sees stable plain text.
func CleanContent(raw []byte) string {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if !utf8.Valid(raw) {
		raw = bytes.ToValidUTF8(raw, []byte(string(utf8.RuneError)))
	}
	text := string(raw)
	for bad, good := range charReplacements {
		text = strings.ReplaceAll(text, bad, good)
	}
	return text
}
