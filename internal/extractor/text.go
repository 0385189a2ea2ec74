// Package extractor turns statement files into the single text stream the
// parser consumes.
package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var (
	// ErrNoText is returned when a document yields no readable text.
	ErrNoText = errors.New("no readable text could be extracted; the file may be image-based or use custom font encodings")
	// ErrUnsupportedFormat is returned for binary content that is not a PDF.
	ErrUnsupportedFormat = errors.New("unsupported file format: expected PDF or UTF-8 text")
)

var (
	utf8BOM   = []byte{0xEF, 0xBB, 0xBF}
	pdfHeader = []byte("%PDF-")
)

// Load reads a statement file and returns its text.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Decode(filepath.Base(path), data)
}

// Decode returns the text of a document. PDFs are recognised by extension
// or header; everything else, CSV included, is decoded as UTF-8 text.
func Decode(name string, data []byte) (string, error) {
	if strings.EqualFold(filepath.Ext(name), ".pdf") || bytes.HasPrefix(data, pdfHeader) {
		return ExtractPDF(data)
	}
	return DecodeText(data)
}

// DecodeText validates UTF-8 and strips a leading byte-order mark.
func DecodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", ErrUnsupportedFormat
	}
	return string(data), nil
}
