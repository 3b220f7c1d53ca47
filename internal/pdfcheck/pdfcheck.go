// Package pdfcheck performs cheap local structure checks on uploaded PDFs
// before any billed external call is made.
package pdfcheck

import (
	"bytes"

	"github.com/ledongthuc/pdf"

	"github.com/atsbuddy/ats-buddy/internal/extract"
)

// headerWindow is how much of the file the structural checks inspect.
const headerWindow = 2048

// Info summarizes a structurally valid PDF.
type Info struct {
	Version   string
	PageCount int
	Warnings  []string
}

// Validate checks PDF magic bytes, refuses encrypted documents, and counts
// pages when the cross-reference table is readable. Page counting is
// best-effort: a PDF the local parser cannot walk may still be fine for the
// OCR service, so that failure only produces a warning.
func Validate(content []byte) (*Info, error) {
	if len(content) == 0 {
		return nil, &extract.Error{Reason: extract.ReasonEmptyContent, Message: "document is empty"}
	}

	if !bytes.HasPrefix(content, []byte("%PDF-")) {
		return nil, &extract.Error{
			Reason:  extract.ReasonUnsupportedFormat,
			Message: "file does not have a valid PDF header",
		}
	}

	version := ""
	if len(content) >= 8 {
		version = string(content[:8])
	}

	window := content
	if len(window) > headerWindow {
		window = window[:headerWindow]
	}
	if hasEncryptDictionary(window) {
		return nil, &extract.Error{
			Reason:  extract.ReasonPasswordProtected,
			Message: "PDF is password-protected or encrypted",
		}
	}

	info := &Info{Version: version}

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		info.Warnings = append(info.Warnings, "could not parse PDF page structure locally")
		return info, nil
	}
	info.PageCount = reader.NumPage()

	return info, nil
}

// hasEncryptDictionary looks for an /Encrypt entry followed by a delimiter,
// to avoid matching the word inside document text.
func hasEncryptDictionary(window []byte) bool {
	for _, marker := range [][]byte{[]byte("/Encrypt "), []byte("/Encrypt\n"), []byte("/Encrypt\r"), []byte("/Encrypt/")} {
		if bytes.Contains(window, marker) {
			return true
		}
	}
	return false
}
