// Package extractor turns uploaded affidavit documents into plain text for
// claim extraction. Only text-based PDFs are handled; scanned/image PDFs
// surface an error rather than feeding garbage into the extraction
// pipeline.
package extractor

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// openFunc opens one PDF document. The returned closer is nil for
// in-memory documents.
type openFunc func() (*pdf.Reader, io.Closer, error)

// ExtractText reads a PDF file and returns its text. It tries row-based
// extraction first (best layout preservation for schedule tables), then
// plain-text extraction, and rejects results that fail the readability
// gate.
func ExtractText(filePath string) (string, error) {
	return extract(func() (*pdf.Reader, io.Closer, error) {
		f, r, err := pdf.Open(filePath)
		if err != nil {
			return nil, nil, err
		}
		return r, f, nil
	})
}

// ExtractBytes extracts text from an in-memory PDF document, such as an
// HTTP upload that never touches the filesystem.
func ExtractBytes(data []byte) (string, error) {
	return extract(func() (*pdf.Reader, io.Closer, error) {
		r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, nil, err
		}
		return r, nil, nil
	})
}

func extract(open openFunc) (string, error) {
	pages, err := extractByRow(open)
	if err == nil && isReadableText(pages) {
		return strings.Join(pages, "\n"), nil
	}

	plain, plainErr := extractPlainText(open)
	if plainErr == nil && isReadableText([]string{plain}) {
		return plain, nil
	}

	if err != nil {
		return "", fmt.Errorf("PDF text extraction failed: %v; the document may be scanned or use custom font encodings", err)
	}
	return "", fmt.Errorf("no readable text could be extracted; the document may be scanned or use custom font encodings")
}

func extractByRow(open openFunc) (pages []string, err error) {
	// The pdf library panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	r, closer, openErr := open()
	if openErr != nil {
		return nil, openErr
	}
	if closer != nil {
		defer closer.Close()
	}

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, rowErr := page.GetTextByRow()
		if rowErr != nil {
			continue
		}
		var b strings.Builder
		for _, row := range rows {
			for j, word := range row.Content {
				if j > 0 {
					b.WriteString(" ")
				}
				b.WriteString(word.S)
			}
			b.WriteString("\n")
		}
		if text := strings.TrimSpace(b.String()); text != "" {
			pages = append(pages, text)
		}
	}
	return pages, nil
}

func extractPlainText(open openFunc) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	r, closer, openErr := open()
	if openErr != nil {
		return "", openErr
	}
	if closer != nil {
		defer closer.Close()
	}

	reader, readerErr := r.GetPlainText()
	if readerErr != nil {
		return "", readerErr
	}
	var b strings.Builder
	if _, err := io.Copy(&b, reader); err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()), nil
}

// textQuality returns the ratio of plain readable characters to total.
// Strict ASCII on purpose: identity-encoded fonts decode to accented
// garbage that unicode.IsLetter would happily accept.
func textQuality(pages []string) float64 {
	total := 0
	readable := 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
				strings.ContainsRune(`.,-/:;()'"R$%&@#!?+=*|`, r) {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

// commonWords expected in affidavits and statements. Text containing none
// of these is almost certainly mis-decoded.
var commonWords = []string{
	"expense", "monthly", "amount", "income", "claim", "affidavit",
	"account", "statement", "total", "payment", "schedule", "category",
	"date", "balance", "maintenance", "rand",
}

func containsCommonWords(pages []string) bool {
	combined := strings.ToLower(strings.Join(pages, " "))
	for _, word := range commonWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}

// isReadableText requires enough text, a high readable-character ratio,
// and at least one recognizable domain word.
func isReadableText(pages []string) bool {
	total := 0
	for _, p := range pages {
		total += len(p)
	}
	if total <= 50 {
		return false
	}
	if textQuality(pages) <= 0.6 {
		return false
	}
	return containsCommonWords(pages)
}
