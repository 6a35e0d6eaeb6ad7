package scrape

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/knurex/faqbot/internal/corpus"
)

// FromPDF extracts substantial paragraphs from a local admission-rules
// PDF and shapes them like the admission page entries.
func FromPDF(path string) ([]corpus.Entry, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	var entries []corpus.Entry
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract page %d of %s: %w", i, path, err)
		}
		for _, txt := range splitParagraphs(text) {
			if utf8.RuneCountInString(txt) < minParagraphRunes {
				continue
			}
			entries = append(entries, corpus.Entry{
				Question: fmt.Sprintf("Що потрібно знати абітурієнту? %s?", truncateRunes(txt, 60)),
				Answer:   txt,
			})
		}
	}
	return entries, nil
}

// splitParagraphs treats blank lines as paragraph boundaries and collapses
// internal whitespace the same way the HTML path does.
func splitParagraphs(text string) []string {
	var out []string
	for _, block := range strings.Split(text, "\n\n") {
		if cleaned := cleanText(block); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}
