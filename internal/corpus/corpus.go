// Package corpus loads and writes the FAQ corpus: an ordered list of
// question/answer records stored as a JSON array. The corpus is immutable
// once loaded; rebuilding it means re-running the scrape/expand pipeline
// and restarting the process.
package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Entry is one question/answer pair. Identity is positional: entries have
// no ID field and duplicate questions are permitted.
type Entry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ErrEmpty indicates a corpus source that parsed fine but yielded zero entries.
var ErrEmpty = errors.New("corpus contains no entries")

// DataError wraps any failure to produce a usable corpus from a source.
// It is fatal at startup: the server refuses to listen without a corpus.
type DataError struct {
	Source string
	Err    error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("corpus source %s: %v", e.Source, e.Err)
}

func (e *DataError) Unwrap() error { return e.Err }

// Load reads a corpus from the JSON file at path. It fails with *DataError
// when the file is missing, is not a JSON array of {question, answer}
// records, contains a record without a question, or yields zero entries.
// Entry order is preserved.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DataError{Source: path, Err: err}
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &DataError{Source: path, Err: fmt.Errorf("parsing JSON: %w", err)}
	}

	if len(entries) == 0 {
		return nil, &DataError{Source: path, Err: ErrEmpty}
	}

	for i, e := range entries {
		if strings.TrimSpace(e.Question) == "" {
			return nil, &DataError{Source: path, Err: fmt.Errorf("entry %d has an empty question", i)}
		}
	}

	return entries, nil
}

// Save writes entries as an indented JSON array, the format Load reads and
// the scrape/expand commands emit.
func Save(path string, entries []Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling corpus: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing corpus file: %w", err)
	}
	return nil
}
