// Package dictionary provides an offline entity extractor that matches the
// surface forms of a YAML gazetteer.
package dictionary

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/nerstat/internal/core/domain"
	"github.com/custodia-labs/nerstat/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.EntityExtractor = (*Extractor)(nil)

// BuiltinModel is the model name reported for the embedded dictionary.
const BuiltinModel = "builtin"

//go:embed default.yaml
var defaultDictionary []byte

// Entry is one gazetteer record.
type Entry struct {
	Word string `yaml:"word"`
	Type string `yaml:"type"`

	// Score is the confidence assigned to matches (default: 1.0).
	Score *float64 `yaml:"score,omitempty"`
}

type dictionaryFile struct {
	Entries []Entry `yaml:"entries"`
}

// Extractor finds dictionary words in text. Matching is literal and
// longest-first; overlapping shorter matches are discarded.
type Extractor struct {
	model   string
	entries []Entry
}

// New loads the dictionary at path. An empty path loads the built-in one.
func New(path string) (*Extractor, error) {
	data := defaultDictionary
	model := BuiltinModel
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read dictionary: %w", err)
		}
		model = path
	}
	return Parse(data, model)
}

// Parse builds an extractor from YAML dictionary data.
func Parse(data []byte, model string) (*Extractor, error) {
	var f dictionaryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: parse dictionary: %w", domain.ErrInvalidInput, err)
	}

	entries := make([]Entry, 0, len(f.Entries))
	for _, e := range f.Entries {
		e.Word = strings.TrimSpace(e.Word)
		if e.Word == "" || e.Type == "" {
			continue
		}
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return utf8.RuneCountInString(entries[i].Word) > utf8.RuneCountInString(entries[j].Word)
	})

	return &Extractor{model: model, entries: entries}, nil
}

// Name returns "dictionary".
func (e *Extractor) Name() string {
	return domain.ExtractorDictionary.String()
}

// ModelName returns the dictionary path or BuiltinModel.
func (e *Extractor) ModelName() string {
	return e.model
}

// Len returns the number of dictionary entries.
func (e *Extractor) Len() int {
	return len(e.entries)
}

// Extract returns every non-overlapping dictionary match in text, ordered by start.
func (e *Extractor) Extract(ctx context.Context, text string) ([]domain.Entity, error) {
	if text == "" {
		return nil, nil
	}

	covered := make([]bool, len(text))
	var entities []domain.Entity
	for _, entry := range e.entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for from := 0; from < len(text); {
			idx := strings.Index(text[from:], entry.Word)
			if idx < 0 {
				break
			}
			byteStart := from + idx
			byteEnd := byteStart + len(entry.Word)
			from = byteEnd

			if anyCovered(covered[byteStart:byteEnd]) {
				continue
			}
			for i := byteStart; i < byteEnd; i++ {
				covered[i] = true
			}

			score := 1.0
			if entry.Score != nil {
				score = *entry.Score
			}
			start := utf8.RuneCountInString(text[:byteStart])
			ent, err := domain.NewEntity(entry.Word, entry.Type, score, start, start+utf8.RuneCountInString(entry.Word))
			if err != nil {
				return nil, err
			}
			entities = append(entities, ent)
		}
	}

	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].Start < entities[j].Start
	})
	return entities, nil
}

func anyCovered(span []bool) bool {
	for _, c := range span {
		if c {
			return true
		}
	}
	return false
}
