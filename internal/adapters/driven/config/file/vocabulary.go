package file

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/nerstat/internal/core/domain"
)

// vocabularyFile is the YAML layout of an entity vocabulary:
//
//	entity_types:
//	  - code: PER
//	    description: 人名
type vocabularyFile struct {
	EntityTypes []domain.EntityTypeDescription `yaml:"entity_types"`
}

// LoadVocabulary returns the default vocabulary extended by the YAML file at path.
// Entries in the file replace default descriptions and add new codes.
// An empty path returns the default vocabulary.
func LoadVocabulary(path string) (*domain.EntityVocabulary, error) {
	vocab := domain.DefaultEntityVocabulary()
	if path == "" {
		return vocab, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}

	var f vocabularyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: parse vocabulary %s: %w", domain.ErrInvalidInput, path, err)
	}

	for _, e := range f.EntityTypes {
		vocab.Set(e.Code, e.Description)
	}
	return vocab, nil
}

// WriteVocabulary writes vocab to path in the LoadVocabulary layout.
func WriteVocabulary(path string, vocab *domain.EntityVocabulary) error {
	data, err := yaml.Marshal(vocabularyFile{EntityTypes: vocab.Entries()})
	if err != nil {
		return fmt.Errorf("encode vocabulary: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}
