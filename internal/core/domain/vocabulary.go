package domain

// UnknownDescription is returned for entity types missing from a vocabulary.
const UnknownDescription = "不明"

// EntityTypeDescription pairs a type code with its human-readable description.
type EntityTypeDescription struct {
	Code        string `yaml:"code" json:"code"`
	Description string `yaml:"description" json:"description"`
}

// EntityVocabulary maps entity type codes to descriptions.
// The vocabulary is open-ended: new model versions may emit codes that are
// not listed, and those resolve to UnknownDescription.
type EntityVocabulary struct {
	entries []EntityTypeDescription
	index   map[string]int
}

// NewEntityVocabulary builds a vocabulary preserving entry order.
// Later duplicates replace the description of earlier codes.
func NewEntityVocabulary(entries []EntityTypeDescription) *EntityVocabulary {
	v := &EntityVocabulary{
		index: make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		v.Set(e.Code, e.Description)
	}
	return v
}

// DefaultEntityVocabulary returns the type set of the xlm-roberta Japanese NER model.
func DefaultEntityVocabulary() *EntityVocabulary {
	return NewEntityVocabulary([]EntityTypeDescription{
		{Code: "O", Description: "その他"},
		{Code: "PER", Description: "人名"},
		{Code: "ORG", Description: "一般企業・組織"},
		{Code: "ORG-P", Description: "政治組織"},
		{Code: "P", Description: "政治組織"}, // short form of ORG-P
		{Code: "ORG-O", Description: "その他の組織"},
		{Code: "LOC", Description: "場所・地名"},
		{Code: "INS", Description: "施設・機関"},
		{Code: "PRD", Description: "製品"},
		{Code: "EVT", Description: "イベント"},
	})
}

// Set adds or replaces a description.
func (v *EntityVocabulary) Set(code, description string) {
	if code == "" {
		return
	}
	if i, ok := v.index[code]; ok {
		v.entries[i].Description = description
		return
	}
	v.index[code] = len(v.entries)
	v.entries = append(v.entries, EntityTypeDescription{Code: code, Description: description})
}

// Describe returns the description for code, or UnknownDescription.
func (v *EntityVocabulary) Describe(code string) string {
	if v == nil {
		return UnknownDescription
	}
	if i, ok := v.index[code]; ok {
		return v.entries[i].Description
	}
	return UnknownDescription
}

// Has reports whether code is part of the vocabulary.
func (v *EntityVocabulary) Has(code string) bool {
	if v == nil {
		return false
	}
	_, ok := v.index[code]
	return ok
}

// Entries returns a copy of the vocabulary in declaration order.
func (v *EntityVocabulary) Entries() []EntityTypeDescription {
	if v == nil {
		return nil
	}
	out := make([]EntityTypeDescription, len(v.entries))
	copy(out, v.entries)
	return out
}

// Len returns the number of type codes.
func (v *EntityVocabulary) Len() int {
	if v == nil {
		return 0
	}
	return len(v.entries)
}
