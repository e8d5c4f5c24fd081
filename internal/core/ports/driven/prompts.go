package driven

// Prompt names used by LLM-backed extractors.
const (
	// PromptExtractEntities asks the model for a JSON entity list.
	// Placeholders: %s entity type list, %s text.
	PromptExtractEntities = "extract_entities"
)

// PromptStore provides user-editable prompt templates.
type PromptStore interface {
	// Load returns the template for name, falling back to the built-in default.
	Load(name string) (string, error)
}
