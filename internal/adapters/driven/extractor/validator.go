package extractor

import (
	"github.com/custodia-labs/nerstat/internal/core/domain"
	"github.com/custodia-labs/nerstat/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.ExtractorValidator = (*ConfigValidator)(nil)

// ConfigValidator validates extractor configurations.
type ConfigValidator struct{}

// NewConfigValidator creates a new extractor config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateExtractor validates an extractor configuration by pinging the backend.
func (v *ConfigValidator) ValidateExtractor(config *domain.ExtractorSettings) error {
	return ValidateExtractorConfig(config)
}
