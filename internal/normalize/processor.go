// Package normalize converts the wide source table into normalized long
// records, one per (entity, cause, year), with category labels attached.
package normalize

import (
	"fmt"

	"mortsig/internal/config"
	"mortsig/internal/logger"
	"mortsig/internal/models"
)

// Processor handles validation and reshaping of the source table.
type Processor struct {
	validator   *Validator
	transformer *Transformer
}

// NewProcessor creates a new processor instance.
func NewProcessor(causes *config.CausesConfig, log *logger.Logger) *Processor {
	return &Processor{
		validator:   NewValidator(),
		transformer: NewTransformer(causes, log),
	}
}

// Process validates the wide rows and reshapes them into sorted long
// records. It is a pure transform: no partial output is produced on
// failure.
func (p *Processor) Process(rows []models.WideRow) ([]models.CauseDeath, error) {
	if err := p.validator.Validate(rows); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	records, err := p.transformer.Transform(rows)
	if err != nil {
		return nil, fmt.Errorf("transformation failed: %w", err)
	}

	return records, nil
}
