package enhance

import (
	"context"

	"github.com/harborlabs/medcatalog-backend/pkg/config"
	"github.com/harborlabs/medcatalog-backend/pkg/logger"
)

// Enhancer rewrites a product description given its name. Implementations
// may fail; callers go through Tolerant, which never surfaces an error.
type Enhancer interface {
	Enhance(ctx context.Context, name, description string) (string, error)
}

// Passthrough returns the description unchanged. It stands in when no
// API key is configured.
type Passthrough struct{}

func (Passthrough) Enhance(_ context.Context, _, description string) (string, error) {
	return description, nil
}

// Tolerant wraps an Enhancer with the degrade-not-fail contract: any error
// from the backend is logged and the original description is returned.
type Tolerant struct {
	backend Enhancer
	logg    *logger.Logger
}

// NewTolerant wraps backend; a nil backend behaves as Passthrough.
func NewTolerant(backend Enhancer, logg *logger.Logger) *Tolerant {
	return &Tolerant{backend: backend, logg: logg}
}

func (t *Tolerant) Enhance(ctx context.Context, name, description string) (string, error) {
	if t == nil || t.backend == nil {
		return description, nil
	}
	enhanced, err := t.backend.Enhance(ctx, name, description)
	if err != nil {
		if t.logg != nil {
			t.logg.Warn(t.logg.WithField(ctx, "product_name", name), "description enhancement failed, keeping original")
		}
		return description, nil
	}
	if enhanced == "" {
		return description, nil
	}
	return enhanced, nil
}

// FromConfig builds the enhancer used by the import pipeline. A missing API
// key degrades to pass-through rather than failing startup.
func FromConfig(cfg config.OpenAIConfig, logg *logger.Logger) Enhancer {
	if cfg.APIKey == "" {
		return NewTolerant(nil, logg)
	}
	client, err := NewClient(cfg.APIKey)
	if err != nil {
		if logg != nil {
			logg.Warn(context.Background(), "enhancement client unavailable, descriptions pass through")
		}
		return NewTolerant(nil, logg)
	}
	return NewTolerant(client, logg)
}
