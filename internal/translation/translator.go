// internal/translation/translator.go
package translation

import "context"

// Translator is the external translation capability. Implementations take
// an ordered list of source strings and return an equal-length ordered list
// of translations. The worker tolerates and repairs length mismatches, so
// implementations should return whatever they managed to parse rather than
// fail the whole batch.
type Translator interface {
	TranslateBatch(ctx context.Context, texts []string) ([]string, error)
}
