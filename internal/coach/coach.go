// Package coach sequences prompt composition, the text-generation call,
// and conversation state for the sleep assistant. It is the only layer
// allowed to collapse classified generation failures into user-facing
// fallback text; everything below it propagates typed errors.
package coach

import "context"

// Generator is the outbound text-generation dependency.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
