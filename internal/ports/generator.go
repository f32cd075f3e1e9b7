package ports

import "context"

// ContentGenerator produces up to count post texts for a user request.
// It returns at least one entry or an error.
type ContentGenerator interface {
	Generate(ctx context.Context, systemPrompt, userRequest string, count int) ([]string, error)
}
