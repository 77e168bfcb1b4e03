package repository

import "context"

// AIRepository is the upstream text-generation collaborator.
type AIRepository interface {
	// Generate produces a reply for a single prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// Close releases the underlying client.
	Close() error
}
