package ports

import "context"

// SecretStore keeps credentials (the generator API key) out of the state
// files. Implementations decide where secrets actually live.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
