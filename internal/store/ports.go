package store

import "context"

// Storage keys on the persistence boundary. The nova_ prefix keeps the keys
// compatible with payloads written by earlier versions of the app.
const (
	KeyUserType     = "nova_user_type"
	KeyTransactions = "nova_transactions"
	KeyTheme        = "nova_theme"
)

// KV is the persistence boundary: an opaque string-keyed store. Reads report
// absence instead of failing; writes are last-write-wins.
type KV interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
