package logging

import "context"

type contextKey string

const (
	repoKey   contextKey = "repo"
	commitKey contextKey = "commit"
)

// WithRepo adds the repository root to the context.
func WithRepo(ctx context.Context, root string) context.Context {
	return context.WithValue(ctx, repoKey, root)
}

// WithCommit adds the commit under review to the context.
func WithCommit(ctx context.Context, commit string) context.Context {
	return context.WithValue(ctx, commitKey, commit)
}

// GetRepo retrieves the repository root from the context.
// Returns empty string if not present.
func GetRepo(ctx context.Context) string {
	if v, ok := ctx.Value(repoKey).(string); ok {
		return v
	}
	return ""
}

// GetCommit retrieves the commit from the context.
// Returns empty string if not present.
func GetCommit(ctx context.Context) string {
	if v, ok := ctx.Value(commitKey).(string); ok {
		return v
	}
	return ""
}
