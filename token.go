package newsgather

import "context"

// TokenCounter counts language-model tokens in extracted Markdown.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
