package mock

import (
	"context"

	"github.com/fwojciec/newsgather"
)

var _ newsgather.ArticleService = (*ArticleService)(nil)

// ArticleService is a mock implementation of newsgather.ArticleService.
type ArticleService struct {
	CreateArticleFn    func(ctx context.Context, article *newsgather.Article) error
	FindArticleByURLFn func(ctx context.Context, url string) (*newsgather.Article, error)
	FindArticlesFn     func(ctx context.Context, filter newsgather.ArticleFilter) ([]*newsgather.Article, error)
	DeleteArticleFn    func(ctx context.Context, id string) error
}

func (s *ArticleService) CreateArticle(ctx context.Context, article *newsgather.Article) error {
	return s.CreateArticleFn(ctx, article)
}

func (s *ArticleService) FindArticleByURL(ctx context.Context, url string) (*newsgather.Article, error) {
	return s.FindArticleByURLFn(ctx, url)
}

func (s *ArticleService) FindArticles(ctx context.Context, filter newsgather.ArticleFilter) ([]*newsgather.Article, error) {
	return s.FindArticlesFn(ctx, filter)
}

func (s *ArticleService) DeleteArticle(ctx context.Context, id string) error {
	return s.DeleteArticleFn(ctx, id)
}

var _ newsgather.ArticleWriter = (*ArticleWriter)(nil)

// ArticleWriter is a mock implementation of newsgather.ArticleWriter.
type ArticleWriter struct {
	CreateArticleFn func(ctx context.Context, article *newsgather.Article) error
}

func (w *ArticleWriter) CreateArticle(ctx context.Context, article *newsgather.Article) error {
	return w.CreateArticleFn(ctx, article)
}

var _ newsgather.TokenCounter = (*TokenCounter)(nil)

// TokenCounter is a mock implementation of newsgather.TokenCounter.
// A nil CountTokensFn counts nothing.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if tc.CountTokensFn == nil {
		return 0, nil
	}
	return tc.CountTokensFn(ctx, text)
}
