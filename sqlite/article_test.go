package sqlite_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fwojciec/newsgather"
	"github.com/fwojciec/newsgather/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestArticle(t *testing.T, svc *sqlite.ArticleService, url, query string, fetchedAt time.Time) *newsgather.Article {
	t.Helper()
	article := &newsgather.Article{
		URL:       url,
		Headline:  "Headline for " + url,
		Content:   "# Story\n\nBody of " + url + "\n",
		Query:     query,
		FetchedAt: fetchedAt,
	}
	require.NoError(t, svc.CreateArticle(context.Background(), article))
	return article
}

func TestArticleService_CreateArticle(t *testing.T) {
	t.Parallel()

	t.Run("creates article with generated ID, hash and timestamp", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewArticleService(setupTestDB(t))
		article := &newsgather.Article{
			URL:      "https://example.com/story",
			Headline: "Story",
			Content:  "# Story\n\nBody.\n",
			Tokens:   12,
			Query:    "storms",
		}

		err := svc.CreateArticle(context.Background(), article)
		require.NoError(t, err)

		assert.NotEmpty(t, article.ID, "ID should be generated")
		assert.Equal(t, newsgather.HashContent(article.Content), article.ContentHash)
		assert.False(t, article.FetchedAt.IsZero(), "FetchedAt should be set")

		got, err := svc.FindArticleByURL(context.Background(), article.URL)
		require.NoError(t, err)
		assert.Equal(t, article.ID, got.ID)
		assert.Equal(t, "Story", got.Headline)
		assert.Equal(t, 12, got.Tokens)
		assert.Equal(t, "storms", got.Query)
	})

	t.Run("returns error for invalid article", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewArticleService(setupTestDB(t))

		err := svc.CreateArticle(context.Background(), &newsgather.Article{})
		require.Error(t, err)
		assert.Equal(t, newsgather.EINVALID, newsgather.ErrorCode(err))
	})

	t.Run("replaces an article with the same URL and keeps its ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewArticleService(setupTestDB(t))
		ctx := context.Background()
		first := createTestArticle(t, svc, "https://example.com/a", "q", time.Time{})

		second := &newsgather.Article{
			URL:      "https://example.com/a",
			Headline: "Updated",
			Content:  "Updated body\n",
		}
		require.NoError(t, svc.CreateArticle(ctx, second))

		assert.Equal(t, first.ID, second.ID)

		all, err := svc.FindArticles(ctx, newsgather.ArticleFilter{})
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "Updated", all[0].Headline)
		assert.Equal(t, "Updated body\n", all[0].Content)
		assert.Equal(t, newsgather.HashContent("Updated body\n"), all[0].ContentHash)
	})
}

func TestArticleService_FindArticleByURL(t *testing.T) {
	t.Parallel()

	t.Run("returns ENOTFOUND for unknown URL", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewArticleService(setupTestDB(t))

		_, err := svc.FindArticleByURL(context.Background(), "https://example.com/missing")
		require.Error(t, err)
		assert.Equal(t, newsgather.ENOTFOUND, newsgather.ErrorCode(err))
	})

	t.Run("round-trips the fetch time at second precision", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewArticleService(setupTestDB(t))
		fetchedAt := time.Date(2026, 3, 1, 12, 30, 45, 0, time.UTC)
		createTestArticle(t, svc, "https://example.com/a", "", fetchedAt)

		got, err := svc.FindArticleByURL(context.Background(), "https://example.com/a")
		require.NoError(t, err)
		assert.True(t, fetchedAt.Equal(got.FetchedAt))
	})
}

func TestArticleService_FindArticles(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("returns newest first", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewArticleService(setupTestDB(t))
		createTestArticle(t, svc, "https://example.com/old", "", base)
		createTestArticle(t, svc, "https://example.com/new", "", base.Add(time.Hour))

		got, err := svc.FindArticles(context.Background(), newsgather.ArticleFilter{})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "https://example.com/new", got[0].URL)
		assert.Equal(t, "https://example.com/old", got[1].URL)
	})

	t.Run("filters by query and URL", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewArticleService(setupTestDB(t))
		createTestArticle(t, svc, "https://example.com/a", "storms", base)
		createTestArticle(t, svc, "https://example.com/b", "budget", base)
		createTestArticle(t, svc, "https://example.com/c", "storms", base)

		query := "storms"
		got, err := svc.FindArticles(context.Background(), newsgather.ArticleFilter{Query: &query})
		require.NoError(t, err)
		assert.Len(t, got, 2)

		url := "https://example.com/b"
		got, err = svc.FindArticles(context.Background(), newsgather.ArticleFilter{URL: &url})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "budget", got[0].Query)
	})

	t.Run("paginates", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewArticleService(setupTestDB(t))
		for i := range 5 {
			createTestArticle(t, svc, fmt.Sprintf("https://example.com/%d", i), "", base.Add(time.Duration(i)*time.Minute))
		}

		page, err := svc.FindArticles(context.Background(), newsgather.ArticleFilter{Limit: 2, Offset: 1})
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "https://example.com/3", page[0].URL)
		assert.Equal(t, "https://example.com/2", page[1].URL)

		rest, err := svc.FindArticles(context.Background(), newsgather.ArticleFilter{Offset: 3})
		require.NoError(t, err)
		assert.Len(t, rest, 2)
	})

	t.Run("returns empty slice when nothing matches", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewArticleService(setupTestDB(t))
		query := "nothing"

		got, err := svc.FindArticles(context.Background(), newsgather.ArticleFilter{Query: &query})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestArticleService_DeleteArticle(t *testing.T) {
	t.Parallel()

	t.Run("deletes an existing article", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewArticleService(setupTestDB(t))
		article := createTestArticle(t, svc, "https://example.com/a", "", time.Time{})

		require.NoError(t, svc.DeleteArticle(context.Background(), article.ID))

		_, err := svc.FindArticleByURL(context.Background(), article.URL)
		assert.Equal(t, newsgather.ENOTFOUND, newsgather.ErrorCode(err))
	})

	t.Run("returns ENOTFOUND for unknown ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewArticleService(setupTestDB(t))

		err := svc.DeleteArticle(context.Background(), "missing")
		assert.Equal(t, newsgather.ENOTFOUND, newsgather.ErrorCode(err))
	})
}
