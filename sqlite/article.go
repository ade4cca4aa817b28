package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/newsgather"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ newsgather.ArticleService = (*ArticleService)(nil)

const articleColumns = "id, url, headline, content, content_hash, tokens, query, fetched_at"

// ArticleService implements newsgather.ArticleService using SQLite.
type ArticleService struct {
	db *DB
}

// NewArticleService creates a new ArticleService.
func NewArticleService(db *DB) *ArticleService {
	return &ArticleService{db: db}
}

// CreateArticle stores article, replacing any article with the same URL.
// ID and ContentHash are always set; FetchedAt is set when zero.
// A replaced article keeps its ID.
func (s *ArticleService) CreateArticle(ctx context.Context, article *newsgather.Article) error {
	if err := article.Validate(); err != nil {
		return err
	}

	if article.FetchedAt.IsZero() {
		article.FetchedAt = time.Now().UTC()
	}
	article.ContentHash = newsgather.HashContent(article.Content)

	var id string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO articles (`+articleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			headline = excluded.headline,
			content = excluded.content,
			content_hash = excluded.content_hash,
			tokens = excluded.tokens,
			query = excluded.query,
			fetched_at = excluded.fetched_at
		RETURNING id
	`, uuid.New().String(), article.URL, article.Headline, article.Content, article.ContentHash,
		article.Tokens, article.Query, article.FetchedAt.UTC().Format(time.RFC3339)).Scan(&id)
	if err != nil {
		return err
	}

	article.ID = id
	return nil
}

// FindArticleByURL retrieves an article by its source URL.
func (s *ArticleService) FindArticleByURL(ctx context.Context, url string) (*newsgather.Article, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+articleColumns+" FROM articles WHERE url = ?", url)

	article, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, newsgather.Errorf(newsgather.ENOTFOUND, "article not found")
	}
	if err != nil {
		return nil, err
	}
	return article, nil
}

// FindArticles retrieves articles matching the filter, newest first.
func (s *ArticleService) FindArticles(ctx context.Context, filter newsgather.ArticleFilter) ([]*newsgather.Article, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + articleColumns + " FROM articles WHERE 1=1")

	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}
	if filter.Query != nil {
		query.WriteString(" AND query = ?")
		args = append(args, *filter.Query)
	}

	// rowid breaks ties between articles fetched within the same second.
	query.WriteString(" ORDER BY fetched_at DESC, rowid DESC")

	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := []*newsgather.Article{}
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}

	return articles, rows.Err()
}

// DeleteArticle permanently removes an article.
func (s *ArticleService) DeleteArticle(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM articles WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return newsgather.Errorf(newsgather.ENOTFOUND, "article not found")
	}

	return nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(row scanner) (*newsgather.Article, error) {
	var article newsgather.Article
	var fetchedAt string

	if err := row.Scan(&article.ID, &article.URL, &article.Headline, &article.Content,
		&article.ContentHash, &article.Tokens, &article.Query, &fetchedAt); err != nil {
		return nil, err
	}

	var err error
	article.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at")
	if err != nil {
		return nil, err
	}
	return &article, nil
}
