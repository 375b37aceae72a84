package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/linguacrawl"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ linguacrawl.PageService = (*PageService)(nil)

const pageColumns = "id, url, language, class, encoding, status_code, content_hash, text, fetched_at"

// PageService implements linguacrawl.PageService using SQLite.
type PageService struct {
	db *DB
}

// NewPageService creates a new PageService.
func NewPageService(db *DB) *PageService {
	return &PageService{db: db}
}

// SavePage stores page, assigning its ID and content hash. A zero
// FetchedAt is set to the current time.
func (s *PageService) SavePage(ctx context.Context, page *linguacrawl.Page) error {
	if err := page.Validate(); err != nil {
		return err
	}

	page.ID = uuid.New().String()
	page.ContentHash = hashContent(page.Text)
	if page.FetchedAt.IsZero() {
		page.FetchedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pages (`+pageColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, page.ID, page.URL, page.Language, int(page.Class), page.Encoding, page.StatusCode,
		page.ContentHash, page.Text, page.FetchedAt.UTC().Format(time.RFC3339))

	return err
}

// FindPageByURL retrieves the most recently fetched page for url.
func (s *PageService) FindPageByURL(ctx context.Context, url string) (*linguacrawl.Page, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+pageColumns+` FROM pages
		WHERE url = ?
		ORDER BY fetched_at DESC, rowid DESC
		LIMIT 1
	`, url)

	page, err := scanPage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, linguacrawl.Errorf(linguacrawl.ENOTFOUND, "page not found")
	}
	return page, err
}

// FindPages retrieves pages matching the filter in fetch order.
func (s *PageService) FindPages(ctx context.Context, filter linguacrawl.PageFilter) ([]*linguacrawl.Page, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + pageColumns + " FROM pages WHERE 1=1")
	if filter.Language != nil {
		query.WriteString(" AND language = ?")
		args = append(args, *filter.Language)
	}
	query.WriteString(" ORDER BY fetched_at ASC, rowid ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*linguacrawl.Page
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

// CountByLanguage returns the number of stored pages per language.
func (s *PageService) CountByLanguage(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT language, COUNT(*) FROM pages GROUP BY language")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var lang string
		var n int
		if err := rows.Scan(&lang, &n); err != nil {
			return nil, err
		}
		counts[lang] = n
	}
	return counts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPage(row scanner) (*linguacrawl.Page, error) {
	var page linguacrawl.Page
	var class int
	var fetchedAt string

	if err := row.Scan(&page.ID, &page.URL, &page.Language, &class, &page.Encoding,
		&page.StatusCode, &page.ContentHash, &page.Text, &fetchedAt); err != nil {
		return nil, err
	}
	page.Class = linguacrawl.PriorityClass(class)

	t, err := parseRFC3339(fetchedAt, "fetched_at")
	if err != nil {
		return nil, err
	}
	page.FetchedAt = t
	return &page, nil
}
