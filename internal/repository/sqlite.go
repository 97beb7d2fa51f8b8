package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/klotho/internal/domain"
)

const bookmarkColumns = `id, title, url, description, created_at, updated_at`

// SQLRepository implements BookmarkRepository on a database/sql pool.
// It owns no state besides the handle and a clock.
type SQLRepository struct {
	db  *sql.DB
	now func() time.Time
}

// Option customizes a SQLRepository.
type Option func(*SQLRepository)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(r *SQLRepository) {
		r.now = now
	}
}

// NewSQLRepository wraps an already opened (and migrated) pool.
func NewSQLRepository(db *sql.DB, opts ...Option) *SQLRepository {
	r := &SQLRepository{
		db:  db,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// timestamps are persisted as UTC unix milliseconds
func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

func (r *SQLRepository) clock() time.Time {
	return r.now().UTC().Truncate(time.Millisecond)
}

// nullable hands drivers a plain value or nil instead of a pointer.
func nullable(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBookmark(row rowScanner) (domain.Bookmark, error) {
	var (
		b           domain.Bookmark
		url         sql.NullString
		description sql.NullString
		createdAt   int64
		updatedAt   int64
	)
	if err := row.Scan(&b.ID, &b.Title, &url, &description, &createdAt, &updatedAt); err != nil {
		return domain.Bookmark{}, err
	}
	if url.Valid {
		b.URL = &url.String
	}
	if description.Valid {
		b.Description = &description.String
	}
	b.CreatedAt = fromMillis(createdAt)
	b.UpdatedAt = fromMillis(updatedAt)
	return b, nil
}

func notFound(id int64) *Error {
	return newError(KindNotFound, fmt.Errorf("bookmark #%d not found", id))
}

// classify turns a single-row scan error into a repository error.
func classify(id int64, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(id)
	}
	return newError(KindOther, err)
}

// Fetch returns just one bookmark.
func (r *SQLRepository) Fetch(ctx context.Context, id int64) (domain.Bookmark, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bookmarkColumns+` FROM bookmarks WHERE id = ?`, id)

	b, err := scanBookmark(row)
	if err != nil {
		return domain.Bookmark{}, classify(id, err)
	}
	return b, nil
}

// FetchRange returns bookmarks filtered on created_at, ordered by created_at
// then id in the requested direction.
func (r *SQLRepository) FetchRange(ctx context.Context, rng domain.Range) ([]domain.Bookmark, error) {
	var (
		where string
		args  []any
	)
	switch {
	case rng.Since != nil && rng.Until != nil:
		where = `created_at BETWEEN ? AND ?`
		args = []any{toMillis(*rng.Since), toMillis(*rng.Until)}
	case rng.Since != nil:
		where = `created_at >= ?`
		args = []any{toMillis(*rng.Since)}
	case rng.Until != nil:
		where = `created_at <= ?`
		args = []any{toMillis(*rng.Until)}
	default:
		return nil, newError(KindValidation, errors.New("unbound range fetch is prohibited"))
	}

	order := "ASC"
	if rng.Descending {
		order = "DESC"
	}

	query := fmt.Sprintf(`SELECT %s FROM bookmarks WHERE %s ORDER BY created_at %s, id %s`,
		bookmarkColumns, where, order, order)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, newError(KindOther, err)
	}
	defer rows.Close()

	bookmarks := make([]domain.Bookmark, 0)
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, newError(KindOther, err)
		}
		bookmarks = append(bookmarks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, newError(KindOther, err)
	}
	return bookmarks, nil
}

// Create registers a new bookmark.
func (r *SQLRepository) Create(ctx context.Context, req domain.CreateRequest) (domain.Bookmark, error) {
	if err := req.Validate(); err != nil {
		return domain.Bookmark{}, newError(KindValidation, err)
	}

	now := toMillis(r.clock())
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO bookmarks (title, url, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING `+bookmarkColumns,
		req.Title, nullable(req.URL), nullable(req.Description), now, now)

	b, err := scanBookmark(row)
	if err != nil {
		return domain.Bookmark{}, newError(KindOther, err)
	}
	return b, nil
}

// Update overwrites an existing bookmark. A missing id yields ErrNotFound.
func (r *SQLRepository) Update(ctx context.Context, req domain.UpdateRequest) (domain.Bookmark, error) {
	if err := req.Validate(); err != nil {
		return domain.Bookmark{}, newError(KindValidation, err)
	}

	now := toMillis(r.clock())
	row := r.db.QueryRowContext(ctx,
		`UPDATE bookmarks
		 SET title = ?, url = ?, description = ?, updated_at = MAX(updated_at, ?)
		 WHERE id = ?
		 RETURNING `+bookmarkColumns,
		req.Title, nullable(req.URL), nullable(req.Description), now, req.ID)

	b, err := scanBookmark(row)
	if err != nil {
		return domain.Bookmark{}, classify(req.ID, err)
	}
	return b, nil
}

// Delete removes a bookmark and returns the deleted row.
func (r *SQLRepository) Delete(ctx context.Context, id int64) (domain.Bookmark, error) {
	row := r.db.QueryRowContext(ctx,
		`DELETE FROM bookmarks WHERE id = ? RETURNING `+bookmarkColumns, id)

	b, err := scanBookmark(row)
	if err != nil {
		return domain.Bookmark{}, classify(id, err)
	}
	return b, nil
}

func (r *SQLRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return newError(KindOther, err)
	}
	return nil
}
