package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "modernc.org/sqlite"

	"github.com/lysyi3m/catalog-etl/app/catalog"
	"github.com/lysyi3m/catalog-etl/app/loader"
)

const (
	DriverDuckDB = "duckdb"
	DriverSQLite = "sqlite"

	listSeparator = "|"
)

// Sink is the columnar analytics store. Each batch is merged through a
// temporary staging table on a single pinned connection.
type Sink struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// Open connects to the store at path and creates the books table.
func Open(ctx context.Context, driver, path string) (*Sink, error) {
	switch driver {
	case DriverDuckDB, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported analytics driver %q", driver)
	}

	if dir := filepath.Dir(path); path != ":memory:" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create analytics directory: %w", err)
		}
	}

	db, err := sql.Open(driver, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	if _, err := db.ExecContext(ctx, createBooksTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create books table: %w", err)
	}

	slog.Info("Analytics store ready", "driver", driver, "path", path)

	return &Sink{db: db, driver: driver, now: time.Now}, nil
}

func (s *Sink) Name() string {
	return "analytics"
}

// Load upserts records keyed by (ingestion_date, category, asin). Rows that
// fail to stage are reported in Result.Errors and left out of the merge.
func (s *Sink) Load(ctx context.Context, records []catalog.Record) (loader.Result, error) {
	var result loader.Result

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, dropStaging); err != nil {
		return result, fmt.Errorf("failed to reset staging table: %w", err)
	}
	if _, err := conn.ExecContext(ctx, createStaging); err != nil {
		return result, fmt.Errorf("failed to create staging table: %w", err)
	}
	defer func() {
		if _, err := conn.ExecContext(context.WithoutCancel(ctx), dropStaging); err != nil {
			slog.Warn("Failed to drop staging table", "error", err)
		}
	}()

	stmt, err := conn.PrepareContext(ctx, insertStaging)
	if err != nil {
		return result, fmt.Errorf("failed to prepare staging insert: %w", err)
	}
	defer stmt.Close()

	updatedAt := s.now().UTC()
	staged := 0
	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, rowArgs(r, updatedAt)...); err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", r.Key(), err))
			continue
		}
		staged++
	}
	if staged == 0 {
		return result, nil
	}

	res, err := conn.ExecContext(ctx, mergeUpdate)
	if err != nil {
		return result, fmt.Errorf("failed to merge updates: %w", err)
	}
	updated, err := res.RowsAffected()
	if err != nil {
		return result, fmt.Errorf("failed to count updated rows: %w", err)
	}

	res, err = conn.ExecContext(ctx, mergeInsert)
	if err != nil {
		return result, fmt.Errorf("failed to merge inserts: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return result, fmt.Errorf("failed to count inserted rows: %w", err)
	}

	result.Inserted = int(inserted)
	result.Updated = int(updated)
	return result, nil
}

// Count returns the number of rows in the books table.
func (s *Sink) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, countBooks).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}
	return n, nil
}

func (s *Sink) Close() error {
	return s.db.Close()
}

func rowArgs(r catalog.Record, updatedAt time.Time) []any {
	return []any{
		r.IngestionDate,
		r.Category,
		r.ASIN,
		r.Title,
		r.Author,
		nullString(r.AuthorURL),
		nullString(r.Series),
		nullable(r.Price),
		nullable(r.Rating),
		nullable(r.ReviewCount),
		nullable(r.SalesRank),
		nullable(r.ReleaseDate),
		nullString(r.Publisher),
		nullString(r.Description),
		nullString(r.CoverURL),
		nullString(r.ProductURL),
		joinList(r.TopicTags),
		joinList(r.Subcategories),
		joinList(r.Keyphrases),
		nullString(r.EstimatedPOV),
		nullable(r.KindleUnlimited),
		nullable(r.Audiobook),
		r.MediaVerified,
		updatedAt,
	}
}

func nullable[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func joinList(items []string) any {
	if len(items) == 0 {
		return nil
	}
	return strings.Join(items, listSeparator)
}
