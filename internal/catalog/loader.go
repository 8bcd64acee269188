// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // registers the "duckdb" driver
	"github.com/rs/zerolog"

	"github.com/tomtom215/flavorrank/internal/config"
	"github.com/tomtom215/flavorrank/internal/metrics"
)

// attachAlias is the name the primary source is attached under.
const attachAlias = "catalog_src"

// Column groups of the products table. Order matters: it is the scan order.
var (
	textColumns    = []string{"name", "intl_name", "brand_name", "brand_intl_name", "year_month"}
	numericColumns = []string{"score", "f1", "f2", "f3", "f4", "f5", "f6", "checkin_count"}
	listColumns    = []string{"flavour_tags", "pictures", "similar_brands"}
)

// Loader reads the products table into a Store through an embedded DuckDB.
type Loader struct {
	cfg    *config.CatalogConfig
	logger zerolog.Logger
}

// NewLoader creates a catalog loader.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewLoader(cfg *config.CatalogConfig, logger zerolog.Logger) *Loader {
	return &Loader{
		cfg:    cfg,
		logger: logger.With().Str("component", "catalog").Logger(),
	}
}

// LoadCatalog loads the configured source, falling back to the CSV file
// when enabled, and returns the resulting Store.
func (l *Loader) LoadCatalog(ctx context.Context) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, l.cfg.LoadTimeout)
	defer cancel()

	start := time.Now()
	source := l.cfg.Source

	items, err := l.load(ctx, source)
	if err != nil {
		if source == config.CatalogSourceCSV || !l.cfg.FallbackToCSV {
			metrics.RecordCatalogLoad(source, false, 0, time.Since(start))
			return nil, fmt.Errorf("load catalog from %s: %w", source, err)
		}

		l.logger.Warn().
			Err(err).
			Str("source", source).
			Str("csv_path", l.cfg.CSVPath).
			Msg("Primary catalog source failed, falling back to CSV")
		metrics.RecordCatalogLoad(source, false, 0, time.Since(start))

		source = config.CatalogSourceCSV
		if items, err = l.load(ctx, source); err != nil {
			metrics.RecordCatalogLoad(source, false, 0, time.Since(start))
			return nil, fmt.Errorf("load catalog from csv fallback: %w", err)
		}
	}

	items = l.dropDuplicateIDs(items)

	store, err := NewStore(items)
	if err != nil {
		return nil, fmt.Errorf("build catalog store: %w", err)
	}

	minID, maxID := store.IDRange()
	l.logger.Info().
		Str("source", source).
		Int("items", store.Len()).
		Int64("min_id", int64(minID)).
		Int64("max_id", int64(maxID)).
		Dur("duration", time.Since(start)).
		Msg("Catalog loaded")
	metrics.RecordCatalogLoad(source, true, store.Len(), time.Since(start))

	return store, nil
}

// load runs the catalog query against one source on a dedicated DuckDB instance.
func (l *Loader) load(ctx context.Context, source string) ([]Item, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	defer closeQuietly(db)

	// A single connection keeps ATTACH and LOAD state in one session.
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire duckdb connection: %w", err)
	}
	defer closeQuietly(conn)

	relation, err := l.prepareSource(ctx, conn, source)
	if err != nil {
		return nil, err
	}

	present, err := sourceColumns(ctx, conn, relation)
	if err != nil {
		return nil, err
	}
	if _, ok := present["id"]; !ok {
		return nil, fmt.Errorf("source %s has no id column", source)
	}

	query := buildCatalogQuery(relation, present, l.cfg.ImputeMedian)
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer closeQuietly(rows)

	var items []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog rows: %w", err)
	}
	return items, nil
}

// prepareSource attaches the configured source and returns the relation to select from.
func (l *Loader) prepareSource(ctx context.Context, conn *sql.Conn, source string) (string, error) {
	switch source {
	case config.CatalogSourceDuckDB:
		stmt := fmt.Sprintf("ATTACH %s AS %s (READ_ONLY)", quoteLiteral(l.cfg.DuckDBPath), attachAlias)
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return "", fmt.Errorf("attach duckdb file %s: %w", l.cfg.DuckDBPath, err)
		}
		return attachAlias + "." + l.cfg.Table, nil

	case config.CatalogSourcePostgres:
		for _, stmt := range []string{"INSTALL postgres", "LOAD postgres"} {
			if _, err := conn.ExecContext(ctx, stmt); err != nil {
				return "", fmt.Errorf("%s: %w", strings.ToLower(stmt), err)
			}
		}
		stmt := fmt.Sprintf("ATTACH %s AS %s (TYPE postgres, READ_ONLY)", quoteLiteral(l.cfg.PostgresDSN), attachAlias)
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return "", fmt.Errorf("attach postgres: %w", err)
		}
		return attachAlias + "." + l.cfg.Table, nil

	case config.CatalogSourceCSV:
		// all_varchar defers typing to TRY_CAST so malformed cells become NULL
		return fmt.Sprintf("read_csv_auto(%s, header = true, all_varchar = true)", quoteLiteral(l.cfg.CSVPath)), nil

	default:
		return "", fmt.Errorf("unknown catalog source %q", source)
	}
}

// sourceColumns returns the lower-cased column names of relation mapped to
// their original spelling.
func sourceColumns(ctx context.Context, conn *sql.Conn, relation string) (map[string]string, error) {
	rows, err := conn.QueryContext(ctx, "SELECT * FROM "+relation+" LIMIT 0")
	if err != nil {
		return nil, fmt.Errorf("inspect catalog columns: %w", err)
	}
	defer closeQuietly(rows)

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read catalog columns: %w", err)
	}

	present := make(map[string]string, len(names))
	for _, n := range names {
		present[strings.ToLower(n)] = n
	}
	return present, nil
}

// buildCatalogQuery returns the SELECT that normalizes types, imputes gaps
// and preserves source order. Columns absent from the source read as NULL.
func buildCatalogQuery(relation string, present map[string]string, impute bool) string {
	col := func(name, cast string) string {
		actual, ok := present[name]
		if !ok {
			return fmt.Sprintf("CAST(NULL AS %s) AS %s", cast, quoteIdent(name))
		}
		if cast == "VARCHAR" {
			return fmt.Sprintf("CAST(%s AS VARCHAR) AS %s", quoteIdent(actual), quoteIdent(name))
		}
		return fmt.Sprintf("TRY_CAST(%s AS %s) AS %s", quoteIdent(actual), cast, quoteIdent(name))
	}

	inner := []string{"row_number() OVER () AS load_order", col("id", "BIGINT"), col("rank", "BIGINT")}
	outer := []string{quoteIdent("id"), quoteIdent("rank")}

	for _, name := range textColumns {
		inner = append(inner, col(name, "VARCHAR"))
		outer = append(outer, fmt.Sprintf("COALESCE(%s, '')", quoteIdent(name)))
	}
	for _, name := range numericColumns {
		inner = append(inner, col(name, "DOUBLE"))
		switch {
		case !impute:
			outer = append(outer, quoteIdent(name))
		case name == "checkin_count":
			outer = append(outer, fmt.Sprintf("COALESCE(%[1]s, round(median(%[1]s) OVER ()))", quoteIdent(name)))
		default:
			outer = append(outer, fmt.Sprintf("COALESCE(%[1]s, median(%[1]s) OVER ())", quoteIdent(name)))
		}
	}
	for _, name := range listColumns {
		inner = append(inner, col(name, "VARCHAR"))
		outer = append(outer, fmt.Sprintf("COALESCE(%s, '')", quoteIdent(name)))
	}

	return fmt.Sprintf(
		"WITH src AS (SELECT %s FROM %s) SELECT %s FROM src WHERE %s IS NOT NULL ORDER BY load_order",
		strings.Join(inner, ", "), relation, strings.Join(outer, ", "), quoteIdent("id"),
	)
}

// scanItem reads one row produced by buildCatalogQuery.
func scanItem(rows *sql.Rows) (Item, error) {
	var (
		id    int64
		rank  sql.NullInt64
		text  [5]string
		nums  [8]sql.NullFloat64
		lists [3]string
	)

	dest := []any{&id, &rank}
	for i := range text {
		dest = append(dest, &text[i])
	}
	for i := range nums {
		dest = append(dest, &nums[i])
	}
	for i := range lists {
		dest = append(dest, &lists[i])
	}
	if err := rows.Scan(dest...); err != nil {
		return Item{}, err
	}

	it := NewItem(ItemID(id))
	if rank.Valid {
		r := rank.Int64
		it.Rank = &r
	}
	it.Name, it.IntlName, it.BrandName, it.BrandIntlName, it.YearMonth = text[0], text[1], text[2], text[3], text[4]
	it.Score = nullFloat(nums[0])
	for i := 0; i < FlavorDims; i++ {
		it.Flavors[i] = nullFloat(nums[1+i])
	}
	it.CheckinCount = nullFloat(nums[7])
	it.FlavourTags, it.Pictures, it.SimilarBrands = lists[0], lists[1], lists[2]

	return it, nil
}

// dropDuplicateIDs keeps the first row for every id.
func (l *Loader) dropDuplicateIDs(items []Item) []Item {
	seen := make(map[ItemID]struct{}, len(items))
	out := items[:0]
	dropped := 0
	for i := range items {
		if _, dup := seen[items[i].ID]; dup {
			dropped++
			continue
		}
		seen[items[i].ID] = struct{}{}
		out = append(out, items[i])
	}
	if dropped > 0 {
		l.logger.Warn().Int("dropped", dropped).Msg("Duplicate product ids in catalog source, keeping first occurrence")
	}
	return out
}

func nullFloat(v sql.NullFloat64) float64 {
	if !v.Valid || math.IsInf(v.Float64, 0) {
		return math.NaN()
	}
	return v.Float64
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

type closer interface{ Close() error }

// closeQuietly closes c and ignores the error; used in defers.
func closeQuietly(c closer) {
	_ = c.Close() //nolint:errcheck // best-effort cleanup
}
