package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

const timeLayout = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}

func execQuery(ctx context.Context, q queryer, b entsql.Querier) (sql.Result, error) {
	query, args := b.Query()
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	return res, nil
}

// execAffecting runs b and returns ErrNotFound when no row was touched.
func execAffecting(ctx context.Context, q queryer, b entsql.Querier) error {
	res, err := execQuery(ctx, q, b)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func selectAll[T any](ctx context.Context, q queryer, sel *entsql.Selector, scan func(rowScanner) (T, error)) ([]T, error) {
	query, args := sel.Query()
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func selectOne[T any](ctx context.Context, q queryer, sel *entsql.Selector, scan func(rowScanner) (T, error)) (T, error) {
	query, args := sel.Query()
	v, err := scan(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		var zero T
		return zero, ErrNotFound
	}
	return v, err
}

func selectStrings(ctx context.Context, q queryer, sel *entsql.Selector) ([]string, error) {
	return selectAll(ctx, q, sel, scanString)
}

// existsInOrg returns ErrNotFound unless id exists in table within orgID.
func existsInOrg(ctx context.Context, q queryer, table, orgID, id string) error {
	_, err := selectOne(ctx, q, sqlb.Select("id").
		From(sqlb.Table(table)).
		Where(entsql.And(entsql.EQ("org_id", orgID), entsql.EQ("id", id))), scanString)
	return err
}

func scanString(r rowScanner) (string, error) {
	var s string
	err := r.Scan(&s)
	return s, err
}

// ensureInOrg checks that every id exists in table and belongs to orgID.
func ensureInOrg(ctx context.Context, q queryer, table, orgID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	uniq := dedupe(ids)
	args := make([]any, len(uniq))
	for i, id := range uniq {
		args[i] = id
	}
	found, err := selectStrings(ctx, q, sqlb.Select("id").
		From(sqlb.Table(table)).
		Where(entsql.And(entsql.EQ("org_id", orgID), entsql.In("id", args...))))
	if err != nil {
		return fmt.Errorf("check %s: %w", table, err)
	}
	if len(found) != len(uniq) {
		return fmt.Errorf("%s: %w", table, ErrInvalidReference)
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
