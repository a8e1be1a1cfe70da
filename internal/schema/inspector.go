// Package schema compares the live database against the tables and columns
// the service reads and writes.
package schema

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// Expected maps a table name to the columns it must have.
type Expected map[string][]string

var DefaultExpected = Expected{
	"trend_samples": {"id", "item_name", "source", "region", "value", "collected_at", "status", "growth_rate"},
	"campaigns":     {"id", "user_id", "objective", "niche", "start_date", "end_date", "status", "created_at", "updated_at"},
	"campaign_steps": {
		"id", "campaign_id", "content_idea_id", "step_order", "step_objective",
		"description", "suggested_date", "status", "created_at",
	},
	"content_ideas": {"id", "user_id", "title", "content", "category", "format", "hooks", "created_at"},
}

type Report struct {
	Schema         string
	MissingTables  []string
	MissingColumns map[string][]string
	ExtraColumns   map[string][]string
}

// OK reports whether every expected table and column exists.
// Extra columns are informational only.
func (r *Report) OK() bool {
	return len(r.MissingTables) == 0 && len(r.MissingColumns) == 0
}

func (r *Report) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "schema %q: ", r.Schema)
	if r.OK() && len(r.ExtraColumns) == 0 {
		b.WriteString("ok\n")
		return b.String()
	}
	if r.OK() {
		b.WriteString("ok (with extra columns)\n")
	} else {
		b.WriteString("drift detected\n")
	}

	for _, t := range r.MissingTables {
		fmt.Fprintf(&b, "  missing table: %s\n", t)
	}
	for _, t := range sortedKeys(r.MissingColumns) {
		fmt.Fprintf(&b, "  %s: missing columns: %s\n", t, strings.Join(r.MissingColumns[t], ", "))
	}
	for _, t := range sortedKeys(r.ExtraColumns) {
		fmt.Fprintf(&b, "  %s: extra columns: %s\n", t, strings.Join(r.ExtraColumns[t], ", "))
	}
	return b.String()
}

const columnsQuery = `
	SELECT table_name, column_name
	FROM information_schema.columns
	WHERE table_schema = $1
	ORDER BY table_name, ordinal_position`

// Inspect reads information_schema.columns for schemaName and diffs it
// against expected. Tables outside expected are ignored.
func Inspect(ctx context.Context, db *sql.DB, schemaName string, expected Expected) (*Report, error) {
	rows, err := db.QueryContext(ctx, columnsQuery, schemaName)
	if err != nil {
		return nil, fmt.Errorf("query information_schema: %w", err)
	}
	defer rows.Close()

	actual := map[string]map[string]bool{}
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		if _, tracked := expected[table]; !tracked {
			continue
		}
		if actual[table] == nil {
			actual[table] = map[string]bool{}
		}
		actual[table][column] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns: %w", err)
	}

	return diff(schemaName, expected, actual), nil
}

func diff(schemaName string, expected Expected, actual map[string]map[string]bool) *Report {
	report := &Report{
		Schema:         schemaName,
		MissingColumns: map[string][]string{},
		ExtraColumns:   map[string][]string{},
	}

	for _, table := range sortedKeys(expected) {
		cols, found := actual[table]
		if !found {
			report.MissingTables = append(report.MissingTables, table)
			continue
		}

		want := map[string]bool{}
		for _, c := range expected[table] {
			want[c] = true
			if !cols[c] {
				report.MissingColumns[table] = append(report.MissingColumns[table], c)
			}
		}
		for c := range cols {
			if !want[c] {
				report.ExtraColumns[table] = append(report.ExtraColumns[table], c)
			}
		}
		sort.Strings(report.MissingColumns[table])
		sort.Strings(report.ExtraColumns[table])
		if len(report.MissingColumns[table]) == 0 {
			delete(report.MissingColumns, table)
		}
		if len(report.ExtraColumns[table]) == 0 {
			delete(report.ExtraColumns, table)
		}
	}
	return report
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
