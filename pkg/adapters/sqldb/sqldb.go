package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/aretw0/agentcore/pkg/domain"
	"github.com/aretw0/agentcore/pkg/provider"
	"github.com/aretw0/agentcore/pkg/registry"
)

const (
	ProviderName     = "database"
	DriverSQLite     = "sqlite"
	DriverPostgres   = "postgres"
	UnavailableError = "Database not configured"
	// MaxRows caps the rows returned by one query; longer results are flagged "truncated".
	MaxRows          = 1000
)

// Options selects the driver and data source.
type Options struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// Open opens and pings the database.
func Open(ctx context.Context, opts Options) (*sql.DB, error) {
	switch opts.Driver {
	case DriverSQLite, DriverPostgres:
	case "":
		return nil, fmt.Errorf("no database driver configured")
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
	db, err := sql.Open(opts.Driver, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", opts.Driver, err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", opts.Driver, err)
	}
	return db, nil
}

type toolset struct {
	db     *sql.DB
	driver string
}

// Tools returns the database tool table.
func Tools(db *sql.DB, driver string) []registry.Tool {
	ts := &toolset{db: db, driver: driver}
	return []registry.Tool{
		{
			Descriptor: domain.ToolDescriptor{
				Name:        "execute_query",
				Description: "Execute a SQL query",
				InputSchema: domain.InputSchema{
					Properties: map[string]domain.Property{
						"query": {Type: "string", Description: "SQL statement to execute"},
					},
					Required: []string{"query"},
				},
			},
			Handler: ts.executeQuery,
		},
		{
			Descriptor: domain.ToolDescriptor{
				Name:        "list_tables",
				Description: "List the tables in the database",
			},
			Handler: ts.listTables,
		},
	}
}

func (ts *toolset) executeQuery(ctx context.Context, args map[string]any) domain.ToolResult {
	query, err := registry.StringArg(args, "query")
	if err != nil {
		return domain.Failf(domain.KindInvalidRequest, "Database error: %v", err)
	}

	if !returnsRows(query) {
		res, err := ts.db.ExecContext(ctx, query)
		if err != nil {
			return domain.Failf(domain.KindBackend, "Database error: %v", err)
		}
		affected, _ := res.RowsAffected()
		return jsonText(map[string]any{"rows_affected": affected})
	}

	columns, rows, truncated, err := ts.query(ctx, query)
	if err != nil {
		return domain.Failf(domain.KindBackend, "Database error: %v", err)
	}
	out := map[string]any{
		"columns":   columns,
		"rows":      rows,
		"row_count": len(rows),
	}
	if truncated {
		out["truncated"] = true
	}
	return jsonText(out)
}

func (ts *toolset) listTables(ctx context.Context, _ map[string]any) domain.ToolResult {
	q := `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`
	if ts.driver == DriverPostgres {
		q = `SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' ORDER BY table_name`
	}
	_, rows, _, err := ts.query(ctx, q)
	if err != nil {
		return domain.Failf(domain.KindBackend, "Database error: %v", err)
	}
	tables := make([]string, 0, len(rows))
	for _, r := range rows {
		for _, v := range r {
			tables = append(tables, fmt.Sprint(v))
		}
	}
	return jsonText(map[string]any{"tables": tables})
}

// query reads at most MaxRows rows. truncated reports that the result had more.
func (ts *toolset) query(ctx context.Context, q string) (columns []string, out []map[string]any, truncated bool, err error) {
	rows, err := ts.db.QueryContext(ctx, q)
	if err != nil {
		return nil, nil, false, err
	}
	defer rows.Close()

	columns, err = rows.Columns()
	if err != nil {
		return nil, nil, false, err
	}

	out = make([]map[string]any, 0)
	for rows.Next() {
		if len(out) == MaxRows {
			truncated = true
			break
		}
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, false, err
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		out = append(out, row)
	}
	return columns, out, truncated, rows.Err()
}

func returnsRows(q string) bool {
	fields := strings.Fields(q)
	if len(fields) == 0 {
		return true
	}
	switch strings.ToUpper(fields[0]) {
	case "SELECT", "WITH", "PRAGMA", "SHOW", "EXPLAIN", "VALUES":
		return true
	}
	return false
}

func jsonText(v any) domain.ToolResult {
	res, err := domain.JSONText(v)
	if err != nil {
		return domain.Failf(domain.KindBackend, "Database error: %v", err)
	}
	return res
}

// NewProvider opens the configured database. Failure leaves the provider unavailable.
func NewProvider(ctx context.Context, opts Options, logger *slog.Logger) (*provider.Provider, func() error) {
	db, err := Open(ctx, opts)
	status := provider.Ready()
	closer := func() error { return nil }
	if err != nil {
		logger.Warn("Database unavailable", "driver", opts.Driver, "err", err)
		status = provider.Unavailable(UnavailableError)
	} else {
		logger.Info("Database connected", "driver", opts.Driver)
		closer = db.Close
	}
	return NewProviderWithDB(db, opts.Driver, status, logger), closer
}

// NewProviderWithDB builds the provider over an open handle.
func NewProviderWithDB(db *sql.DB, driver string, status provider.Status, logger *slog.Logger) *provider.Provider {
	reg := registry.MustNew(Tools(db, driver)...)
	return provider.New(ProviderName, reg, status, provider.WithLogger(logger))
}
