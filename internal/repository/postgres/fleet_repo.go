package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Драйвер Postgres

	"github.com/dextro-platform/fleet-console/internal/store"
)

// FleetRepo — прямой SQL-доступ к базе флота для self-hosted развертываний.
// Реализует store.Provider: те же RPC-процедуры и выборки логов, что и
// REST-клиент, но через database/sql.
type FleetRepo struct {
	db *sql.DB
}

func NewFleetRepo(connString string) (*FleetRepo, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	return &FleetRepo{db: db}, nil
}

// Ping проверяет доступность базы при старте
func (r *FleetRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *FleetRepo) Close() error {
	return r.db.Close()
}

// RPC вызывает табличную функцию по имени с именованной нотацией аргументов.
// Имя функции берется из фиксированного списка операций сервиса, значения
// уходят плейсхолдерами.
func (r *FleetRepo) RPC(ctx context.Context, name string, params map[string]any) (*store.Result, error) {
	if !validIdent(name) {
		return nil, fmt.Errorf("postgres: invalid function name %q", name)
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		if !validIdent(k) {
			return nil, fmt.Errorf("postgres: invalid parameter name %q", k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]any, 0, len(keys))
	named := make([]string, 0, len(keys))
	for i, k := range keys {
		named = append(named, fmt.Sprintf("%s => $%d", k, i+1))
		args = append(args, params[k])
	}

	query := fmt.Sprintf("SELECT * FROM %s(%s)", name, strings.Join(named, ", "))
	return r.queryRows(ctx, query, args...)
}

// DeviceLogs переводит декларативный LogQuery в WHERE-условия.
func (r *FleetRepo) DeviceLogs(ctx context.Context, q store.LogQuery) (*store.Result, error) {
	cols := "*"
	if len(q.Columns) > 0 {
		quoted := make([]string, 0, len(q.Columns))
		for _, c := range q.Columns {
			if c == "*" {
				quoted = []string{"*"}
				break
			}
			if !validIdent(c) {
				return nil, fmt.Errorf("postgres: invalid column %q", c)
			}
			quoted = append(quoted, quoteIdent(c))
		}
		cols = strings.Join(quoted, ", ")
	}

	var (
		conds []string
		args  []any
	)
	addCond := func(expr string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(expr, len(args)))
	}

	if q.DeviceID != "" {
		addCond(`device_id::text = $%d`, q.DeviceID)
	}
	if q.Date != "" {
		addCond(`"CreatedOnDate"::text LIKE $%d`, q.Date+"%")
	}
	if q.Location != "" {
		addCond(`"Location" ILIKE $%d`, "%"+q.Location+"%")
	}
	if q.District != "" {
		addCond(`"District" ILIKE $%d`, "%"+q.District+"%")
	}
	for column, value := range q.Filters {
		if !validIdent(column) {
			return nil, fmt.Errorf("postgres: invalid filter column %q", column)
		}
		ident := quoteIdent(column)
		switch v := value.(type) {
		case string:
			switch {
			case strings.HasPrefix(v, "!"):
				addCond(ident+`::text <> $%d`, v[1:])
			case strings.Contains(v, "%"):
				addCond(ident+`::text LIKE $%d`, v)
			default:
				addCond(ident+`::text = $%d`, v)
			}
		default:
			addCond(ident+`::text = $%d`, fmt.Sprintf("%v", v))
		}
	}

	query := "SELECT " + cols + " FROM device_power_logs"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	if q.OrderBy != "" {
		if !validIdent(q.OrderBy) {
			return nil, fmt.Errorf("postgres: invalid order column %q", q.OrderBy)
		}
		query += " ORDER BY " + quoteIdent(q.OrderBy)
		if q.Desc {
			query += " DESC"
		}
	}
	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", q.Limit)
	}

	return r.queryRows(ctx, query, args...)
}

// CustomerByDevice достает профиль клиента по устройству.
func (r *FleetRepo) CustomerByDevice(ctx context.Context, deviceID string) (*store.Result, error) {
	return r.queryRows(ctx, `SELECT * FROM customer_profile WHERE "Device_id"::text = $1`, deviceID)
}

// queryRows выполняет запрос и складывает строки в транспортно-нейтральный
// store.Row: имена колонок — ключи, значения — как отдал драйвер
// ([]byte приводится к string, чтобы коэрсеры Row работали одинаково
// для обоих провайдеров).
func (r *FleetRepo) queryRows(ctx context.Context, query string, args ...any) (*store.Result, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("postgres: columns: %w", err)
	}

	var data []store.Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("postgres: scan: %w", err)
		}

		row := make(store.Row, len(cols))
		for i, col := range cols {
			switch v := values[i].(type) {
			case []byte:
				row[col] = string(v)
			case int64:
				row[col] = float64(v)
			default:
				row[col] = v
			}
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: rows: %w", err)
	}
	return &store.Result{Data: data}, nil
}

// validIdent пропускает только простые SQL-идентификаторы; все значения
// и так уходят плейсхолдерами, это защита для имен колонок и функций.
func validIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_':
		default:
			return false
		}
	}
	return true
}

func quoteIdent(s string) string {
	return `"` + s + `"`
}
