package store

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Query — билдер табличного запроса в PostgREST-синтаксисе
// (колонка=оператор.значение). Фильтры применяются в порядке добавления.
type Query struct {
	client     *Client
	table      string
	selectCols string
	filters    []filter
	order      string
	limit      int
}

type filter struct {
	column string
	expr   string
}

// Select ограничивает выборку перечисленными колонками ("a,b,c" или "*").
func (q *Query) Select(cols string) *Query {
	if cols != "" {
		q.selectCols = cols
	}
	return q
}

func (q *Query) Eq(column string, value any) *Query {
	return q.addFilter(column, fmt.Sprintf("eq.%v", value))
}

func (q *Query) Neq(column string, value any) *Query {
	return q.addFilter(column, fmt.Sprintf("neq.%v", value))
}

// Like — чувствительный к регистру шаблонный поиск ("2025-08-21%").
func (q *Query) Like(column, pattern string) *Query {
	return q.addFilter(column, "like."+starEncode(pattern))
}

// Ilike — регистронезависимый шаблонный поиск ("%mumbai%").
func (q *Query) Ilike(column, pattern string) *Query {
	return q.addFilter(column, "ilike."+starEncode(pattern))
}

func (q *Query) In(column string, values []string) *Query {
	return q.addFilter(column, "in.("+strings.Join(values, ",")+")")
}

// Order задает сортировку; desc=true — по убыванию.
func (q *Query) Order(column string, desc bool) *Query {
	dir := "asc"
	if desc {
		dir = "desc"
	}
	q.order = column + "." + dir
	return q
}

func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

func (q *Query) addFilter(column, expr string) *Query {
	q.filters = append(q.filters, filter{column: column, expr: expr})
	return q
}

// URL собирает итоговый путь с параметрами. Вынесено отдельно ради тестов.
func (q *Query) URL() string {
	params := url.Values{}
	params.Set("select", q.selectCols)
	for _, f := range q.filters {
		params.Add(f.column, f.expr)
	}
	if q.order != "" {
		params.Set("order", q.order)
	}
	if q.limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", q.limit))
	}
	return q.client.baseURL + "/rest/v1/" + q.table + "?" + params.Encode()
}

// Run выполняет запрос. Пустой массив строк — валидный Result, не ошибка.
func (q *Query) Run(ctx context.Context) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, q.URL(), nil)
	if err != nil {
		return nil, fmt.Errorf("table %s: build request: %w", q.table, err)
	}
	return q.client.do(req)
}

// starEncode переводит SQL-шаблон '%' в PostgREST-нотацию '*'.
func starEncode(pattern string) string {
	return strings.ReplaceAll(pattern, "%", "*")
}
