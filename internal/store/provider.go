package store

import (
	"context"
	"fmt"
	"strings"
)

// Provider — источник строк для сервисного слоя. Две реализации:
// REST-клиент (этот пакет) и прямой SQL-доступ (repository/postgres).
// Выбор делает конфигурация, сервис о транспорте не знает.
type Provider interface {
	// RPC вызывает именованную процедуру, возвращающую TABLE-формат.
	RPC(ctx context.Context, name string, params map[string]any) (*Result, error)
	// DeviceLogs читает device_power_logs по декларативному запросу.
	DeviceLogs(ctx context.Context, q LogQuery) (*Result, error)
	// CustomerByDevice достает профиль клиента по идентификатору устройства.
	CustomerByDevice(ctx context.Context, deviceID string) (*Result, error)
	// Ping проверяет доступность провайдера при старте и для health-чека.
	Ping(ctx context.Context) error
}

// LogQuery — декларативное описание выборки из device_power_logs.
// Транспортно-нейтральное: REST-провайдер переводит его в PostgREST-параметры,
// SQL-провайдер — в WHERE-условия.
type LogQuery struct {
	Columns  []string       // пустой список — все колонки
	DeviceID string         // точное совпадение device_id
	Date     string         // префикс CreatedOnDate (YYYY-MM-DD)
	Location string         // подстрока Location без учета регистра
	District string         // подстрока District без учета регистра
	Filters  map[string]any // колонка → значение; строка "!x" — neq, с '%' — like
	OrderBy  string
	Desc     bool
	Limit    int
}

// DeviceLogs реализует Provider поверх табличного билдера.
func (c *Client) DeviceLogs(ctx context.Context, q LogQuery) (*Result, error) {
	query := c.Table("device_power_logs")
	if len(q.Columns) > 0 {
		query.Select(strings.Join(q.Columns, ","))
	}
	if q.DeviceID != "" {
		query.Eq("device_id", q.DeviceID)
	}
	if q.Date != "" {
		query.Like("CreatedOnDate", q.Date+"%")
	}
	if q.Location != "" {
		query.Ilike("Location", "%"+q.Location+"%")
	}
	if q.District != "" {
		query.Ilike("District", "%"+q.District+"%")
	}
	for column, value := range q.Filters {
		applyFilter(query, column, value)
	}
	if q.OrderBy != "" {
		query.Order(q.OrderBy, q.Desc)
	}
	if q.Limit > 0 {
		query.Limit(q.Limit)
	}
	return query.Run(ctx)
}

// applyFilter повторяет соглашение фильтров дашборда: "!x" — не равно,
// шаблон с '%' — like, список — in, остальное — точное совпадение.
func applyFilter(q *Query, column string, value any) {
	switch v := value.(type) {
	case []string:
		q.In(column, v)
	case string:
		switch {
		case strings.HasPrefix(v, "!"):
			q.Neq(column, v[1:])
		case strings.Contains(v, "%"):
			q.Like(column, v)
		default:
			q.Eq(column, v)
		}
	default:
		q.Eq(column, fmt.Sprintf("%v", v))
	}
}

// CustomerByDevice реализует Provider поверх таблицы customer_profile.
func (c *Client) CustomerByDevice(ctx context.Context, deviceID string) (*Result, error) {
	return c.Table("customer_profile").Eq("Device_id", deviceID).Run(ctx)
}

// Ping дергает самый дешевый табличный запрос: достаточно убедиться,
// что эндпоинт отвечает и ключ принят.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Table("device_power_logs").Select("device_id").Limit(1).Run(ctx)
	if err != nil {
		return fmt.Errorf("store ping: %w", err)
	}
	return nil
}
