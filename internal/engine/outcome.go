package engine

import "github.com/dextro-platform/fleet-console/internal/store"

// FailureKind — нормализованная таксономия отказов удаленного хранилища.
type FailureKind string

const (
	KindTransient  FailureKind = "transient"  // мгновенный сбой сети/провайдера, ретраим
	KindPermission FailureKind = "permission" // отказ авторизации, ретрай не поможет
	KindNotFound   FailureKind = "not_found"  // данных нет — это не ошибка
	KindMalformed  FailureKind = "malformed"  // битое значение, деградируем в дефолт
	KindFatal      FailureKind = "fatal"      // бюджет попыток исчерпан
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusEmpty   Status = "empty"
	StatusFailed  Status = "failed"
)

// Outcome — единый тегированный результат любой операции доступа к данным.
// Вызывающему не нужен обработчик паник или исключительных ситуаций:
// каждая ветка исполнения возвращает Outcome.
type Outcome struct {
	Status  Status
	Rows    []store.Row
	Kind    FailureKind
	Message string
}

func Success(rows []store.Row) Outcome {
	return Outcome{Status: StatusSuccess, Rows: rows}
}

// Empty — запрос корректен, строк нет. Отсутствие данных не ретраится.
func Empty() Outcome {
	return Outcome{Status: StatusEmpty}
}

func Failed(kind FailureKind, message string) Outcome {
	return Outcome{Status: StatusFailed, Kind: kind, Message: message}
}

func (o Outcome) IsSuccess() bool { return o.Status == StatusSuccess }
func (o Outcome) IsEmpty() bool   { return o.Status == StatusEmpty }
func (o Outcome) IsFailed() bool  { return o.Status == StatusFailed }
