package engine

import (
	"strings"

	"github.com/dextro-platform/fleet-console/internal/store"
)

// Classify — единая функция классификации отказов. Через нее проходят
// и структурированные ошибки API, и любые прочие сбои, поэтому обе
// ветки расходуют один и тот же бюджет ретраев.
func Classify(err error) FailureKind {
	if err == nil {
		return ""
	}

	switch {
	case store.IsNoRows(err):
		return KindNotFound
	case store.IsPermissionDenied(err):
		return KindPermission
	}

	// Текстовые сигналы без структурированного кода (legacy-провайдеры)
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "no rows"):
		return KindNotFound
	case strings.Contains(msg, "permission denied"):
		return KindPermission
	}

	// Все остальное считаем мгновенным сбоем и даем шанс ретраю
	return KindTransient
}
