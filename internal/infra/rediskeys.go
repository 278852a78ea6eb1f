package infra

import "fmt"

const (
	// RedisNamespace Базовый префикс для изоляции данных проекта в Redis
	RedisNamespace = "dextro"
)

// Ключи снапшотов дашборда (презентационный кэш, ядро от них не зависит)
const (
	RedisKeyFleetHealthSnapshot = RedisNamespace + ":snapshot:fleet_health"
	RedisKeyBusinessSnapshot    = RedisNamespace + ":snapshot:business_summary"
	RedisKeyIssuesSnapshot      = RedisNamespace + ":snapshot:critical_issues"
	RedisKeyOvervoltageSnapshot = RedisNamespace + ":snapshot:overvoltage"
)

// GetSnapshotKey Генератор ключей для параметризованных снапшотов
// (например, high_error_devices с разными порогами).
func GetSnapshotKey(resource string, arg any) string {
	return fmt.Sprintf("%s:snapshot:%s:%v", RedisNamespace, resource, arg)
}
