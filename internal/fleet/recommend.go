package fleet

// Тексты рекомендаций. Порядок групп правил фиксирован:
// ошибки → температура → аптайм → дефолт.
const (
	recErrorCritical = "CRITICAL: High error rate detected - schedule immediate fleet inspection"
	recErrorWarning  = "WARNING: Multiple devices showing errors - plan maintenance cycle"
	recErrorMonitor  = "Monitor error devices and address during next maintenance window"
	recTempHigh      = "High average temperature detected - check cooling systems and clean air filters"
	recTempLow       = "Low temperature readings - verify sensors and check for winter operational issues"
	recUptimeLow     = "Low fleet uptime - investigate power supply and connectivity issues"
	recUptimeHigh    = "Excellent fleet uptime - continue current maintenance practices"
	recDefault       = "Fleet operating normally - continue regular monitoring and maintenance"
	recFallback      = "Unable to generate specific recommendations - contact support team"
)

// Recommendations строит упорядоченный список рекомендаций по четырем
// группам правил. Метрика, отсутствующая в бандле, не триггерит свою
// группу. Любая деградация входных данных дает одиночное fallback-сообщение
// вместо ошибки: отчет обязан остаться пригодным.
func Recommendations(fleetSummary, performance, errorDistribution MetricBundle) []string {
	if fleetSummary == nil {
		return []string{recFallback}
	}

	var recommendations []string

	total := fleetSummary.ValueOr("total_devices", 0)
	errDevices := fleetSummary.ValueOr("error_devices", 0)

	// 1. Правила по доле сбойных устройств
	if errDevices > 0 {
		var errorRate float64
		if total > 0 {
			errorRate = errDevices / total * 100
		}
		switch {
		case errorRate > 20:
			recommendations = append(recommendations, recErrorCritical)
		case errorRate > 10:
			recommendations = append(recommendations, recErrorWarning)
		default:
			recommendations = append(recommendations, recErrorMonitor)
		}
	}

	// 2. Правила по средней температуре (20–60 — рабочая зона)
	if avgTemp, ok := performance.Value("temperature"); ok {
		if avgTemp > 60 {
			recommendations = append(recommendations, recTempHigh)
		} else if avgTemp < 20 {
			recommendations = append(recommendations, recTempLow)
		}
	}

	// 3. Правила по аптайму (90–95 — молчим)
	if uptime, ok := fleetSummary.Value("uptime_percent"); ok {
		if uptime < 90 {
			recommendations = append(recommendations, recUptimeLow)
		} else if uptime > 95 {
			recommendations = append(recommendations, recUptimeHigh)
		}
	}

	// 4. Если ни одно правило не сработало — ровно одно дефолтное сообщение
	if len(recommendations) == 0 {
		recommendations = append(recommendations, recDefault)
	}

	return recommendations
}
