package fleet

import (
	"sort"

	"github.com/dextro-platform/fleet-console/internal/store"
)

// Device — устройство с высокой частотой ошибок из rpc_high_error_devices.
type Device struct {
	DeviceID          string  `json:"device_id"`
	Location          string  `json:"location"`
	District          string  `json:"district"`
	ErrorCount        int     `json:"error_count"`
	TotalReadings     int     `json:"total_readings"`
	ErrorRatePercent  float64 `json:"error_rate_percent"`
	LastErrorDate     string  `json:"last_error_date"`
	DominantErrorCode int     `json:"dominant_error_code,omitempty"`
	CurrentStatus     string  `json:"current_status"`
}

// DeviceAlerts — счетчики для алертинга по корзинам серьезности.
// Границы корзин: rate > 20 — critical; 10 <= rate <= 20 — high_priority.
type DeviceAlerts struct {
	Critical     int `json:"critical"`
	HighPriority int `json:"high_priority"`
	Total        int `json:"total"`
	Threshold    int `json:"threshold_used"`
}

// DeviceReport — устройства, отсортированные по убыванию error rate,
// плюс корзины для алертинга.
type DeviceReport struct {
	Devices      []Device     `json:"devices"`
	Alerts       DeviceAlerts `json:"alerts"`
	MostCritical *Device      `json:"most_critical,omitempty"`
}

// DeviceFromRow разбирает строку rpc_high_error_devices. Процент ошибок
// выводится из счетчиков заново — значению из источника не доверяем.
func DeviceFromRow(row store.Row) Device {
	d := Device{
		DeviceID:          row.String("device_id"),
		Location:          row.String("location"),
		District:          row.String("district"),
		ErrorCount:        row.Int("error_count"),
		TotalReadings:     row.Int("total_readings"),
		LastErrorDate:     row.String("last_error_date"),
		DominantErrorCode: row.Int("dominant_error_code"),
		CurrentStatus:     row.String("current_status"),
	}
	if d.TotalReadings > 0 {
		d.ErrorRatePercent = round2(float64(d.ErrorCount) / float64(d.TotalReadings) * 100)
	}
	return d
}

// RankHighErrorDevices сортирует устройства по убыванию error rate
// (стабильно: равные rate сохраняют порядок источника) и раскладывает
// их по корзинам серьезности.
func RankHighErrorDevices(rows []store.Row, threshold int) DeviceReport {
	devices := make([]Device, 0, len(rows))
	for _, row := range rows {
		devices = append(devices, DeviceFromRow(row))
	}

	sort.SliceStable(devices, func(i, j int) bool {
		return devices[i].ErrorRatePercent > devices[j].ErrorRatePercent
	})

	report := DeviceReport{
		Devices: devices,
		Alerts:  DeviceAlerts{Total: len(devices), Threshold: threshold},
	}
	for _, d := range devices {
		switch {
		case d.ErrorRatePercent > 20:
			report.Alerts.Critical++
		case d.ErrorRatePercent >= 10:
			report.Alerts.HighPriority++
		}
	}
	if len(devices) > 0 {
		report.MostCritical = &devices[0]
	}
	return report
}
