package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dextro-platform/fleet-console/internal/console/service"
)

type FleetHandler struct {
	service *service.FleetService
}

func NewFleetHandler(s *service.FleetService) *FleetHandler {
	return &FleetHandler{service: s}
}

// Health — GET /api/v1/fleet/health
func (h *FleetHandler) Health(w http.ResponseWriter, r *http.Request) {
	fh, opErr := h.service.FleetHealthOverview(r.Context())
	if opErr != nil {
		writeOpError(w, opErr)
		return
	}
	if fh == nil {
		writeNoData(w)
		return
	}
	writeData(w, fh)
}

// Summary — GET /api/v1/fleet/summary?days=30
func (h *FleetHandler) Summary(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days")
	summary, opErr := h.service.BusinessPerformanceSummary(r.Context(), days)
	if opErr != nil {
		writeOpError(w, opErr)
		return
	}
	if summary == nil {
		writeNoData(w)
		return
	}
	writeData(w, summary)
}

// Issues — GET /api/v1/issues
func (h *FleetHandler) Issues(w http.ResponseWriter, r *http.Request) {
	report, opErr := h.service.CriticalIssues(r.Context())
	if opErr != nil {
		writeOpError(w, opErr)
		return
	}
	if report == nil {
		writeNoData(w)
		return
	}
	writeData(w, report)
}

// HighErrorDevices — GET /api/v1/devices/high-error?threshold=5
func (h *FleetHandler) HighErrorDevices(w http.ResponseWriter, r *http.Request) {
	threshold := queryInt(r, "threshold")
	report, opErr := h.service.HighErrorDevices(r.Context(), threshold)
	if opErr != nil {
		writeOpError(w, opErr)
		return
	}
	if report == nil {
		writeNoData(w)
		return
	}
	writeData(w, report)
}

// Overvoltage — GET /api/v1/overvoltage
func (h *FleetHandler) Overvoltage(w http.ResponseWriter, r *http.Request) {
	analysis, opErr := h.service.OvervoltageImpact(r.Context())
	if opErr != nil {
		writeOpError(w, opErr)
		return
	}
	if analysis == nil {
		writeNoData(w)
		return
	}
	writeData(w, analysis)
}

// Logs — GET /api/v1/logs?device_id=&location=&limit=
func (h *FleetHandler) Logs(w http.ResponseWriter, r *http.Request) {
	logs, opErr := h.service.RecentDeviceLogs(r.Context(), service.LogFilter{
		DeviceID: r.URL.Query().Get("device_id"),
		Location: r.URL.Query().Get("location"),
		Limit:    queryInt(r, "limit"),
	})
	if opErr != nil {
		writeOpError(w, opErr)
		return
	}
	if logs == nil {
		writeNoData(w)
		return
	}
	writeData(w, logs)
}

// LocationPerformance — GET /api/v1/locations/performance?location=&district=
func (h *FleetHandler) LocationPerformance(w http.ResponseWriter, r *http.Request) {
	metrics, opErr := h.service.LocationPerformance(r.Context(),
		r.URL.Query().Get("location"),
		r.URL.Query().Get("district"),
	)
	if opErr != nil {
		writeOpError(w, opErr)
		return
	}
	if metrics == nil {
		writeNoData(w)
		return
	}
	writeData(w, metrics)
}

// CustomerInfo — GET /api/v1/devices/{id}/customer
func (h *FleetHandler) CustomerInfo(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "id")
	if deviceID == "" {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "device id is required"})
		return
	}
	row, opErr := h.service.CustomerDeviceInfo(r.Context(), deviceID)
	if opErr != nil {
		writeOpError(w, opErr)
		return
	}
	if row == nil {
		writeNoData(w)
		return
	}
	writeData(w, row)
}

func queryInt(r *http.Request, key string) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
