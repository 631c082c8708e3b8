package handler

import (
	"net/http"

	"github.com/metinatakli/showtime-booking/api"
	"github.com/metinatakli/showtime-booking/internal/jsonutil"
)

type HealthcheckHandler struct {
	version string
	env     string
}

func NewHealthcheckHandler(version, env string) *HealthcheckHandler {
	return &HealthcheckHandler{
		version: version,
		env:     env,
	}
}

func (h *HealthcheckHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := "UP"
	systemInfo := api.SystemInfo{
		Version:     h.version,
		Environment: h.env,
	}

	resp := api.HealthcheckResponse{
		Status:     status,
		SystemInfo: systemInfo,
	}

	err := jsonutil.WriteJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}
