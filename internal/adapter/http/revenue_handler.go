package http

import (
	"net/http"

	"github.com/Lofienjoyerr/CafeProject/internal/adapter/logger"
	"github.com/Lofienjoyerr/CafeProject/internal/domain"
	"github.com/Lofienjoyerr/CafeProject/internal/interfaces"
)

type RevenueHandler struct {
	service interfaces.OrderService
	logger  logger.Logger
}

func NewRevenueHandler(service interfaces.OrderService, logger logger.Logger) *RevenueHandler {
	return &RevenueHandler{service: service, logger: logger}
}

type RevenueRequest struct {
	Date string `json:"date"`
}

type RevenueResponse struct {
	Revenue int64 `json:"revenue"`
}

func (h *RevenueHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req RevenueRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if req.Date == "" {
		respondError(w, r, h.logger, domain.NewValidationError("date", "this field is required"))
		return
	}
	date, err := parseDate(req.Date, h.service.Location())
	if err != nil {
		respondError(w, r, h.logger, domain.NewValidationError("date", err.Error()))
		return
	}

	revenue, err := h.service.Revenue(r.Context(), date)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, RevenueResponse{Revenue: revenue})
}
