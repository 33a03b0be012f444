package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Lofienjoyerr/CafeProject/internal/adapter/logger"
	"github.com/Lofienjoyerr/CafeProject/internal/domain"
	"github.com/Lofienjoyerr/CafeProject/internal/interfaces"
)

type OrderHandler struct {
	service  interfaces.OrderService
	logger   logger.Logger
	pageSize int
}

func NewOrderHandler(service interfaces.OrderService, logger logger.Logger, pageSize int) *OrderHandler {
	return &OrderHandler{
		service:  service,
		logger:   logger,
		pageSize: pageSize,
	}
}

// OrderRequest is the create and update body. total_price and created are
// read-only and ignored when sent.
type OrderRequest struct {
	TableNumber *int     `json:"table_number"`
	Items       *[]int64 `json:"items"`
	Status      *string  `json:"status"`
}

type OrderResponse struct {
	ID          int64   `json:"id"`
	URL         string  `json:"url"`
	TableNumber int     `json:"table_number"`
	Items       []int64 `json:"items"`
	TotalPrice  int64   `json:"total_price"`
	Status      string  `json:"status"`
	Created     string  `json:"created"`
}

func (h *OrderHandler) toResponse(r *http.Request, o *domain.Order) OrderResponse {
	return OrderResponse{
		ID:          o.ID,
		URL:         absoluteURL(r, fmt.Sprintf("/orders/%d/", o.ID)),
		TableNumber: o.TableNumber,
		Items:       o.ItemIDs(),
		TotalPrice:  o.TotalPrice,
		Status:      string(o.Status),
		Created:     o.CreatedAt.In(h.service.Location()).Format(time.RFC3339Nano),
	}
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseOrderFilter(r.URL.Query(), h.service.Location())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	var orders []domain.Order
	if filter.Empty() {
		orders, err = h.service.ListOrders(r.Context())
	} else {
		orders, err = h.service.FilterOrders(r.Context(), filter)
	}
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	resp := make([]OrderResponse, len(orders))
	for i := range orders {
		resp[i] = h.toResponse(r, &orders[i])
	}
	page, err := paginate(r, resp, h.pageSize)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req OrderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if err := requireFields(req.TableNumber != nil, req.Items != nil); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	cmd := interfaces.CreateOrderCommand{
		TableNumber: *req.TableNumber,
		ItemIDs:     *req.Items,
	}
	if req.Status != nil {
		status := domain.Status(*req.Status)
		cmd.Status = &status
	}

	order, err := h.service.CreateOrder(r.Context(), cmd)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, h.toResponse(r, order))
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	order, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, h.toResponse(r, order))
}

// Update serves both PUT and PATCH. PUT must carry table_number and items.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	var req OrderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if r.Method == http.MethodPut {
		if err := requireFields(req.TableNumber != nil, req.Items != nil); err != nil {
			respondError(w, r, h.logger, err)
			return
		}
	}

	cmd := interfaces.UpdateOrderCommand{
		TableNumber: req.TableNumber,
		ItemIDs:     req.Items,
	}
	if req.Status != nil {
		status := domain.Status(*req.Status)
		cmd.Status = &status
	}

	order, err := h.service.UpdateOrder(r.Context(), id, cmd)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, h.toResponse(r, order))
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if err := h.service.DeleteOrder(r.Context(), id); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func requireFields(hasTable, hasItems bool) error {
	verr := &domain.ValidationError{}
	if !hasTable {
		verr.Add("table_number", "this field is required")
	}
	if !hasItems {
		verr.Add("items", "this field is required")
	}
	return verr.OrNil()
}

// pathID parses the {id} wildcard. A malformed id cannot name a resource.
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("id %q: %w", raw, domain.ErrNotFound)
	}
	return id, nil
}
