package http

import (
	"fmt"
	"net/http"

	"github.com/Lofienjoyerr/CafeProject/internal/adapter/logger"
	"github.com/Lofienjoyerr/CafeProject/internal/domain"
	"github.com/Lofienjoyerr/CafeProject/internal/interfaces"
)

type ItemHandler struct {
	service  interfaces.ItemService
	logger   logger.Logger
	pageSize int
}

func NewItemHandler(service interfaces.ItemService, logger logger.Logger, pageSize int) *ItemHandler {
	return &ItemHandler{
		service:  service,
		logger:   logger,
		pageSize: pageSize,
	}
}

type ItemRequest struct {
	Name  *string `json:"name"`
	Price *int64  `json:"price"`
}

type ItemResponse struct {
	ID    int64  `json:"id"`
	URL   string `json:"url"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

func toItemResponse(r *http.Request, item *domain.Item) ItemResponse {
	return ItemResponse{
		ID:    item.ID,
		URL:   absoluteURL(r, fmt.Sprintf("/items/%d/", item.ID)),
		Name:  item.Name,
		Price: item.Price,
	}
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListItems(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	resp := make([]ItemResponse, len(items))
	for i := range items {
		resp[i] = toItemResponse(r, &items[i])
	}
	page, err := paginate(r, resp, h.pageSize)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if err := requireItemFields(req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	item, err := h.service.CreateItem(r.Context(), interfaces.CreateItemCommand{Name: *req.Name, Price: *req.Price})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, toItemResponse(r, item))
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	item, err := h.service.GetItem(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toItemResponse(r, item))
}

// Update serves PUT and PATCH. A changed price is pushed into every order
// holding the item before the response is written.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	var req ItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if r.Method == http.MethodPut {
		if err := requireItemFields(req); err != nil {
			respondError(w, r, h.logger, err)
			return
		}
	}

	item, err := h.service.UpdateItem(r.Context(), id, interfaces.UpdateItemCommand{Name: req.Name, Price: req.Price})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toItemResponse(r, item))
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if err := h.service.DeleteItem(r.Context(), id); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func requireItemFields(req ItemRequest) error {
	verr := &domain.ValidationError{}
	if req.Name == nil {
		verr.Add("name", "this field is required")
	}
	if req.Price == nil {
		verr.Add("price", "this field is required")
	}
	return verr.OrNil()
}
