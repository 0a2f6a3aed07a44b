package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mbarhoumi/agil-backoffice/internal/domain"
	"github.com/mbarhoumi/agil-backoffice/internal/service/orders"
)

// OrdersHandler exposes the order workflow over HTTP.
type OrdersHandler struct {
	svc *orders.Service
}

// NewOrdersHandler builds the handler.
func NewOrdersHandler(svc *orders.Service) *OrdersHandler {
	return &OrdersHandler{svc: svc}
}

type orderLineRequest struct {
	ProductID string `json:"product_id"`
	Qty       int32  `json:"qty"`
	UnitPrice int64  `json:"unit_price"`
}

type placeOrderRequest struct {
	Amount int64              `json:"amount"`
	Status string             `json:"status,omitempty"`
	Lines  []orderLineRequest `json:"lines"`
}

type orderLineView struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Qty       int32  `json:"qty"`
	UnitPrice int64  `json:"unit_price"`
}

type orderView struct {
	ID        string          `json:"id"`
	Reference string          `json:"reference"`
	UserID    string          `json:"user_id"`
	Status    string          `json:"status"`
	Amount    int64           `json:"amount"`
	Lines     []orderLineView `json:"lines,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func viewOrder(o domain.Order) orderView {
	view := orderView{
		ID:        o.ID,
		Reference: o.Reference,
		UserID:    o.UserID,
		Status:    string(o.Status),
		Amount:    o.Amount,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	for _, line := range o.Lines {
		view.Lines = append(view.Lines, orderLineView{
			ID:        line.ID,
			ProductID: line.ProductID,
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
		})
	}
	return view
}

func viewOrders(list []domain.Order) []orderView {
	views := make([]orderView, 0, len(list))
	for _, o := range list {
		views = append(views, viewOrder(o))
	}
	return views
}

// Place runs the transactional placement workflow.
func (h *OrdersHandler) Place(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json", Kind: "VALIDATION"})
		return
	}

	in := orders.PlaceInput{Amount: req.Amount, Status: domain.OrderStatus(req.Status)}
	for _, line := range req.Lines {
		in.Lines = append(in.Lines, orders.LineInput{
			ProductID: line.ProductID,
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
		})
	}

	order, err := h.svc.Place(r.Context(), actorFrom(r.Context()), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewOrder(order))
}

func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.svc.Get(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOrder(order))
}

func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context(), actorFrom(r.Context()), 0)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOrders(list))
}

func (h *OrdersHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListMine(r.Context(), actorFrom(r.Context()), 0)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOrders(list))
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json", Kind: "VALIDATION"})
		return
	}

	err := h.svc.UpdateStatus(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "id"), domain.OrderStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

type assignDeliveryRequest struct {
	StationID   string    `json:"station_id"`
	ScheduledAt time.Time `json:"scheduled_at,omitempty"`
}

type deliveryView struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"order_id"`
	StationID   string    `json:"station_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

func (h *OrdersHandler) AssignDelivery(w http.ResponseWriter, r *http.Request) {
	var req assignDeliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json", Kind: "VALIDATION"})
		return
	}

	d, err := h.svc.AssignDelivery(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "id"), req.StationID, req.ScheduledAt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, deliveryView{
		ID:          d.ID,
		OrderID:     d.OrderID,
		StationID:   d.StationID,
		ScheduledAt: d.ScheduledAt,
	})
}
