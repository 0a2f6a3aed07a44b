package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mbarhoumi/agil-backoffice/internal/domain"
)

// CatalogHandler exposes the product catalog and the station registry.
type CatalogHandler struct {
	products domain.ProductRepository
	stations domain.StationRepository
}

// NewCatalogHandler builds the handler.
func NewCatalogHandler(products domain.ProductRepository, stations domain.StationRepository) *CatalogHandler {
	return &CatalogHandler{products: products, stations: stations}
}

type productView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int32  `json:"quantity"`
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, productView{ID: p.ID, Name: p.Name, UnitPrice: p.UnitPrice, Quantity: p.Quantity})
	}
	writeJSON(w, http.StatusOK, views)
}

type createProductRequest struct {
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int32  `json:"quantity"`
}

// CreateProduct registers a catalog entry. ADMIN or DEPOT.
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	if !actor.Is(domain.RoleAdmin, domain.RoleDepot) {
		writeError(w, domain.ErrForbidden)
		return
	}

	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json", Kind: "VALIDATION"})
		return
	}
	if req.Name == "" || req.UnitPrice < 0 || req.Quantity < 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "name required; price and quantity must be non-negative", Kind: "VALIDATION"})
		return
	}

	now := time.Now().UTC()
	p := domain.Product{
		ID:        uuid.NewString(),
		Name:      req.Name,
		UnitPrice: req.UnitPrice,
		Quantity:  req.Quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.products.Create(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, productView{ID: p.ID, Name: p.Name, UnitPrice: p.UnitPrice, Quantity: p.Quantity})
}

type stationView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	ManagerID string `json:"manager_id,omitempty"`
}

func (h *CatalogHandler) ListStations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.stations.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]stationView, 0, len(stations))
	for _, s := range stations {
		views = append(views, stationView{ID: s.ID, Name: s.Name, Address: s.Address, ManagerID: s.ManagerID})
	}
	writeJSON(w, http.StatusOK, views)
}

type createStationRequest struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	ManagerID string `json:"manager_id,omitempty"`
}

// CreateStation registers a station. ADMIN only.
func (h *CatalogHandler) CreateStation(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	if !actor.Is(domain.RoleAdmin) {
		writeError(w, domain.ErrForbidden)
		return
	}

	var req createStationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json", Kind: "VALIDATION"})
		return
	}
	if req.Name == "" {
		writeError(w, domain.ErrStationNameRequired)
		return
	}

	s := domain.Station{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Address:   req.Address,
		ManagerID: req.ManagerID,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.stations.Create(r.Context(), s); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, stationView{ID: s.ID, Name: s.Name, Address: s.Address, ManagerID: s.ManagerID})
}
