package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mbarhoumi/agil-backoffice/internal/domain"
	"github.com/mbarhoumi/agil-backoffice/internal/service/complaints"
)

// ComplaintsHandler exposes complaint filing and treatment over HTTP.
type ComplaintsHandler struct {
	svc *complaints.Service
}

// NewComplaintsHandler builds the handler.
func NewComplaintsHandler(svc *complaints.Service) *ComplaintsHandler {
	return &ComplaintsHandler{svc: svc}
}

type createComplaintRequest struct {
	Description string `json:"description"`
	Type        string `json:"type"`
	ManagerID   string `json:"manager_id,omitempty"`
}

type complaintView struct {
	ID           string    `json:"id"`
	Description  string    `json:"description"`
	Type         string    `json:"type"`
	Status       string    `json:"status"`
	ManagerID    string    `json:"manager_id"`
	CommercialID string    `json:"commercial_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func viewComplaint(c domain.Complaint) complaintView {
	return complaintView{
		ID:           c.ID,
		Description:  c.Description,
		Type:         c.Type,
		Status:       string(c.Status),
		ManagerID:    c.ManagerID,
		CommercialID: c.CommercialID,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func viewComplaints(list []domain.Complaint) []complaintView {
	views := make([]complaintView, 0, len(list))
	for _, c := range list {
		views = append(views, viewComplaint(c))
	}
	return views
}

// Create files a complaint. GERANT and COMMERCIAL only.
func (h *ComplaintsHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	if !actor.Is(domain.RoleGerant, domain.RoleCommercial) {
		writeError(w, domain.ErrForbidden)
		return
	}

	var req createComplaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json", Kind: "VALIDATION"})
		return
	}

	c, err := h.svc.Create(r.Context(), actor, complaints.CreateInput{
		Description: req.Description,
		Type:        req.Type,
		ManagerID:   req.ManagerID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewComplaint(c))
}

func (h *ComplaintsHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Get(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewComplaint(c))
}

func (h *ComplaintsHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context(), actorFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewComplaints(list))
}

func (h *ComplaintsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListMine(r.Context(), actorFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewComplaints(list))
}

func (h *ComplaintsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json", Kind: "VALIDATION"})
		return
	}

	err := h.svc.UpdateStatus(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "id"), domain.ComplaintStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}
