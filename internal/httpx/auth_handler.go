package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/mbarhoumi/agil-backoffice/internal/domain"
)

// AuthHandler owns login and account management.
type AuthHandler struct {
	users  domain.UserRepository
	issuer *TokenIssuer
	logger *log.Entry
}

// NewAuthHandler builds the handler.
func NewAuthHandler(users domain.UserRepository, issuer *TokenIssuer, logger *log.Entry) *AuthHandler {
	if logger == nil {
		logger = log.WithField("component", "http-auth")
	}
	return &AuthHandler{users: users, issuer: issuer, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

type userView struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

func viewUser(u domain.User) userView {
	return userView{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
	}
}

// Login verifies credentials and returns a signed token. Unknown email and
// wrong password are indistinguishable to the caller.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json", Kind: "VALIDATION"})
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "email and password required", Kind: "VALIDATION"})
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid credentials", Kind: "UNAUTHORIZED"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid credentials", Kind: "UNAUTHORIZED"})
		return
	}

	token, err := h.issuer.Issue(user)
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.WithFields(log.Fields{"user_id": user.ID, "role": user.Role}).Info("user logged in")
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: viewUser(user)})
}

type createUserRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// CreateUser registers a back-office account. ADMIN only.
func (h *AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	if !actor.Is(domain.RoleAdmin) {
		writeError(w, domain.ErrForbidden)
		return
	}

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json", Kind: "VALIDATION"})
		return
	}
	if req.Email == "" || len(req.Password) < 8 || !domain.KnownRole(domain.Role(req.Role)) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "email, password (8+ chars) and a known role are required", Kind: "VALIDATION"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, err)
		return
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         domain.Role(req.Role),
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		writeError(w, err)
		return
	}

	h.logger.WithFields(log.Fields{"user_id": user.ID, "role": user.Role}).Info("user created")
	writeJSON(w, http.StatusCreated, viewUser(user))
}

// ListUsers returns every account. ADMIN only.
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	if !actor.Is(domain.RoleAdmin) {
		writeError(w, domain.ErrForbidden)
		return
	}

	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, viewUser(u))
	}
	writeJSON(w, http.StatusOK, views)
}
