package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/apolion-games/mentorhub/internal/services"
	"github.com/apolion-games/mentorhub/internal/store"
	"github.com/apolion-games/mentorhub/types"
	"github.com/go-chi/chi/v5"
)

// PublicHandler serves the unauthenticated registration and salt endpoints.
type PublicHandler struct {
	registration *services.RegistrationService
	accounts     *services.AccountService
}

// NewPublicHandler constructs a PublicHandler with the provided services.
func NewPublicHandler(registration *services.RegistrationService, accounts *services.AccountService) *PublicHandler {
	return &PublicHandler{
		registration: registration,
		accounts:     accounts,
	}
}

// PublicRouter registers the public routes on the given router.
func PublicRouter(r chi.Router, registration *services.RegistrationService, accounts *services.AccountService) {
	handler := NewPublicHandler(registration, accounts)

	r.Post("/addMentee", handler.AddMentee)
	r.Post("/addMentor", handler.AddMentor)
	r.Get("/getUserSalt", handler.GetUserSalt)
	r.Get("/getNewUserSalt", handler.GetNewUserSalt)
}

// RegisterRequest is the registration payload. Password arrives pre-hashed
// by the client with the salt it fetched beforehand.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Salt     string `json:"salt"`
}

// AddMentee registers a new account with the mentee role.
func (h *PublicHandler) AddMentee(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, types.RoleMentee)
}

// AddMentor registers a new account with the mentor role.
func (h *PublicHandler) AddMentor(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, types.RoleMentor)
}

func (h *PublicHandler) register(w http.ResponseWriter, r *http.Request, role types.Role) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, OperationResult{Message: "invalid request body"})
		return
	}

	result := h.registration.Register(r.Context(), services.RegistrationRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Salt:     req.Salt,
	}, role)

	writeJSON(w, registrationStatus(result.Outcome), OperationResult{
		Success: result.Success,
		Message: result.Message,
	})
}

func registrationStatus(outcome services.Outcome) int {
	switch outcome {
	case services.OutcomeCreated:
		return http.StatusCreated
	case services.OutcomeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetUserSalt returns the stored salt for the given email so the client
// can pre-hash its credential before login.
func (h *PublicHandler) GetUserSalt(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	account, err := h.accounts.FindByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusBadRequest, OperationResult{Message: "unknown email"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, OperationResult{Message: "failed to look up salt"})
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(account.Salt))
}

// GetNewUserSalt hands out a fresh opaque value usable as a registration
// salt, derived from the current timestamp.
func (h *PublicHandler) GetNewUserSalt(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(time.Now().Format(time.RFC3339Nano)))
}
