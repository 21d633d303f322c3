package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/apolion-games/mentorhub/internal/services"
	"github.com/apolion-games/mentorhub/internal/storage"
	"github.com/apolion-games/mentorhub/internal/store"
	"github.com/apolion-games/mentorhub/types"
	"github.com/go-chi/chi/v5"
)

const (
	defaultSearchPageSize = 50
	maxAvatarBytes        = 5 << 20
)

// UserHandler serves the authenticated account endpoints.
type UserHandler struct {
	accounts *services.AccountService
	avatars  storage.ObjectStorage
}

// NewUserHandler constructs a UserHandler. avatars may be nil, in which
// case the avatar endpoints report the feature as unavailable.
func NewUserHandler(accounts *services.AccountService, avatars storage.ObjectStorage) *UserHandler {
	return &UserHandler{
		accounts: accounts,
		avatars:  avatars,
	}
}

// UserRouter registers the account routes on the given router.
func UserRouter(r chi.Router, accounts *services.AccountService, avatars storage.ObjectStorage) {
	handler := NewUserHandler(accounts, avatars)

	r.Post("/login", handler.Login)
	r.Put("/user", handler.UpdateProfile)
	r.Delete("/user", handler.DeleteAccount)
	r.Put("/user/avatar", handler.UploadAvatar)
	r.Get("/user/{searchTerm}/findByUsernameOrEmail", handler.Search)
	r.Get("/user/{userID}/avatar", handler.GetAvatar)
	r.Get("/user/{userID}", handler.Profile)
}

// AccountListResponse is the paginated search response payload.
type AccountListResponse struct {
	Items []types.Account `json:"items"`
	Page  int             `json:"page"`
	Size  int             `json:"size"`
	Total int             `json:"total"`
}

// Login returns the authenticated account's data. Authentication itself
// happened in the pipeline; the issued token is already on the response
// header by the time this runs.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	account, ok := h.callerAccount(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// Search returns accounts whose name or email contains the search term.
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.callerAccount(w, r); !ok {
		return
	}

	term := chi.URLParam(r, "searchTerm")
	page, size := parsePageParams(r, defaultSearchPageSize)

	accounts, total, err := h.accounts.Search(r.Context(), term, page*size, size)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to search accounts")
		return
	}

	writeJSON(w, http.StatusOK, AccountListResponse{
		Items: accounts,
		Page:  page,
		Size:  size,
		Total: total,
	})
}

// Profile returns the account's profile, but only when the caller is the
// account owner. Cross-account profile viewing is not supported.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	account, ok := h.callerAccount(w, r)
	if !ok {
		return
	}
	if account.ID != chi.URLParam(r, "userID") {
		writeError(w, http.StatusBadRequest, "profile not available")
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// UpdateProfileRequest is the profile update payload.
type UpdateProfileRequest struct {
	Name string `json:"name"`
}

// UpdateProfile updates the caller's display name.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	account, ok := h.callerAccount(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	account.Name = name
	updated, err := h.accounts.Update(r.Context(), account)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "unknown account")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update account")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteAccount soft-deletes the caller's account. The stored avatar is
// removed best-effort; a storage failure does not undo the deletion.
func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	account, ok := h.callerAccount(w, r)
	if !ok {
		return
	}

	if err := h.accounts.SoftDelete(r.Context(), account.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "unknown account")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete account")
		return
	}
	if h.avatars != nil && account.ProfilePicture != "" {
		_ = h.avatars.Delete(r.Context(), account.ProfilePicture)
	}
	writeJSON(w, http.StatusOK, OperationResult{Success: true, Message: "account deleted"})
}

// UploadAvatar stores the caller's profile picture in object storage and
// records its key on the account.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	if h.avatars == nil {
		writeError(w, http.StatusServiceUnavailable, "avatar storage not configured")
		return
	}
	account, ok := h.callerAccount(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxAvatarBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	if len(body) == 0 {
		writeError(w, http.StatusBadRequest, "empty body")
		return
	}
	if len(body) > maxAvatarBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "avatar too large")
		return
	}

	key := storage.AvatarKey(account.ID)
	contentType := r.Header.Get("Content-Type")
	if err := h.avatars.Put(r.Context(), key, bytes.NewReader(body), int64(len(body)), contentType); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store avatar")
		return
	}
	if err := h.accounts.SetProfilePicture(r.Context(), account.ID, key); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update account")
		return
	}

	writeJSON(w, http.StatusOK, OperationResult{Success: true, Message: "avatar updated"})
}

// GetAvatar streams the caller's stored profile picture.
func (h *UserHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	if h.avatars == nil {
		writeError(w, http.StatusServiceUnavailable, "avatar storage not configured")
		return
	}
	account, ok := h.callerAccount(w, r)
	if !ok {
		return
	}
	if account.ID != chi.URLParam(r, "userID") {
		writeError(w, http.StatusBadRequest, "avatar not available")
		return
	}
	if account.ProfilePicture == "" {
		writeError(w, http.StatusNotFound, "no avatar uploaded")
		return
	}

	object, err := h.avatars.Get(r.Context(), account.ProfilePicture)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch avatar")
		return
	}
	defer object.Close()

	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, object)
}

// callerAccount resolves the pipeline principal to its account record.
// Writes the error response itself when resolution fails.
func (h *UserHandler) callerAccount(w http.ResponseWriter, r *http.Request) (types.Account, bool) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok || principal.Anonymous() {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return types.Account{}, false
	}
	account, err := h.accounts.FindByEmail(r.Context(), principal.Name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "unknown account")
			return types.Account{}, false
		}
		writeError(w, http.StatusInternalServerError, "failed to load account")
		return types.Account{}, false
	}
	return account, true
}
