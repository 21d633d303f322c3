package handlers

import (
	"net/http"

	"github.com/apolion-games/mentorhub/internal/services"
	"github.com/apolion-games/mentorhub/types"
	"github.com/go-chi/chi/v5"
)

const defaultPersonPageSize = 10

// PersonHandler serves the consolidated person-record endpoints.
type PersonHandler struct {
	persons *services.PersonService
}

func NewPersonHandler(persons *services.PersonService) *PersonHandler {
	return &PersonHandler{persons: persons}
}

// PersonRouter registers the person-record routes on the given router.
func PersonRouter(r chi.Router, persons *services.PersonService) {
	handler := NewPersonHandler(persons)

	r.Get("/userdata/all", handler.List)
}

// PersonListResponse is the paginated person-record response payload.
type PersonListResponse struct {
	Items []types.PersonRecord `json:"items"`
	Page  int                  `json:"page"`
	Size  int                  `json:"size"`
	Total int                  `json:"total"`
}

// List returns a page of consolidated person records.
func (h *PersonHandler) List(w http.ResponseWriter, r *http.Request) {
	page, size := parsePageParams(r, defaultPersonPageSize)

	records, total, err := h.persons.List(r.Context(), page*size, size)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list records")
		return
	}

	writeJSON(w, http.StatusOK, PersonListResponse{
		Items: records,
		Page:  page,
		Size:  size,
		Total: total,
	})
}
