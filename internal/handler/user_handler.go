package handler

import (
	"net/http"

	"go-collection-api/internal/service"
)

type UserHandler struct {
	service *service.AuthService
}

func NewUserHandler(service *service.AuthService) *UserHandler {
	return &UserHandler{service: service}
}

// List returns every registered username, oldest first.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	usernames, err := h.service.ListUsernames(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, usernames)
}
