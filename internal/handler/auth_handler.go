package handler

import (
	"encoding/json"
	"net/http"

	"storefront-api/internal/middleware"
	"storefront-api/internal/model"
	"storefront-api/internal/service"
	"storefront-api/internal/validate"
	"storefront-api/pkg/apierror"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	user, err := h.service.Signup(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "User created successfully", user)
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	if errs := validate.Signin(payload); len(errs) > 0 {
		writeError(w, apierror.Validation(errs))
		return
	}

	result, err := h.service.Signin(r.Context(), payload.Login, payload.Password, middleware.ObservedIP(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.APIResponse{
		Success: true,
		Message: "Signin successful",
		Token:   result.Token,
		User:    result.User,
	})
}

// Logout is stateless: tokens are not persisted server-side, so there is
// nothing to revoke. The endpoint exists for client symmetry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, "Logout successful", nil)
}
