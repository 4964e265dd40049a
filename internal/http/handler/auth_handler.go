package handler

import (
	"net/http"

	"github.com/carebase/admin-api/internal/domain"
	"github.com/carebase/admin-api/internal/service"
	"go.uber.org/zap"
)

// AuthHandler exposes the session provider
type AuthHandler struct {
	sessionService *service.SessionService
	logger         *zap.Logger
}

func NewAuthHandler(sessionService *service.SessionService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		sessionService: sessionService,
		logger:         logger,
	}
}

// SignUp godoc
// @Summary Create an account
// @Description Registers a new account and signs it in. The first account becomes the admin of the default organization; later accounts are employees. A requested role is ignored.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.SignUpRequest true "Account data"
// @Success 201 {object} domain.SessionDTO
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Email already registered"
// @Router /auth/signup [post]
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req domain.SignUpRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.sessionService.SignUp(r.Context(), &req)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "sign up")
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

// SignIn godoc
// @Summary Sign in
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.SignInRequest true "Credentials"
// @Success 200 {object} domain.SessionDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Router /auth/signin [post]
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req domain.SignInRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.sessionService.SignIn(r.Context(), &req)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "sign in")
		return
	}

	respondJSON(w, http.StatusOK, session)
}

// Refresh godoc
// @Summary Rotate a refresh token
// @Description Exchanges a refresh token for a new session. The presented token is revoked.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.RefreshRequest true "Refresh token"
// @Success 200 {object} domain.SessionDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req domain.RefreshRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.sessionService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "refresh session")
		return
	}

	respondJSON(w, http.StatusOK, session)
}

// SignOut godoc
// @Summary Sign out
// @Description Revokes the refresh token. Unknown tokens are accepted silently.
// @Tags Auth
// @Accept json
// @Param request body domain.RefreshRequest true "Refresh token"
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Router /auth/signout [post]
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	var req domain.RefreshRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.sessionService.SignOut(r.Context(), req.RefreshToken); err != nil {
		respondServiceError(w, r, h.logger, err, "sign out")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me godoc
// @Summary Get current session
// @Description Returns the caller's profile, the capability matrix of their role and the navigation menu in the request language
// @Tags Auth
// @Produce json
// @Param lang query string false "Language code" Enums(tr, de)
// @Success 200 {object} domain.MeDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	me, err := h.sessionService.Me(r.Context())
	if err != nil {
		respondServiceError(w, r, h.logger, err, "get current user")
		return
	}

	respondJSON(w, http.StatusOK, me)
}

// UpdateMe godoc
// @Summary Update own profile
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.UpdateProfileRequest true "Profile data"
// @Success 200 {object} domain.UserDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /auth/me [patch]
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.sessionService.UpdateOwnProfile(r.Context(), &req)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "update profile")
		return
	}

	respondJSON(w, http.StatusOK, user)
}
