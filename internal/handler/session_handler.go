// Package handler provides the local HTTP API for CityPulse.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/prn-tf/citypulse/internal/biometric"
	"github.com/prn-tf/citypulse/internal/catalog"
	"github.com/prn-tf/citypulse/internal/domain"
	"github.com/prn-tf/citypulse/internal/service"
)

// SessionHandler exposes account, session, favorites, language and
// biometric operations over HTTP.
type SessionHandler struct {
	sessionService   *service.SessionService
	biometricService *service.BiometricService
	catalogClient    *catalog.Client
	prompter         biometric.Prompter
	logger           zerolog.Logger
}

// SessionHandlerConfig contains configuration for the handler.
type SessionHandlerConfig struct {
	SessionService   *service.SessionService
	BiometricService *service.BiometricService
	CatalogClient    *catalog.Client
	Prompter         biometric.Prompter
	Logger           zerolog.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(cfg SessionHandlerConfig) *SessionHandler {
	return &SessionHandler{
		sessionService:   cfg.SessionService,
		biometricService: cfg.BiometricService,
		catalogClient:    cfg.CatalogClient,
		prompter:         cfg.Prompter,
		logger:           cfg.Logger.With().Str("handler", "session").Logger(),
	}
}

// =============================================================================
// Request / Response Types
// =============================================================================

// RegisterRequest is the register payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the password login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LanguageRequest is the language change payload.
type LanguageRequest struct {
	Language string `json:"language"`
}

// ToggleFavoriteRequest is the favorite toggle payload.
type ToggleFavoriteRequest struct {
	EventID string `json:"eventId"`
}

// FavoritesResponse carries the current favorites list.
type FavoritesResponse struct {
	Favorites []string `json:"favorites"`
}

// BiometricStatusResponse reports the device link state.
type BiometricStatusResponse struct {
	Linked               bool   `json:"linked"`
	LinkedForCurrentUser bool   `json:"linkedForCurrentUser"`
	LinkedEmail          string `json:"linkedEmail,omitempty"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// =============================================================================
// Route Registration
// =============================================================================

// RegisterRoutes registers session API routes.
func (h *SessionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/session", h.handleGetSession)
	r.Post("/api/register", h.handleRegister)
	r.Post("/api/login", h.handleLogin)
	r.Post("/api/logout", h.handleLogout)
	r.Put("/api/language", h.handleSetLanguage)

	r.Get("/api/favorites", h.handleListFavorites)
	r.Post("/api/favorites/toggle", h.handleToggleFavorite)

	r.Get("/api/events", h.handleSearchEvents)
	r.Get("/api/events/{id}", h.handleGetEvent)

	r.Get("/api/biometric", h.handleBiometricStatus)
	r.Post("/api/biometric/enable", h.handleBiometricEnable)
	r.Post("/api/biometric/login", h.handleBiometricLogin)
	r.Delete("/api/biometric", h.handleBiometricDisable)
}

// =============================================================================
// Session Handlers
// =============================================================================

func (h *SessionHandler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.sessionService.State())
}

func (h *SessionHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	email := domain.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		h.writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = domain.InferNameFromEmail(email)
	}

	profile := h.sessionService.RegisterUser(r.Context(), name, email, req.Password)
	h.writeJSON(w, http.StatusCreated, profile)
}

func (h *SessionHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !h.sessionService.LoginUser(r.Context(), req.Email, req.Password) {
		h.writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	h.writeJSON(w, http.StatusOK, h.sessionService.State())
}

func (h *SessionHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.sessionService.MockLogout(r.Context())
	h.writeJSON(w, http.StatusOK, h.sessionService.State())
}

func (h *SessionHandler) handleSetLanguage(w http.ResponseWriter, r *http.Request) {
	var req LanguageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.sessionService.SetLanguage(r.Context(), domain.Language(req.Language)); err != nil {
		if errors.Is(err, domain.ErrInvalidLanguage) {
			h.writeError(w, http.StatusBadRequest, "unsupported language")
			return
		}
		h.logger.Error().Err(err).Msg("Failed to set language")
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, h.sessionService.State())
}

// =============================================================================
// Favorites Handlers
// =============================================================================

func (h *SessionHandler) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	var req ToggleFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.EventID == "" {
		h.writeError(w, http.StatusBadRequest, "eventId is required")
		return
	}

	favorites := h.sessionService.ToggleFavorite(r.Context(), req.EventID)
	h.writeJSON(w, http.StatusOK, FavoritesResponse{Favorites: favorites})
}

func (h *SessionHandler) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	favorites := h.sessionService.State().Favorites

	// hydrate=true resolves IDs against the event catalog.
	if r.URL.Query().Get("hydrate") == "true" && h.catalogClient != nil {
		h.writeJSON(w, http.StatusOK, h.catalogClient.HydrateFavorites(r.Context(), favorites))
		return
	}

	h.writeJSON(w, http.StatusOK, FavoritesResponse{Favorites: favorites})
}

// =============================================================================
// Catalog Handlers
// =============================================================================

func (h *SessionHandler) handleSearchEvents(w http.ResponseWriter, r *http.Request) {
	if h.catalogClient == nil {
		h.writeError(w, http.StatusServiceUnavailable, "event catalog is not configured")
		return
	}

	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	size, _ := strconv.Atoi(query.Get("size"))

	events, err := h.catalogClient.SearchEvents(r.Context(), query.Get("keyword"), query.Get("city"), page, size)
	if err != nil {
		h.logger.Error().Err(err).Msg("Event search failed")
		h.writeError(w, http.StatusBadGateway, "event catalog unavailable")
		return
	}

	h.writeJSON(w, http.StatusOK, events)
}

func (h *SessionHandler) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	if h.catalogClient == nil {
		h.writeError(w, http.StatusServiceUnavailable, "event catalog is not configured")
		return
	}

	event, err := h.catalogClient.GetEventByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			h.writeError(w, http.StatusNotFound, "event not found")
			return
		}
		h.logger.Error().Err(err).Msg("Event lookup failed")
		h.writeError(w, http.StatusBadGateway, "event catalog unavailable")
		return
	}

	h.writeJSON(w, http.StatusOK, event)
}

// =============================================================================
// Biometric Handlers
// =============================================================================

func (h *SessionHandler) handleBiometricStatus(w http.ResponseWriter, r *http.Request) {
	email, linked := h.biometricService.LinkedEmail(r.Context())
	h.writeJSON(w, http.StatusOK, BiometricStatusResponse{
		Linked:               linked,
		LinkedForCurrentUser: h.biometricService.IsLinkedForCurrentUser(r.Context()),
		LinkedEmail:          email,
	})
}

func (h *SessionHandler) handleBiometricEnable(w http.ResponseWriter, r *http.Request) {
	outcome := h.prompter.Prompt(r.Context(), "Enable biometric sign-in")
	if !outcome.Verified() {
		h.writeError(w, http.StatusForbidden, outcome.Describe())
		return
	}

	if !h.biometricService.EnableForCurrentUser(r.Context()) {
		h.writeError(w, http.StatusConflict, "could not enable biometric sign-in")
		return
	}

	h.handleBiometricStatus(w, r)
}

func (h *SessionHandler) handleBiometricLogin(w http.ResponseWriter, r *http.Request) {
	outcome := h.prompter.Prompt(r.Context(), "Sign in to CityPulse")
	if !outcome.Verified() {
		h.writeError(w, http.StatusForbidden, outcome.Describe())
		return
	}

	if !h.biometricService.LoginFromLink(r.Context()) {
		h.writeError(w, http.StatusUnauthorized, "no usable biometric link")
		return
	}

	h.writeJSON(w, http.StatusOK, h.sessionService.State())
}

func (h *SessionHandler) handleBiometricDisable(w http.ResponseWriter, r *http.Request) {
	h.biometricService.Disable(r.Context())
	h.handleBiometricStatus(w, r)
}

// =============================================================================
// Helper Methods
// =============================================================================

func (h *SessionHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *SessionHandler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, ErrorResponse{Error: message})
}
