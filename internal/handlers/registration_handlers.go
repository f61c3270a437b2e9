package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"algoridigm/internal/config"
	"algoridigm/internal/models"
	"algoridigm/internal/services"
)

const maxRegistrationBody = 64 << 10

// RegistrationHandler handles HTTP requests for workshop registrations
type RegistrationHandler struct {
	service *services.RegistrationService
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewRegistrationHandler creates a new registration handler. A zero
// PerMinute disables rate limiting.
func NewRegistrationHandler(service *services.RegistrationService, limits config.RateLimitConfig, logger *zap.Logger) *RegistrationHandler {
	limit := rate.Inf
	if limits.PerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(limits.PerMinute))
	}
	burst := limits.Burst
	if burst < 1 {
		burst = 1
	}
	return &RegistrationHandler{
		service: service,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}
}

// RegistrationResponse wraps a single stored registration
type RegistrationResponse struct {
	Success bool                         `json:"success"`
	Data    *models.WorkshopRegistration `json:"data"`
}

// RegistrationListResponse wraps all stored registrations
type RegistrationListResponse struct {
	Success bool                           `json:"success"`
	Data    []*models.WorkshopRegistration `json:"data"`
}

// HelloResponse is the liveness message
type HelloResponse struct {
	Message string `json:"message"`
}

// CreateRegistration validates and stores a registration
// POST /api/workshop-registration
func (h *RegistrationHandler) CreateRegistration(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "Too many requests, please try again later")
		return
	}

	var input models.RegistrationInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRegistrationBody)).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	reg, err := h.service.CreateRegistration(r.Context(), input)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Success: false,
				Message: verr.Error(),
				Errors:  verr.Fields,
			})
			return
		}
		h.logger.Error("Failed to create registration", zap.Error(err))
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusCreated, RegistrationResponse{Success: true, Data: reg})
}

// ListRegistrations returns every registration, newest first
// GET /api/workshop-registrations
func (h *RegistrationHandler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	regs, err := h.service.ListRegistrations(r.Context())
	if err != nil {
		h.logger.Error("Failed to list registrations", zap.Error(err))
		writeInternalError(w)
		return
	}
	writeJSON(w, http.StatusOK, RegistrationListResponse{Success: true, Data: regs})
}

// Hello is a liveness check
// GET /api/hello
func Hello(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HelloResponse{Message: "Hello from J-Tech Industries"})
}
