package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"algoridigm/internal/models"
	"algoridigm/internal/presentation"
	"algoridigm/internal/services"
)

// maxSlideRequestBody caps POST /api/presentation/slide; the body is one small object
const maxSlideRequestBody = 1 << 10

// PresentationCommands are the verbs exposed as POST /api/presentation/<verb>
var PresentationCommands = []string{
	services.CommandBegin,
	services.CommandNext,
	services.CommandPrevious,
	services.CommandDismissWarning,
	services.CommandToggleMute,
	services.CommandStartTimer,
	services.CommandStopTimer,
	services.CommandResetTimer,
}

// PresentationHandler handles HTTP requests that drive the presentation
type PresentationHandler struct {
	seq       *presentation.Sequencer
	wsService *services.WebSocketService
	logger    *zap.Logger
}

// NewPresentationHandler creates a new presentation handler
func NewPresentationHandler(seq *presentation.Sequencer, wsService *services.WebSocketService, logger *zap.Logger) *PresentationHandler {
	return &PresentationHandler{
		seq:       seq,
		wsService: wsService,
		logger:    logger,
	}
}

// PresentationResponse carries the state after a request
type PresentationResponse struct {
	Success bool                     `json:"success"`
	Changed bool                     `json:"changed"`
	Data    models.PresentationState `json:"data"`
}

// GoToSlideRequest represents a request to jump to a slide
type GoToSlideRequest struct {
	Index *int `json:"index"`
}

// GetState returns the current presentation state
// GET /api/presentation
func (h *PresentationHandler) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, PresentationResponse{Success: true, Data: h.seq.State()})
}

// GoToSlide jumps to a slide. Out of range indexes are ignored.
// POST /api/presentation/slide
func (h *PresentationHandler) GoToSlide(w http.ResponseWriter, r *http.Request) {
	var req GoToSlideRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSlideRequestBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Index == nil {
		writeError(w, http.StatusBadRequest, "index is required")
		return
	}

	h.respond(w, services.Command{Type: services.CommandGoTo, Slide: req.Index})
}

// Command returns a handler applying a fixed command
// POST /api/presentation/{begin|next|previous|...}
func (h *PresentationHandler) Command(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.respond(w, services.Command{Type: name})
	}
}

func (h *PresentationHandler) respond(w http.ResponseWriter, cmd services.Command) {
	changed, err := h.wsService.HandleCommand(cmd)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.Debug("Presentation command",
		zap.String("command", cmd.Type),
		zap.Bool("changed", changed))

	writeJSON(w, http.StatusOK, PresentationResponse{
		Success: true,
		Changed: changed,
		Data:    h.seq.State(),
	})
}
