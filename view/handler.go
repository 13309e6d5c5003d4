package view

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"github.com/theimaginaryfoundation/kingdom-journeys/journey"
)

// Handler exposes the controller over HTTP.
type Handler struct {
	ctrl     *Controller
	renderer *Renderer
	logger   *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(ctrl *Controller, renderer *Renderer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{ctrl: ctrl, renderer: renderer, logger: logger}
}

// RegisterRoutes mounts the page, API and websocket routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handlePage)
	r.Get("/view", h.handleView)
	r.Get("/ws", h.handleWS)
	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.handleState)
		r.Post("/persona", h.handlePersona)
		r.Post("/stage/{index}", h.handleStage)
		r.Post("/retry", h.handleRetry)
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

type stateResponse struct {
	Phase       Phase                `json:"phase"`
	PersonaType string               `json:"personaType"`
	ActiveStage int                  `json:"activeStage"`
	Version     uint64               `json:"version"`
	Journey     *journey.Journey     `json:"journey,omitempty"`
	Chart       []journey.ChartPoint `json:"chart,omitempty"`
	Error       string               `json:"error,omitempty"`
}

func newStateResponse(s State) stateResponse {
	resp := stateResponse{
		Phase:       s.Phase,
		PersonaType: s.PersonaType,
		ActiveStage: s.ActiveStage,
		Version:     s.Version,
	}
	if s.HasJourney() {
		resp.Journey = s.Journey
		resp.Chart = journey.ChartSeries(s.Journey.Stages)
	}
	if s.Phase == PhaseError {
		resp.Error = FailureMessage
	}
	return resp
}

type stateMessage struct {
	Type    string `json:"type"`
	Version uint64 `json:"version"`
	Phase   Phase  `json:"phase"`
}

type personaRequest struct {
	PersonaType string `json:"personaType"`
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, h.renderer.RenderPage)
}

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, h.renderer.RenderView)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, fn func(io.Writer, State) error) {
	s, err := h.ctrl.Snapshot(r.Context())
	if err != nil {
		h.writeControllerError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := fn(&buf, s); err != nil {
		h.logger.Error("render failed", "error", err, "phase", s.Phase)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	s, err := h.ctrl.Snapshot(r.Context())
	if err != nil {
		h.writeControllerError(w, err)
		return
	}
	JSON(w, http.StatusOK, newStateResponse(s))
}

func (h *Handler) handlePersona(w http.ResponseWriter, r *http.Request) {
	var req personaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s, err := h.ctrl.SelectPersona(r.Context(), req.PersonaType)
	if err != nil {
		h.writeControllerError(w, err)
		return
	}
	JSON(w, http.StatusAccepted, newStateResponse(s))
}

func (h *Handler) handleStage(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		Error(w, http.StatusBadRequest, "stage index must be an integer")
		return
	}
	s, err := h.ctrl.SelectStage(r.Context(), index)
	if err != nil {
		h.writeControllerError(w, err)
		return
	}
	JSON(w, http.StatusOK, newStateResponse(s))
}

func (h *Handler) handleRetry(w http.ResponseWriter, r *http.Request) {
	s, err := h.ctrl.Retry(r.Context())
	if err != nil {
		h.writeControllerError(w, err)
		return
	}
	JSON(w, http.StatusAccepted, newStateResponse(s))
}

func (h *Handler) writeControllerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrStageOutOfRange):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidEvent):
		Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrStopped), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		Error(w, http.StatusServiceUnavailable, "service unavailable")
	default:
		h.logger.Error("controller call failed", "error", err)
		Error(w, http.StatusInternalServerError, "internal error")
	}
}

// handleWS pushes a state message on connect and after every state change.
func (h *Handler) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Warn("failed to accept websocket", "error", err, "ip", r.RemoteAddr)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "bye"); closeErr != nil {
			h.logger.Debug("failed to close websocket", "error", closeErr)
		}
	}()

	updates, cancelSub := h.ctrl.Subscribe()
	defer cancelSub()

	// Clients never send; CloseRead handles control frames and cancels ctx on close.
	ctx := ws.CloseRead(r.Context())

	s, err := h.ctrl.Snapshot(ctx)
	if err != nil {
		return
	}
	if err := wsjson.Write(ctx, ws, stateMessage{Type: "state", Version: s.Version, Phase: s.Phase}); err != nil {
		h.logger.Debug("websocket write failed", "error", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			s, err := h.ctrl.Snapshot(ctx)
			if err != nil {
				return
			}
			if err := wsjson.Write(ctx, ws, stateMessage{Type: "state", Version: s.Version, Phase: s.Phase}); err != nil {
				h.logger.Debug("websocket write failed", "error", err)
				return
			}
		}
	}
}
