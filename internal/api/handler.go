// Package api serves the stateless HTTP endpoints: one-shot bounds checks,
// handle projection, matrix parsing, PNG snapshots and scenario replay.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dragdom/dragdom/internal/drag"
	"github.com/dragdom/dragdom/internal/engine"
	"github.com/dragdom/dragdom/internal/geometry"
	"github.com/dragdom/dragdom/internal/scenario"
	"github.com/dragdom/dragdom/internal/snapshot"
)

const (
	maxBodySize     = 1 << 20 // 1MB
	maxScenarioSize = 4 << 20 // 4MB
)

type Handler struct {
	logger *slog.Logger
}

func NewHandler(logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger}
}

// Routes registers the endpoints on r, which is normally the /api subrouter.
func (h *Handler) Routes(r *mux.Router) {
	r.MethodNotAllowedHandler = http.HandlerFunc(MethodNotAllowed)

	r.HandleFunc("/bounds/check", h.CheckBounds).Methods("POST")
	r.HandleFunc("/bounds/snapshot", h.Snapshot).Methods("POST")
	r.HandleFunc("/corners", h.Corners).Methods("POST")
	r.HandleFunc("/matrix", h.ParseMatrix).Methods("POST")
	r.HandleFunc("/scenarios/replay", h.Replay).Methods("POST")
}

// MethodNotAllowed answers a request whose path matched a route but whose
// method did not.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method "+r.Method+" not allowed")
}

type checkRequest struct {
	Candidate geometry.Point `json:"candidate"`
	Element   engine.Shape   `json:"element"`
	Boundary  *engine.Shape  `json:"boundary"`
	Start     geometry.Point `json:"start"`
	Constrain bool           `json:"constrain"`
}

// CheckBounds handles POST /api/bounds/check. The response is the result
// object, or null when no boundary was sent.
func (h *Handler) CheckBounds(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if !decode(w, r, &req) {
		return
	}

	result := engine.CheckBounds(req.Candidate, engine.Request{
		Element:   req.Element,
		Boundary:  req.Boundary,
		Start:     req.Start,
		Constrain: req.Constrain,
	})
	writeJSON(w, http.StatusOK, result)
}

type cornersResponse struct {
	Handles map[string]geometry.Point `json:"handles"`
	Bounds  geometry.Rect             `json:"bounds"`
}

// Corners handles POST /api/corners. The body is a shape; the response
// holds its eight handles and its axis-aligned bounding box.
func (h *Handler) Corners(w http.ResponseWriter, r *http.Request) {
	var s engine.Shape
	if !decode(w, r, &s) {
		return
	}

	resp := cornersResponse{
		Handles: make(map[string]geometry.Point, len(geometry.Handles)),
		Bounds:  geometry.BoundingBox(s.Center, s.Width, s.Height, s.Rotation),
	}
	for _, handle := range geometry.Handles {
		resp.Handles[handle.String()] = s.Handle(handle)
	}
	writeJSON(w, http.StatusOK, resp)
}

type matrixRequest struct {
	Transform string `json:"transform"`
}

type matrixResponse struct {
	Rotation    float64        `json:"rotation"`
	Translation geometry.Point `json:"translation"`
	Identity    bool           `json:"identity"`
}

// ParseMatrix handles POST /api/matrix, reading a computed CSS transform.
func (h *Handler) ParseMatrix(w http.ResponseWriter, r *http.Request) {
	var req matrixRequest
	if !decode(w, r, &req) {
		return
	}

	m, err := geometry.ParseCSSMatrix(req.Transform)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, matrixResponse{
		Rotation:    m.RotationDegrees(),
		Translation: m.Translation(),
		Identity:    m.IsIdentity(),
	})
}

type snapshotRequest struct {
	Frame drag.Frame `json:"frame"`

	// Candidate defaults to the element's center.
	Candidate *geometry.Point `json:"candidate"`

	// Start defaults to the element's center less its translation.
	Start     *geometry.Point  `json:"start"`
	Constrain bool             `json:"constrain"`
	Options   snapshot.Options `json:"options"`
}

// Snapshot handles POST /api/bounds/snapshot and answers with a PNG.
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	var req snapshotRequest
	if !decode(w, r, &req) {
		return
	}

	candidate := req.Frame.Element.Center
	if req.Candidate != nil {
		candidate = *req.Candidate
	}
	start := req.Frame.Element.Center.Sub(req.Frame.Translation)
	if req.Start != nil {
		start = *req.Start
	}

	result := engine.CheckBounds(candidate, engine.Request{
		Element:   req.Frame.Element,
		Boundary:  req.Frame.Boundary,
		Start:     start,
		Constrain: req.Constrain,
	})

	frame := req.Frame
	frame.Element = frame.Element.At(candidate)

	var buf bytes.Buffer
	if err := snapshot.Render(&buf, frame, result, req.Options); err != nil {
		if errors.Is(err, snapshot.ErrInvalidOptions) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("render snapshot failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Replay handles POST /api/scenarios/replay. The body is a scenario in YAML
// and the response is the replay report.
func (h *Handler) Replay(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxScenarioSize))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "scenario too large (max 4MB)")
		return
	}

	sc, err := scenario.Parse(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := scenario.Run(r.Context(), sc, h.logger)
	if err != nil {
		if errors.Is(err, scenario.ErrInvalidScenario) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("replay failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
