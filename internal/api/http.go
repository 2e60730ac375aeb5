package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"wakeframe/internal/farm"
	"wakeframe/internal/geometry/angle"
	"wakeframe/internal/geometry/vector"
	"wakeframe/internal/layout"
	"wakeframe/internal/sim"
	"wakeframe/internal/wind"
)

const (
	// maxBodyBytes bounds every JSON request body.
	maxBodyBytes = 8 << 20
	// maxRotateCells bounds directions x turbines for one /rotate request.
	maxRotateCells = 1 << 20
)

type Server struct {
	eng     *sim.Engine
	mux     *http.ServeMux
	workers int
}

// NewServer wires the HTTP routes. workers bounds the goroutines used by
// one-shot /rotate requests; <= 0 means GOMAXPROCS.
func NewServer(eng *sim.Engine, workers int) *Server {
	s := &Server{eng: eng, mux: http.NewServeMux(), workers: workers}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) routes() {
	s.mux.HandleFunc("/health", s.health)
	s.mux.HandleFunc("/state", s.state)

	s.mux.HandleFunc("/rotate", s.rotate)
	s.mux.HandleFunc("/vector", s.vectorOp)
	s.mux.HandleFunc("/angle/wrap", s.wrap)

	s.mux.HandleFunc("/command/layout", s.layoutCmd)
	s.mux.HandleFunc("/command/direction", s.directionCmd)
	s.mux.HandleFunc("/command/sweep", s.sweepCmd)
	s.mux.HandleFunc("/command/stop", s.stopCmd)
	s.mux.HandleFunc("/command/hold", s.holdCmd)

	s.mux.HandleFunc("/stream", s.streamSSE)
	s.mux.HandleFunc("/ws", s.streamWS)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) state(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	st, err := s.eng.GetState(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusRequestTimeout)
		return
	}
	writeJSON(w, st)
}

type rotateResponse struct {
	Shape        [3]int      `json:"shape"`
	DeviationDeg []float64   `json:"deviationDeg"`
	Pivot        [2]float64  `json:"pivot"`
	X            [][]float64 `json:"x"`
	Y            [][]float64 `json:"y"`
	Z            [][]float64 `json:"z"`
}

func (s *Server) rotate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		WindDirections []float64 `json:"windDirections"`
		Coordinates    []any     `json:"coordinates"`
	}
	if err := decode(r, &body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	if cells := len(body.WindDirections) * len(body.Coordinates); cells > maxRotateCells {
		http.Error(w, fmt.Sprintf("%d directions x %d turbines exceeds %d cases",
			len(body.WindDirections), len(body.Coordinates), maxRotateCells), http.StatusRequestEntityTooLarge)
		return
	}

	coords := make([]vector.Vec3, len(body.Coordinates))
	for i, c := range body.Coordinates {
		v, err := vector.Parse(c)
		if err != nil {
			http.Error(w, fmt.Sprintf("coordinates[%d]: %v", i, err), http.StatusBadRequest)
			return
		}
		coords[i] = v
	}

	rot, err := layout.RotateRelWestContext(r.Context(), body.WindDirections, coords, s.workers)
	switch {
	case errors.Is(err, layout.ErrEmptyLayout):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	if !rot.Finite() {
		http.Error(w, "rotated coordinates are not finite", http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, rotateResponse{
		Shape:        rot.Shape(),
		DeviationDeg: rot.DeviationDeg,
		Pivot:        rot.Pivot,
		X:            rot.X,
		Y:            rot.Y,
		Z:            rot.Z,
	})
}

func (s *Server) vectorOp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Op string `json:"op"`
		A  any    `json:"a"`
		B  any    `json:"b"`
	}
	if err := decode(r, &body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	op, err := vector.ParseOp(body.Op)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	a, err := vector.Parse(body.A)
	if err != nil {
		http.Error(w, "a: "+err.Error(), http.StatusBadRequest)
		return
	}
	operand := body.B
	if list, ok := body.B.([]any); ok {
		b, err := vector.Parse(list)
		if err != nil {
			http.Error(w, "b: "+err.Error(), http.StatusBadRequest)
			return
		}
		operand = b
	}

	res, err := a.Apply(op, operand)
	if err != nil {
		http.Error(w, "b: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]any{"op": op.String(), "result": res.Slice()})
}

func (s *Server) wrap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Values []float64 `json:"values"`
		Range  int       `json:"range"`
	}
	if err := decode(r, &body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	var out []float64
	switch body.Range {
	case 180:
		out = angle.Wrap180All(body.Values)
	case 360, 0:
		out = angle.Wrap360All(body.Values)
	default:
		http.Error(w, "range must be 180 or 360", http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]any{"values": out})
}

type turbineBody struct {
	ID             string  `json:"id"`
	Position       any     `json:"position"`
	HubHeightM     float64 `json:"hubHeightM"`
	RotorDiameterM float64 `json:"rotorDiameterM"`
}

func (s *Server) layoutCmd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Turbines        []turbineBody `json:"turbines"`
		WakeModel       string        `json:"wakeModel,omitempty"`
		WakeCombination string        `json:"wakeCombination,omitempty"`
	}
	if err := decode(r, &body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	turbines := make([]farm.Turbine, len(body.Turbines))
	for i, t := range body.Turbines {
		p, err := vector.Parse(t.Position)
		if err != nil {
			http.Error(w, fmt.Sprintf("turbines[%d].position: %v", i, err), http.StatusBadRequest)
			return
		}
		turbines[i] = farm.Turbine{ID: t.ID, Position: p, HubHeightM: t.HubHeightM, RotorDiameterM: t.RotorDiameterM}
	}

	var opts []farm.Option
	if body.WakeModel != "" {
		opts = append(opts, farm.WithWakeModel(body.WakeModel))
	}
	if body.WakeCombination != "" {
		opts = append(opts, farm.WithWakeCombination(body.WakeCombination))
	}
	f, err := farm.New(turbines, opts...)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.submit(w, sim.SetLayoutCommand{At: time.Now(), Farm: f}, map[string]any{"count": len(turbines)})
}

func (s *Server) directionCmd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Direction *float64 `json:"direction"`
	}
	if err := decode(r, &body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if body.Direction == nil {
		http.Error(w, "direction required", http.StatusBadRequest)
		return
	}

	s.submit(w, sim.SetDirectionCommand{At: time.Now(), DirectionDeg: *body.Direction}, nil)
}

func (s *Server) sweepCmd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		From float64 `json:"from"`
		To   float64 `json:"to"`
		Step float64 `json:"step"`
		Loop bool    `json:"loop,omitempty"`
	}
	if err := decode(r, &body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if _, err := wind.SweepLen(body.From, body.To, body.Step); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.submit(w, sim.SweepCommand{
		At:   time.Now(),
		From: body.From,
		To:   body.To,
		Step: body.Step,
		Loop: body.Loop,
	}, nil)
}

func (s *Server) stopCmd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	s.submit(w, sim.StopCommand{At: time.Now()}, nil)
}

func (s *Server) holdCmd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	s.submit(w, sim.HoldCommand{At: time.Now()}, nil)
}

func (s *Server) submit(w http.ResponseWriter, cmd sim.Command, extra map[string]any) {
	if !s.eng.Submit(cmd) {
		http.Error(w, "engine busy", http.StatusServiceUnavailable)
		return
	}
	resp := map[string]any{"status": "accepted", "type": cmd.Type()}
	for k, v := range extra {
		resp[k] = v
	}
	writeJSON(w, resp)
}

func (s *Server) streamSSE(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "GET only", http.StatusMethodNotAllowed)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ctx := r.Context()
	ch, unsub := s.eng.Subscribe(ctx)
	defer unsub()

	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-ch:
			if !ok {
				return
			}
			b, err := json.Marshal(st)
			if err != nil {
				log.Printf("api: dropping state event: %v", err)
				continue
			}
			fmt.Fprintf(w, "event: state\n")
			fmt.Fprintf(w, "data: %s\n\n", b)
			flusher.Flush()
		}
	}
}

// decode reads a JSON body keeping numbers as json.Number so loosely typed
// fields can tell integers, floats and other values apart.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()
	return dec.Decode(v)
}

// writeJSON encodes v before touching w so an encoding failure becomes a 500
// rather than a 200 with an empty body.
func writeJSON(w http.ResponseWriter, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Printf("api: encode response: %v", err)
		http.Error(w, "cannot encode response: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(buf.Bytes())
}
