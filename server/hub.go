package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"rocket/comparison"
	"rocket/config"
	"rocket/metrics"
	"rocket/model"
	"rocket/simulation"
	"rocket/tracker"
	"rocket/trajectory"
)

const batchSize = 100

// message types
const (
	TypeRun        = "run"
	TypeCompare    = "compare"
	TypeStop       = "stop"
	TypeRecord     = "record"
	TypeFinished   = "finished"
	TypeComparison = "comparison"
	TypeStopped    = "stopped"
	TypeError      = "error"
)

// Hub serves one websocket connection: requests come in on msg,
// replies leave through send. At most one job runs at a time.
type Hub struct {
	cfg  *config.Config
	conn *websocket.Conn
	// request
	msg chan model.Msg
	// response
	send chan model.Msg
	done chan struct{}

	mu     sync.Mutex
	cancel context.CancelFunc
	jobs   sync.WaitGroup
}

// RunSummary content of a "finished" message.
type RunSummary struct {
	Material       string                   `json:"material"`
	Fin            model.FinGeometry        `json:"fin"`
	Records        int                      `json:"records"`
	MaxTemperature model.MaxTempContext     `json:"max_temperature"`
	Critical       model.CriticalTimePoints `json:"critical"`
}

func NewHub(cfg *config.Config, conn *websocket.Conn) *Hub {
	return &Hub{
		cfg:  cfg,
		conn: conn,
		msg:  make(chan model.Msg, 10),
		send: make(chan model.Msg, 10),
		done: make(chan struct{}),
	}
}

func (h *Hub) handleResponse() {
	for {
		select {
		case reply := <-h.send:
			if err := h.conn.WriteJSON(&reply); err != nil {
				log.WithError(err).Warn("write reply")
			}
		case <-h.done:
			return
		}
	}
}

func (h *Hub) handleRequest() {
	for {
		select {
		case msg := <-h.msg:
			switch msg.Type {
			case TypeRun, TypeCompare:
				req, err := parseRequest(msg.Content)
				if err != nil {
					h.reply(TypeError, err.Error())
					continue
				}
				ctx := h.start()
				if msg.Type == TypeRun {
					go h.run(ctx, req)
				} else {
					go h.compare(ctx, req)
				}
			case TypeStop:
				h.stop()
			default:
				h.reply(TypeError, fmt.Sprintf("no such type %q", msg.Type))
			}
		case <-h.done:
			h.stop()
			return
		}
	}
}

// start cancels and waits for the running job, then returns the context of a new one.
func (h *Hub) start() context.Context {
	h.stop()
	h.mu.Lock()
	defer h.mu.Unlock()
	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	h.jobs.Add(1)
	return ctx
}

func (h *Hub) stop() {
	h.mu.Lock()
	cancel := h.cancel
	h.cancel = nil
	h.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	h.jobs.Wait()
}

func (h *Hub) reply(typ, content string) {
	select {
	case h.send <- model.Msg{Type: typ, Content: content}:
	case <-h.done:
	}
}

func (h *Hub) replyJSON(typ string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		h.reply(TypeError, err.Error())
		return
	}
	h.reply(typ, string(data))
}

// parseRequest accepts a JSON RunRequest or a bare material name.
func parseRequest(content string) (model.RunRequest, error) {
	content = strings.TrimSpace(content)
	var req model.RunRequest
	if strings.HasPrefix(content, "{") {
		if err := json.Unmarshal([]byte(content), &req); err != nil {
			return req, fmt.Errorf("bad request: %w", err)
		}
		return req, nil
	}
	req.Material = content
	return req, nil
}

func (h *Hub) flight(req model.RunRequest) ([]model.FlightState, error) {
	if req.Velocity > 0 {
		return simulation.RampFlight(h.cfg, req.Velocity, req.Duration, req.Altitude)
	}
	res, err := simulation.Flight(h.cfg)
	if err != nil {
		return nil, err
	}
	return res.Samples, nil
}

func (h *Hub) run(ctx context.Context, req model.RunRequest) {
	defer h.jobs.Done()
	name := req.Material
	if name == "" {
		name = h.cfg.Simulation.FinMaterial
	}
	tr, err := simulation.NewTracker(h.cfg, name, req.Fast, tracker.WithObserver(metrics.Observer(name)))
	if err != nil {
		h.reply(TypeError, err.Error())
		return
	}
	flight, err := h.flight(req)
	if err != nil {
		h.reply(TypeError, err.Error())
		return
	}

	batch := make([]model.TemperatureRecord, 0, batchSize)
	src := trajectory.NewSource(flight)
	for {
		select {
		case <-ctx.Done():
			h.reply(TypeStopped, name)
			return
		default:
		}
		fs, ok := src.Next()
		if !ok {
			break
		}
		rec, err := tr.Update(fs.Time, fs.Altitude, fs.Velocity, h.cfg.Simulation.Dt)
		if err != nil {
			h.reply(TypeError, err.Error())
			return
		}
		batch = append(batch, rec)
		if len(batch) == batchSize {
			h.replyJSON(TypeRecord, batch)
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		h.replyJSON(TypeRecord, batch)
	}

	ctxMax, _ := tr.MaxTemperatureContext()
	crit, _ := tr.CriticalTimePoints()
	tr.Solver().ClearCaches()
	h.replyJSON(TypeFinished, RunSummary{
		Material:       name,
		Fin:            tr.Solver().Geometry(),
		Records:        tr.Len(),
		MaxTemperature: ctxMax,
		Critical:       crit,
	})
}

func (h *Hub) compare(ctx context.Context, req model.RunRequest) {
	defer h.jobs.Done()
	names, err := simulation.Materials(req.Material)
	if err != nil {
		h.reply(TypeError, err.Error())
		return
	}
	flight, err := h.flight(req)
	if err != nil {
		h.reply(TypeError, err.Error())
		return
	}
	results, err := comparison.Run(ctx, simulation.CompareOptions(h.cfg, flight, names, req.Fast, len(names)))
	if ctx.Err() != nil {
		h.reply(TypeStopped, TypeCompare)
		return
	}
	if err != nil {
		h.reply(TypeError, err.Error())
		return
	}
	metrics.SendComparison(results)
	h.replyJSON(TypeComparison, results)
}
