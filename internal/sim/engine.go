package sim

import (
	"context"
	"log"
	"time"

	"wakeframe/internal/farm"
	"wakeframe/internal/geometry/angle"
	"wakeframe/internal/layout"
	"wakeframe/internal/wind"
)

type stateReq struct {
	reply chan CaseState
}

type subscribeReq struct {
	ch chan CaseState
}

// Engine owns a farm layout and a wind direction and publishes the rotated
// layout on every tick. All state lives in the Run goroutine.
type Engine struct {
	// Actor channels
	cmdCh       chan Command
	stateReqCh  chan stateReq
	subscribeCh chan subscribeReq
	unsubCh     chan chan CaseState

	tickHz    float64
	workers   int
	farm      *farm.Farm
	direction float64
	logger    *log.Logger
}

type Config struct {
	Farm             *farm.Farm
	InitialDirection float64
	TickHz           float64
	// Workers bounds the goroutines used to pre-rotate a sweep.
	Workers int

	Logger *log.Logger
}

func New(cfg Config) *Engine {
	if cfg.TickHz <= 0 {
		cfg.TickHz = 20
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Engine{
		cmdCh:       make(chan Command, 128),
		stateReqCh:  make(chan stateReq, 32),
		subscribeCh: make(chan subscribeReq, 32),
		unsubCh:     make(chan chan CaseState, 32),
		tickHz:      cfg.TickHz,
		workers:     cfg.Workers,
		farm:        cfg.Farm,
		direction:   cfg.InitialDirection,
		logger:      cfg.Logger,
	}
}

// Submit queues cmd. It never blocks; commands are dropped when the queue is full.
func (e *Engine) Submit(cmd Command) bool {
	select {
	case e.cmdCh <- cmd:
		return true
	default:
		e.logger.Printf("sim: command queue full, dropping %s", cmd.Type())
		return false
	}
}

func (e *Engine) GetState(ctx context.Context) (CaseState, error) {
	req := stateReq{reply: make(chan CaseState, 1)}
	select {
	case e.stateReqCh <- req:
	case <-ctx.Done():
		return CaseState{}, ctx.Err()
	}

	select {
	case st := <-req.reply:
		return st, nil
	case <-ctx.Done():
		return CaseState{}, ctx.Err()
	}
}

func (e *Engine) Subscribe(ctx context.Context) (<-chan CaseState, func()) {
	ch := make(chan CaseState, 32)

	select {
	case e.subscribeCh <- subscribeReq{ch: ch}:
	case <-ctx.Done():
		close(ch)
		return ch, func() {}
	}

	unsub := func() {
		select {
		case e.unsubCh <- ch:
		default:
		}
	}
	return ch, unsub
}

func (e *Engine) Run(ctx context.Context) error {
	// Actor-owned state
	now := time.Now()

	f := e.farm
	var active Command
	var sweep wind.Batch
	var rows layout.Rotated
	idx := 0
	loop := false
	warning := ""

	subs := map[chan CaseState]struct{}{}

	// rotate recomputes rows for dirs and points idx at the first one.
	rotate := func(dirs wind.Batch) {
		idx = 0
		sweep = dirs
		rows = layout.Rotated{}
		if f == nil {
			warning = "no layout loaded"
			return
		}
		r, err := f.Rotate(ctx, dirs, e.workers)
		if err != nil {
			e.logger.Printf("sim: rotate %d directions: %v", len(dirs), err)
			warning = err.Error()
			return
		}
		rows = r
		warning = ""
	}

	buildSnapshot := func(ts time.Time) CaseState {
		st := CaseState{
			TS:         ts,
			Warning:    warning,
			SweepIndex: idx,
		}
		if idx < len(sweep) {
			st.DirectionDeg = angle.Wrap360(sweep[idx])
		}
		if f != nil && idx < len(rows.X) {
			st.DeviationDeg = rows.DeviationDeg[idx]
			st.PivotX, st.PivotY = rows.Pivot[0], rows.Pivot[1]
			st.Turbines = make([]RotatedTurbine, len(f.Turbines))
			for j, t := range f.Turbines {
				rt := RotatedTurbine{ID: t.ID, X: rows.X[idx][j], Y: rows.Y[idx][j], Z: rows.Z[idx][j]}
				if lat, lon, ok := f.Geo(j); ok {
					rt.Geo = &GeoPos{Lat: lat, Lon: lon}
				}
				st.Turbines[j] = rt
			}
		}
		if active != nil {
			st.ActiveCommand = string(active.Type())
		}
		return st
	}

	publish := func(st CaseState) {
		for ch := range subs {
			select {
			case ch <- st:
			default:
				// slow subscriber -> drop frame
			}
		}
	}

	rotate(wind.NewBatch(e.direction))

	tick := time.NewTicker(time.Duration(float64(time.Second) / e.tickHz))
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			for ch := range subs {
				close(ch)
			}
			return nil

		case req := <-e.subscribeCh:
			subs[req.ch] = struct{}{}
			req.ch <- buildSnapshot(now)

		case ch := <-e.unsubCh:
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}

		case req := <-e.stateReqCh:
			req.reply <- buildSnapshot(now)

		case cmd := <-e.cmdCh:
			current := e.direction
			if idx < len(sweep) {
				current = sweep[idx]
			}

			switch c := cmd.(type) {
			case StopCommand:
				active = nil
				loop = false
				rotate(wind.NewBatch(current))

			case HoldCommand:
				active = cmd

			case SetLayoutCommand:
				if c.Farm == nil {
					e.logger.Printf("sim: ignoring empty layout command")
					break
				}
				f = c.Farm
				if _, ok := active.(SweepCommand); ok {
					i := idx
					rotate(sweep)
					idx = i
				} else {
					rotate(wind.NewBatch(current))
				}

			case SetDirectionCommand:
				active = cmd
				loop = false
				rotate(wind.NewBatch(c.DirectionDeg))

			case SweepCommand:
				dirs, err := wind.Sweep(c.From, c.To, c.Step)
				if err != nil {
					e.logger.Printf("sim: rejecting sweep: %v", err)
					warning = err.Error()
					break
				}
				active = cmd
				loop = c.Loop
				rotate(dirs)
			}

		case t := <-tick.C:
			now = t

			if _, ok := active.(SweepCommand); ok {
				idx++
				if idx >= len(sweep) {
					if loop {
						idx = 0
					} else {
						idx = len(sweep) - 1
						active = nil
					}
				}
			}

			publish(buildSnapshot(now))
		}
	}
}
