package sim

import (
	"context"
	"io"
	"log"
	"math"
	"strings"
	"testing"
	"time"

	"wakeframe/internal/farm"
	"wakeframe/internal/geometry/vector"
	"wakeframe/internal/layout"
)

func testFarm(t *testing.T) *farm.Farm {
	t.Helper()
	f, err := farm.New([]farm.Turbine{
		{ID: "A", Position: vector.Vec3{X: 0, Y: 0, Z: 90}, HubHeightM: 90, RotorDiameterM: 126},
		{ID: "B", Position: vector.Vec3{X: 100, Y: 0, Z: 90}, HubHeightM: 90, RotorDiameterM: 126},
	})
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func startEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	cfg.Logger = log.New(io.Discard, "", 0)
	e := New(cfg)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := e.Run(ctx); err != nil {
			t.Errorf("Run: %v", err)
		}
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return e
}

func waitFor(t *testing.T, e *Engine, what string, pred func(CaseState) bool) CaseState {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		st, err := e.GetState(ctx)
		cancel()
		if err == nil && pred(st) {
			return st
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
	return CaseState{}
}

func TestEngine_InitialState(t *testing.T) {
	e := startEngine(t, Config{Farm: testFarm(t), InitialDirection: 270, TickHz: 1})

	st := waitFor(t, e, "initial state", func(st CaseState) bool { return len(st.Turbines) == 2 })
	if st.DirectionDeg != 270 || st.DeviationDeg != 0 || st.Warning != "" {
		t.Fatalf("state=%+v", st)
	}
	if st.PivotX != 50 || st.PivotY != 0 {
		t.Fatalf("pivot=(%v,%v)", st.PivotX, st.PivotY)
	}
	if st.Turbines[1].ID != "B" || math.Abs(st.Turbines[1].X-100) > 1e-9 {
		t.Fatalf("turbines=%+v", st.Turbines)
	}
}

func TestEngine_SetDirection(t *testing.T) {
	e := startEngine(t, Config{Farm: testFarm(t), InitialDirection: 270, TickHz: 1})

	if !e.Submit(SetDirectionCommand{At: time.Now(), DirectionDeg: 180}) {
		t.Fatal("Submit dropped the command")
	}
	st := waitFor(t, e, "direction 180", func(st CaseState) bool { return st.DirectionDeg == 180 })
	if st.ActiveCommand != string(CmdDirection) {
		t.Fatalf("active=%q", st.ActiveCommand)
	}
	want := []vector.Vec3{{X: 50, Y: -50, Z: 90}, {X: 50, Y: 50, Z: 90}}
	for j, w := range want {
		got := vector.Vec3{X: st.Turbines[j].X, Y: st.Turbines[j].Y, Z: st.Turbines[j].Z}
		if !got.Equal(w) {
			t.Fatalf("turbine %d=%v; want %v", j, got, w)
		}
	}

	e.Submit(StopCommand{At: time.Now()})
	st = waitFor(t, e, "stop", func(st CaseState) bool { return st.ActiveCommand == "" })
	if st.DirectionDeg != 180 {
		t.Fatalf("stop changed direction to %v", st.DirectionDeg)
	}
}

func TestEngine_Sweep(t *testing.T) {
	f := testFarm(t)
	e := startEngine(t, Config{Farm: f, InitialDirection: 270, TickHz: 200, Workers: 2})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	ch, unsub := e.Subscribe(ctx)
	defer unsub()

	e.Submit(SweepCommand{At: time.Now(), From: 0, To: 90, Step: 30})

	allowed := map[float64]bool{0: true, 30: true, 60: true, 90: true, 270: true}
	for {
		select {
		case <-ctx.Done():
			t.Fatal("sweep did not finish")
		case st, ok := <-ch:
			if !ok {
				t.Fatal("stream closed")
			}
			if !allowed[st.DirectionDeg] {
				t.Fatalf("unexpected direction %v", st.DirectionDeg)
			}
			if st.DirectionDeg != 90 || st.ActiveCommand != "" {
				continue
			}
			want, err := layout.RotateRelWest([]float64{90}, f.Coordinates())
			if err != nil {
				t.Fatal(err)
			}
			for j, tb := range st.Turbines {
				if math.Abs(tb.X-want.X[0][j]) > 1e-9 || math.Abs(tb.Y-want.Y[0][j]) > 1e-9 {
					t.Fatalf("turbine %d=(%v,%v); want (%v,%v)", j, tb.X, tb.Y, want.X[0][j], want.Y[0][j])
				}
			}
			return
		}
	}
}

func TestEngine_Warnings(t *testing.T) {
	e := startEngine(t, Config{TickHz: 1})
	st := waitFor(t, e, "no-layout warning", func(st CaseState) bool { return st.Warning != "" })
	if len(st.Turbines) != 0 {
		t.Fatalf("turbines without a farm: %+v", st.Turbines)
	}

	e.Submit(SetLayoutCommand{At: time.Now(), Farm: testFarm(t)})
	waitFor(t, e, "layout", func(st CaseState) bool { return len(st.Turbines) == 2 && st.Warning == "" })

	e.Submit(SweepCommand{At: time.Now(), From: 0, To: 90, Step: 0})
	waitFor(t, e, "sweep rejection", func(st CaseState) bool { return st.Warning != "" })
}

func TestEngine_SweepTooLong(t *testing.T) {
	e := startEngine(t, Config{Farm: testFarm(t), InitialDirection: 270, TickHz: 50})

	e.Submit(SweepCommand{At: time.Now(), From: 0, To: 360, Step: 1e-300})
	st := waitFor(t, e, "sweep rejection", func(st CaseState) bool { return st.Warning != "" })
	if !strings.Contains(st.Warning, "too many directions") || st.ActiveCommand != "" {
		t.Fatalf("state=%+v", st)
	}

	// the engine must keep serving commands
	e.Submit(SetDirectionCommand{At: time.Now(), DirectionDeg: 180})
	waitFor(t, e, "direction 180", func(st CaseState) bool { return st.DirectionDeg == 180 && len(st.Turbines) == 2 })
}

func TestEngine_GeoPositions(t *testing.T) {
	ref := farm.GeoRef{OriginLat: 54, OriginLon: 7}
	ts, err := farm.PlaceGeo(ref, nil, []farm.Site{
		{ID: "A", Lat: 54, Lon: 7, HubHeightM: 90, RotorDiameterM: 126},
		{ID: "B", Lat: 54.005, Lon: 7.01, HubHeightM: 90, RotorDiameterM: 126},
	})
	if err != nil {
		t.Fatal(err)
	}
	f, err := farm.New(ts, farm.WithGeoRef(ref))
	if err != nil {
		t.Fatal(err)
	}
	e := startEngine(t, Config{Farm: f, InitialDirection: 0, TickHz: 1})

	st := waitFor(t, e, "layout", func(st CaseState) bool { return len(st.Turbines) == 2 })
	b := st.Turbines[1]
	if b.Geo == nil || math.Abs(b.Geo.Lat-54.005) > 1e-9 || math.Abs(b.Geo.Lon-7.01) > 1e-9 {
		t.Fatalf("B geo=%+v", b.Geo)
	}

	// without a reference only the rotated frame is reported
	e.Submit(SetLayoutCommand{At: time.Now(), Farm: testFarm(t)})
	st = waitFor(t, e, "plain layout", func(st CaseState) bool { return len(st.Turbines) == 2 && st.Turbines[0].Geo == nil })
	if st.Turbines[1].ID != "B" {
		t.Fatalf("turbines=%+v", st.Turbines)
	}
}
