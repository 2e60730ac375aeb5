package sim

import (
	"time"

	"wakeframe/internal/farm"
)

type CommandType string

const (
	CmdLayout    CommandType = "layout"
	CmdDirection CommandType = "direction"
	CmdSweep     CommandType = "sweep"
	CmdHold      CommandType = "hold"
	CmdStop      CommandType = "stop"
)

type Command interface {
	Type() CommandType
	ReceivedAt() time.Time
}

// SetLayoutCommand replaces the farm whose layout is rotated.
type SetLayoutCommand struct {
	At   time.Time
	Farm *farm.Farm
}

func (c SetLayoutCommand) Type() CommandType     { return CmdLayout }
func (c SetLayoutCommand) ReceivedAt() time.Time { return c.At }

// SetDirectionCommand fixes the wind direction.
type SetDirectionCommand struct {
	At           time.Time
	DirectionDeg float64 `json:"direction"`
}

func (c SetDirectionCommand) Type() CommandType     { return CmdDirection }
func (c SetDirectionCommand) ReceivedAt() time.Time { return c.At }

// SweepCommand steps the wind direction from From to To, one step per tick.
type SweepCommand struct {
	At   time.Time
	From float64 `json:"from"`
	To   float64 `json:"to"`
	Step float64 `json:"step"`
	Loop bool    `json:"loop,omitempty"`
}

func (c SweepCommand) Type() CommandType     { return CmdSweep }
func (c SweepCommand) ReceivedAt() time.Time { return c.At }

type HoldCommand struct{ At time.Time }

func (c HoldCommand) Type() CommandType     { return CmdHold }
func (c HoldCommand) ReceivedAt() time.Time { return c.At }

type StopCommand struct{ At time.Time }

func (c StopCommand) Type() CommandType     { return CmdStop }
func (c StopCommand) ReceivedAt() time.Time { return c.At }
