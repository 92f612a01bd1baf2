// Package world holds the process-wide game state the action handlers
// run against: the map, the unit registry, the spatial index, players,
// and the collaborators handlers call out to.
package world

import (
	"fmt"
	"log/slog"

	"github.com/Mistranger/stratagus-sub001/model"
	"github.com/Mistranger/stratagus-sub001/spatial"
)

// PlayerMax is the number of player slots, neutral included.
const PlayerMax = model.PlayerNeutral + 1

// PathResult is the outcome of a pathfinding step. Non-negative values
// are the remaining distance to the goal.
type PathResult int

const (
	PathWait        PathResult = -3 // no path yet, try again next tick
	PathUnreachable PathResult = -2
	PathReached     PathResult = -1
)

func (r PathResult) String() string {
	switch r {
	case PathWait:
		return "wait"
	case PathUnreachable:
		return "unreachable"
	case PathReached:
		return "reached"
	}
	return fmt.Sprintf("distance(%d)", int(r))
}

// Pathfinder yields the next single-tile step of a unit towards its
// active order's goal. When the result is non-negative (dx, dy) is the
// step to take; (0, 0) means keep easing into the current tile.
type Pathfinder interface {
	NextStep(u *model.Unit) (dx, dy int, res PathResult)
}

// Notifier receives advisory messages for a player.
type Notifier interface {
	Notify(p *model.Player, x, y int, msg string)
}

// Sound is a unit voice or effect cue.
type Sound uint8

const (
	SoundAcknowledge Sound = iota
	SoundReady
	SoundAttack
	SoundDead
	SoundRepair
	SoundHelp
)

// SoundPlayer plays unit sounds. Playback is outside the engine.
type SoundPlayer interface {
	PlayUnitSound(u *model.Unit, s Sound)
}

// Config sizes a new World.
type Config struct {
	Width    int
	Height   int
	Strategy string
	MaxUnits int
	Seed     uint32
	TPS      int

	// Progress units per tick for training and construction; 0 means 1.
	SpeedTrain int
	SpeedBuild int
}

// World is the game state. It is not safe for concurrent use; a single
// goroutine runs the tick loop and every mutation.
type World struct {
	Map     *model.Map
	Units   *model.Registry
	Index   spatial.Index
	Players [PlayerMax]*model.Player
	Ledger  *Ledger
	Rand    *Rand

	Path   Pathfinder
	Notify Notifier
	Sound  SoundPlayer

	Cycle      int
	TPS        int
	SpeedTrain int
	SpeedBuild int
}

// New builds a world over m. A nil m is replaced by an all-land map of
// the configured size.
func New(cfg Config, m *model.Map) (*World, error) {
	if m == nil {
		m = model.NewMap(cfg.Width, cfg.Height)
	}
	idx, err := spatial.New(cfg.Strategy, m.Width, m.Height)
	if err != nil {
		return nil, fmt.Errorf("new world: %w", err)
	}
	tps := cfg.TPS
	if tps <= 0 {
		tps = model.DefaultTPS
	}
	w := &World{
		Map:    m,
		Units:  model.NewRegistry(cfg.MaxUnits),
		Index:  idx,
		Ledger: NewLedger(),
		Rand:   NewRand(cfg.Seed),
		Notify: LogNotifier{},
		Sound:  nopSound{},
		TPS:    tps,

		SpeedTrain: max(cfg.SpeedTrain, 1),
		SpeedBuild: max(cfg.SpeedBuild, 1),
	}
	w.Players[model.PlayerNeutral] = model.NewPlayer(model.PlayerNeutral, "neutral")
	slog.Debug("world created", "width", m.Width, "height", m.Height, "strategy", cfg.Strategy, "maxUnits", w.Units.Max())
	return w, nil
}

// AddPlayer creates the player in slot i.
func (w *World) AddPlayer(i int, name string) (*model.Player, error) {
	if i < 0 || i >= model.PlayerNeutral {
		return nil, fmt.Errorf("add player %q: slot %d out of range", name, i)
	}
	if w.Players[i] != nil {
		return nil, fmt.Errorf("add player %q: slot %d taken by %q", name, i, w.Players[i].Name)
	}
	p := model.NewPlayer(i, name)
	w.Players[i] = p
	return p, nil
}

// Neutral returns the neutral player.
func (w *World) Neutral() *model.Player { return w.Players[model.PlayerNeutral] }

// Player returns the player in slot i, or nil.
func (w *World) Player(i int) *model.Player {
	if i < 0 || i >= PlayerMax {
		return nil
	}
	return w.Players[i]
}

// Second reports whether the current cycle starts a new game second.
func (w *World) Second() bool { return w.Cycle%w.TPS == 0 }

// UnitBySlot returns the live unit in slot id, or nil.
func (w *World) UnitBySlot(id int) *model.Unit {
	u := w.Units.Slot(id)
	if u == nil || u.Destroyed {
		return nil
	}
	return u
}

// NotifyUnit sends msg to u's owner at u's position.
func (w *World) NotifyUnit(u *model.Unit, format string, args ...any) {
	if u.Player == nil || w.Notify == nil {
		return
	}
	w.Notify.Notify(u.Player, u.X, u.Y, fmt.Sprintf(format, args...))
}

// PlaySound plays s for u if a sound player is installed.
func (w *World) PlaySound(u *model.Unit, s Sound) {
	if w.Sound != nil {
		w.Sound.PlayUnitSound(u, s)
	}
}

// LogNotifier writes notifications to the default slog logger.
type LogNotifier struct{}

func (LogNotifier) Notify(p *model.Player, x, y int, msg string) {
	slog.Info("notify", "player", p.Name, "x", x, "y", y, "msg", msg)
}

type nopSound struct{}

func (nopSound) PlayUnitSound(*model.Unit, Sound) {}
