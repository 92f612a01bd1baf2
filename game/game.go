// Package game runs the tick loop. Every world mutation, including the
// ones controllers ask for, happens on the goroutine running Run.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Mistranger/stratagus-sub001/action"
	"github.com/Mistranger/stratagus-sub001/agent"
	"github.com/Mistranger/stratagus-sub001/catalog"
	"github.com/Mistranger/stratagus-sub001/model"
	"github.com/Mistranger/stratagus-sub001/world"
)

// inboxSize bounds the requests waiting for the next tick.
const inboxSize = 64

// ErrStopped is returned by Submit once the loop has exited.
var ErrStopped = errors.New("game stopped")

type request struct {
	fn   func(w *world.World) error
	resp chan error
}

// Game owns a world and drives it one cycle per tick.
type Game struct {
	World      *world.World
	Dispatcher *action.Dispatcher
	Catalog    *catalog.Catalog
	StateEvery int // cycles between state frames, 0 disables them

	agents []*agent.Agent
	inbox  chan request
	done   chan struct{}
	subs   map[*Session]struct{} // game goroutine only
}

func New(w *world.World, cat *catalog.Catalog, stateEvery int) (*Game, error) {
	d, err := action.New(w, nil)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	return &Game{
		World:      w,
		Dispatcher: d,
		Catalog:    cat,
		StateEvery: stateEvery,
		inbox:      make(chan request, inboxSize),
		done:       make(chan struct{}),
		subs:       make(map[*Session]struct{}),
	}, nil
}

// AddAgent registers an AI player. It must be called before Run.
func (g *Game) AddAgent(a *agent.Agent) { g.agents = append(g.agents, a) }

// Agent returns the AI running p, or nil.
func (g *Game) Agent(p *model.Player) *agent.Agent {
	for _, a := range g.agents {
		if a.Player == p {
			return a
		}
	}
	return nil
}

// Submit runs fn on the game goroutine before the next cycle and returns
// its error.
func (g *Game) Submit(ctx context.Context, fn func(w *world.World) error) error {
	req := request{fn: fn, resp: make(chan error, 1)}
	select {
	case g.inbox <- req:
	case <-ctx.Done():
		return ctx.Err()
	case <-g.done:
		return ErrStopped
	}
	select {
	case err := <-req.resp:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-g.done:
		return ErrStopped
	}
}

func (g *Game) drain() {
	for {
		select {
		case req := <-g.inbox:
			req.resp <- req.fn(g.World)
		default:
			return
		}
	}
}

// Step advances the world one cycle: queued requests, the resource
// ledger, the AI players, then every unit's action.
func (g *Game) Step() {
	w := g.World
	g.drain()
	w.Ledger.Tick(w.TPS)
	for _, a := range g.agents {
		a.Tick(w)
	}
	g.Dispatcher.Tick()
	if g.StateEvery > 0 && w.Cycle%g.StateEvery == 0 {
		g.broadcast()
	}
}

// Run ticks at the world's rate until ctx is cancelled.
func (g *Game) Run(ctx context.Context) error {
	defer close(g.done)
	ticker := time.NewTicker(time.Second / time.Duration(g.World.TPS))
	defer ticker.Stop()

	slog.Info("game loop started", "tps", g.World.TPS, "agents", len(g.agents))
	for {
		select {
		case <-ctx.Done():
			slog.Info("game loop stopped", "cycle", g.World.Cycle)
			return ctx.Err()
		case <-ticker.C:
			g.Step()
		}
	}
}

func (g *Game) broadcast() {
	for s := range g.subs {
		s.push(g.State(g.World.Player(s.player)))
	}
}
