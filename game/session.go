package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Mistranger/stratagus-sub001/command"
	"github.com/Mistranger/stratagus-sub001/ipc"
	"github.com/Mistranger/stratagus-sub001/model"
	"github.com/Mistranger/stratagus-sub001/rules"
	"github.com/Mistranger/stratagus-sub001/world"
)

const (
	// submitTimeout bounds how long a controller request waits for the loop.
	submitTimeout = 5 * time.Second
	// frameBacklog is how many state frames queue for a slow controller
	// before new ones are dropped.
	frameBacklog = 4
)

var (
	ErrNotBound       = errors.New("connection not bound to a player")
	ErrUnknownPlayer  = errors.New("unknown player")
	ErrUnknownUnit    = errors.New("unknown unit")
	ErrNotOwner       = errors.New("unit belongs to another player")
	ErrUnknownCommand = errors.New("unknown command")
	ErrNoAgent        = errors.New("player has no AI")
)

// Session is one controller connection. After hello it receives the
// bound player's state frames and may command that player's units.
type Session struct {
	game   *Game
	conn   *ipc.Connection
	player int // game goroutine only; -1 until hello
	frames chan ipc.GameState
	quit   chan struct{}
}

// Serve runs a session over t until the peer disconnects.
func (g *Game) Serve(t ipc.Transport) {
	s := &Session{
		game:   g,
		player: -1,
		frames: make(chan ipc.GameState, frameBacklog),
		quit:   make(chan struct{}),
	}
	s.conn = ipc.NewConnection(t, map[string]ipc.Handler{
		ipc.TypeHello:    s.handleHello,
		ipc.TypeCommand:  s.handleCommand,
		ipc.TypeDoctrine: s.handleDoctrine,
	})
	go s.writeLoop()
	s.conn.ReadLoop()

	// Once unsubscribed the loop pushes no more frames.
	err := g.Submit(context.Background(), func(*world.World) error {
		delete(g.subs, s)
		return nil
	})
	if err != nil {
		slog.Debug("unsubscribe skipped", "remote", s.conn.RemoteAddr(), "error", err)
	}
	close(s.quit)
}

func (s *Session) submit(fn func(w *world.World) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
	defer cancel()
	return s.game.Submit(ctx, fn)
}

// push is called from the game goroutine and never blocks.
func (s *Session) push(gs ipc.GameState) {
	select {
	case s.frames <- gs:
	default:
		slog.Debug("state frame dropped", "player", s.player, "cycle", gs.Cycle)
	}
}

func (s *Session) writeLoop() {
	for {
		select {
		case <-s.quit:
			return
		case gs := <-s.frames:
			if err := s.conn.Send(ipc.TypeGameState, gs); err != nil {
				slog.Warn("failed to send state", "cycle", gs.Cycle, "error", err)
				s.conn.Close()
			}
		}
	}
}

func (s *Session) ack(player, cycle int) (*ipc.Envelope, error) {
	resp, err := ipc.NewEnvelope(ipc.TypeAck, ipc.AckMessage{Status: "ok", Player: player, Cycle: cycle})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Session) handleHello(env ipc.Envelope) (*ipc.Envelope, error) {
	var h ipc.HelloMessage
	if err := env.Decode(&h); err != nil {
		return nil, err
	}
	var cycle int
	err := s.submit(func(w *world.World) error {
		if h.Player == model.PlayerNeutral || w.Player(h.Player) == nil {
			return fmt.Errorf("hello: player %d: %w", h.Player, ErrUnknownPlayer)
		}
		s.player = h.Player
		s.game.subs[s] = struct{}{}
		cycle = w.Cycle
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("controller bound", "player", h.Player, "name", h.Name)
	return s.ack(h.Player, cycle)
}

func (s *Session) handleCommand(env ipc.Envelope) (*ipc.Envelope, error) {
	var cmd ipc.Command
	if err := env.Decode(&cmd); err != nil {
		return nil, err
	}
	var player, cycle int
	err := s.submit(func(w *world.World) error {
		player, cycle = s.player, w.Cycle
		if s.player < 0 {
			return ErrNotBound
		}
		return s.game.Execute(w.Player(s.player), cmd)
	})
	if err != nil {
		return nil, err
	}
	return s.ack(player, cycle)
}

func (s *Session) handleDoctrine(env ipc.Envelope) (*ipc.Envelope, error) {
	var msg ipc.DoctrineMessage
	if err := env.Decode(&msg); err != nil {
		return nil, err
	}
	d, err := rules.DoctrineByName(msg.Name)
	if err != nil {
		return nil, err
	}
	var player, cycle int
	err = s.submit(func(w *world.World) error {
		player, cycle = s.player, w.Cycle
		if s.player < 0 {
			return ErrNotBound
		}
		a := s.game.Agent(w.Player(s.player))
		if a == nil {
			return fmt.Errorf("doctrine %s: %w", d.Name, ErrNoAgent)
		}
		return a.SetDoctrine(d)
	})
	if err != nil {
		return nil, err
	}
	return s.ack(player, cycle)
}

// Execute applies cmd on behalf of p. It must run on the game goroutine.
func (g *Game) Execute(p *model.Player, cmd ipc.Command) error {
	w := g.World
	u := w.UnitBySlot(cmd.Unit)
	if u == nil {
		return fmt.Errorf("%s: unit %d: %w", cmd.Kind, cmd.Unit, ErrUnknownUnit)
	}
	if u.Player != p {
		return fmt.Errorf("%s: unit %d: %w", cmd.Kind, cmd.Unit, ErrNotOwner)
	}
	var target *model.Unit
	if cmd.Target != nil {
		if target = w.UnitBySlot(*cmd.Target); target == nil {
			return fmt.Errorf("%s: target %d: %w", cmd.Kind, *cmd.Target, ErrUnknownUnit)
		}
	}
	flush := !cmd.Queue

	switch cmd.Kind {
	case ipc.CmdMove:
		return command.Move(w, u, cmd.X, cmd.Y, flush)
	case ipc.CmdAttack:
		return command.Attack(w, u, cmd.X, cmd.Y, target, flush)
	case ipc.CmdAttackGround:
		return command.AttackGround(w, u, cmd.X, cmd.Y, flush)
	case ipc.CmdPatrol:
		return command.Patrol(w, u, cmd.X, cmd.Y, flush)
	case ipc.CmdStandGround:
		return command.StandGround(w, u, flush)
	case ipc.CmdStop:
		return command.Stop(w, u)
	case ipc.CmdRepair:
		return command.Repair(w, u, target, flush)
	case ipc.CmdBoard:
		return command.Board(w, u, target, flush)
	case ipc.CmdUnload:
		return command.Unload(w, u, cmd.X, cmd.Y, target, flush)
	case ipc.CmdTrain:
		t, err := g.Catalog.Type(cmd.Type)
		if err != nil {
			return err
		}
		return command.TrainUnit(w, u, t, flush)
	case ipc.CmdCancelTrain:
		return command.CancelTraining(w, u, cmd.Slot)
	case ipc.CmdSpell:
		s, err := g.Catalog.Spell(cmd.Spell)
		if err != nil {
			return err
		}
		return command.SpellCast(w, u, cmd.X, cmd.Y, target, s, flush)
	case ipc.CmdBuild:
		t, err := g.Catalog.Type(cmd.Type)
		if err != nil {
			return err
		}
		site, err := command.Construct(w, p, t, cmd.X, cmd.Y)
		if err != nil {
			return err
		}
		return command.Repair(w, u, site, flush)
	}
	return fmt.Errorf("%q: %w", cmd.Kind, ErrUnknownCommand)
}
