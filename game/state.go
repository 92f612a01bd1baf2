package game

import (
	"github.com/Mistranger/stratagus-sub001/ipc"
	"github.com/Mistranger/stratagus-sub001/model"
	"github.com/Mistranger/stratagus-sub001/rules"
)

// State builds the frame reported to p's controller. Units inside a
// transporter are left out.
func (g *Game) State(p *model.Player) ipc.GameState {
	w := g.World
	gs := ipc.GameState{
		Cycle: w.Cycle,
		Player: ipc.PlayerState{
			Index:  p.Index,
			Name:   p.Name,
			Gold:   p.Resources[model.GoldCost],
			Wood:   p.Resources[model.WoodCost],
			Oil:    p.Resources[model.OilCost],
			Supply: p.Supply,
			Demand: p.Demand,
			Units:  p.Units,
		},
	}

	squad := make(map[*model.Unit]string)
	if a := g.Agent(p); a != nil {
		gs.Player.Doctrine = a.Doctrine().Name
		for name, sq := range rules.GetSquads(a.Engine.Memory) {
			for _, u := range sq.Members {
				squad[u] = name
			}
		}
		for _, e := range a.Events() {
			gs.Events = append(gs.Events, string(e.Kind)+": "+e.Detail)
		}
	}

	gs.Units = make([]ipc.UnitState, 0, w.Units.Len())
	for _, u := range w.Units.Live() {
		if u.Removed || u.Destroyed {
			continue
		}
		owner := model.PlayerNeutral
		if u.Player != nil {
			owner = u.Player.Index
		}
		gs.Units = append(gs.Units, ipc.UnitState{
			Slot:   u.Slot,
			Type:   u.Type.Ident,
			Player: owner,
			X:      u.X,
			Y:      u.Y,
			HP:     u.HP,
			MaxHP:  u.MaxHP(),
			Mana:   u.Mana,
			Action: u.Order().Action.String(),
			Moving: u.Moving,
			Squad:  squad[u],
		})
	}
	return gs
}
