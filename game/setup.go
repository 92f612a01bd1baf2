package game

import (
	"fmt"
	"math"

	"github.com/Mistranger/stratagus-sub001/catalog"
	"github.com/Mistranger/stratagus-sub001/model"
	"github.com/Mistranger/stratagus-sub001/world"
)

// Starting kit for every player.
const (
	startGold    = 2000
	startWood    = 1000
	startWorkers = 2
	hallType     = "town-hall"
	workerType   = "peasant"
)

// Setup creates n mutually hostile players on w, each with a town hall
// and workers. Halls are spread on an ellipse around the map centre.
func Setup(w *world.World, cat *catalog.Catalog, n int) ([]*model.Player, error) {
	hall, err := cat.Type(hallType)
	if err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}
	worker, err := cat.Type(workerType)
	if err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}

	players := make([]*model.Player, 0, n)
	for i := 0; i < n; i++ {
		p, err := w.AddPlayer(i, fmt.Sprintf("player%d", i+1))
		if err != nil {
			return nil, fmt.Errorf("setup: %w", err)
		}
		p.Resources[model.GoldCost] = startGold
		p.Resources[model.WoodCost] = startWood
		for _, other := range players {
			p.SetEnemy(other)
			other.SetEnemy(p)
		}
		players = append(players, p)

		x, y := startPosition(w.Map, i, n, hall.TileWidth, hall.TileHeight)
		h, err := w.MakeUnit(hall, p)
		if err != nil {
			return nil, fmt.Errorf("setup %s: %w", p.Name, err)
		}
		if w.CanPlace(hall, x, y, nil) {
			w.PlaceUnit(h, x, y)
		} else if !w.DropOutOnSide(h, -1, x, y, 1, 1) {
			return nil, fmt.Errorf("setup %s: no room for %s near (%d,%d)", p.Name, hallType, x, y)
		}

		hx, hy, hw, hh := h.Footprint()
		for k := 0; k < startWorkers; k++ {
			u, err := w.MakeUnit(worker, p)
			if err != nil {
				return nil, fmt.Errorf("setup %s: %w", p.Name, err)
			}
			if !w.DropOutOnSide(u, u.Direction, hx, hy, hw, hh) {
				return nil, fmt.Errorf("setup %s: no room for %s", p.Name, workerType)
			}
		}
	}
	return players, nil
}

// startPosition returns the top-left tile for player i of n.
func startPosition(m *model.Map, i, n, tw, th int) (int, int) {
	if n == 1 {
		return (m.Width - tw) / 2, (m.Height - th) / 2
	}
	// Player 0 starts top-left, the others follow clockwise.
	a := math.Pi*5/4 + 2*math.Pi*float64(i)/float64(n)
	rx := float64(m.Width-tw)/2 - 2
	ry := float64(m.Height-th)/2 - 2
	x := float64(m.Width-tw)/2 + rx*math.Cos(a)
	y := float64(m.Height-th)/2 + ry*math.Sin(a)
	return m.ClampX(int(math.Round(x))), m.ClampY(int(math.Round(y)))
}
