package agent

import (
	"fmt"

	"github.com/Mistranger/stratagus-sub001/model"
	"github.com/Mistranger/stratagus-sub001/world"
)

// EventKind identifies the category of a game event that should trigger
// a doctrine adjustment.
type EventKind string

const (
	EventCriticalBuildingLost EventKind = "critical_building_lost"
	EventArmyDevastated       EventKind = "army_devastated"
	EventFirstContact         EventKind = "first_contact"
	EventEconomyCrisis        EventKind = "economy_crisis"
)

// Event represents a significant game event detected by diffing consecutive
// snapshots of the player's holdings.
type Event struct {
	Kind   EventKind `json:"kind"`
	Cycle  int       `json:"cycle"`
	Detail string    `json:"detail"`
}

// snapshot captures the diffable holdings of a player at one evaluation.
type snapshot struct {
	buildings   map[*model.Unit]string // finished buildings → type ident
	army        int
	workers     int
	enemiesSeen bool
}

// criticalBuildingTypes are buildings whose loss fundamentally changes
// what the AI can do.
var criticalBuildingTypes = map[string]bool{
	"town-hall":  true,
	"great-hall": true,
	"barracks":   true,
	"mage-tower": true,
	"shipyard":   true,
}

// armyDevastatedMin is the smallest army whose halving counts as devastated.
const armyDevastatedMin = 4

func takeSnapshot(w *world.World, p *model.Player) *snapshot {
	snap := &snapshot{buildings: make(map[*model.Unit]string)}
	for _, u := range w.Units.Live() {
		if !u.Alive() {
			continue
		}
		if p.IsEnemy(u.Player) {
			snap.enemiesSeen = true
			continue
		}
		if u.Player != p {
			continue
		}
		switch {
		case u.Type.Building:
			if !u.UnderConstruction() {
				snap.buildings[u] = u.Type.Ident
			}
		case u.Type.CanRepair:
			snap.workers++
		case u.Type.CanAttack || u.Type.CanCastSpell:
			snap.army++
		}
	}
	return snap
}

// detectEvents diffs two snapshots. A nil prev yields no events.
func detectEvents(prev, cur *snapshot, cycle int) []Event {
	if prev == nil {
		return nil
	}
	var events []Event
	for u, ident := range prev.buildings {
		if _, ok := cur.buildings[u]; !ok && criticalBuildingTypes[ident] {
			events = append(events, Event{
				Kind:   EventCriticalBuildingLost,
				Cycle:  cycle,
				Detail: fmt.Sprintf("lost %s", ident),
			})
		}
	}
	if prev.army >= armyDevastatedMin && cur.army*2 <= prev.army {
		events = append(events, Event{
			Kind:   EventArmyDevastated,
			Cycle:  cycle,
			Detail: fmt.Sprintf("army fell from %d to %d", prev.army, cur.army),
		})
	}
	if !prev.enemiesSeen && cur.enemiesSeen {
		events = append(events, Event{Kind: EventFirstContact, Cycle: cycle, Detail: "enemy sighted"})
	}
	if prev.workers > 0 && cur.workers == 0 {
		events = append(events, Event{Kind: EventEconomyCrisis, Cycle: cycle, Detail: "every worker lost"})
	}
	return events
}
