package rules

import (
	"fmt"

	"github.com/Mistranger/stratagus-sub001/model"
)

// Squad gives units persistent identity across evaluations. Without squads
// the AI would re-select units every pass and could not keep an attack
// group together.
type Squad struct {
	Name    string // "attack-1", "defense"
	Role    string // "attack", "defend"
	Members []*model.Unit
}

// Slots returns the registry slots of the squad's members.
func (s *Squad) Slots() []int {
	out := make([]int, len(s.Members))
	for i, u := range s.Members {
		out[i] = u.Slot
	}
	return out
}

func getSquads(memory map[string]any) map[string]*Squad {
	if v, ok := memory["squads"].(map[string]*Squad); ok {
		return v
	}
	return make(map[string]*Squad)
}

// GetSquads is the public accessor used for state reporting.
func GetSquads(memory map[string]any) map[string]*Squad {
	return getSquads(memory)
}

// updateSquads removes dead members each pass. Squads with no survivors
// are dissolved so formation rules can create fresh ones.
func updateSquads(env RuleEnv) {
	squads := getSquads(env.Memory)
	for name, sq := range squads {
		alive := sq.Members[:0]
		for _, u := range sq.Members {
			if u.Alive() {
				alive = append(alive, u)
			}
		}
		clear(sq.Members[len(alive):])
		sq.Members = alive

		if len(sq.Members) == 0 {
			delete(squads, name)
		}
	}
	env.Memory["squads"] = squads
}

// formSquad claims units under a fresh name with the given prefix.
func formSquad(memory map[string]any, prefix, role string, units []*model.Unit) *Squad {
	squads := getSquads(memory)
	n, _ := memory["squadSeq"].(int)
	n++
	memory["squadSeq"] = n
	sq := &Squad{
		Name:    fmt.Sprintf("%s-%d", prefix, n),
		Role:    role,
		Members: append([]*model.Unit(nil), units...),
	}
	squads[sq.Name] = sq
	memory["squads"] = squads
	return sq
}

// squadMembers is used by IdleArmy to exclude squad members from the free pool.
func squadMembers(memory map[string]any) map[*model.Unit]bool {
	s := make(map[*model.Unit]bool)
	for _, sq := range getSquads(memory) {
		for _, u := range sq.Members {
			s[u] = true
		}
	}
	return s
}

// DropMember releases u from its squad so the free pool can use it again.
func DropMember(memory map[string]any, u *model.Unit) bool {
	squads := getSquads(memory)
	for name, sq := range squads {
		for i, m := range sq.Members {
			if m != u {
				continue
			}
			sq.Members = append(sq.Members[:i], sq.Members[i+1:]...)
			if len(sq.Members) == 0 {
				delete(squads, name)
			}
			return true
		}
	}
	return false
}
