package model

// PlayerNeutral is the index of the neutral player owning critters and
// map decorations.
const PlayerNeutral = 15

// Player owns units and resources.
type Player struct {
	Index     int
	Name      string
	Resources Costs
	Supply    int // population provided by buildings
	Demand    int // population used by units
	UnitLimit int // 0 = unlimited
	Units     int
	TypeCount map[*UnitType]int

	// enemies and allies are bit sets over player indices.
	enemies uint32
	allies  uint32

	AI AIHooks
}

// NewPlayer returns a player with empty bookkeeping.
func NewPlayer(index int, name string) *Player {
	return &Player{
		Index:     index,
		Name:      name,
		TypeCount: make(map[*UnitType]int),
	}
}

// SetEnemy marks other as hostile.
func (p *Player) SetEnemy(other *Player) {
	p.enemies |= 1 << other.Index
	p.allies &^= 1 << other.Index
}

// SetAlly marks other as allied.
func (p *Player) SetAlly(other *Player) {
	p.allies |= 1 << other.Index
	p.enemies &^= 1 << other.Index
}

// IsEnemy reports whether other is hostile to p.
func (p *Player) IsEnemy(other *Player) bool {
	return p != nil && other != nil && p.enemies&(1<<other.Index) != 0
}

// IsAllied reports whether other is p or one of its allies.
func (p *Player) IsAllied(other *Player) bool {
	return p == other || (p != nil && other != nil && p.allies&(1<<other.Index) != 0)
}

// CanAfford reports whether the stock covers c (time is ignored).
func (p *Player) CanAfford(c Costs) bool {
	for i := 1; i < MaxCosts; i++ {
		if p.Resources[i] < c[i] {
			return false
		}
	}
	return true
}

// Missing returns the first resource index the stock cannot cover, or -1.
func (p *Player) Missing(c Costs) int {
	for i := 1; i < MaxCosts; i++ {
		if p.Resources[i] < c[i] {
			return i
		}
	}
	return -1
}

// Spend subtracts c from the stock.
func (p *Player) Spend(c Costs) {
	for i := 1; i < MaxCosts; i++ {
		p.Resources[i] -= c[i]
	}
}

// Refund adds c back to the stock.
func (p *Player) Refund(c Costs) {
	for i := 1; i < MaxCosts; i++ {
		p.Resources[i] += c[i]
	}
}

// CheckFood reports whether the population has room for t.
func (p *Player) CheckFood(t *UnitType) bool {
	return t.Demand == 0 || p.Demand+t.Demand <= p.Supply
}

// CheckLimits reports whether the per-player unit limit has room.
func (p *Player) CheckLimits(t *UnitType) bool {
	return p.UnitLimit == 0 || p.Units < p.UnitLimit
}

// AddUnit records a new unit of t.
func (p *Player) AddUnit(t *UnitType) {
	p.Units++
	p.TypeCount[t]++
	p.Demand += t.Demand
	p.Supply += t.Supply
}

// RemoveUnit reverses AddUnit.
func (p *Player) RemoveUnit(t *UnitType) {
	p.Units--
	p.TypeCount[t]--
	p.Demand -= t.Demand
	p.Supply -= t.Supply
}

// StartSite withholds the supply of a freshly added site of t until
// FinishSite.
func (p *Player) StartSite(t *UnitType) { p.Supply -= t.Supply }

// FinishSite grants the supply StartSite withheld.
func (p *Player) FinishSite(t *UnitType) { p.Supply += t.Supply }
