package model

import "fmt"

// Engine-wide constants shared by handlers and the index.
const (
	MaxOrders     = 16 // capacity of a unit's order queue
	TileSizeX     = 32 // pixels per tile, used for sub-tile easing offsets
	TileSizeY     = 32
	NextDirection = 32 // heading units between the 8 compass directions
	DefaultTPS    = 30 // game ticks per second
	InfiniteRange = -1 // spell range sentinel: cast from anywhere
	MaxTrainQueue = 6  // types a producer may queue in one Train order
)

// ActionKind selects the handler that runs a unit's active order.
type ActionKind uint8

const (
	ActionNone ActionKind = iota
	ActionStill
	ActionStandGround
	ActionFollow
	ActionMove
	ActionAttack
	ActionAttackGround
	ActionDie
	ActionSpellCast
	ActionTrain
	ActionUpgradeTo
	ActionResearch
	ActionBuilt
	ActionBoard
	ActionUnload
	ActionPatrol
	ActionBuild
	ActionRepair
	ActionHarvest
	ActionReturnGoods
	ActionDemolish

	actionCount // sentinel, keep last
)

var actionNames = [...]string{
	ActionNone:         "none",
	ActionStill:        "still",
	ActionStandGround:  "stand-ground",
	ActionFollow:       "follow",
	ActionMove:         "move",
	ActionAttack:       "attack",
	ActionAttackGround: "attack-ground",
	ActionDie:          "die",
	ActionSpellCast:    "spell-cast",
	ActionTrain:        "train",
	ActionUpgradeTo:    "upgrade-to",
	ActionResearch:     "research",
	ActionBuilt:        "built",
	ActionBoard:        "board",
	ActionUnload:       "unload",
	ActionPatrol:       "patrol",
	ActionBuild:        "build",
	ActionRepair:       "repair",
	ActionHarvest:      "harvest",
	ActionReturnGoods:  "return-goods",
	ActionDemolish:     "demolish",
}

func (a ActionKind) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// ActionKinds lists every defined action kind in enum order.
func ActionKinds() []ActionKind {
	out := make([]ActionKind, 0, actionCount)
	for a := ActionKind(0); a < actionCount; a++ {
		out = append(out, a)
	}
	return out
}

// Domain is the movement class of a unit type.
type Domain uint8

const (
	DomainLand Domain = iota
	DomainAir
	DomainNaval
)

func (d Domain) String() string {
	switch d {
	case DomainLand:
		return "land"
	case DomainAir:
		return "air"
	case DomainNaval:
		return "naval"
	}
	return fmt.Sprintf("domain(%d)", uint8(d))
}

// ParseDomain maps a catalog string to a Domain.
func ParseDomain(s string) (Domain, error) {
	switch s {
	case "", "land":
		return DomainLand, nil
	case "air", "fly":
		return DomainAir, nil
	case "naval", "sea":
		return DomainNaval, nil
	}
	return 0, fmt.Errorf("unknown domain %q", s)
}

// Layer is the per-tile occupancy slot a unit claims in the index.
// Buildings get their own layer regardless of domain.
type Layer uint8

const (
	LayerLand Layer = iota
	LayerAir
	LayerNaval
	LayerBuilding

	LayerCount
)

func (l Layer) String() string {
	switch l {
	case LayerLand:
		return "land"
	case LayerAir:
		return "air"
	case LayerNaval:
		return "naval"
	case LayerBuilding:
		return "building"
	}
	return fmt.Sprintf("layer(%d)", uint8(l))
}

// Resource cost indices. Index 0 is build/train time.
const (
	TimeCost = iota
	GoldCost
	WoodCost
	OilCost

	MaxCosts
)

// Costs is a vector indexed by the *Cost constants.
type Costs [MaxCosts]int

var costNames = [MaxCosts]string{"time", "gold", "wood", "oil"}

// CostName returns the catalog name of a cost index.
func CostName(i int) string {
	if i >= 0 && i < MaxCosts {
		return costNames[i]
	}
	return fmt.Sprintf("cost(%d)", i)
}

// CostIndex maps a catalog resource name back to its index.
func CostIndex(name string) (int, bool) {
	for i, n := range costNames {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// Add returns c + o element-wise.
func (c Costs) Add(o Costs) Costs {
	for i := range c {
		c[i] += o[i]
	}
	return c
}

// Resources sums the non-time entries.
func (c Costs) Resources() int {
	n := 0
	for i := 1; i < MaxCosts; i++ {
		n += c[i]
	}
	return n
}
