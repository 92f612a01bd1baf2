package model

// Handler-private states of the active order. Each type belongs to the
// action kinds its Kind method names; a handler finding a state of any
// other kind treats it as a first entry.

// MoveState drives Move orders.
type MoveState struct {
	Tries int // unreachable retries so far
}

func (*MoveState) Kind() ActionKind { return ActionMove }

// AttackPhase is the coarse phase of an attack.
type AttackPhase uint8

const (
	AttackInit AttackPhase = iota
	AttackMoveToTarget
	AttackTarget
)

func (p AttackPhase) String() string {
	switch p {
	case AttackInit:
		return "init"
	case AttackMoveToTarget:
		return "move-to-target"
	case AttackTarget:
		return "attack-target"
	}
	return "attack-phase(?)"
}

// AttackState drives Attack and AttackGround orders. Weak marks a target
// of opportunity picked up on the way, which a higher priority target may
// replace.
type AttackState struct {
	Phase  AttackPhase
	Weak   bool
	Tries  int // unreachable retries so far
	Ground bool
}

func (s *AttackState) Kind() ActionKind {
	if s.Ground {
		return ActionAttackGround
	}
	return ActionAttack
}

// RepairPhase is the phase of a repair.
type RepairPhase uint8

const (
	RepairInit RepairPhase = iota
	RepairMoveToLocation
	RepairUnit
)

// RepairState drives Repair orders. Rate is what the repairer draws per
// second while in range; HPAcc carries fractional hit points (or build
// progress) between ticks.
type RepairState struct {
	Phase     RepairPhase
	Tries     int
	Rate      Costs
	HPAcc     int
	LastCycle int
}

func (*RepairState) Kind() ActionKind { return ActionRepair }

// Board steps after the retry range 1..BoardMaxTries.
const (
	BoardMaxTries           = 200
	BoardWaitForTransporter = 201
	BoardEnter              = 202
)

// BoardState drives Board orders. Step 0 is the first move, 1 up to
// BoardMaxTries count retries with a growing range.
type BoardState struct {
	Step int
}

func (*BoardState) Kind() ActionKind { return ActionBoard }

// UnloadState drives Unload orders.
type UnloadState struct {
	Arrived bool
	Tries   int
}

func (*UnloadState) Kind() ActionKind { return ActionUnload }

// TrainState is the production FIFO of a building. The front entry is in
// production; Ticks is its progress against the type's time cost.
type TrainState struct {
	Queue []*UnitType
	Ticks int
}

func (*TrainState) Kind() ActionKind { return ActionTrain }

// SpellPhase is the phase of a spell cast.
type SpellPhase uint8

const (
	SpellValidate SpellPhase = iota
	SpellMoveToRange
	SpellCasting
)

// SpellCastState drives SpellCast orders.
type SpellCastState struct {
	Phase  SpellPhase
	Charge int // next charge to apply, -1 once the spell is spent
	Tries  int
}

func (*SpellCastState) Kind() ActionKind { return ActionSpellCast }

// StillState drives Still and StandGround. Attacking is set while the
// idle unit is fighting a target in range without moving.
type StillState struct {
	Attacking bool
	Ground    bool
}

func (s *StillState) Kind() ActionKind {
	if s.Ground {
		return ActionStandGround
	}
	return ActionStill
}

// PatrolState drives Patrol orders.
type PatrolState struct {
	Tries int // consecutive unreachable end points
}

func (*PatrolState) Kind() ActionKind { return ActionPatrol }

// Training returns the production FIFO of a unit whose active order is
// Train, creating it from the order's type on first use. It returns nil
// for any other action.
func (u *Unit) Training() *TrainState {
	o := u.Order()
	if o.Action != ActionTrain {
		return nil
	}
	if st, ok := u.ActionState.(*TrainState); ok {
		return st
	}
	st := &TrainState{}
	if o.Type != nil {
		st.Queue = append(st.Queue, o.Type)
	}
	u.ActionState = st
	return st
}
