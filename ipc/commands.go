package ipc

// Command kinds carried by TypeCommand envelopes.
const (
	CmdMove         = "move"
	CmdAttack       = "attack"
	CmdAttackGround = "attack_ground"
	CmdPatrol       = "patrol"
	CmdStandGround  = "stand_ground"
	CmdStop         = "stop"
	CmdRepair       = "repair"
	CmdBoard        = "board"
	CmdUnload       = "unload"
	CmdTrain        = "train"
	CmdCancelTrain  = "cancel_train"
	CmdSpell        = "spell"
	CmdBuild        = "build"
)

// Command addresses one unit by registry slot. Target is the slot of the
// goal unit when the kind takes one. Queue appends the order instead of
// replacing the unit's orders.
type Command struct {
	Kind   string `json:"kind"`
	Unit   int    `json:"unit"`
	Target *int   `json:"target,omitempty"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Type   string `json:"type,omitempty"`  // unit type ident for train and build
	Spell  string `json:"spell,omitempty"` // spell ident
	Slot   int    `json:"slot,omitempty"`  // training queue slot, -1 for the last
	Queue  bool   `json:"queue,omitempty"`
}
