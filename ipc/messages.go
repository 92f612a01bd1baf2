package ipc

// Message type constants shared with every controller.
const (
	TypeHello     = "hello"
	TypeAck       = "ack"
	TypeError     = "error"
	TypeCommand   = "command"
	TypeDoctrine  = "doctrine"
	TypeGameState = "game_state"
)

// HelloMessage binds a connection to a player slot.
type HelloMessage struct {
	Player int    `json:"player"`
	Name   string `json:"name,omitempty"`
}

type AckMessage struct {
	Status string `json:"status"`
	Player int    `json:"player"`
	Cycle  int    `json:"cycle"`
}

type ErrorMessage struct {
	Error string `json:"error"`
}

// DoctrineMessage switches the AI of the bound player to a named preset.
type DoctrineMessage struct {
	Name string `json:"name"`
}

// GameState is the periodic frame broadcast to bound connections.
type GameState struct {
	Cycle  int         `json:"cycle"`
	Player PlayerState `json:"player"`
	Units  []UnitState `json:"units"`
	Events []string    `json:"events,omitempty"`
}

type PlayerState struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	Gold     int    `json:"gold"`
	Wood     int    `json:"wood"`
	Oil      int    `json:"oil"`
	Supply   int    `json:"supply"`
	Demand   int    `json:"demand"`
	Units    int    `json:"units"`
	Doctrine string `json:"doctrine,omitempty"`
}

type UnitState struct {
	Slot   int    `json:"slot"`
	Type   string `json:"type"`
	Player int    `json:"player"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	HP     int    `json:"hp"`
	MaxHP  int    `json:"max_hp"`
	Mana   int    `json:"mana,omitempty"`
	Action string `json:"action"`
	Moving bool   `json:"moving,omitempty"`
	Squad  string `json:"squad,omitempty"`
}
