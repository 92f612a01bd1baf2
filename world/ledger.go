package world

import (
	"slices"

	"github.com/Mistranger/stratagus-sub001/model"
)

// RateScale is the fixed-point scale of ledger rates: a rate of
// RateScale is one resource per second.
const RateScale = 100

type consumer struct {
	u        *model.Unit
	rate     model.Costs // RateScale-ths of a resource per second
	acc      model.Costs // rate accumulated, in rate units per tick
	supplied model.Costs // delivered since the last Supplied call
	short    bool
}

// Ledger charges units that continuously consume their owner's resources,
// such as repairers. Each tick a consumer is either supplied everything it
// is due or nothing; a tick with nothing delivered sets its shortage flag.
type Ledger struct {
	consumers []*consumer // registration order
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger { return &Ledger{} }

func (l *Ledger) find(u *model.Unit) (int, *consumer) {
	for i, c := range l.consumers {
		if c.u == u {
			return i, c
		}
	}
	return -1, nil
}

// AddConsumer registers u to draw rate/RateScale resources per second
// from its owner. Registering again replaces the rate.
func (l *Ledger) AddConsumer(u *model.Unit, rate model.Costs) {
	if _, c := l.find(u); c != nil {
		c.rate = rate
		return
	}
	l.consumers = append(l.consumers, &consumer{u: u, rate: rate})
}

// RemoveConsumer drops u's registration, if any.
func (l *Ledger) RemoveConsumer(u *model.Unit) {
	if i, _ := l.find(u); i >= 0 {
		l.consumers = slices.Delete(l.consumers, i, i+1)
	}
}

// Consuming reports whether u is registered.
func (l *Ledger) Consuming(u *model.Unit) bool {
	_, c := l.find(u)
	return c != nil
}

// Len returns the number of registered consumers.
func (l *Ledger) Len() int { return len(l.consumers) }

// Tick charges every consumer for one tick at tps ticks per second.
func (l *Ledger) Tick(tps int) {
	unit := tps * RateScale
	for _, c := range l.consumers {
		p := c.u.Player
		if p == nil {
			continue
		}
		var due model.Costs
		for i := 1; i < model.MaxCosts; i++ {
			if c.rate[i] == 0 {
				continue
			}
			due[i] = (c.acc[i] + c.rate[i]) / unit
		}
		if !p.CanAfford(due) {
			c.short = true
			continue
		}
		p.Spend(due)
		c.short = false
		for i := 1; i < model.MaxCosts; i++ {
			c.acc[i] = c.acc[i] + c.rate[i] - due[i]*unit
			c.supplied[i] += due[i]
		}
	}
}

// Supplied returns and clears the resources delivered to u since the
// last call.
func (l *Ledger) Supplied(u *model.Unit) model.Costs {
	_, c := l.find(u)
	if c == nil {
		return model.Costs{}
	}
	s := c.supplied
	c.supplied = model.Costs{}
	return s
}

// Short reports whether u's last charge could not be covered.
func (l *Ledger) Short(u *model.Unit) bool {
	_, c := l.find(u)
	return c != nil && c.short
}
