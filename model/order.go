package model

import "fmt"

// Ref is a counted reference to a unit. Creating one increments the
// target's Refs, releasing it decrements them and hands the unit back to
// its registry once it is destroyed and unreferenced. A Ref must not be
// duplicated by plain assignment; use Copy.
type Ref struct {
	u *Unit
}

// NewRef takes a counted reference to u. A nil u yields the empty Ref.
func NewRef(u *Unit) Ref {
	if u != nil {
		u.Refs++
	}
	return Ref{u: u}
}

// Unit returns the referenced unit or nil.
func (r Ref) Unit() *Unit { return r.u }

// Copy takes a second counted reference to the same unit.
func (r Ref) Copy() Ref { return NewRef(r.u) }

// Release drops the reference. It is a no-op for the empty Ref.
func (r *Ref) Release() {
	u := r.u
	if u == nil {
		return
	}
	r.u = nil
	u.unref()
}

// Order is one entry of a unit's order queue.
type Order struct {
	Action ActionKind
	goal   Ref
	X, Y   int
	Range  int

	// Action-specific payload.
	Spell          *SpellType
	Type           *UnitType
	PatrolX        int
	PatrolY        int
	HasDestination bool
}

// Goal returns the order's target unit, if any.
func (o *Order) Goal() *Unit { return o.goal.Unit() }

// SetGoal points the order at u, releasing any previous goal.
func (o *Order) SetGoal(u *Unit) {
	if o.goal.Unit() == u {
		return
	}
	next := NewRef(u)
	o.goal.Release()
	o.goal = next
}

// ClearGoal releases the order's goal.
func (o *Order) ClearGoal() { o.goal.Release() }

// Copy duplicates the order, taking a fresh reference on its goal.
func (o *Order) Copy() Order {
	c := *o
	c.goal = o.goal.Copy()
	return c
}

// Release clears every reference held by the order and resets it to Still.
func (o *Order) Release() {
	o.goal.Release()
	*o = StillOrder()
}

// StillOrder is the idle order every queue falls back to.
func StillOrder() Order { return Order{Action: ActionStill, X: -1, Y: -1} }

// OrderQueue is a bounded ring of orders. The front is the active order
// and the queue is never empty.
type OrderQueue struct {
	buf  [MaxOrders]Order
	head int
	n    int
}

// NewOrderQueue returns a queue holding a single Still order.
func NewOrderQueue() OrderQueue {
	q := OrderQueue{n: 1}
	q.buf[0] = StillOrder()
	return q
}

// Len returns the number of queued orders, including the active one.
func (q *OrderQueue) Len() int { return q.n }

// Front returns the active order.
func (q *OrderQueue) Front() *Order { return &q.buf[q.head] }

// At returns the i-th queued order, 0 being the active one.
func (q *OrderQueue) At(i int) *Order {
	if i < 0 || i >= q.n {
		panic(fmt.Sprintf("order index %d out of range [0,%d)", i, q.n))
	}
	return &q.buf[(q.head+i)%MaxOrders]
}

// Full reports whether no more orders can be appended.
func (q *OrderQueue) Full() bool { return q.n >= MaxOrders }

// Push appends o, taking ownership of its goal reference. It returns
// false and leaves o untouched when the queue is full.
func (q *OrderQueue) Push(o Order) bool {
	if q.n >= MaxOrders {
		return false
	}
	q.buf[(q.head+q.n)%MaxOrders] = o
	q.n++
	return true
}

// Shift drops the active order, releasing its goal, and promotes the next
// one. With a single order queued it does nothing.
func (q *OrderQueue) Shift() {
	if q.n <= 1 {
		return
	}
	q.buf[q.head].goal.Release()
	q.buf[q.head] = Order{}
	q.head = (q.head + 1) % MaxOrders
	q.n--
}

// Truncate releases every queued order behind the active one.
func (q *OrderQueue) Truncate() {
	for i := 1; i < q.n; i++ {
		q.At(i).Release()
		*q.At(i) = Order{}
	}
	q.n = 1
}

// Reset releases every order and leaves o as the only, active one.
func (q *OrderQueue) Reset(o Order) {
	q.Truncate()
	q.Front().Release()
	*q.Front() = o
}

// Each calls fn for every queued order, front first.
func (q *OrderQueue) Each(fn func(*Order)) {
	for i := 0; i < q.n; i++ {
		fn(q.At(i))
	}
}
