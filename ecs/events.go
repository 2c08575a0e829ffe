package ecs

import "github.com/jakecoffman/cp"

// Contact is one collision pair reported by the physics step. Normal points
// from B toward A; Point is the first contact point in world space. VelA and
// VelB are the body velocities before the solver ran.
type Contact struct {
	A      Entity
	B      Entity
	Point  cp.Vector
	Normal cp.Vector
	VelA   cp.Vector
	VelB   cp.Vector
}

// Other returns the party opposite e and the normal oriented toward e.
func (c Contact) Other(e Entity) (Entity, cp.Vector, bool) {
	switch e {
	case c.A:
		return c.B, c.Normal, true
	case c.B:
		return c.A, c.Normal.Neg(), true
	}
	return 0, cp.Vector{}, false
}

// Velocity returns the pre-impact velocity of e, or zero when e is not a party.
func (c Contact) Velocity(e Entity) cp.Vector {
	switch e {
	case c.A:
		return c.VelA
	case c.B:
		return c.VelB
	}
	return cp.Vector{}
}

// ContactQueue is a FIFO of contacts gathered during one physics step.
type ContactQueue struct {
	items []Contact
}

// Push adds a contact.
func (q *ContactQueue) Push(c Contact) {
	if q == nil {
		return
	}
	q.items = append(q.items, c)
}

// Drain returns all contacts in report order and clears the queue.
func (q *ContactQueue) Drain() []Contact {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of queued contacts.
func (q *ContactQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
