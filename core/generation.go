package core

import "sync/atomic"

// Guard hands out generation tickets so a caller issuing overlapping
// requests (fast pagination, typeahead) can deterministically discard
// responses that arrive after a newer request has started, instead of
// letting the last-arriving response win.
//
// Typical use:
//
//	ticket := guard.Next()
//	page, err := catalog.List(ctx, opts)
//	if !ticket.Latest() {
//		return // superseded, drop the result
//	}
type Guard struct {
	gen atomic.Uint64
}

// Ticket identifies one request generation.
type Ticket struct {
	guard *Guard
	gen   uint64
}

// Next starts a new generation, invalidating all earlier tickets.
func (g *Guard) Next() Ticket {
	return Ticket{guard: g, gen: g.gen.Add(1)}
}

// Latest reports whether no newer generation has started since this ticket
// was issued.
func (t Ticket) Latest() bool {
	return t.guard != nil && t.guard.gen.Load() == t.gen
}
