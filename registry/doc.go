// Package registry implements the event registration ledger: owners create
// events with a capacity and a required deposit, participants register by
// paying at least the deposit, and the payment is forwarded in full to the
// event owner.
//
// The registry itself holds no authoritative state. Everything lives in an
// EventStore handle passed in at construction, so tests and deployments can
// choose isolated or persistent backing as needed. Caller identity and the
// attached payment travel in an explicit CallContext rather than any ambient
// accessor.
//
// Mutating operations are serialized: each CreateEvent or Register runs as
// one read-modify-write unit, so concurrent registrations against the same
// event are totally ordered and no update is lost. Reads do not take the
// write lock.
package registry
