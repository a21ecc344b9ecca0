// Package interfaces defines the core types and component contracts for the
// RSVP registry system. It provides the contract between components without
// implementation details: the event record and its identifiers, the call
// context carrying caller identity and attached payment, the event store,
// the value-transfer ledger, and the registry operations themselves.
package interfaces
