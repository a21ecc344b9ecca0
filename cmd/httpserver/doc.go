// Command httpserver runs the event registration ledger API.
//
// The event store is selected by URI (--store): mem:// for development,
// file://, sqlite:// or postgres:// for persistence. Payments settle
// against an in-process ledger whose accounts are seeded with --fund.
package main
