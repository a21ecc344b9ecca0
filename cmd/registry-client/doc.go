// Command registry-client is a CLI for the registry API: create events,
// register with an attached payment, and read registration counts.
package main
