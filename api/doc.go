// Package api defines the wire types of the registry HTTP API: request and
// response envelopes, the caller identity header, and the reason codes
// surfaced on rejected calls. Servers and clients share these definitions.
package api
