// Package httpserver exposes the event registry over HTTP.
//
// Registry operations:
//
//	POST /api/events                             create an event
//	POST /api/events/{event_id}/registrations    register for an event
//	GET  /api/events/{event_id}                  read an event record
//
// Caller identity travels in the X-Caller-Address header; the attached
// payment travels in the request body. Diagnostics follow the usual
// layout: /livez, /readyz, /drain, /undrain and an optional pprof mount
// under /debug.
package httpserver
