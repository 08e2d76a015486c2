// Package core defines the shared data model of the Flo engine: sessions,
// messages and their polymorphic parts, action call/result payloads,
// handoff records, the persistence contract and the error taxonomy used by
// the router and the action subsystem.
package core
