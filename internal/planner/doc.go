// Package planner implements the slot-recommendation and conflict-detection
// engine.
//
// Everything here is a synchronous, pure function over immutable snapshots:
// the caller passes a point-in-time Calendar and gets ranked recommendations
// or typed risks back. The planner never mutates calendar state; the owning
// state layer (internal/calendar) re-invokes it after mutations when fresh
// recommendations are needed.
//
// The historical performance table is an injected dependency (see
// internal/history), loaded once at startup and replaceable in tests.
package planner
