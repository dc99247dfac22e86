// Package core contains the canonical resource-resolution domain: entities,
// the resolution state stream, and the engine that drives one attempt from
// start to a terminal state. Adapters (stores, remote clients, facades) must
// depend on this package; core must not depend on any adapter.
package core
