// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports). The core services depend on these
// abstractions only; concrete adapters live under internal/adapters.
package driven
