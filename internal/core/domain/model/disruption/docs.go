// Package disruption defines the chaos-event model: typed, severity-ranked
// records of injected failures. Events live in an append-only log owned by
// the disruption engine; the only mutation ever applied to an event is the
// one-way active -> resolved transition.
package disruption
