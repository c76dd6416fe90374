// Package network defines the static entities of the logistics graph:
// warehouses, customers, and route points. These are informational nodes;
// none of them carries capacity invariants enforced by the core.
package network
