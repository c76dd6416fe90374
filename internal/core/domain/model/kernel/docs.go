// Package kernel contains the shared value objects of the logistics domain:
// opaque entity identifiers and geographic positions. All types in this
// package are immutable, constructor-guarded, and safe for concurrent use.
package kernel
