// Package truck defines the Truck aggregate of the logistics network.
//
// A truck has a fixed total capacity and a mutable available capacity that
// must stay within [0, capacity] at all times. Capacity is reserved when a
// package is loaded and released when it is unloaded, so that
// available = capacity - sum of carried package weights always holds.
//
// Trucks are created active. The only failure transition the core performs is
// active -> failed (chaos injection); maintenance is a distinct status
// reachable only through an explicit operator action. No transition back to
// active is defined by the core.
package truck
