// Package cargo defines the Package aggregate: a weighted shipment with a
// destination, a delivery priority, and a lifecycle status.
//
// Packages are created pending, become in-transit on their first assignment
// to a truck, and stay in-transit across transfers between trucks; the status
// is not re-derived per transfer.
package cargo
