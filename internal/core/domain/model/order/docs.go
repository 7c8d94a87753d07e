// Package order contains the Order aggregate and its lifecycle state machine.
//
// An order is created by the ordering subsystem in "pending" status and walks
// the fixed chain pending -> confirmed -> preparing -> ready_for_pickup ->
// assigned -> picked_up -> out_for_delivery -> delivered, with "cancelled" and
// "refunded" reachable from any non-terminal status. Every transition appends
// one entry to an append-only timeline whose timestamps never decrease.
//
// The aggregate enforces:
//   - the transition table (anything else fails with ErrIllegalTransition and
//     leaves the order untouched)
//   - an agent reference exists if and only if the status is at or past
//     "assigned"
//   - the earnings breakdown freezes once the order is delivered; only the tip
//     may be amended afterwards
package order
