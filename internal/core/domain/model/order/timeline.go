package order

import "time"

// TimelineEntry records one committed transition: the status entered, who
// drove it, when, and an optional free-form note. Entries are append-only and
// their timestamps are monotonically non-decreasing within one order.
//
// Fields are exported because the persistence adapter serializes the timeline
// as a JSON document.
type TimelineEntry struct {
	Status    Status    `json:"status"`
	Actor     ActorRole `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}

// EarningsBreakdown is the per-delivery earnings computation result. All
// fields are non-negative; Total is rounded to 2 decimal places for monetary
// display while the constituent parts retain full precision.
type EarningsBreakdown struct {
	BaseFee       float64 `json:"baseFee"`
	DistanceBonus float64 `json:"distanceBonus"`
	TimeBonus     float64 `json:"timeBonus"`
	Tip           float64 `json:"tip"`
	Total         float64 `json:"total"`
}
