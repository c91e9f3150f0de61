package model

import "time"

// OccupancySample is one reading of how full the room was at a point in
// time.  Samples are append-only and ordered by RecordedAt; the
// analytics engine only ever reads them.
//
// Fields:
//  RecordedAt          – sampling instant (UTC).
//  OccupancyPercentage – booked seats as a share of all seats, 0–100.
type OccupancySample struct {
	RecordedAt          time.Time // occupancy_logs.recorded_at
	OccupancyPercentage int       // occupancy_logs.occupancy_percentage
}
