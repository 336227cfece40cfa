package domain

import "time"

// Snapshot is the accepted output of one run: every feature from every feed,
// pooled in processing order.
type Snapshot struct {
	GeneratedAt time.Time
	Features    FeatureCollection
}

// Storms partitions the snapshot into one collection per storm name.
func (s Snapshot) Storms() map[string]FeatureCollection {
	return PartitionByStorm(s.Features)
}
