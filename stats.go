// Stats is an introspection snapshot of a filter's dimensions and
// occupancy, independent of element type T — useful for logging and
// debugging without pulling a generic type parameter into a log line.
package probably

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Stats describes one filter's configuration and current load. Fields
// that only apply to CuckooFilter are zero-valued (and omitted from
// JSON) on a BloomFilter snapshot.
type Stats struct {
	Kind             string  `json:"kind"`
	Capacity         int64   `json:"capacity"`
	Size             int64   `json:"size"`
	Load             float64 `json:"load"`
	Fpp              float64 `json:"fpp"`
	CurrentFpp       float64 `json:"current_fpp"`
	NumBuckets       int64   `json:"num_buckets,omitempty"`
	EntriesPerBucket int     `json:"entries_per_bucket,omitempty"`
	BitsPerEntry     int     `json:"bits_per_entry,omitempty"`
	Strategy         string  `json:"strategy,omitempty"`
}

// String renders Stats as JSON, falling back to a plain Sprintf if
// marshaling ever fails (it shouldn't, since every field is a basic
// type).
func (s Stats) String() string {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Sprintf("probably.Stats{marshal error: %v}", err)
	}
	return string(b)
}

// Stats snapshots f's dimensions and current occupancy.
func (f *CuckooFilter[T]) Stats() Stats {
	return Stats{
		Kind:             "cuckoo",
		Capacity:         f.capacity,
		Size:             f.table.size,
		Load:             f.table.load(),
		Fpp:              f.fpp,
		CurrentFpp:       f.CurrentFpp(),
		NumBuckets:       f.table.numBuckets,
		EntriesPerBucket: f.table.entriesPerBucket,
		BitsPerEntry:     f.table.bitsPerEntry,
		Strategy:         f.strategy.Name(),
	}
}

// Stats snapshots f's dimensions and current occupancy.
func (f *BloomFilter[T]) Stats() Stats {
	return Stats{
		Kind:       "bloom",
		Capacity:   f.capacity,
		Size:       f.size,
		Load:       float64(f.size) / float64(f.capacity),
		Fpp:        f.fpp,
		CurrentFpp: f.CurrentFpp(),
	}
}
