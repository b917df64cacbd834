package history

import "time"

// Defaults carried over from the original search tool.
const (
	DefaultMaxCount      = 20
	DefaultRetentionDays = 15
)

// Entry is one remembered search.
type Entry struct {
	Query     string    // Literal search term, never normalized
	Timestamp time.Time // Created or last re-recorded; only used for retention
}

// Sequence is an ordered list of entries, most recently used first.
type Sequence []Entry

// Queries returns the query of every entry in order.
func (s Sequence) Queries() []string {
	queries := make([]string, len(s))
	for i, e := range s {
		queries[i] = e.Query
	}
	return queries
}

// Clone returns a copy that shares no backing array with s.
func (s Sequence) Clone() Sequence {
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// Format identifies the on-disk schema of a decoded history document.
type Format int

const (
	// FormatEmpty is an empty array, or a document that could not be read as one.
	FormatEmpty Format = iota
	// FormatLegacy is an array of bare query strings without timestamps.
	FormatLegacy
	// FormatRecords is an array of {"query", "timestamp"} objects.
	FormatRecords
)

// String implements fmt.Stringer.
func (f Format) String() string {
	switch f {
	case FormatLegacy:
		return "legacy"
	case FormatRecords:
		return "records"
	default:
		return "empty"
	}
}
