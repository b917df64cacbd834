package history

import (
	"time"
)

// Store owns the live search history and keeps it unique, bounded and in
// recency order. A Store has a single owner and is not safe for concurrent use.
type Store struct {
	entries  Sequence
	maxCount int
	now      func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithMaxCount sets the capacity. Non-positive values fall back to DefaultMaxCount.
func WithMaxCount(n int) StoreOption {
	return func(s *Store) {
		if n <= 0 {
			n = DefaultMaxCount
		}
		s.maxCount = n
	}
}

// WithClock overrides the time source used to stamp recorded queries.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore adopts an already decoded sequence. Later duplicates of a query
// are dropped and the tail is truncated to the capacity.
func NewStore(initial Sequence, opts ...StoreOption) *Store {
	s := &Store{
		maxCount: DefaultMaxCount,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	seen := make(map[string]struct{}, len(initial))
	entries := make(Sequence, 0, min(len(initial), s.maxCount))
	for _, e := range initial {
		if _, dup := seen[e.Query]; dup {
			continue
		}
		seen[e.Query] = struct{}{}
		entries = append(entries, e)
		if len(entries) == s.maxCount {
			break
		}
	}
	s.entries = entries

	return s
}

// Record moves query to the front of the history with the current time,
// removing any previous occurrence and evicting the oldest entries past
// capacity. Callers must not pass an empty query; it is ignored.
func (s *Store) Record(query string) {
	if query == "" {
		return
	}

	s.remove(query)

	s.entries = append(s.entries, Entry{})
	copy(s.entries[1:], s.entries)
	s.entries[0] = Entry{Query: query, Timestamp: s.now()}

	if len(s.entries) > s.maxCount {
		s.entries = s.entries[:s.maxCount]
	}
}

// Queries returns a fresh snapshot of the remembered queries, most recent first.
func (s *Store) Queries() []string {
	return s.entries.Queries()
}

// Entries returns a copy of the current sequence.
func (s *Store) Entries() Sequence {
	return s.entries.Clone()
}

// Len returns the number of remembered queries.
func (s *Store) Len() int {
	return len(s.entries)
}

// MaxCount returns the capacity.
func (s *Store) MaxCount() int {
	return s.maxCount
}

// Remove forgets query. It reports whether the query was present.
func (s *Store) Remove(query string) bool {
	return s.remove(query)
}

// Clear forgets every query.
func (s *Store) Clear() {
	s.entries = Sequence{}
}

func (s *Store) remove(query string) bool {
	for i, e := range s.entries {
		if e.Query == query {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}
