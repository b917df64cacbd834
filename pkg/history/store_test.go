package history

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestStore_CapacityEvictsOldest(t *testing.T) {
	s := NewStore(nil, WithMaxCount(20))

	for i := 1; i <= 21; i++ {
		s.Record(fmt.Sprintf("q%d", i))
	}

	want := make([]string, 0, 20)
	for i := 21; i >= 2; i-- {
		want = append(want, fmt.Sprintf("q%d", i))
	}
	assert.Equal(t, want, s.Queries())
	assert.Equal(t, 20, s.Len())
}

func TestStore_ReRecordMovesToFront(t *testing.T) {
	s := NewStore(nil)

	s.Record("cat")
	s.Record("dog")
	s.Record("cat")

	assert.Equal(t, []string{"cat", "dog"}, s.Queries())
}

func TestStore_ExactMatchOnly(t *testing.T) {
	s := NewStore(nil)

	s.Record("Cat")
	s.Record("cat")
	s.Record("cat ")

	assert.Equal(t, []string{"cat ", "cat", "Cat"}, s.Queries())
}

func TestStore_DedupAndRecencyProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	alphabet := []string{"a", "b", "c", "d", "e", "f", "g"}
	s := NewStore(nil, WithMaxCount(5))

	for i := 0; i < 500; i++ {
		q := alphabet[rng.IntN(len(alphabet))]
		s.Record(q)

		queries := s.Queries()
		require.Equal(t, q, queries[0], "most recent query must be first")
		require.LessOrEqual(t, len(queries), 5)

		seen := make(map[string]bool)
		for _, got := range queries {
			require.False(t, seen[got], "duplicate %q in %v", got, queries)
			seen[got] = true
		}
	}
}

func TestStore_RecordUsesClock(t *testing.T) {
	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := first
	s := NewStore(nil, WithClock(func() time.Time { return now }))

	s.Record("go")
	now = first.Add(time.Hour)
	s.Record("rust")
	now = first.Add(2 * time.Hour)
	s.Record("go")

	entries := s.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "go", entries[0].Query)
	assert.Equal(t, first.Add(2*time.Hour), entries[0].Timestamp)
	assert.Equal(t, first.Add(time.Hour), entries[1].Timestamp)
}

func TestStore_EmptyQueryIgnored(t *testing.T) {
	s := NewStore(nil)
	s.Record("a")
	s.Record("")

	assert.Equal(t, []string{"a"}, s.Queries())
}

func TestNewStore_NormalizesInitialSequence(t *testing.T) {
	ts := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	var initial Sequence
	for i := 0; i < 25; i++ {
		initial = append(initial, Entry{Query: fmt.Sprintf("q%d", i), Timestamp: ts})
	}
	// A duplicate further down is dropped, the first occurrence wins.
	initial = append(Sequence{{Query: "q3", Timestamp: ts.Add(time.Hour)}}, initial...)

	s := NewStore(initial, WithMaxCount(20))

	queries := s.Queries()
	require.Len(t, queries, 20)
	assert.Equal(t, "q3", queries[0])
	assert.Equal(t, "q0", queries[1])
	assert.Equal(t, "q19", queries[19])
	assert.Equal(t, ts.Add(time.Hour), s.Entries()[0].Timestamp)
}

func TestNewStore_DoesNotAliasInput(t *testing.T) {
	initial := Sequence{{Query: "a"}, {Query: "b"}}
	s := NewStore(initial)

	s.Record("c")
	initial[0].Query = "mutated"

	assert.Equal(t, []string{"c", "a", "b"}, s.Queries())
}

func TestStore_SnapshotsAreIndependent(t *testing.T) {
	s := NewStore(nil)
	s.Record("a")

	queries := s.Queries()
	entries := s.Entries()
	queries[0] = "changed"
	entries[0].Query = "changed"

	assert.Equal(t, []string{"a"}, s.Queries())

	s.Record("b")
	assert.Equal(t, []string{"changed"}, queries)
	assert.Equal(t, []string{"b", "a"}, s.Queries())
}

func TestStore_RemoveAndClear(t *testing.T) {
	s := NewStore(nil)
	s.Record("a")
	s.Record("b")
	s.Record("c")

	assert.True(t, s.Remove("b"))
	assert.False(t, s.Remove("missing"))
	assert.Equal(t, []string{"c", "a"}, s.Queries())

	s.Clear()
	assert.Empty(t, s.Queries())
	assert.Equal(t, 0, s.Len())

	s.Record("d")
	assert.Equal(t, []string{"d"}, s.Queries())
}

func TestWithMaxCount_NonPositiveUsesDefault(t *testing.T) {
	assert.Equal(t, DefaultMaxCount, NewStore(nil, WithMaxCount(0)).MaxCount())
	assert.Equal(t, DefaultMaxCount, NewStore(nil, WithMaxCount(-3)).MaxCount())
	assert.Equal(t, 3, NewStore(nil, WithMaxCount(3)).MaxCount())
}

func TestStore_CapacityOfOne(t *testing.T) {
	s := NewStore(nil, WithMaxCount(1), WithClock(fixedClock(testNow)))
	s.Record("a")
	s.Record("b")
	s.Record("b")

	assert.Equal(t, []string{"b"}, s.Queries())
}
