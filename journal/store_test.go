package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreAppendKeepsOrder(t *testing.T) {
	t.Parallel()

	s := NewStore()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.All())

	s.Append(Record{ID: "a", Timestamp: 300})
	s.Append(Record{ID: "b", Timestamp: 100})
	s.Append(Record{ID: "c", Timestamp: 200})

	all := s.All()
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"a", "b", "c"}, ids(all))
}

func TestStoreAllIsACopy(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Append(Record{ID: "a", Notes: "original"})

	all := s.All()
	all[0].Notes = "changed"

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, "original", s.All()[0].Notes)
}

func TestStoreLoadSnapshotReplaces(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Append(Record{ID: "old"})

	snap := []Record{{ID: "x"}, {ID: "y"}}
	s.LoadSnapshot(snap)
	snap[0].ID = "mutated"

	assert.Equal(t, []string{"x", "y"}, ids(s.All()))

	s.LoadSnapshot(nil)
	assert.Equal(t, 0, s.Len())
}

func TestStoreFind(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Append(Record{ID: "a", Model: "m1"})
	s.Append(Record{ID: "b", Model: "m2"})

	r, ok := s.Find("b")
	assert.True(t, ok)
	assert.Equal(t, "m2", r.Model)

	_, ok = s.Find("zzz")
	assert.False(t, ok)
}

func ids(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}
