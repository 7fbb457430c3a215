package activity

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRing_KeepsNewest(t *testing.T) {
	ring := NewRing(3)
	for _, name := range []string{"a", "b", "c", "d"} {
		ring.Add(Record{Name: name, At: time.Now()})
	}

	assert.Equal(t, 3, ring.Len())
	assert.Equal(t, []string{"d", "c", "b"}, ring.Names(10))

	last, ok := ring.Last()
	assert.True(t, ok)
	assert.Equal(t, "d", last.Name)
}

func TestRing_Empty(t *testing.T) {
	ring := NewRing(0)

	_, ok := ring.Last()
	assert.False(t, ok)
	assert.Empty(t, ring.Names(5))
	assert.Equal(t, 0, ring.Len())
}

func TestRing_NamesLimit(t *testing.T) {
	ring := NewRing(10)
	for _, name := range []string{"a", "b", "c"} {
		ring.Add(Record{Name: name})
	}

	assert.Equal(t, []string{"c", "b"}, ring.Names(2))
}

func TestRecord_Describe(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{"bare", Record{Name: "compose"}, "compose"},
		{"with summary", Record{Name: "reflection", Summary: "reflected while contemplating"}, "reflection (reflected while contemplating)"},
		{"failed", Record{Name: "compose", Err: errors.New("publish failed")}, "compose (error: publish failed)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rec.Describe())
		})
	}
}
