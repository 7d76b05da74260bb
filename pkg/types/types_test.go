package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogEventClampsPriority(t *testing.T) {
	id := NewProducerID()

	assert.Equal(t, MinPriority, NewLogEvent("m", id, -3).Priority)
	assert.Equal(t, MinPriority, NewLogEvent("m", id, 0).Priority)
	assert.Equal(t, 3, NewLogEvent("m", id, 3).Priority)
	assert.Equal(t, MaxPriority, NewLogEvent("m", id, 9).Priority)
}

func TestNewLogEventStampsTime(t *testing.T) {
	ev := NewLogEvent("m", NewProducerID(), 1)
	assert.False(t, ev.Timestamp.IsZero())
}

func TestProducerIDShort(t *testing.T) {
	id := ProducerID("0b5f3a2e-1111-2222-3333-444455556666")
	assert.Equal(t, "0b5f3a2e", id.Short())

	assert.Equal(t, "tiny", ProducerID("tiny").Short())
}

func TestProducerIDsAreUnique(t *testing.T) {
	seen := make(map[ProducerID]bool)
	for i := 0; i < 100; i++ {
		id := NewProducerID()
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestWordCountsSort(t *testing.T) {
	counts := WordCounts{
		{Word: "banana", Count: 3},
		{Word: "date", Count: 1},
		{Word: "apple", Count: 3},
		{Word: "cherry", Count: 5},
	}
	counts.Sort()

	assert.Equal(t, WordCounts{
		{Word: "cherry", Count: 5},
		{Word: "apple", Count: 3},
		{Word: "banana", Count: 3},
		{Word: "date", Count: 1},
	}, counts)
}
