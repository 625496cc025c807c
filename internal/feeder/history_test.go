package feeder

import (
	"testing"
	"time"

	"github.com/manav03panchal/feedtime/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestHistoryRing(t *testing.T) {
	h := NewHistory(3)

	assert.Empty(t, h.List())

	for i := 1; i <= 5; i++ {
		h.Add(model.FeedEvent{At: now.Add(time.Duration(i) * time.Minute)})
	}

	assert.Equal(t, 3, h.Len())
	list := h.List()
	assert.Equal(t, now.Add(5*time.Minute), list[0].At)
	assert.Equal(t, now.Add(3*time.Minute), list[2].At)
}

func TestHistoryMinimumSize(t *testing.T) {
	h := NewHistory(0)
	h.Add(model.FeedEvent{Source: model.FeedManual})
	h.Add(model.FeedEvent{Source: model.FeedScheduled})

	assert.Equal(t, 1, h.Len())
	assert.Equal(t, model.FeedScheduled, h.List()[0].Source)
}
