package kafka

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProducer_DisabledWithoutBrokersOrTopic(t *testing.T) {
	for _, p := range []*Producer{
		NewProducer(nil, "tickets"),
		NewProducer([]string{"localhost:9092"}, ""),
	} {
		assert.False(t, p.Enabled())
		p.ProduceTicketEvent(context.Background(), EventTicketCreated, map[string]interface{}{"ticket_id": int64(1)})
		assert.NoError(t, p.Close())
	}
}

func TestNewProducer_Enabled(t *testing.T) {
	p := NewProducer([]string{"localhost:9092"}, "tickets")
	assert.True(t, p.Enabled())
	assert.Equal(t, "tickets", p.topic)
	assert.NoError(t, p.Close())
}
