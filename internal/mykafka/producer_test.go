package mykafka

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducer_NoBrokers(t *testing.T) {
	p, err := NewProducer(nil)
	require.ErrorIs(t, err, ErrNoBrokers)
	assert.Nil(t, p)
}

func TestNewProducer_Configured(t *testing.T) {
	p, err := NewProducer([]string{"localhost:9092"})
	require.NoError(t, err)
	assert.NotNil(t, p.writer.Addr)
	require.NoError(t, p.Close())
}

func TestPublishEvent_UnencodableEvent(t *testing.T) {
	p, err := NewProducer([]string{"localhost:9092"})
	require.NoError(t, err)
	defer p.Close()

	err = p.PublishEvent(context.Background(), TopicMenu, "k", map[string]any{"bad": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json.Marshal")
}

func TestDiscard(t *testing.T) {
	require.NoError(t, Discard{}.PublishEvent(context.Background(), TopicPayments, "k", struct{}{}))
}
