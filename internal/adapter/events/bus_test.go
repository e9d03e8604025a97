package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBus_PublishSubscribe(t *testing.T) {
	bus := NewLocalBus()

	var mu sync.Mutex
	var got []string
	sub, err := bus.Subscribe("analysis.completed", func(data []byte) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, string(data))
	})
	require.NoError(t, err)

	require.NoError(t, bus.Publish("analysis.completed", []byte("one")))
	require.NoError(t, bus.Publish("analysis.other", []byte("ignored")))
	assert.Equal(t, []string{"one"}, got)

	require.NoError(t, sub.Unsubscribe())
	require.NoError(t, bus.Publish("analysis.completed", []byte("two")))
	assert.Equal(t, []string{"one"}, got)
}

func TestLocalBus_FanOut(t *testing.T) {
	bus := NewLocalBus()

	counts := make([]int, 3)
	for i := range counts {
		i := i
		_, err := bus.Subscribe("s", func([]byte) { counts[i]++ })
		require.NoError(t, err)
	}

	require.NoError(t, bus.Publish("s", nil))
	assert.Equal(t, []int{1, 1, 1}, counts)
}

func TestLocalBus_Closed(t *testing.T) {
	bus := NewLocalBus()
	_, err := bus.Subscribe("s", func([]byte) {})
	require.NoError(t, err)

	require.NoError(t, bus.Close())
	assert.ErrorIs(t, bus.Publish("s", nil), ErrClosed)

	_, err = bus.Subscribe("s", func([]byte) {})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestLocalBus_PublishWithoutSubscribers(t *testing.T) {
	assert.NoError(t, NewLocalBus().Publish("nobody", []byte("x")))
}
