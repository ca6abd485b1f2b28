package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPublish_NoSubscribers(t *testing.T) {
	q := NewInMemoryQueue()

	err := q.Publish(context.Background(), "sms_outbound", []byte(`{}`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "sms_outbound")
}

func TestPublish_DeliversToEverySubscriberOnce(t *testing.T) {
	q := NewInMemoryQueue()
	var got []string
	q.Subscribe("sms_outbound", func(ctx context.Context, payload []byte) error {
		got = append(got, "a:"+string(payload))
		return nil
	})
	q.Subscribe("sms_outbound", func(ctx context.Context, payload []byte) error {
		got = append(got, "b:"+string(payload))
		return nil
	})
	q.Subscribe("other", func(ctx context.Context, payload []byte) error {
		t.Fatal("handler for another topic must not run")
		return nil
	})

	require.NoError(t, q.Publish(context.Background(), "sms_outbound", []byte("hello")))
	assert.Equal(t, []string{"a:hello", "b:hello"}, got)
}

func TestPublish_ReturnsHandlerErrorWithoutRetry(t *testing.T) {
	q := NewInMemoryQueue()
	calls := 0
	boom := errors.New("gateway down")
	q.Subscribe("sms_outbound", func(ctx context.Context, payload []byte) error {
		calls++
		return boom
	})

	err := q.Publish(context.Background(), "sms_outbound", nil)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}
