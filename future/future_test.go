package future

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuture_GetBlocksUntilSettled(t *testing.T) {
	pr, fut := New[int]("")
	go func() {
		time.Sleep(10 * time.Millisecond)
		pr.SetValue(42)
	}()
	v, err := fut.Get()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestFuture_SecondSettleIgnored(t *testing.T) {
	pr, fut := New[int]("")
	pr.SetValue(1)
	pr.SetValue(2)
	v, err := fut.Get()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestFuture_CheckNonBlocking(t *testing.T) {
	pr, fut := New[int]("")
	settled, _, _ := fut.Check()
	assert.False(t, settled)
	pr.SetValue(7)
	settled, v, err := fut.Check()
	assert.True(t, settled)
	assert.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestFuture_AwaitRespectsContextCancellation(t *testing.T) {
	_, fut := New[int]("")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := fut.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFuture_AwaitReturnsValueBeforeCancellation(t *testing.T) {
	pr, fut := New[string]("")
	pr.SetValue("done")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	v, err := fut.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, "done", v)
}

func TestPromise_ComposeSetsValueAfterTaskReturns(t *testing.T) {
	pr, fut := New[int]("")
	pr.Compose(func() int { return 99 })
	v, err := fut.Get()
	require.NoError(t, err)
	assert.Equal(t, 99, v)
}

func TestPromise_ComposeCapturesPanicAsError(t *testing.T) {
	pr, fut := New[int]("")
	pr.Compose(func() int { panic("boom") })
	_, err := fut.Get()
	require.Error(t, err)
	var pe *PanicError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "boom", pe.Value)
}

func TestFuture_DiscardPropagatesError(t *testing.T) {
	pr, fut := New[int]("")
	pr.SetError(errors.New("bad"))
	d := fut.Discard()
	_, err := d.Get()
	assert.EqualError(t, err, "bad")
}

func TestFuture_DiscardPropagatesValueAsEmptyStruct(t *testing.T) {
	pr, fut := New[int]("")
	pr.SetValue(5)
	d := fut.Discard()
	v, err := d.Get()
	require.NoError(t, err)
	assert.Equal(t, struct{}{}, v)
}
