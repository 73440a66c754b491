package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDelay = 20 * time.Millisecond

func TestTriggerCoalescesBurst(t *testing.T) {
	var calls atomic.Int32
	d := New(testDelay, func() { calls.Add(1) })

	d.Trigger()
	d.Trigger()
	d.Trigger()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(3 * testDelay)
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, d.Pending())
}

func TestTriggerAfterQuietPeriodRunsAgain(t *testing.T) {
	var calls atomic.Int32
	d := New(testDelay, func() { calls.Add(1) })

	d.Trigger()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	d.Trigger()
	require.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestFlushRunsPendingImmediately(t *testing.T) {
	var calls atomic.Int32
	d := New(time.Hour, func() { calls.Add(1) })

	assert.False(t, d.Flush(), "nothing pending yet")

	d.Trigger()
	require.True(t, d.Pending())
	assert.True(t, d.Flush())
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, d.Pending())
	assert.False(t, d.Flush())
}

func TestStopCancelsAndIgnoresLaterTriggers(t *testing.T) {
	var calls atomic.Int32
	d := New(testDelay, func() { calls.Add(1) })

	d.Trigger()
	d.Stop()
	d.Trigger()

	time.Sleep(3 * testDelay)
	assert.Equal(t, int32(0), calls.Load())
	assert.False(t, d.Pending())
}

func TestCancelDropsPendingWithoutRunning(t *testing.T) {
	var calls atomic.Int32
	d := New(testDelay, func() { calls.Add(1) })

	assert.False(t, d.Cancel(), "nothing pending")

	d.Trigger()
	assert.True(t, d.Cancel())
	assert.False(t, d.Pending())
	assert.False(t, d.Flush())

	time.Sleep(3 * testDelay)
	assert.Zero(t, calls.Load())

	d.Trigger()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
}
