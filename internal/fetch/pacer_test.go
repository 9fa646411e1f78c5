package fetch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPacerFirstWaitIsImmediate(t *testing.T) {
	pacer := NewPacer(time.Hour)

	start := time.Now()
	require.NoError(t, pacer.Wait(context.Background()))
	require.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestPacerWaitsFromDone(t *testing.T) {
	delay := 80 * time.Millisecond
	pacer := NewPacer(delay)
	require.NoError(t, pacer.Wait(context.Background()))

	// a request that takes longer than the delay still gets the full pause
	// after it.
	time.Sleep(2 * delay)
	pacer.Done()
	done := time.Now()

	require.NoError(t, pacer.Wait(context.Background()))
	require.GreaterOrEqual(t, time.Since(done), delay-5*time.Millisecond)
}

func TestPacerZeroDelay(t *testing.T) {
	pacer := NewPacer(0)
	for i := 0; i < 3; i++ {
		start := time.Now()
		require.NoError(t, pacer.Wait(context.Background()))
		pacer.Done()
		require.Less(t, time.Since(start), 50*time.Millisecond)
	}
}

func TestPacerCancelled(t *testing.T) {
	pacer := NewPacer(time.Hour)
	pacer.Done()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	require.ErrorIs(t, pacer.Wait(ctx), context.Canceled)

	// the deadline falls before the next slot
	ctx, cancel = context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.Error(t, pacer.Wait(ctx))
}
