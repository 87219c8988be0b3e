// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docsync

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutexExclusive(t *testing.T) {
	k := newKeyedMutex()

	unlock, err := k.Lock(context.Background(), "a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = k.Lock(ctx, "a")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	other, err := k.Lock(context.Background(), "b")
	require.NoError(t, err)
	other()

	unlock()
	again, err := k.Lock(context.Background(), "a")
	require.NoError(t, err)
	again()

	assert.Zero(t, k.size())
}

func TestKeyedMutexHandsOver(t *testing.T) {
	k := newKeyedMutex()
	unlock, err := k.Lock(context.Background(), "a")
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		u, err := k.Lock(context.Background(), "a")
		if err == nil {
			close(acquired)
			u()
		}
	}()

	select {
	case <-acquired:
		t.Fatal("lock acquired while held")
	case <-time.After(10 * time.Millisecond):
	}

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("waiter never acquired the lock")
	}
}

func TestPhaseAndKindStrings(t *testing.T) {
	assert.Equal(t, "clearing", PhaseClearing.String())
	assert.Equal(t, "unknown", Phase(42).String())
	assert.Equal(t, "remote api", KindRemoteAPI.String())
	assert.Equal(t, "canceled", KindCanceled.String())
	assert.Equal(t, "unknown", Kind(0).String())

	e := &Error{Kind: KindRemoteAPI, Phase: PhaseInserting, Msg: "inserting content"}
	assert.Equal(t, "remote api error during inserting: inserting content", e.Error())
}
