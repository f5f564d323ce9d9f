// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGoes(t *testing.T) {
	var (
		goes Goes
		n    atomic.Int32
	)
	for i := 0; i < 10; i++ {
		goes.Go(func() { n.Add(1) })
	}
	ctx, cancel := context.WithCancel(context.Background())
	goes.GoCtx(ctx, func(ctx context.Context) {
		<-ctx.Done()
		n.Add(1)
	})
	cancel()

	select {
	case <-goes.Done():
	case <-time.After(time.Second):
		t.Fatal("goroutines not done")
	}
	assert.Equal(t, int32(11), n.Load())
}

func TestSignal(t *testing.T) {
	var s Signal

	w1, w2 := s.Wait(), s.Wait()
	select {
	case <-w1:
		t.Fatal("woken before broadcast")
	default:
	}

	s.Broadcast()
	for _, w := range []<-chan struct{}{w1, w2} {
		select {
		case <-w:
		case <-time.After(time.Second):
			t.Fatal("waiter not woken")
		}
	}

	// a waiter taken after the broadcast waits for the next one
	w3 := s.Wait()
	select {
	case <-w3:
		t.Fatal("stale broadcast observed")
	default:
	}
}
