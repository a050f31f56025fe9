package token

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestBroker_IssueAndConsumeOnce(t *testing.T) {
	b := NewBroker(time.Minute, zap.NewNop().Sugar())
	p := Payload{Site: "example.com", LoginName: "alice", Secret: "Sup3r$ecret!"}

	tok, err := b.Issue(p)
	assert.NoError(t, err)
	assert.Len(t, tok, 32, "16 random bytes hex-encoded")

	got, ok := b.Consume(tok)
	assert.True(t, ok)
	assert.Equal(t, p, got)

	// повторное чтение того же токена всегда пусто
	_, ok = b.Consume(tok)
	assert.False(t, ok)
}

func TestBroker_UnknownToken(t *testing.T) {
	b := NewBroker(time.Minute, zap.NewNop().Sugar())
	_, ok := b.Consume("deadbeefdeadbeefdeadbeefdeadbeef")
	assert.False(t, ok)
}

// Истёкший токен неотличим от несуществующего, даже до фоновой чистки.
func TestBroker_ExpiredTokenIsNotFound(t *testing.T) {
	b := NewBroker(time.Minute, zap.NewNop().Sugar())
	tok, err := b.Issue(Payload{Site: "example.com"})
	assert.NoError(t, err)

	// сдвигаем часы брокера за горизонт TTL
	b.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	_, ok := b.Consume(tok)
	assert.False(t, ok)
}

func TestBroker_SweepPurgesExpired(t *testing.T) {
	b := NewBroker(time.Minute, zap.NewNop().Sugar())
	_, err := b.Issue(Payload{Site: "a.com"})
	assert.NoError(t, err)
	_, err = b.Issue(Payload{Site: "b.com"})
	assert.NoError(t, err)
	assert.Equal(t, 2, b.Len())

	b.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	b.sweep()
	assert.Zero(t, b.Len())
}

func TestBroker_RunStopsOnContextCancel(t *testing.T) {
	b := NewBroker(time.Minute, zap.NewNop().Sugar())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		b.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broker sweep did not stop on context cancel")
	}
}

func TestBroker_TokensAreUnique(t *testing.T) {
	b := NewBroker(time.Minute, zap.NewNop().Sugar())
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		tok, err := b.Issue(Payload{})
		assert.NoError(t, err)
		if _, dup := seen[tok]; dup {
			t.Fatalf("token collision at #%d", i)
		}
		seen[tok] = struct{}{}
	}
}
