package service

import (
	"sync"
	"time"
)

// ParticipationCompleted is published whenever a participation reaches the
// completed state, whether through progress updates or an approved
// submission. The leaderboard and the notification sink subscribe to it;
// neither is called directly by the code that completes participations.
type ParticipationCompleted struct {
	ChallengeID uint
	UserID      uint
	Score       float64
	CompletedAt time.Time
}

// CompletionBus is a minimal synchronous publish/subscribe fan-out.
// Handlers run in subscription order on the publisher's goroutine.
type CompletionBus struct {
	mu       sync.RWMutex
	handlers []func(ParticipationCompleted)
}

func NewCompletionBus() *CompletionBus {
	return &CompletionBus{}
}

func (b *CompletionBus) Subscribe(handler func(ParticipationCompleted)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handler)
}

func (b *CompletionBus) Publish(event ParticipationCompleted) {
	b.mu.RLock()
	handlers := make([]func(ParticipationCompleted), len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}
