package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	commonDto "anoa.com/neoboard/pkg/dto"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	EventPostCreated   = "post.created"
	EventPostDeleted   = "post.deleted"
	EventThreadDeleted = "thread.deleted"
)

// Event is pushed to live subscribers of a thread.
type Event struct {
	Type     string                  `json:"type"`
	ThreadID uuid.UUID               `json:"threadId"`
	PostID   *uuid.UUID              `json:"postId,omitempty"`
	Post     *commonDto.PostResponse `json:"post,omitempty"`
}

// Hub fans thread events out to subscribers.
type Hub interface {
	Publish(ctx context.Context, event Event) error
	// Subscribe returns a channel of encoded events and a func that ends the subscription.
	Subscribe(ctx context.Context, threadID uuid.UUID) (<-chan []byte, func(), error)
}

// NewHub uses Redis pub/sub when a client is configured so every instance sees
// every event, and an in-process hub otherwise.
func NewHub(rdb *redis.Client) Hub {
	if rdb == nil {
		return NewLocalHub()
	}
	return &redisHub{rdb: rdb}
}

func channelName(threadID uuid.UUID) string {
	return fmt.Sprintf("thread_events:%s", threadID.String())
}

type redisHub struct {
	rdb *redis.Client
}

func (h *redisHub) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return h.rdb.Publish(ctx, channelName(event.ThreadID), payload).Err()
}

func (h *redisHub) Subscribe(ctx context.Context, threadID uuid.UUID) (<-chan []byte, func(), error) {
	pubsub := h.rdb.Subscribe(ctx, channelName(threadID))

	// Wait for confirmation that subscription is created
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe to redis channel: %w", err)
	}

	out := make(chan []byte, 16)
	done := make(chan struct{})
	var once sync.Once
	closeFn := func() {
		once.Do(func() {
			close(done)
			_ = pubsub.Close()
		})
	}

	go func() {
		defer close(out)
		ch := pubsub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-done:
					return
				}
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, closeFn, nil
}

// LocalHub keeps subscribers in memory. Slow subscribers drop events rather
// than block publishers.
type LocalHub struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]map[chan []byte]struct{}
}

func NewLocalHub() *LocalHub {
	return &LocalHub{subs: make(map[uuid.UUID]map[chan []byte]struct{})}
}

func (h *LocalHub) Publish(_ context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[event.ThreadID] {
		select {
		case ch <- payload:
		default:
			log.Printf("live: dropping %s event for slow subscriber on thread %s", event.Type, event.ThreadID)
		}
	}
	return nil
}

func (h *LocalHub) Subscribe(_ context.Context, threadID uuid.UUID) (<-chan []byte, func(), error) {
	ch := make(chan []byte, 16)

	h.mu.Lock()
	if h.subs[threadID] == nil {
		h.subs[threadID] = make(map[chan []byte]struct{})
	}
	h.subs[threadID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	closeFn := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[threadID], ch)
			if len(h.subs[threadID]) == 0 {
				delete(h.subs, threadID)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, closeFn, nil
}

// Subscribers reports the number of subscribers on a thread.
func (h *LocalHub) Subscribers(threadID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[threadID])
}
