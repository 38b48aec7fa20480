// Package stream fans entity updates out to live subscribers over
// server-sent events and WebSocket connections.
package stream

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Topics carried by the hub.
const (
	TopicSpaceships          = "spaceships"
	TopicRepairmen           = "repairmen"
	TopicMaintenanceRequests = "maintenance-requests"
	TopicPing                = "ping"
)

// KnownTopic reports whether topic is served by the hub.
func KnownTopic(topic string) bool {
	switch topic {
	case TopicSpaceships, TopicRepairmen, TopicMaintenanceRequests, TopicPing:
		return true
	}
	return false
}

// ErrHubClosed is returned when subscribing to a stopped hub.
var ErrHubClosed = errors.New("stream hub closed")

// Message is one update delivered to subscribers.
type Message struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher is what services need to announce a changed entity.
type Publisher interface {
	Publish(topic string, data any)
}

// Subscriber receives the messages of a single topic on Send. Send is
// closed when the subscriber is removed or the hub stops.
type Subscriber struct {
	ID    string
	Topic string
	Send  chan Message
}

type countRequest struct {
	topic string
	reply chan int
}

// Hub manages subscribers and broadcasts messages to them. All subscriber
// bookkeeping happens on the run goroutine.
type Hub struct {
	subscribers map[string]map[*Subscriber]bool
	broadcast   chan Message
	register    chan *Subscriber
	unregister  chan *Subscriber
	counts      chan countRequest
	stop        chan struct{}
	done        chan struct{}
	stopOnce    sync.Once
	bufferSize  int
	logger      *zap.Logger
}

// NewHub creates a hub and starts its run loop. bufferSize bounds both the
// broadcast queue and every subscriber's queue.
func NewHub(bufferSize int, logger *zap.Logger) *Hub {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	h := &Hub{
		subscribers: make(map[string]map[*Subscriber]bool),
		broadcast:   make(chan Message, bufferSize),
		register:    make(chan *Subscriber),
		unregister:  make(chan *Subscriber),
		counts:      make(chan countRequest),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
		bufferSize:  bufferSize,
		logger:      logger,
	}
	go h.run()
	return h
}

// Subscribe registers a new subscriber for topic. Messages published after
// Subscribe returns are delivered to it.
func (h *Hub) Subscribe(topic string) (*Subscriber, error) {
	sub := &Subscriber{
		ID:    uuid.New().String(),
		Topic: topic,
		Send:  make(chan Message, h.bufferSize),
	}
	select {
	case h.register <- sub:
		return sub, nil
	case <-h.done:
		return nil, ErrHubClosed
	}
}

// Unsubscribe removes sub and closes its Send channel. Safe to call after
// the hub has stopped.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	select {
	case h.unregister <- sub:
	case <-h.done:
	}
}

// Publish queues data for every subscriber of topic. It never blocks: when
// the broadcast queue is full the message is dropped and logged.
func (h *Hub) Publish(topic string, data any) {
	msg := Message{
		ID:        uuid.New().String(),
		Topic:     topic,
		Data:      data,
		Timestamp: time.Now(),
	}
	select {
	case h.broadcast <- msg:
	case <-h.done:
	default:
		h.logger.Warn("Broadcast queue full, dropping message", zap.String("topic", topic))
	}
}

// SubscriberCount returns the number of subscribers of topic.
func (h *Hub) SubscriberCount(topic string) int {
	req := countRequest{topic: topic, reply: make(chan int, 1)}
	select {
	case h.counts <- req:
		return <-req.reply
	case <-h.done:
		return 0
	}
}

// Close stops the run loop and closes every subscriber channel.
func (h *Hub) Close() {
	h.stopOnce.Do(func() {
		close(h.stop)
		<-h.done
	})
}

func (h *Hub) run() {
	defer close(h.done)
	for {
		select {
		case sub := <-h.register:
			if h.subscribers[sub.Topic] == nil {
				h.subscribers[sub.Topic] = make(map[*Subscriber]bool)
			}
			h.subscribers[sub.Topic][sub] = true
			h.logger.Debug("Subscriber registered", zap.String("id", sub.ID), zap.String("topic", sub.Topic))

		case sub := <-h.unregister:
			if _, ok := h.subscribers[sub.Topic][sub]; ok {
				delete(h.subscribers[sub.Topic], sub)
				close(sub.Send)
				h.logger.Debug("Subscriber unregistered", zap.String("id", sub.ID), zap.String("topic", sub.Topic))
			}

		case req := <-h.counts:
			req.reply <- len(h.subscribers[req.topic])

		case msg := <-h.broadcast:
			for sub := range h.subscribers[msg.Topic] {
				select {
				case sub.Send <- msg:
				default:
					h.logger.Warn("Subscriber buffer full, dropping message",
						zap.String("subscriber", sub.ID),
						zap.String("topic", msg.Topic),
						zap.String("message_id", msg.ID))
				}
			}

		case <-h.stop:
			for topic, subs := range h.subscribers {
				for sub := range subs {
					close(sub.Send)
				}
				delete(h.subscribers, topic)
			}
			return
		}
	}
}
