package realtime

import (
	"sync"
	"sync/atomic"

	"github.com/Ajay0072005/floodsense-ai/internal/models"
)

// TopicReports carries every new citizen report.
const TopicReports = "reports"

// TopicAllDistricts carries risk updates for every district; command
// dashboards subscribe here instead of enumerating districts.
const TopicAllDistricts = "district_ALL"

// DistrictTopic names the per-district risk update channel.
func DistrictTopic(districtID string) string {
	return "district_" + districtID
}

// subscriberBuffer bounds how far a slow consumer can lag before events are
// dropped for it.
const subscriberBuffer = 64

// Hub fans events out to topic-scoped subscribers. Delivery is at-most-once:
// no retry, no backlog for late joiners, and a full subscriber buffer means
// that subscriber misses the event. Within one topic, delivery order follows
// publish order.
type Hub struct {
	mu      sync.RWMutex
	topics  map[string]map[uint64]chan models.Event
	nextID  atomic.Uint64
	closed  bool
	onDrop  func()
	onCount func(delta int)
}

// NewHub creates an empty hub. onDrop and onCount are optional observability
// callbacks, invoked on dropped events and subscription count changes.
func NewHub(onDrop func(), onCount func(delta int)) *Hub {
	return &Hub{
		topics:  make(map[string]map[uint64]chan models.Event),
		onDrop:  onDrop,
		onCount: onCount,
	}
}

// Subscribe registers a new subscriber on a topic and returns its id and
// event channel. The channel is closed on Unsubscribe or hub Close.
func (h *Hub) Subscribe(topic string) (uint64, chan models.Event) {
	id := h.nextID.Add(1)
	ch := make(chan models.Event, subscriberBuffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return id, ch
	}
	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[uint64]chan models.Event)
		h.topics[topic] = subs
	}
	subs[id] = ch
	h.mu.Unlock()

	if h.onCount != nil {
		h.onCount(1)
	}
	return id, ch
}

func (h *Hub) Unsubscribe(topic string, id uint64) {
	h.mu.Lock()
	removed := false
	if subs, ok := h.topics[topic]; ok {
		if ch, ok := subs[id]; ok {
			close(ch)
			delete(subs, id)
			removed = true
		}
		if len(subs) == 0 {
			delete(h.topics, topic)
		}
	}
	h.mu.Unlock()

	if removed && h.onCount != nil {
		h.onCount(-1)
	}
}

// Publish delivers ev to every current subscriber of topic without blocking.
func (h *Hub) Publish(topic string, ev models.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.topics[topic] {
		select {
		case ch <- ev:
		default:
			// Skip slow subscribers
			if h.onDrop != nil {
				h.onDrop()
			}
		}
	}
}

// SubscriberCount reports live subscriptions across all topics.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, subs := range h.topics {
		total += len(subs)
	}
	return total
}

// Close tears down every subscription; subsequent Subscribe calls return a
// closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for topic, subs := range h.topics {
		for id, ch := range subs {
			close(ch)
			delete(subs, id)
			if h.onCount != nil {
				h.onCount(-1)
			}
		}
		delete(h.topics, topic)
	}
}
