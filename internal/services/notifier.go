package services

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ArowuTest/growdice-backend/internal/models"
)

// BalanceEvent is published after every committed balance change.
type BalanceEvent struct {
	UserID    primitive.ObjectID     `json:"userId"`
	Balance   decimal.Decimal        `json:"balance"`
	Delta     decimal.Decimal        `json:"delta"`
	Reason    models.TransactionType `json:"reason"`
	Reference string                 `json:"reference,omitempty"`
	At        time.Time              `json:"at"`
}

const subscriberBuffer = 16

// BalanceNotifier fans balance events out to per-user subscribers. Slow
// subscribers lose events instead of blocking the publisher.
type BalanceNotifier struct {
	mu   sync.RWMutex
	subs map[primitive.ObjectID]map[chan BalanceEvent]struct{}
}

// NewBalanceNotifier creates an empty notifier.
func NewBalanceNotifier() *BalanceNotifier {
	return &BalanceNotifier{subs: map[primitive.ObjectID]map[chan BalanceEvent]struct{}{}}
}

// Subscribe registers for userID's events. The returned cancel func closes
// the channel and must be called once.
func (n *BalanceNotifier) Subscribe(userID primitive.ObjectID) (<-chan BalanceEvent, func()) {
	ch := make(chan BalanceEvent, subscriberBuffer)
	n.mu.Lock()
	if n.subs[userID] == nil {
		n.subs[userID] = map[chan BalanceEvent]struct{}{}
	}
	n.subs[userID][ch] = struct{}{}
	n.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs[userID], ch)
			if len(n.subs[userID]) == 0 {
				delete(n.subs, userID)
			}
			n.mu.Unlock()
			close(ch)
		})
	}
}

// Publish delivers evt to the subscribers of evt.UserID.
func (n *BalanceNotifier) Publish(evt BalanceEvent) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for ch := range n.subs[evt.UserID] {
		select {
		case ch <- evt:
		default:
		}
	}
}

// Subscribers returns the number of open subscriptions for userID.
func (n *BalanceNotifier) Subscribers(userID primitive.ObjectID) int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subs[userID])
}
