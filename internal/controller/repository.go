package controller

import (
	"sync"
	"time"

	"flood-monitor/internal/view"
)

// Subscription - подписка websocket-клиента на представление камер
type Subscription struct {
	ID         string
	RemoteAddr string
	Query      view.Query
	Since      time.Time
	LastPush   time.Time
	Pushes     int64
}

// SubscriptionRepository - репозиторий подписок (in-memory)
type SubscriptionRepository struct {
	subs map[string]*Subscription
	mu   sync.RWMutex
}

// NewSubscriptionRepository создает новый репозиторий
func NewSubscriptionRepository() *SubscriptionRepository {
	return &SubscriptionRepository{
		subs: make(map[string]*Subscription),
	}
}

// Save сохраняет подписку
func (r *SubscriptionRepository) Save(sub *Subscription) {
	if sub == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if sub.Since.IsZero() {
		sub.Since = time.Now()
	}
	r.subs[sub.ID] = sub
}

// UpdateQuery меняет параметры подписки
func (r *SubscriptionRepository) UpdateQuery(id string, q view.Query) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, exists := r.subs[id]
	if !exists {
		return false
	}
	sub.Query = q
	return true
}

// MarkPushed отмечает отправку представления клиенту
func (r *SubscriptionRepository) MarkPushed(id string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sub, exists := r.subs[id]; exists {
		sub.LastPush = at
		sub.Pushes++
	}
}

// Get получает копию подписки по ID
func (r *SubscriptionRepository) Get(id string) (Subscription, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, exists := r.subs[id]
	if !exists {
		return Subscription{}, false
	}
	return *sub, true
}

// Remove удаляет подписку
func (r *SubscriptionRepository) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.subs, id)
}

// All возвращает копии всех подписок
func (r *SubscriptionRepository) All() []Subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Subscription, 0, len(r.subs))
	for _, sub := range r.subs {
		out = append(out, *sub)
	}
	return out
}

// Count возвращает число активных подписок
func (r *SubscriptionRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.subs)
}
