package payment

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store implementation for development and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	payments map[uuid.UUID]*Payment
}

// NewMemoryStore creates an empty in-memory payment store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{payments: make(map[uuid.UUID]*Payment)}
}

func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (*Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.payments[id]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	return copyPayment(p), nil
}

func (s *MemoryStore) GetByTransactionID(_ context.Context, transactionID string) (*Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.payments {
		if p.TransactionID == transactionID {
			return copyPayment(p), nil
		}
	}
	return nil, ErrPaymentNotFound
}

func (s *MemoryStore) ListBySubscription(_ context.Context, subscriptionID uuid.UUID) ([]*Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Payment
	for _, p := range s.payments {
		if p.SubscriptionID == subscriptionID {
			out = append(out, copyPayment(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PaymentDate.After(out[j].PaymentDate)
	})
	return out, nil
}

func (s *MemoryStore) Save(_ context.Context, payment *Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.payments[payment.ID] = copyPayment(payment)
	return nil
}

// copyPayment clones the aggregate including its refunds so callers cannot
// mutate stored state through shared pointers.
func copyPayment(p *Payment) *Payment {
	clone := *p
	clone.refunds = nil
	clone.RestoreRefunds(p.refunds)
	return &clone
}
