package memory

import (
	"context"
	"errors"
	"sync"

	appoutbox "imoveis/internal/app/outbox"
)

// Subscriber receives records when the outbox is flushed.
type Subscriber func(ctx context.Context, record appoutbox.EventRecord) error

// Outbox buffers records and hands them to in-process subscribers on Flush.
// It is used when no broker is configured.
type Outbox struct {
	mu          sync.Mutex
	records     []appoutbox.EventRecord
	subscribers []Subscriber
}

func NewOutbox(subscribers ...Subscriber) *Outbox {
	return &Outbox{subscribers: subscribers}
}

func (o *Outbox) Subscribe(s Subscriber) {
	if s == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.subscribers = append(o.subscribers, s)
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = append(o.records, record)
	return nil
}

// Flush delivers every buffered record to every subscriber. All subscribers
// run even if one fails; their errors are joined.
func (o *Outbox) Flush(ctx context.Context) error {
	o.mu.Lock()
	records := o.records
	o.records = nil
	subscribers := append([]Subscriber(nil), o.subscribers...)
	o.mu.Unlock()

	var errs []error
	for _, rec := range records {
		for _, s := range subscribers {
			if err := s(ctx, rec); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (o *Outbox) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.records)
}

var _ appoutbox.Outbox = (*Outbox)(nil)
