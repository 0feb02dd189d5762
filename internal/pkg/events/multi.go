package events

import (
	"context"
	"errors"
)

// MultiPublisher fans every event out to all of its publishers.
type MultiPublisher struct {
	publishers []Publisher
}

// NewMultiPublisher combines publishers; nil entries are skipped.
func NewMultiPublisher(publishers ...Publisher) *MultiPublisher {
	m := &MultiPublisher{}
	for _, p := range publishers {
		if p != nil {
			m.publishers = append(m.publishers, p)
		}
	}
	return m
}

// Publish delivers to every backend and joins their errors.
func (m *MultiPublisher) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range m.publishers {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PublishAll delivers several events, continuing past failures.
func (m *MultiPublisher) PublishAll(ctx context.Context, events ...Event) error {
	var errs []error
	for _, e := range events {
		if err := m.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every backend.
func (m *MultiPublisher) Close() error {
	var errs []error
	for _, p := range m.publishers {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len returns the number of backends.
func (m *MultiPublisher) Len() int {
	return len(m.publishers)
}
