// Package document owns the canonical résumé document and the operations that change it.
//
// A Store holds one immutable snapshot. Every successful operation builds a
// new snapshot, writes it through to persistence and then hands it to every
// subscriber in commit order. Operations whose input is invalid (unknown
// field, out-of-range index, missing id, blank skill) change nothing and
// report changed=false.
package document

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jonathan/resume-builder/internal/metrics"
	"github.com/jonathan/resume-builder/internal/types"
)

// Persistence is the durable shadow of the store.
type Persistence interface {
	Load(ctx context.Context) types.ResumeDocument
	Save(ctx context.Context, doc types.ResumeDocument) error
	Clear(ctx context.Context) error
}

// Subscriber receives every committed snapshot. Subscribers run synchronously
// and must not call mutating Store methods.
type Subscriber func(doc types.ResumeDocument)

type subscription struct {
	id int
	fn Subscriber
}

// Store holds the current document snapshot.
type Store struct {
	mu       sync.Mutex
	notifyMu sync.Mutex
	doc      types.ResumeDocument
	persist  Persistence
	subs     []subscription
	nextSub  int
	newID    IDGenerator
	logger   *slog.Logger
	metrics  metrics.Recorder
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the entry id source.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) { s.newID = gen }
}

// WithLogger sets the logger used for persistence failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(r metrics.Recorder) Option {
	return func(s *Store) { s.metrics = r }
}

// New creates a store seeded from p. The persistence layer is responsible for
// falling back to the default document when nothing usable is stored.
func New(ctx context.Context, p Persistence, opts ...Option) *Store {
	s := &Store{
		persist: p,
		newID:   NewUUID,
		logger:  slog.Default(),
		metrics: metrics.Noop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.doc = p.Load(ctx).Clone()
	return s
}

// Snapshot returns the current document. The result is a private copy.
func (s *Store) Snapshot() types.ResumeDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Subscribe registers fn for every future committed snapshot and returns a
// function that removes the registration.
func (s *Store) Subscribe(fn Subscriber) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// mutation builds the next snapshot from a private copy of the current one.
// It reports false when the input is invalid and nothing should change.
type mutation func(doc types.ResumeDocument) (types.ResumeDocument, bool)

// apply commits m atomically: write-through, then notification in commit order.
func (s *Store) apply(ctx context.Context, op string, m mutation) (types.ResumeDocument, bool) {
	s.mu.Lock()
	next, ok := m(s.doc.Clone())
	if !ok {
		current := s.doc.Clone()
		s.mu.Unlock()
		s.metrics.RecordMutation(op, false)
		return current, false
	}

	s.doc = next
	if err := s.persist.Save(ctx, next); err != nil {
		s.logger.Warn("draft not persisted, keeping in-memory document", "op", op, "error", err)
	}
	subs := append([]subscription(nil), s.subs...)

	s.notifyMu.Lock()
	s.mu.Unlock()
	for _, sub := range subs {
		sub.fn(next.Clone())
	}
	s.notifyMu.Unlock()

	s.metrics.RecordMutation(op, true)
	return next.Clone(), true
}

// Replace swaps in an externally supplied document, for example one imported
// from a file. Documents that violate the model invariants are rejected.
func (s *Store) Replace(ctx context.Context, doc types.ResumeDocument) (types.ResumeDocument, error) {
	doc = doc.Clone()
	if err := doc.Validate(); err != nil {
		s.metrics.RecordMutation("replace", false)
		return s.Snapshot(), fmt.Errorf("invalid document: %w", err)
	}
	next, _ := s.apply(ctx, "replace", func(types.ResumeDocument) (types.ResumeDocument, bool) {
		return doc, true
	})
	return next, nil
}

// ResetToDefault replaces the document with the built-in default and clears
// the stored draft. It is unconditional; callers confirm beforehand.
func (s *Store) ResetToDefault(ctx context.Context) types.ResumeDocument {
	s.mu.Lock()
	next := types.DefaultDocument()
	s.doc = next
	if err := s.persist.Clear(ctx); err != nil {
		s.logger.Warn("stored draft not cleared", "error", err)
	}
	subs := append([]subscription(nil), s.subs...)

	s.notifyMu.Lock()
	s.mu.Unlock()
	for _, sub := range subs {
		sub.fn(next.Clone())
	}
	s.notifyMu.Unlock()

	s.metrics.RecordMutation("reset", true)
	return next.Clone()
}
