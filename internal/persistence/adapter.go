package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jonathan/resume-builder/internal/metrics"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

// DefaultKey is the slot name used when none is configured.
const DefaultKey = "resumeBuilderDraft"

// Adapter reads and writes one document in one slot of a KV store.
type Adapter struct {
	kv      KV
	key     string
	logger  *slog.Logger
	metrics metrics.Recorder
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithKey overrides the slot name.
func WithKey(key string) Option {
	return func(a *Adapter) {
		if key != "" {
			a.key = key
		}
	}
}

// WithLogger sets the logger used for recovered failures.
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) { a.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(r metrics.Recorder) Option {
	return func(a *Adapter) { a.metrics = r }
}

// NewAdapter creates an adapter over kv.
func NewAdapter(kv KV, opts ...Option) *Adapter {
	a := &Adapter{
		kv:      kv,
		key:     DefaultKey,
		logger:  slog.Default(),
		metrics: metrics.Noop{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Key returns the slot name.
func (a *Adapter) Key() string {
	return a.key
}

// Load returns the stored document, or the default document when the slot is
// empty, unreadable or holds anything that does not decode into a valid
// document. It never fails.
func (a *Adapter) Load(ctx context.Context) types.ResumeDocument {
	raw, ok, err := a.kv.Get(ctx, a.key)
	if err != nil {
		a.logger.Warn("draft unreadable, using default document", "key", a.key, "error", err)
		return types.DefaultDocument()
	}
	if !ok {
		return types.DefaultDocument()
	}

	doc, err := Decode([]byte(raw))
	if err != nil {
		a.metrics.RecordDecodeFailure()
		a.logger.Warn("stored draft is corrupt, using default document", "error", &DecodeError{Key: a.key, Cause: err})
		return types.DefaultDocument()
	}
	return doc
}

// Save encodes doc and overwrites the slot. A failure is returned as a
// *WriteError; callers treat it as non-fatal.
func (a *Adapter) Save(ctx context.Context, doc types.ResumeDocument) error {
	data, err := Encode(doc)
	if err != nil {
		a.metrics.RecordWriteFailure()
		return &WriteError{Key: a.key, Op: "encode", Cause: err}
	}
	if err := a.kv.Set(ctx, a.key, string(data)); err != nil {
		a.metrics.RecordWriteFailure()
		return &WriteError{Key: a.key, Op: "write", Cause: err}
	}
	return nil
}

// Clear removes the slot.
func (a *Adapter) Clear(ctx context.Context) error {
	if err := a.kv.Delete(ctx, a.key); err != nil {
		a.metrics.RecordWriteFailure()
		return &WriteError{Key: a.key, Op: "clear", Cause: err}
	}
	return nil
}

// Encode serializes a document as indented JSON using the persisted field names.
func Encode(doc types.ResumeDocument) ([]byte, error) {
	return json.MarshalIndent(doc.Clone(), "", "  ")
}

// Decode parses and validates a persisted document. The result is fully
// defined or an error is returned; partially decoded documents never escape.
func Decode(data []byte) (types.ResumeDocument, error) {
	if err := schemas.ValidateDocument(data); err != nil {
		return types.ResumeDocument{}, err
	}

	var doc types.ResumeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return types.ResumeDocument{}, fmt.Errorf("failed to parse draft JSON: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return types.ResumeDocument{}, fmt.Errorf("draft violates document invariants: %w", err)
	}
	return doc.Clone(), nil
}
