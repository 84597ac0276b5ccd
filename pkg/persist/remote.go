package persist

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/trackmap/pkg/errors"
	"github.com/matzehuels/trackmap/pkg/payload"
)

// Remote is the field service: it loads stored layouts and accepts new
// versions, confirming backend identities for every entity.
type Remote interface {
	// Load returns the stored layout. Any inbound shape is accepted.
	Load(ctx context.Context, key Key) (payload.Document, error)

	// Save stores doc. An empty key.FieldID creates a new field.
	Save(ctx context.Context, key Key, doc payload.Document) (Receipt, error)
}

// Receipt confirms a save. IDs maps each entity sent, by kind and id, to its
// backend identity:
//
//	{"field_id": "f1", "ids": {"section": {"sec": 1}, "row": {"1": 1}}}
type Receipt struct {
	FieldID string `json:"field_id"`
	IDs     IDMap  `json:"ids"`
}

// LocalRemote implements [Remote] on a [Backend]. Saves are serialised so
// that identity assignment never races.
type LocalRemote struct {
	mu         sync.Mutex
	backend    Backend
	newFieldID func() string
}

// LocalOption configures a LocalRemote.
type LocalOption func(*LocalRemote)

// WithFieldIDGenerator sets the generator for new field ids.
func WithFieldIDGenerator(fn func() string) LocalOption {
	return func(r *LocalRemote) { r.newFieldID = fn }
}

// NewLocalRemote creates a Remote backed by b. New fields get uuid ids.
func NewLocalRemote(b Backend, opts ...LocalOption) *LocalRemote {
	r := &LocalRemote{backend: b, newFieldID: uuid.NewString}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Backend returns the underlying backend.
func (r *LocalRemote) Backend() Backend { return r.backend }

func (r *LocalRemote) Load(ctx context.Context, key Key) (payload.Document, error) {
	if err := key.Validate(); err != nil {
		return payload.Document{}, err
	}
	data, err := r.backend.Fetch(ctx, key)
	if err != nil {
		return payload.Document{}, err
	}
	doc, _, err := payload.Parse(data)
	if err != nil {
		return payload.Document{}, fmt.Errorf("stored field %s: %w", key, err)
	}
	return doc, nil
}

func (r *LocalRemote) Save(ctx context.Context, key Key, doc payload.Document) (Receipt, error) {
	if err := key.validateProject(); err != nil {
		return Receipt{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if key.FieldID == "" {
		key.FieldID = r.newFieldID()
	}

	next := int64(1)
	prev, err := r.backend.Fetch(ctx, key)
	switch {
	case err == nil:
		if stored, _, perr := payload.Parse(prev); perr == nil {
			next = maxNumericID(stored) + 1
		}
	case !errors.Is(err, errors.ErrCodeFieldNotFound):
		return Receipt{}, err
	}

	doc = doc.Normalized()
	ids := AssignNumericIDs(&doc, next)
	data, err := payload.Marshal(doc)
	if err != nil {
		return Receipt{}, errors.Wrap(errors.ErrCodeInternal, err, "encode field %s", key)
	}
	if err := r.backend.Put(ctx, key, data); err != nil {
		return Receipt{}, err
	}
	return Receipt{FieldID: key.FieldID, IDs: ids}, nil
}

var _ Remote = (*LocalRemote)(nil)
