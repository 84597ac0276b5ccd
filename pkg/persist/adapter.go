package persist

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trackmap/pkg/cache"
	"github.com/matzehuels/trackmap/pkg/document"
	"github.com/matzehuels/trackmap/pkg/errors"
	"github.com/matzehuels/trackmap/pkg/observability"
	"github.com/matzehuels/trackmap/pkg/payload"
)

// MsgSectionRequired is the validation message for saving a field that has
// no section.
const MsgSectionRequired = "at least one section is required before saving"

// DefaultCacheTTL is how long loaded fields stay cached.
const DefaultCacheTTL = 10 * time.Minute

// Result is the outcome of a save. Failures are reported here rather than
// as an error so that callers can show Error to the user verbatim.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	FieldID string `json:"field_id,omitempty"`
}

func failure(err error) Result {
	return Result{Error: errors.UserMessage(err), Code: string(errors.GetCode(err))}
}

// Adapter connects document stores to a [Remote].
type Adapter struct {
	remote Remote
	cache  cache.Cache
	ttl    time.Duration
	logger *log.Logger
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithCache enables cache-aside loading through c.
func WithCache(c cache.Cache, ttl time.Duration) AdapterOption {
	return func(a *Adapter) { a.cache, a.ttl = c, ttl }
}

// WithAdapterLogger sets the logger.
func WithAdapterLogger(l *log.Logger) AdapterOption {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAdapter creates an adapter for remote. Without [WithCache] nothing is
// cached.
func NewAdapter(remote Remote, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		remote: remote,
		cache:  cache.NewNullCache(),
		ttl:    DefaultCacheTTL,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Load returns the layout stored under key. Numeric ids are recorded as
// backend identities.
func (a *Adapter) Load(ctx context.Context, key Key) (doc payload.Document, err error) {
	hooks := observability.Persist()
	hooks.OnLoadStart(ctx, key.String())
	start := time.Now()
	defer func() { hooks.OnLoadComplete(ctx, key.String(), time.Since(start), err) }()

	if err := key.Validate(); err != nil {
		return payload.Document{}, err
	}

	ck := cache.FieldKey(key.ProjectID, key.FieldID)
	if data, ok, cerr := a.cache.Get(ctx, ck); cerr == nil && ok {
		if doc, _, perr := payload.Parse(data); perr == nil {
			a.logger.Debug("field cache hit", "key", key)
			return doc, nil
		}
		_ = a.cache.Delete(ctx, ck)
	}

	doc, err = a.remote.Load(ctx, key)
	if err != nil {
		return payload.Document{}, err
	}
	adoptRemoteIDs(&doc)
	if data, merr := payload.Marshal(doc); merr == nil {
		if err := a.cache.Set(ctx, ck, data, a.ttl); err != nil {
			a.logger.Warn("cache field", "key", key, "err", err)
		}
	}
	return doc, nil
}

// LoadInto loads key into s, replacing its document.
func (a *Adapter) LoadInto(ctx context.Context, key Key, s *document.Store) error {
	doc, err := a.Load(ctx, key)
	if err != nil {
		return err
	}
	return s.Load(doc)
}

// Save validates the document in s and sends it to the remote. On success
// the backend identities from the receipt are recorded in s and the cached
// copy of the field is invalidated.
//
// A document without sections is rejected before any remote call.
func (a *Adapter) Save(ctx context.Context, key Key, s *document.Store) Result {
	doc := s.Serialize()
	if len(doc.Groups) == 0 {
		return failure(errors.New(errors.ErrCodeSectionRequired, MsgSectionRequired))
	}
	if err := key.validateProject(); err != nil {
		return failure(err)
	}

	hooks := observability.Persist()
	hooks.OnSaveStart(ctx, key.String())
	start := time.Now()

	out, local := outbound(doc)
	rec, err := a.remote.Save(ctx, key, out)
	hooks.OnSaveComplete(ctx, key.String(), time.Since(start), err)
	if err != nil {
		a.logger.Warn("save field", "key", key, "err", err)
		return failure(err)
	}

	confirmed := 0
	for kind, ids := range rec.IDs {
		for sent, n := range ids {
			if id, ok := local[entityRef{kind, sent}]; ok && s.SetRemoteID(id, n) {
				confirmed++
			}
		}
	}
	a.logger.Debug("saved field", "key", key.WithField(rec.FieldID), "confirmed", confirmed)

	if err := a.cache.Delete(ctx, cache.FieldKey(key.ProjectID, rec.FieldID)); err != nil {
		a.logger.Warn("invalidate field cache", "key", key, "err", err)
	}
	return Result{Success: true, FieldID: rec.FieldID}
}
