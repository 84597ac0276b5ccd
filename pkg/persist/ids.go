package persist

import "github.com/matzehuels/trackmap/pkg/payload"

// Entity kinds. Backends number each kind in its own table, so an id is
// only unique together with its kind.
const (
	KindSection = "section"
	KindRow     = "row"
	KindTracker = "tracker"
	KindText    = "text"
)

// IDMap holds backend identities per entity kind, keyed by the id sent.
type IDMap map[string]map[string]int64

// Get returns the identity of the kind entity sent as id.
func (m IDMap) Get(kind, id string) (int64, bool) {
	n, ok := m[kind][id]
	return n, ok
}

// Len returns the number of entities in m.
func (m IDMap) Len() int {
	n := 0
	for _, ids := range m {
		n += len(ids)
	}
	return n
}

func (m IDMap) set(kind, id string, n int64) {
	if m[kind] == nil {
		m[kind] = make(map[string]int64)
	}
	m[kind][id] = n
}

// idRef points at one entity id inside a document. remote is nil for text
// annotations, which never carry a backend identity.
type idRef struct {
	kind   string
	id     *payload.ID
	remote *int64
}

// entityRef identifies an entity across kinds.
type entityRef struct {
	kind string
	id   string
}

func refs(doc *payload.Document) []idRef {
	var out []idRef
	row := func(r *payload.Row) {
		out = append(out, idRef{KindRow, &r.ID, &r.RemoteID})
		for i := range r.Trackers {
			out = append(out, idRef{KindTracker, &r.Trackers[i].ID, &r.Trackers[i].RemoteID})
		}
	}
	for i := range doc.Groups {
		g := &doc.Groups[i]
		out = append(out, idRef{KindSection, &g.ID, &g.RemoteID})
		for j := range g.Rows {
			row(&g.Rows[j])
		}
	}
	for i := range doc.StandaloneRows {
		row(&doc.StandaloneRows[i])
	}
	for i := range doc.Loose {
		out = append(out, idRef{KindTracker, &doc.Loose[i].ID, &doc.Loose[i].RemoteID})
	}
	for i := range doc.TextElements {
		out = append(out, idRef{kind: KindText, id: &doc.TextElements[i].ID})
	}
	return out
}

// maxNumericID returns the highest backend identity present in doc.
func maxNumericID(doc payload.Document) int64 {
	var hi int64
	for _, r := range refs(&doc) {
		if n, ok := r.id.Numeric(); ok && n > hi {
			hi = n
		}
	}
	return hi
}

// AssignNumericIDs gives every entity of doc a numeric backend identity.
// Ids that are already numeric are kept. The others are replaced with fresh
// numbers starting at next, or one past the highest numeric id in doc if
// that is larger, so no identity is ever issued twice.
//
// The returned map holds the identity of every entity keyed by its kind and
// the id it carried on entry. RemoteID fields are cleared: in storage the id
// is the backend identity.
func AssignNumericIDs(doc *payload.Document, next int64) IDMap {
	rs := refs(doc)
	next = max(next, maxNumericID(*doc)+1)

	ids := make(IDMap)
	for _, r := range rs {
		old := string(*r.id)
		n, ok := r.id.Numeric()
		if !ok {
			n = next
			next++
			*r.id = payload.IDFromInt(n)
		}
		if old != "" {
			ids.set(r.kind, old, n)
		}
		if r.remote != nil {
			*r.remote = 0
		}
	}
	return ids
}

// adoptRemoteIDs records numeric ids as backend identities so that a store
// loaded from the backend knows which entities are confirmed.
func adoptRemoteIDs(doc *payload.Document) {
	for _, r := range refs(doc) {
		if r.remote == nil || *r.remote != 0 {
			continue
		}
		if n, ok := r.id.Numeric(); ok {
			*r.remote = n
		}
	}
}

// outbound returns a copy of doc with known backend identities substituted
// for local ids, and the map from outbound kind and id back to local id.
func outbound(doc payload.Document) (payload.Document, map[entityRef]string) {
	out := doc.Normalized()
	local := make(map[entityRef]string)
	for _, r := range refs(&out) {
		id := string(*r.id)
		if r.remote != nil && *r.remote > 0 {
			*r.id = payload.IDFromInt(*r.remote)
			*r.remote = 0
		}
		local[entityRef{r.kind, string(*r.id)}] = id
	}
	return out, local
}
