// Package persist moves field layouts between a document store and a
// storage backend.
//
// # Layers
//
// A [Backend] stores opaque canonical JSON per [Key]. Five backends are
// provided: [MemoryBackend] for tests, [FileBackend] for the CLI,
// [SQLiteBackend] for a single-node server, and [RedisBackend] and
// [MongoBackend] for shared deployments. [OpenBackend] picks one from a
// [Config].
//
// A [Remote] is the field service seen from the editor: [LocalRemote]
// implements it on top of a Backend and issues numeric backend identities,
// [HTTPRemote] talks to a field API server over HTTP.
//
// The [Adapter] sits between a [document.Store] and a Remote. It validates
// before saving, substitutes backend identities that are already known,
// maps the identities in the save receipt back into the store, and keeps a
// cache-aside copy of loaded documents.
//
// # Usage
//
//	backend, err := persist.OpenBackend(ctx, persist.Config{Backend: "file"})
//	adapter := persist.NewAdapter(persist.NewLocalRemote(backend))
//
//	doc, err := adapter.Load(ctx, persist.Key{ProjectID: "7", FieldID: "12"})
//	store.Load(doc)
//	// ... edit ...
//	res := adapter.Save(ctx, key, store)
//	if !res.Success {
//	    fmt.Println(res.Error)
//	}
package persist
