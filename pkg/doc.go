// Package pkg provides the core libraries for Trackmap field layout editing.
//
// # Overview
//
// Trackmap edits solar tracker field layouts: trackers stand in rows, rows
// stack into sections, and free text annotations sit anywhere on the canvas.
// The pkg directory is organized into four main areas:
//
//  1. [document] - The editable layout model (selection, drags, undo/redo)
//  2. [payload] - The persisted JSON shapes and their parsing
//  3. [sizing] and [geometry] - Size calculators and section contours
//  4. [persist] and [cache] - Storage backends, remotes, and read caching
//
// # Architecture
//
// The typical data flow through Trackmap:
//
//	JSON file / remote API
//	         ↓
//	    [payload] package (sniff shape, parse, normalize ids)
//	         ↓
//	    [document] package (load, edit, serialize)
//	         ↓
//	    [persist] package (save through a Remote, record backend ids)
//
// # Quick Start
//
// Load a layout, group the loose trackers into a row, and write it back:
//
//	import (
//	    "github.com/matzehuels/trackmap/pkg/document"
//	    "github.com/matzehuels/trackmap/pkg/payload"
//	)
//
//	doc, _, err := payload.ReadFile("field.json")
//	if err != nil {
//	    return err
//	}
//	s := document.New()
//	if err := s.Load(doc); err != nil {
//	    return err
//	}
//	s.Select(s.LooseIDs()...)
//	s.GroupSelectedIntoRow()
//	return payload.WriteFile(s.Serialize(), "field.json")
//
// # Main Packages
//
// ## Layout Model
//
// [document] - The in-memory store. Every structural operation records one
// whole-document history entry; view changes, selection and drag moves do
// not. Drag sessions run on independent channels for loose trackers, rows,
// sections and texts.
//
// [payload] - Wire types for the canonical document, the bare section array
// and the wrapped API response. [payload.Parse] accepts all three.
//
// ## Calculators
//
// [sizing] - Tracker, row and section sizes derived from layout settings.
//
// [geometry] - Row boxes, contour paths and bounding rectangles for sections.
//
// ## Storage
//
// [persist] - Backends (file, memory, SQLite, Redis, MongoDB), the local and
// HTTP remotes, and the [persist.Adapter] that saves and loads a store.
//
// [cache] - Read-through caching for remote fetches: file, Redis and null
// implementations plus instrumentation.
//
// ## Support
//
// [render] - Graphviz hierarchy diagrams of a layout.
//
// [errors] - Coded errors shared by the CLI, server and storage layers.
//
// [observability] - Hook interfaces for document, storage, cache and HTTP
// events.
//
// [httputil] - Retry helpers for remote calls.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/document/...           # Specific package
//	go test -run Example                 # Examples only
//	go test -tags integration ./pkg/...  # Include integration tests
//
// [document]: https://pkg.go.dev/github.com/matzehuels/trackmap/pkg/document
// [payload]: https://pkg.go.dev/github.com/matzehuels/trackmap/pkg/payload
// [sizing]: https://pkg.go.dev/github.com/matzehuels/trackmap/pkg/sizing
// [geometry]: https://pkg.go.dev/github.com/matzehuels/trackmap/pkg/geometry
// [persist]: https://pkg.go.dev/github.com/matzehuels/trackmap/pkg/persist
// [cache]: https://pkg.go.dev/github.com/matzehuels/trackmap/pkg/cache
// [render]: https://pkg.go.dev/github.com/matzehuels/trackmap/pkg/render
// [errors]: https://pkg.go.dev/github.com/matzehuels/trackmap/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/trackmap/pkg/observability
// [httputil]: https://pkg.go.dev/github.com/matzehuels/trackmap/pkg/httputil
package pkg
