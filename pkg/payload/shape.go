package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/matzehuels/trackmap/pkg/errors"
)

// Shape identifies one of the inbound document shapes.
type Shape int

// Known inbound shapes.
const (
	ShapeUnknown Shape = iota
	// ShapeCanonical is the object-of-lists form produced by [Marshal].
	ShapeCanonical
	// ShapeSectionArray is the historical bare array of sections with
	// nested rows.
	ShapeSectionArray
	// ShapeWrapped is the field API envelope:
	// {"mapa": [...], "campo": {"map_texts": {...}}}.
	ShapeWrapped
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeCanonical:
		return "canonical"
	case ShapeSectionArray:
		return "section-array"
	case ShapeWrapped:
		return "wrapped"
	default:
		return "unknown"
	}
}

// Sniff discriminates the shape of an inbound document without fully
// decoding it.
func Sniff(data []byte) (Shape, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return ShapeUnknown, errors.New(errors.ErrCodeInvalidFormat, "empty document")
	}

	switch trimmed[0] {
	case '[':
		return ShapeSectionArray, nil
	case '{':
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &probe); err != nil {
			return ShapeUnknown, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode document")
		}
		if _, ok := probe["mapa"]; ok {
			return ShapeWrapped, nil
		}
		return ShapeCanonical, nil
	default:
		return ShapeUnknown, errors.New(errors.ErrCodeInvalidShape, "document must be a JSON object or array")
	}
}

// Parse decodes any known inbound shape into the canonical [Document].
// The returned shape reports which variant was found.
func Parse(data []byte) (Document, Shape, error) {
	shape, err := Sniff(data)
	if err != nil {
		return Document{}, shape, err
	}

	var doc Document
	switch shape {
	case ShapeCanonical:
		doc, err = parseCanonical(data)
	case ShapeSectionArray:
		doc, err = parseSectionArray(data)
	case ShapeWrapped:
		doc, err = parseWrapped(data)
	}
	if err != nil {
		return Document{}, shape, err
	}
	return doc.Normalized(), shape, nil
}

func parseCanonical(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode canonical document")
	}
	return doc, nil
}

func parseSectionArray(data []byte) (Document, error) {
	var groups []Group
	if err := json.Unmarshal(data, &groups); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode section array")
	}
	return Document{Groups: groups}, nil
}

// envelope is the field API wrapper around a layout.
type envelope struct {
	Mapa  json.RawMessage `json:"mapa"`
	Campo *struct {
		MapTexts map[string]TextElement `json:"map_texts"`
	} `json:"campo"`
}

func parseWrapped(data []byte) (Document, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode field envelope")
	}

	var doc Document
	if mapa := bytes.TrimSpace(env.Mapa); len(mapa) > 0 && !bytes.Equal(mapa, []byte("null")) {
		inner, err := Sniff(mapa)
		if err != nil {
			return Document{}, err
		}
		switch inner {
		case ShapeSectionArray:
			doc, err = parseSectionArray(mapa)
		case ShapeCanonical:
			doc, err = parseCanonical(mapa)
		default:
			err = errors.New(errors.ErrCodeInvalidShape, "nested %s shape inside field envelope", inner)
		}
		if err != nil {
			return Document{}, err
		}
	}

	if env.Campo != nil {
		doc.TextElements = append(doc.TextElements, unpackTexts(env.Campo.MapTexts)...)
	}
	return doc, nil
}

// unpackTexts flattens a keyed text map in key order. Integer keys sort
// numerically so "10" follows "9".
func unpackTexts(m map[string]TextElement) []TextElement {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeys)

	out := make([]TextElement, 0, len(keys))
	for _, k := range keys {
		t := m[k]
		if t.ID == "" {
			t.ID = ID(k)
		}
		out = append(out, t)
	}
	return out
}

func compareKeys(a, b string) int {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	switch {
	case aerr == nil && berr == nil:
		return ai - bi
	case aerr == nil:
		return -1
	case berr == nil:
		return 1
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// MustParse is like [Parse] but panics on error. Intended for tests and
// examples.
func MustParse(data string) Document {
	doc, _, err := Parse([]byte(data))
	if err != nil {
		panic(fmt.Sprintf("payload.MustParse: %v", err))
	}
	return doc
}
