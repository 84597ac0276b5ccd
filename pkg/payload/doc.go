// Package payload defines the wire format of a field layout.
//
// This package sits at the serialization boundary between the editable
// document (pkg/document) and everything outside the process: JSON files,
// the field API, storage backends and history snapshots.
//
// # Canonical Shape
//
//	{
//	  "groups": [{"id": "s1", "name": "Section 1", "x": 0, "y": 0,
//	              "section_number": 1, "isFinalized": false,
//	              "rows": [{"id": "r1", "row_number": 1, "groupOffsetX": 40,
//	                        "trackers": [{"id": 17, "type": "tracker", "title": "T1",
//	                                      "rowY": 0, "stakeStatusIds": [null, 2],
//	                                      "position": 0}]}]}],
//	  "standaloneRows": [],
//	  "loose": [{"id": "t9", "type": "tracker", "x": 120, "y": 60, "stakeStatusIds": []}],
//	  "textElements": [{"id": "x1", "text": "North", "fontSize": 14, ...}],
//	  "settings": {"trackerWidth": 40, "gap": 10, "padding": 8,
//	               "contourPadding": 10, "stakeSize": 20, "stakeGap": 2}
//	}
//
// # Inbound Shapes
//
// Older files and the field API use other shapes. [Sniff] discriminates them
// and [Parse] normalizes each through its own parser:
//
//   - [ShapeCanonical]: the object above
//   - [ShapeSectionArray]: a bare array of groups with nested rows
//   - [ShapeWrapped]: {"mapa": <either of the above>, "campo": {"map_texts": {key: text}}}
//
// Writers always produce the canonical shape.
//
// # Identities
//
// [ID] accepts strings and numbers. Backend-confirmed entities carry
// integer ids, which are written back as JSON numbers.
package payload
