package diagram_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/trackmap/pkg/payload"
	"github.com/matzehuels/trackmap/pkg/render/diagram"
)

func ExampleToDOT() {
	doc := payload.Document{
		Groups: []payload.Group{{
			ID:   "s1",
			Name: "North",
			Rows: []payload.Row{{ID: "r1", Trackers: []payload.Tracker{{ID: "t1", Title: "T1"}}}},
		}},
		Loose: []payload.LooseTracker{{ID: "l1", Title: "Spare"}},
	}

	for _, line := range strings.Split(diagram.ToDOT(doc, diagram.Options{}), "\n") {
		if strings.Contains(line, "->") {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// "field" -> "section:s1";
	// "section:s1" -> "row:r1";
	// "row:r1" -> "tracker:t1";
	// "field" -> "loose:l1" [style=dashed];
}
