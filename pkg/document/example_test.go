package document_test

import (
	"fmt"

	"github.com/matzehuels/trackmap/pkg/document"
)

func Example() {
	s := document.New()

	row := s.AddRow(0, 0)
	s.AddItemToRow(document.ItemSpec{Title: "T1", Ext: &document.Ext{StakeCount: 2}}, row, -1)
	s.AddItemToRow(document.ItemSpec{Title: "T2", Ext: &document.Ext{StakeCount: 4}}, row, -1)
	fmt.Printf("row: %vx%v\n", s.RowWidth(row), s.RowHeight(row))

	s.Select(row)
	sec := s.GroupSelectedRowsIntoGroup()
	w, h := s.SectionSize(sec)
	fmt.Printf("section: %vx%v\n", w, h)

	s.Undo()
	st := s.Stats()
	fmt.Printf("after undo: %d sections, %d rows, %d items\n", st.Sections, st.Rows, st.Items)
	// Output:
	// row: 106x138
	// section: 106x166
	// after undo: 0 sections, 1 rows, 2 items
}

func ExampleStore_DuplicateSelected() {
	s := document.New()
	s.AddLooseItem(document.ItemSpec{Title: "Tracker A"}, 0, 0)
	s.SelectAll()

	for range 2 {
		for _, id := range s.DuplicateSelected() {
			it, _ := s.Item(id)
			fmt.Printf("%s at (%v, %v)\n", it.Title, it.X, it.Y)
		}
	}
	// Output:
	// Tracker A (2) at (30, 30)
	// Tracker A (3) at (60, 60)
}
