package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/trackmap/pkg/payload"
)

// snapshot encodes the current tables. Serialize only produces plain
// values, so encoding cannot fail.
func (s *Store) snapshot() []byte {
	data, err := json.Marshal(s.Serialize())
	if err != nil {
		panic(fmt.Sprintf("document: encode snapshot: %v", err))
	}
	return data
}

// checkpoint records the current state before a structural mutation. Open
// drag sessions are committed first so that each drag and the structural
// operation undo separately.
func (s *Store) checkpoint(op string) {
	current := s.snapshot()
	s.flushDrags(current)
	s.push(current, op)
}

// push adds a pre-mutation snapshot to the undo stack and invalidates the
// redo stack.
func (s *Store) push(snap []byte, op string) {
	s.past = append(s.past, snap)
	if over := len(s.past) - s.historyLimit; over > 0 {
		s.past = slices.Delete(s.past, 0, over)
	}
	s.future = nil
	s.logger.Debug("checkpoint", "op", op, "undo", len(s.past))
	s.hook().OnMutation(op)
}

// flushDrags pushes the pre-drag snapshot of every open session that moved
// something and rebases all sessions. A rebased session takes a new snapshot
// on its next move.
func (s *Store) flushDrags(current []byte) {
	for _, ch := range slices.Sorted(maps.Keys(s.drags)) {
		d := s.drags[ch]
		if d.before != nil && !bytes.Equal(d.before, current) {
			s.push(d.before, "drag-"+ch.String())
		}
		d.before = nil
	}
}

// CanUndo reports whether Undo would change the document.
func (s *Store) CanUndo() bool { return len(s.past) > 0 }

// CanRedo reports whether Redo would change the document.
func (s *Store) CanRedo() bool { return len(s.future) > 0 }

// Undo restores the state before the last structural operation.
func (s *Store) Undo() bool {
	if len(s.past) == 0 {
		return false
	}
	current := s.snapshot()
	if err := s.restore(s.past[len(s.past)-1]); err != nil {
		s.logger.Error("undo failed", "err", err)
		return false
	}
	s.past = s.past[:len(s.past)-1]
	s.future = append(s.future, current)
	s.hook().OnHistory("undo", len(s.past), len(s.future))
	return true
}

// Redo reapplies the last undone operation.
func (s *Store) Redo() bool {
	if len(s.future) == 0 {
		return false
	}
	current := s.snapshot()
	if err := s.restore(s.future[len(s.future)-1]); err != nil {
		s.logger.Error("redo failed", "err", err)
		return false
	}
	s.future = s.future[:len(s.future)-1]
	s.past = append(s.past, current)
	s.hook().OnHistory("redo", len(s.past), len(s.future))
	return true
}

// ClearHistory drops both stacks.
func (s *Store) ClearHistory() {
	s.past, s.future = nil, nil
}

// restore replaces every table from a snapshot. Selection keeps the ids
// that still exist; drag sessions never survive a history jump.
func (s *Store) restore(snap []byte) error {
	doc, _, err := payload.Parse(snap)
	if err != nil {
		return err
	}
	t, err := s.build(doc)
	if err != nil {
		return err
	}
	s.tables = t
	s.applySettings(doc.Settings)
	s.selection = slices.DeleteFunc(s.selection, func(id string) bool { return !s.exists(id) })
	clear(s.drags)
	return nil
}
