package document

// AddText places an annotation at the snapped position. Zero style fields
// take the values of DefaultTextStyle.
func (s *Store) AddText(x, y float64, text string, style TextStyle) string {
	s.checkpoint("add-text")
	t := &Text{
		ID:        s.newID(),
		X:         s.snap(x),
		Y:         s.snap(y),
		Text:      text,
		TextStyle: style.withDefaults(),
	}
	s.texts[t.ID] = t
	s.textOrder = append(s.textOrder, t.ID)
	return t.ID
}

// UpdateText replaces the content and style of an annotation.
func (s *Store) UpdateText(id, text string, style TextStyle) bool {
	t, ok := s.texts[id]
	if !ok {
		return false
	}
	style = style.withDefaults()
	if t.Text == text && t.TextStyle == style {
		return true
	}
	s.checkpoint("update-text")
	t.Text = text
	t.TextStyle = style
	return true
}

// RemoveText deletes an annotation.
func (s *Store) RemoveText(id string) bool {
	if _, ok := s.texts[id]; !ok {
		return false
	}
	s.checkpoint("remove-text")
	s.deleteText(id)
	return true
}
