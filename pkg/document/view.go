package document

// View returns the canvas transform.
func (s *Store) View() View { return s.view }

// SetZoom sets the zoom factor, clamped to [MinZoom, MaxZoom].
func (s *Store) SetZoom(z float64) {
	s.view.Zoom = min(max(z, MinZoom), MaxZoom)
}

// ZoomBy multiplies the zoom factor.
func (s *Store) ZoomBy(factor float64) {
	if factor <= 0 {
		return
	}
	s.SetZoom(s.view.Zoom * factor)
}

// Pan shifts the canvas by (dx, dy).
func (s *Store) Pan(dx, dy float64) {
	s.view.PanX += dx
	s.view.PanY += dy
}
