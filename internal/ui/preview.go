package ui

// OpenImage shows src in the image overlay.
func (a *App) OpenImage(src string) {
	a.page.mutate(func(s *State) bool {
		s.Image = ImageOverlay{Open: true, Src: src}
		return true
	}, RegionImage)
}

// CloseImage hides the overlay and drops its source.
func (a *App) CloseImage() {
	a.page.mutate(func(s *State) bool {
		s.Image = ImageOverlay{}
		return true
	}, RegionImage)
}
