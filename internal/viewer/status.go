package viewer

// Status is the single user-visible message line.
// Failures overwrite it, successful renders clear it; no history is kept.
type Status struct {
	text string
}

func (s *Status) Show(text string) { s.text = text }
func (s *Status) Clear()           { s.text = "" }
func (s *Status) Text() string     { return s.text }

// Report shows err's message; nil clears the line.
func (s *Status) Report(err error) {
	if err == nil {
		s.Clear()
		return
	}
	s.Show(err.Error())
}
