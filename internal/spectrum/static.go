package spectrum

// Static returns fixed raw readings. It is mostly useful in tests.
type Static struct {
	Left, Right Levels
	band        int
	reads       int
}

// NewStatic returns a source reporting the same raw values on both channels.
func NewStatic(raw Levels) *Static {
	return &Static{Left: raw, Right: raw}
}

func (s *Static) Read(ch Channels) int {
	s.reads++
	if ch == Right {
		return clampLevel(s.Right[s.band])
	}
	return clampLevel(s.Left[s.band])
}

func (s *Static) Next() { s.band = (s.band + 1) % NumBands }

// Band is the currently selected band.
func (s *Static) Band() int { return s.band }

// Reads counts calls to Read.
func (s *Static) Reads() int { return s.reads }

// Set replaces the raw values of both channels.
func (s *Static) Set(raw Levels) {
	s.Left = raw
	s.Right = raw
}
