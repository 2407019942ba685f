package models

// State is the normalized, current-generation application state: the
// hamster registry in insertion order, global settings and the selection pointer.
type State struct {
	Hamsters  []Hamster
	Settings  Settings
	CurrentID string // "" means no selection
}

// NewState returns the fresh-install state.
func NewState() State {
	return State{
		Hamsters: []Hamster{},
		Settings: DefaultSettings(),
	}
}

// Clone deep-copies the state so a mutation can be prepared without touching the original.
func (s State) Clone() State {
	out := State{
		Hamsters:  make([]Hamster, len(s.Hamsters)),
		Settings:  s.Settings,
		CurrentID: s.CurrentID,
	}
	for i, h := range s.Hamsters {
		out.Hamsters[i] = h.Clone()
	}
	return out
}

// Index returns the position of the hamster with id, or -1.
func (s State) Index(id string) int {
	if id == "" {
		return -1
	}
	for i, h := range s.Hamsters {
		if h.ID == id {
			return i
		}
	}
	return -1
}

// EntryCount sums the history length of every hamster.
func (s State) EntryCount() int {
	n := 0
	for _, h := range s.Hamsters {
		n += len(h.Data)
	}
	return n
}

// Normalize backfills missing histories and settings and repairs the
// selection pointer: it must name a live hamster, or be empty exactly when
// the registry is empty. Reports whether anything changed.
func (s *State) Normalize() bool {
	changed := false
	if s.Hamsters == nil {
		s.Hamsters = []Hamster{}
	}
	for i := range s.Hamsters {
		if s.Hamsters[i].Data == nil {
			s.Hamsters[i].Data = []Entry{}
			changed = true
		}
	}
	if s.Settings.Theme == "" {
		ApplyDefaultSettings(&s.Settings)
		changed = true
	}
	if s.Index(s.CurrentID) < 0 {
		next := ""
		if len(s.Hamsters) > 0 {
			next = s.Hamsters[0].ID
		}
		if next != s.CurrentID {
			s.CurrentID = next
			changed = true
		}
	}
	return changed
}
