package placement

// Handle is one manipulable rectangle on a style.
type Handle struct {
	Index    int
	Geometry Geometry
	Selected bool

	// StampRef names the stamp shown in the live preview. Compositing never
	// reads it; the batch decides which stamp is drawn.
	StampRef string
}

// Snapshot is the persisted form of a handle, used by presets.
type Snapshot struct {
	Index  int  `json:"index"`
	Active bool `json:"active"`
	Geometry
}

// Set is the list of handles bound to one style. A Set always holds at
// least one handle and exactly one of them is selected.
type Set struct {
	handles []Handle
	next    int
}

// NewSet returns a set with one handle per geometry, the first selected.
// With no geometries the set gets a single default handle.
func NewSet(gs ...Geometry) *Set {
	if len(gs) == 0 {
		gs = []Geometry{DefaultGeometry()}
	}
	s := &Set{}
	for _, g := range gs {
		s.Add(g)
	}
	s.handles[0].Selected = true
	return s
}

// Len returns the number of handles.
func (s *Set) Len() int {
	return len(s.handles)
}

// Handles returns a copy of the handles in order.
func (s *Set) Handles() []Handle {
	out := make([]Handle, len(s.handles))
	copy(out, s.handles)
	return out
}

// Add appends a handle and returns its index. The selection is unchanged.
func (s *Set) Add(g Geometry) int {
	idx := s.next
	s.next++
	s.handles = append(s.handles, Handle{Index: idx, Geometry: g})
	return idx
}

// Active returns the selected handle.
func (s *Set) Active() Handle {
	for _, h := range s.handles {
		if h.Selected {
			return h
		}
	}
	// unreachable while the invariant holds
	return s.handles[0]
}

// Select makes the handle with the given index the only selected one.
func (s *Set) Select(index int) error {
	pos := s.find(index)
	if pos < 0 {
		return ErrNoHandle
	}
	for i := range s.handles {
		s.handles[i].Selected = i == pos
	}
	return nil
}

// Get returns the handle with the given index.
func (s *Set) Get(index int) (Handle, error) {
	pos := s.find(index)
	if pos < 0 {
		return Handle{}, ErrNoHandle
	}
	return s.handles[pos], nil
}

// Update replaces the geometry of a handle.
func (s *Set) Update(index int, g Geometry) error {
	pos := s.find(index)
	if pos < 0 {
		return ErrNoHandle
	}
	s.handles[pos].Geometry = g
	return nil
}

// UpdateActive replaces the geometry of the selected handle.
func (s *Set) UpdateActive(g Geometry) {
	_ = s.Update(s.Active().Index, g)
}

// SetStampRef records which stamp the selected handle previews.
func (s *Set) SetStampRef(ref string) {
	pos := s.find(s.Active().Index)
	s.handles[pos].StampRef = ref
}

// Remove deletes a handle. The last handle cannot be removed; removing the
// selected handle selects the first remaining one.
func (s *Set) Remove(index int) error {
	pos := s.find(index)
	if pos < 0 {
		return ErrNoHandle
	}
	if len(s.handles) == 1 {
		return ErrLastHandle
	}
	wasSelected := s.handles[pos].Selected
	s.handles = append(s.handles[:pos], s.handles[pos+1:]...)
	if wasSelected {
		s.handles[0].Selected = true
	}
	return nil
}

// ReadGeometry returns a snapshot of every handle.
func (s *Set) ReadGeometry() []Snapshot {
	out := make([]Snapshot, len(s.handles))
	for i, h := range s.handles {
		out[i] = Snapshot{Index: h.Index, Active: h.Selected, Geometry: h.Geometry}
	}
	return out
}

// WriteGeometry applies snapshots to handles with a matching index.
// Snapshots without a matching handle are ignored. If the snapshots mark
// exactly one existing handle active, it becomes the selection. It returns
// the number of handles updated.
func (s *Set) WriteGeometry(snaps []Snapshot) int {
	n := 0
	active := -1
	for _, snap := range snaps {
		pos := s.find(snap.Index)
		if pos < 0 {
			continue
		}
		s.handles[pos].Geometry = snap.Geometry
		n++
		if snap.Active {
			if active == -1 {
				active = snap.Index
			} else {
				active = -2
			}
		}
	}
	if active >= 0 {
		_ = s.Select(active)
	}
	return n
}

func (s *Set) find(index int) int {
	for i, h := range s.handles {
		if h.Index == index {
			return i
		}
	}
	return -1
}
