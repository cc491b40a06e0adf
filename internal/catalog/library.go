package catalog

import (
	"errors"
	"fmt"

	"stamp-compositor/internal/placement"
	"stamp-compositor/internal/preset"
)

var ErrNotFound = errors.New("catalog: not found")

// Library is the ordered set of styles and stamps of one editing session.
// List order is import order and drives batch iteration order.
// A Library is not safe for concurrent mutation.
type Library struct {
	styles []*Style
	stamps []*Stamp
	seq    int
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{}
}

func (l *Library) nextID(kind string) string {
	l.seq++
	return fmt.Sprintf("%s-%d", kind, l.seq)
}

// AddStyle appends a style with the given handles (a default handle when
// none are given).
func (l *Library) AddStyle(name string, src Source, handles ...placement.Geometry) *Style {
	s := &Style{
		Image:   newImage(l.nextID("style"), name, src),
		Handles: placement.NewSet(handles...),
	}
	l.styles = append(l.styles, s)
	return s
}

// AddStamp appends a stamp.
func (l *Library) AddStamp(name string, src Source) *Stamp {
	s := &Stamp{Image: newImage(l.nextID("stamp"), name, src)}
	l.stamps = append(l.stamps, s)
	return s
}

// Styles returns the styles in order.
func (l *Library) Styles() []*Style {
	out := make([]*Style, len(l.styles))
	copy(out, l.styles)
	return out
}

// Stamps returns the stamps in order.
func (l *Library) Stamps() []*Stamp {
	out := make([]*Stamp, len(l.stamps))
	copy(out, l.stamps)
	return out
}

// Style looks a style up by id.
func (l *Library) Style(id string) (*Style, error) {
	for _, s := range l.styles {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: style %q", ErrNotFound, id)
}

// Stamp looks a stamp up by id.
func (l *Library) Stamp(id string) (*Stamp, error) {
	for _, s := range l.stamps {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: stamp %q", ErrNotFound, id)
}

// RemoveStyle deletes a style, its handles and its mask.
func (l *Library) RemoveStyle(id string) error {
	for i, s := range l.styles {
		if s.ID == id {
			l.styles = append(l.styles[:i], l.styles[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: style %q", ErrNotFound, id)
}

// RemoveStamp deletes a stamp.
func (l *Library) RemoveStamp(id string) error {
	for i, s := range l.stamps {
		if s.ID == id {
			l.stamps = append(l.stamps[:i], l.stamps[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: stamp %q", ErrNotFound, id)
}

// ClearStyles removes every style.
func (l *Library) ClearStyles() {
	l.styles = nil
}

// ClearStamps removes every stamp.
func (l *Library) ClearStamps() {
	l.stamps = nil
}

// AssignStamp points the active handle of every style at the stamp, for
// the live preview. It does not change what a batch composites.
func (l *Library) AssignStamp(stampID string) error {
	st, err := l.Stamp(stampID)
	if err != nil {
		return err
	}
	for _, s := range l.styles {
		s.Handles.SetStampRef(st.ID)
	}
	return nil
}

// SyncActive copies the active handle geometry of one style to the active
// handle of every other style.
func (l *Library) SyncActive(styleID string) error {
	src, err := l.Style(styleID)
	if err != nil {
		return err
	}
	targets := make([]*placement.Set, 0, len(l.styles))
	for _, s := range l.styles {
		targets = append(targets, s.Handles)
	}
	preset.Broadcast(src.Handles, targets...)
	return nil
}
