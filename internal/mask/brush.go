package mask

// Brush size limits, as a diameter in natural pixels.
const (
	MinBrushSize     = 10
	MaxBrushSize     = 80
	DefaultBrushSize = 60
)

// Brush is the authoring state of one mask editing session: a mode, a
// size and the last pointer position of the stroke in progress.
type Brush struct {
	Mode Mode

	size    float64
	drawing bool
	lastX   float64
	lastY   float64
}

// NewBrush returns a paint brush of the default size.
func NewBrush() *Brush {
	return &Brush{Mode: ModePaint, size: DefaultBrushSize}
}

// Size returns the brush diameter.
func (b *Brush) Size() float64 {
	return b.size
}

// SetSize sets the diameter, clamped to the allowed range.
func (b *Brush) SetSize(d float64) {
	switch {
	case d < MinBrushSize:
		d = MinBrushSize
	case d > MaxBrushSize:
		d = MaxBrushSize
	}
	b.size = d
}

// Radius returns half the diameter.
func (b *Brush) Radius() float64 {
	return b.size / 2
}

// Begin starts a stroke at (x, y). Nothing is drawn until the pointer moves.
func (b *Brush) Begin(x, y float64) {
	b.drawing = true
	b.lastX, b.lastY = x, y
}

// MoveTo extends the stroke in progress to (x, y) on l. Without a Begin it
// draws nothing and returns false.
func (b *Brush) MoveTo(l *Layer, x, y float64) bool {
	if !b.drawing {
		return false
	}
	l.Stroke(b.Mode, b.lastX, b.lastY, x, y, b.Radius())
	b.lastX, b.lastY = x, y
	return true
}

// End finishes the stroke in progress.
func (b *Brush) End() {
	b.drawing = false
}
