package preset

import (
	"path/filepath"
	"testing"

	"stamp-compositor/internal/placement"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")

	s, err := Open(path)
	require.NoError(t, err)
	assert.Empty(t, s.Names())

	set := placement.NewSet(placement.Geometry{X: 4, Y: 8, Width: 100, Height: 120, Angle: 15})
	require.NoError(t, s.Save("chest", set.ReadGeometry(), false))

	err = s.Save("chest", nil, false)
	assert.ErrorIs(t, err, ErrExists)
	require.NoError(t, s.Save("back", nil, true))

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"back", "chest"}, reopened.Names())

	snaps, err := reopened.Load("chest")
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, 15.0, snaps[0].Angle)
	assert.True(t, snaps[0].Active)

	_, err = reopened.Load("sleeve")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, reopened.Delete("back"))
	assert.ErrorIs(t, reopened.Delete("back"), ErrNotFound)
}

func TestApply(t *testing.T) {
	src := placement.NewSet(placement.Geometry{X: 9, Width: 40, Height: 40, Angle: 90})
	dst := placement.NewSet()

	n := Apply(dst, src.ReadGeometry())
	assert.Equal(t, 1, n)
	assert.Equal(t, src.Active().Geometry, dst.Active().Geometry)
}

func TestBroadcast(t *testing.T) {
	src := placement.NewSet(placement.Geometry{X: 3, Y: 3, Width: 70, Height: 35, Angle: 200})
	a := placement.NewSet()
	b := placement.NewSet(placement.DefaultGeometry(), placement.DefaultGeometry())
	require.NoError(t, b.Select(1))

	Broadcast(src, a, b, src)

	assert.Equal(t, src.Active().Geometry, a.Active().Geometry)
	assert.Equal(t, src.Active().Geometry, b.Active().Geometry)
	// the unselected handle keeps its geometry
	h, err := b.Get(0)
	require.NoError(t, err)
	assert.Equal(t, placement.DefaultGeometry(), h.Geometry)
}
