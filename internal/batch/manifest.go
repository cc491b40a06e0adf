package batch

import (
	"encoding/json"
	"fmt"
)

// ManifestName is the archive entry listing every composite.
const ManifestName = "manifest.json"

// ManifestEntry represents one composite in the manifest.
type ManifestEntry struct {
	Style string `json:"style"`
	Stamp string `json:"stamp"`
	Image string `json:"image"`

	// Natural-pixel draw rectangle and rotation in degrees.
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	W     float64 `json:"w"`
	H     float64 `json:"h"`
	Angle float64 `json:"angle"`
}

func manifestEntry(pr PairResult) ManifestEntry {
	return ManifestEntry{
		Style: pr.Style,
		Stamp: pr.Stamp,
		Image: pr.File,
		X:     pr.Rect.X,
		Y:     pr.Rect.Y,
		W:     pr.Rect.W,
		H:     pr.Rect.H,
		Angle: pr.Rect.Angle,
	}
}

// encodeManifest renders entries as indented JSON. When an image name
// repeats, only the last entry is kept, matching what the archive holds.
func encodeManifest(entries []ManifestEntry) ([]byte, error) {
	last := make(map[string]int, len(entries))
	for i, e := range entries {
		last[e.Image] = i
	}
	out := make([]ManifestEntry, 0, len(last))
	for i, e := range entries {
		if last[e.Image] == i {
			out = append(out, e)
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("batch: manifest: %w", err)
	}
	return data, nil
}
