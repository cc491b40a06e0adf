package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"stamp-compositor/internal/imageset"
	"stamp-compositor/internal/mask"
)

// stroke is one brush segment in the stroke file. A point is a stroke
// whose second point is omitted.
type stroke struct {
	Mode string   `json:"mode"` // "paint" or "erase"
	X    float64  `json:"x"`
	Y    float64  `json:"y"`
	X2   *float64 `json:"x2"`
	Y2   *float64 `json:"y2"`
	Size float64  `json:"size"` // brush diameter, default 60
}

func main() {
	stylePath := flag.String("style", "", "Style image the mask belongs to")
	maskPath := flag.String("mask", "", "Mask PNG to update (created when absent)")
	strokesPath := flag.String("strokes", "", "JSON stroke list")
	clearFirst := flag.Bool("clear", false, "Clear the mask before applying strokes")
	flag.Parse()

	if *stylePath == "" || *maskPath == "" {
		fmt.Fprintln(os.Stderr, "usage: maskpaint -style tee.png -mask tee.mask.png [-strokes strokes.json] [-clear]")
		os.Exit(2)
	}

	style, err := imageset.Load(*stylePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading style: %v\n", err)
		os.Exit(1)
	}
	w, h := style.Bounds().Dx(), style.Bounds().Dy()

	layer := mask.New(w, h)
	if f, err := os.Open(*maskPath); err == nil {
		layer, err = mask.Load(f, w, h)
		f.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading mask: %v\n", err)
			os.Exit(1)
		}
	}
	if *clearFirst {
		layer.Clear()
	}

	var strokes []stroke
	if *strokesPath != "" {
		data, err := os.ReadFile(*strokesPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading strokes: %v\n", err)
			os.Exit(1)
		}
		if err := json.Unmarshal(data, &strokes); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing strokes: %v\n", err)
			os.Exit(1)
		}
	}

	brush := mask.NewBrush()
	for i, s := range strokes {
		switch s.Mode {
		case "", "paint":
			brush.Mode = mask.ModePaint
		case "erase":
			brush.Mode = mask.ModeErase
		default:
			fmt.Fprintf(os.Stderr, "Error: stroke %d: unknown mode %q\n", i, s.Mode)
			os.Exit(1)
		}
		if s.Size > 0 {
			brush.SetSize(s.Size)
		} else {
			brush.SetSize(mask.DefaultBrushSize)
		}

		brush.Begin(s.X, s.Y)
		if s.X2 != nil && s.Y2 != nil {
			brush.MoveTo(layer, *s.X2, *s.Y2)
		} else {
			brush.MoveTo(layer, s.X, s.Y)
		}
		brush.End()
	}

	out, err := os.Create(*maskPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := layer.Save(out); err != nil {
		out.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := out.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Mask %s: %dx%d, %d strokes, %.2f%% covered\n", *maskPath, w, h, len(strokes), 100*layer.Coverage())
}
