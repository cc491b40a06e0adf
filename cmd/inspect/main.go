package main

import (
	"flag"
	"fmt"
	"os"

	"stamp-compositor/internal/catalog"
	"stamp-compositor/internal/compositor"
	"stamp-compositor/internal/imageset"
	"stamp-compositor/internal/project"
)

func main() {
	projectFile := flag.String("project", "", "Path to project.json")
	flag.Parse()

	path := *projectFile
	if path == "" && flag.NArg() > 0 {
		path = flag.Arg(0)
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect [-project] project.json")
		os.Exit(2)
	}

	lib, err := project.Load(path, imageset.NewCache())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	stamps := lib.Stamps()
	for _, st := range stamps {
		if _, err := st.Decode(); err != nil {
			fmt.Printf("Stamp %s: %v\n", st.Name, err)
			continue
		}
		w, h := st.NaturalSize()
		fmt.Printf("Stamp %s: %dx%d\n", st.Name, w, h)
	}

	for _, s := range lib.Styles() {
		inspectStyle(s, stamps)
	}
}

func inspectStyle(s *catalog.Style, stamps []*catalog.Stamp) {
	if _, err := s.Decode(); err != nil {
		fmt.Printf("Style %s: %v\n", s.Name, err)
		return
	}
	nw, nh := s.NaturalSize()
	dw, dh := s.DisplaySize()
	scale, err := s.ScaleFactor()
	if err != nil {
		fmt.Printf("Style %s: %v\n", s.Name, err)
		return
	}
	fmt.Printf("Style %s: natural %dx%d, display %dx%d, scale %.3f\n", s.Name, nw, nh, dw, dh, scale)

	for _, h := range s.Handles.Handles() {
		mark := " "
		if h.Selected {
			mark = "*"
		}
		g := h.Geometry
		fmt.Printf("  %s handle[%d]: x=%.1f y=%.1f w=%.1f h=%.1f angle=%.1f\n", mark, h.Index, g.X, g.Y, g.Width, g.Height, g.Angle)
	}

	if m, _ := s.Mask(false); m != nil {
		fmt.Printf("  mask: %.2f%% covered\n", 100*m.Coverage())
	} else {
		fmt.Println("  mask: none")
	}

	for _, st := range stamps {
		if w, _ := st.NaturalSize(); w == 0 {
			continue
		}
		r, err := compositor.Resolve(s, st)
		if err != nil {
			fmt.Printf("    %s: %v\n", st.Name, err)
			continue
		}
		b := r.Bounds()
		fmt.Printf("    %s: draw x=%.1f y=%.1f w=%.1f h=%.1f angle=%.1f bounds=%v\n", st.Name, r.X, r.Y, r.W, r.H, r.Angle, b)
	}
}
