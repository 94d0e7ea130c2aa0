package main

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/framenotes"
	"github.com/aretw0/framenotes/pkg/core"
	"github.com/aretw0/framenotes/pkg/drawing"
	"github.com/aretw0/framenotes/pkg/media"
	"github.com/aretw0/framenotes/pkg/notes"
)

var (
	strokesFile string
	drawWidth   float64
	drawHeight  float64
	drawDPR     float64
	renderOut   string
	renderBare  bool
)

// stroke is one entry of a strokes file. An entry with Undo set removes
// the last committed path instead of drawing.
type stroke struct {
	Tool   drawing.Tool `json:"tool"`
	Color  string       `json:"color"`
	Points []core.Point `json:"points"`
	Undo   bool         `json:"undo"`
}

func readStrokes(path string) ([]stroke, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var strokes []stroke
	if err := json.Unmarshal(data, &strokes); err != nil {
		return nil, fmt.Errorf("invalid strokes file %s: %w", path, err)
	}
	return strokes, nil
}

// canvasSize picks the drawing size of a block: its stored size, else the
// embedded image size, else the flags.
func canvasSize(b core.Block, bg image.Image) (float64, float64) {
	w, h := drawWidth, drawHeight
	if bg != nil {
		w, h = float64(bg.Bounds().Dx()), float64(bg.Bounds().Dy())
	}
	if b.Width != nil && b.Height != nil {
		w, h = *b.Width, *b.Height
	}
	return w, h
}

func blockImage(b core.Block) image.Image {
	if b.Type != framenotes.BlockImage {
		return nil
	}
	img, err := media.DecodeImage(b.Content)
	if err != nil {
		return nil
	}
	return img
}

var drawCmd = &cobra.Command{
	Use:   "draw [id] [block]",
	Short: "Replay strokes from a file onto an image or video block",
	Long: `Replay pointer strokes onto a media block, as if drawn on screen.
The strokes file is a JSON array of {"tool": "pen"|"eraser", "color": "#rrggbb",
"points": [{"x":..,"y":..}, ...]} entries; {"undo": true} removes the last path.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		strokes, err := readStrokes(strokesFile)
		if err != nil {
			fatal("Failed to read strokes", err)
		}

		ctx := context.Background()
		env := mustEnv(ctx)
		defer env.Close()

		editNote(ctx, env, args[0], func(e *notes.Editor) error {
			b, ok := e.Blocks().Get(args[1])
			if !ok {
				return fmt.Errorf("no block with id %s", args[1])
			}
			w, h := canvasSize(b, blockImage(b))
			s, ok := env.App.OpenDrawing(b.ID, drawing.Config{Width: w, Height: h, DevicePixelRatio: drawDPR})
			if !ok {
				return fmt.Errorf("block %s is not an image or video", b.ID)
			}
			for _, st := range strokes {
				if st.Undo {
					s.Undo()
					continue
				}
				if st.Tool != "" {
					s.SetTool(st.Tool)
				}
				if st.Color != "" {
					s.SetColor(st.Color)
				}
				for i, p := range st.Points {
					ev := drawing.PointerEvent{X: p.X, Y: p.Y}
					if i == 0 {
						s.PointerDown(ev)
					} else {
						s.PointerMove(ev)
					}
				}
				s.PointerUp()
			}
			paths := len(s.Paths())
			env.App.SaveDrawing()
			fmt.Printf("%d paths on block %s\n", paths, b.ID)
			return nil
		})
	},
}

var renderCmd = &cobra.Command{
	Use:   "render [id] [block]",
	Short: "Render a block's drawings to a PNG file",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		env := mustEnv(ctx)
		defer env.Close()

		n, ok := env.Library.Get(args[0])
		if !ok {
			fatal("Error reading note", fmt.Errorf("no note with id %s", args[0]))
		}
		b, ok := n.Block(args[1])
		if !ok {
			fatal("Error reading block", fmt.Errorf("no block with id %s", args[1]))
		}

		bg := blockImage(b)
		w, h := canvasSize(b, bg)
		surface := drawing.NewSurface(w, h, drawDPR)
		surface.Render(b.Drawings)

		var out image.Image = surface.Image()
		if !renderBare {
			out = surface.Composite(bg)
		}

		f, err := os.Create(renderOut)
		if err != nil {
			fatal("Failed to create output", err)
		}
		defer f.Close()
		onFatal(f.Close)
		if err := png.Encode(f, out); err != nil {
			fatal("Failed to encode PNG", err)
		}
		bounds := out.Bounds()
		fmt.Printf("Rendered %d paths to %s (%dx%d)\n", len(b.Drawings), renderOut, bounds.Dx(), bounds.Dy())
	},
}

func init() {
	rootCmd.AddCommand(drawCmd, renderCmd)
	for _, c := range []*cobra.Command{drawCmd, renderCmd} {
		c.Flags().Float64Var(&drawWidth, "width", 320, "Canvas width when the block has no size")
		c.Flags().Float64Var(&drawHeight, "height", 240, "Canvas height when the block has no size")
		c.Flags().Float64Var(&drawDPR, "dpr", 1, "Device pixel ratio")
	}
	drawCmd.Flags().StringVar(&strokesFile, "strokes", "", "Strokes file (JSON)")
	drawCmd.MarkFlagRequired("strokes")
	renderCmd.Flags().StringVarP(&renderOut, "output", "o", "drawing.png", "Output PNG file")
	renderCmd.Flags().BoolVar(&renderBare, "bare", false, "Render the drawings without the image underneath")
}
