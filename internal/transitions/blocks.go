package transitions

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/keagan/vidfx/internal/clips"
	"github.com/keagan/vidfx/internal/registry"
)

// threeBlocks reveals the right clip through a row of blocks across the
// middle third of the frame, one block at a time.
type threeBlocks struct {
	duration float64
	bars     int
	barRatio float64
	gapRatio float64
}

func threeBlocksDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:     "three_blocks",
		Category: registry.CategoryTransition,
		Summary:  "Reveal the next clip through blocks across the middle of the frame",
		Params: []registry.Param{
			durationParam(1.5),
			{Name: "bars", Kind: registry.KindInt, Default: 3, Min: 1, Max: 20, Help: "number of blocks"},
			{Name: "bar_ratio", Kind: registry.KindFloat, Default: 0.30, Min: 0.01, Max: 1, Help: "block width as a share of the frame width"},
			{Name: "gap_ratio", Kind: registry.KindFloat, Default: 0.02, Min: 0, Max: 1, Help: "gap width as a share of the frame width"},
		},
		BuildTransition: func(args registry.Args) (registry.Transition, error) {
			t := &threeBlocks{
				duration: args.Float("duration"),
				bars:     args.Int("bars"),
				barRatio: args.Float("bar_ratio"),
				gapRatio: args.Float("gap_ratio"),
			}
			used := float64(t.bars)*t.barRatio + float64(t.bars-1)*t.gapRatio
			if used > 1 {
				return nil, &registry.InvalidParameterError{
					Operation: "three_blocks",
					Param:     "bar_ratio",
					Value:     fmt.Sprint(t.barRatio),
					Reason:    fmt.Sprintf("%d blocks and gaps cover %.2f of the frame width", t.bars, used),
				}
			}
			return t, nil
		},
	}
}

func (t *threeBlocks) Window(fps float64) int {
	return window(t.duration, fps)
}

// blocks returns the block rectangles for a frame of the given size, left
// to right and centred horizontally.
func (t *threeBlocks) blocks(width, height int) []image.Rectangle {
	y1, y2 := int(0.33*float64(height)), int(0.66*float64(height))
	gap := int(t.gapRatio * float64(width))
	block := int(t.barRatio * float64(width))
	used := t.bars*block + (t.bars-1)*gap

	rects := make([]image.Rectangle, t.bars)
	x := (width - used) / 2
	for k := range rects {
		rects[k] = image.Rect(x, y1, x+block, y2)
		x += block + gap
	}
	return rects
}

func (t *threeBlocks) Blend(left, right *clips.Clip) (*clips.Clip, error) {
	n := left.Len()
	rects := t.blocks(left.Width, left.Height)
	return span(left, right, func(j int, l, r *image.RGBA) *image.RGBA {
		dst := copyFrame(l)
		for k, rect := range rects {
			// block k appears once the window is (k+1)/(bars+1) through
			if j*(t.bars+1) < (k+1)*n {
				break
			}
			draw.Draw(dst, rect, r, r.Rect.Min.Add(rect.Min), draw.Src)
		}
		return dst
	})
}
