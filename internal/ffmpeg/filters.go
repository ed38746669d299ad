package ffmpeg

import (
	"fmt"
	"strings"
)

// FilterBuilder helps construct ffmpeg filter chains
type FilterBuilder struct {
	filters []string
}

// NewFilterBuilder creates a new filter builder
func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{
		filters: make([]string, 0),
	}
}

// EvenDimensions pads odd widths or heights by one black pixel. Most
// yuv420p encoders reject odd frame sizes.
func (fb *FilterBuilder) EvenDimensions(width, height int) *FilterBuilder {
	if width%2 == 0 && height%2 == 0 {
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("pad=%d:%d:0:0:black", width+width%2, height+height%2))
	return fb
}

// Format adds a pixel format conversion
func (fb *FilterBuilder) Format(pixFmt string) *FilterBuilder {
	if pixFmt == "" {
		return fb
	}
	fb.filters = append(fb.filters, "format="+pixFmt)
	return fb
}

// Build returns the complete filter string joined with commas
func (fb *FilterBuilder) Build() string {
	if len(fb.filters) == 0 {
		return ""
	}
	return strings.Join(fb.filters, ",")
}
