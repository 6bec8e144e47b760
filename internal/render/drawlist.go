package render

import "LocalSketch/internal/state"

type OpKind string

const (
	OpResize OpKind = "resize"
	OpFill   OpKind = "fill"
	OpStroke OpKind = "stroke"
)

// Op is one recorded drawing instruction. A browser canvas replays them in
// order with the 2D context: resize sets canvas.width/height, fill is a
// fillRect over the buffer, stroke is moveTo/lineTo with round caps and joins.
type Op struct {
	Kind      OpKind        `json:"op"`
	Width     int           `json:"width,omitempty"`
	Height    int           `json:"height,omitempty"`
	Color     string        `json:"color,omitempty"`
	LineWidth float64       `json:"lineWidth,omitempty"`
	Points    []state.Point `json:"points,omitempty"`
}

// DrawList is a Surface that records instructions instead of painting.
type DrawList struct {
	width, height int
	ops           []Op
}

var _ Surface = (*DrawList)(nil)

func NewDrawList(width, height int) *DrawList {
	return &DrawList{width: width, height: height}
}

func (d *DrawList) Size() (int, int) {
	return d.width, d.height
}

func (d *DrawList) Resize(width, height int) error {
	d.width, d.height = width, height
	d.ops = append(d.ops, Op{Kind: OpResize, Width: width, Height: height})
	return nil
}

// Fill drops everything recorded since the last Flush: a full-buffer fill
// hides it anyway.
func (d *DrawList) Fill(color string) {
	keep := d.ops[:0]
	for _, op := range d.ops {
		if op.Kind == OpResize {
			keep = append(keep, op)
		}
	}
	d.ops = append(keep, Op{Kind: OpFill, Color: color})
}

func (d *DrawList) StrokePolyline(points []state.Point, color string, width float64) {
	if len(points) < 2 {
		return
	}
	d.ops = append(d.ops, Op{
		Kind:      OpStroke,
		Color:     color,
		LineWidth: width,
		Points:    append([]state.Point(nil), points...),
	})
}

// Len is the number of pending instructions.
func (d *DrawList) Len() int {
	return len(d.ops)
}

// Flush returns the recorded instructions and starts a new list.
func (d *DrawList) Flush() []Op {
	ops := d.ops
	d.ops = nil
	return ops
}
