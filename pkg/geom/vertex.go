package geom

import "fmt"

// Kind tags the segment that ends at a vertex.
type Kind int

const (
	Line   Kind = iota // straight segment
	ArcCCW             // counterclockwise circular arc around Center
	ArcCW              // clockwise circular arc around Center
)

func (k Kind) String() string {
	switch k {
	case Line:
		return "line"
	case ArcCCW:
		return "arc-ccw"
	case ArcCW:
		return "arc-cw"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Valid reports whether k is one of the known segment kinds.
func (k Kind) Valid() bool {
	return k == Line || k == ArcCCW || k == ArcCW
}

// IsArc reports whether k is an arc kind.
func (k Kind) IsArc() bool {
	return k == ArcCCW || k == ArcCW
}

// Flip returns the kind that traces the same segment backwards.
// Lines and unknown kinds are returned unchanged.
func (k Kind) Flip() Kind {
	switch k {
	case ArcCCW:
		return ArcCW
	case ArcCW:
		return ArcCCW
	default:
		return k
	}
}

// Vertex is the end point of a segment. The previous vertex of the curve
// supplies the segment start. Center is only meaningful for arc kinds.
type Vertex struct {
	P      Point `json:"p"`
	Kind   Kind  `json:"kind"`
	Center Point `json:"center,omitempty"`
}

// L returns a line vertex ending at (x, y).
func L(x, y float64) Vertex {
	return Vertex{P: Pt(x, y), Kind: Line}
}

// CCW returns a counterclockwise arc vertex ending at (x, y) around (cx, cy).
func CCW(x, y, cx, cy float64) Vertex {
	return Vertex{P: Pt(x, y), Kind: ArcCCW, Center: Pt(cx, cy)}
}

// CW returns a clockwise arc vertex ending at (x, y) around (cx, cy).
func CW(x, y, cx, cy float64) Vertex {
	return Vertex{P: Pt(x, y), Kind: ArcCW, Center: Pt(cx, cy)}
}
