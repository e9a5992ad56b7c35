// Package layout places three text nodes on a 2-D canvas so that their
// distances reflect pairwise similarity.
//
// Similarity s maps to a target distance (1-s)*120+40 pixels. Node 0 is
// anchored above the canvas center, node 1 sits at 45° from node 0, and
// node 2 is triangulated from both with the law of cosines. Targets that
// cannot form a real triangle are resolved by clamping the cosine into
// [-1, 1] rather than failing. Finally every node is clamped into the
// padded canvas so the node circles stay visible.
package layout

import (
	"errors"
	"fmt"
	"math"

	"github.com/ZanzyTHEbar/textsim-go/internal/apptype"
)

const (
	DefaultWidth      = 400
	DefaultHeight     = 300
	DefaultNodeRadius = 20
	DefaultPadding    = 30

	// anchorLift raises node 0 above the canvas center.
	anchorLift = 60
	// distanceScale and minDistance define TargetDistance.
	distanceScale = 120
	minDistance   = 40
)

// ErrInvalidCanvas is returned for canvases that cannot hold a node.
var ErrInvalidCanvas = errors.New("invalid canvas")

// Point is an unclamped position.
type Point struct {
	X, Y float64
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// DefaultCanvas returns the 400x300 canvas used by the embed screen.
func DefaultCanvas() apptype.Canvas {
	return apptype.Canvas{Width: DefaultWidth, Height: DefaultHeight, NodeRadius: DefaultNodeRadius, Padding: DefaultPadding}
}

// NormalizeCanvas fills unset fields and validates the result. A zero Canvas
// becomes DefaultCanvas; a zero radius becomes 20 and a zero padding becomes
// radius+10.
func NormalizeCanvas(c apptype.Canvas) (apptype.Canvas, error) {
	if c == (apptype.Canvas{}) {
		return DefaultCanvas(), nil
	}
	if c.Width <= 0 || c.Height <= 0 {
		return c, fmt.Errorf("%w: width and height must be positive, got %gx%g", ErrInvalidCanvas, c.Width, c.Height)
	}
	if c.NodeRadius < 0 || c.Padding < 0 {
		return c, fmt.Errorf("%w: radius and padding must not be negative", ErrInvalidCanvas)
	}
	if c.NodeRadius == 0 {
		c.NodeRadius = DefaultNodeRadius
	}
	if c.Padding == 0 {
		c.Padding = c.NodeRadius + 10
	}
	if 2*c.Padding >= c.Width || 2*c.Padding >= c.Height {
		return c, fmt.Errorf("%w: padding %g leaves no room in %gx%g", ErrInvalidCanvas, c.Padding, c.Width, c.Height)
	}
	return c, nil
}

// TargetDistance converts a similarity into a pixel distance; higher
// similarity means shorter distance.
func TargetDistance(s float64) float64 {
	return (1-s)*distanceScale + minDistance
}

// Lookup returns the similarity of the unordered pair (i, j). Missing pairs
// and NaN values count as 0; values outside [-1, 1] are clamped.
func Lookup(scores []apptype.SimilarityScore, i, j int) float64 {
	for _, s := range scores {
		if (s.Text1Index == i && s.Text2Index == j) || (s.Text1Index == j && s.Text2Index == i) {
			return clampSimilarity(s.Similarity)
		}
	}
	return 0
}

func clampSimilarity(s float64) float64 {
	if math.IsNaN(s) {
		return 0
	}
	return math.Max(-1, math.Min(1, s))
}

// Place computes the unclamped node positions.
func Place(scores []apptype.SimilarityScore, c apptype.Canvas) [3]Point {
	d01 := TargetDistance(Lookup(scores, 0, 1))
	d02 := TargetDistance(Lookup(scores, 0, 2))
	d12 := TargetDistance(Lookup(scores, 1, 2))

	n0 := Point{X: c.Width / 2, Y: c.Height/2 - anchorLift}
	n1 := Point{X: n0.X + d01*math.Cos(math.Pi/4), Y: n0.Y + d01*math.Sin(math.Pi/4)}

	dx, dy := n1.X-n0.X, n1.Y-n0.Y
	base := math.Hypot(dx, dy)
	cosAngle := (d02*d02 + base*base - d12*d12) / (2 * d02 * base)
	// Inconsistent targets (triangle inequality violated) push cosAngle
	// outside [-1, 1]; acos would return NaN.
	cosAngle = math.Max(-1, math.Min(1, cosAngle))
	angle := math.Atan2(dy, dx) + math.Acos(cosAngle)
	n2 := Point{X: n0.X + d02*math.Cos(angle), Y: n0.Y + d02*math.Sin(angle)}

	return [3]Point{n0, n1, n2}
}

// Clamp keeps p inside [Padding, W-Padding] x [Padding, H-Padding].
func Clamp(p Point, c apptype.Canvas) Point {
	return Point{
		X: math.Max(c.Padding, math.Min(c.Width-c.Padding, p.X)),
		Y: math.Max(c.Padding, math.Min(c.Height-c.Padding, p.Y)),
	}
}

// Triangulate builds the render-ready layout: clamped nodes plus one edge per
// pair whose opacity equals the pair's similarity.
func Triangulate(scores []apptype.SimilarityScore, c apptype.Canvas) (apptype.Layout, error) {
	c, err := NormalizeCanvas(c)
	if err != nil {
		return apptype.Layout{}, err
	}
	pts := Place(scores, c)
	out := apptype.Layout{
		Canvas: c,
		Nodes:  make([]apptype.NodePosition, 0, len(pts)),
		Edges:  make([]apptype.Edge, 0, 3),
	}
	for i, p := range pts {
		cp := Clamp(p, c)
		out.Nodes = append(out.Nodes, apptype.NodePosition{Index: i, X: cp.X, Y: cp.Y})
	}
	for _, pair := range [3][2]int{{0, 1}, {0, 2}, {1, 2}} {
		s := Lookup(scores, pair[0], pair[1])
		out.Edges = append(out.Edges, apptype.Edge{From: pair[0], To: pair[1], Similarity: s, Opacity: s})
	}
	return out, nil
}
