package canvas

import "math"

// PointKind identifies which edge or center of the moving node a snap
// candidate point describes.
type PointKind int

const (
	SnapLeft PointKind = iota
	SnapRight
	SnapCenterX
	SnapTop
	SnapBottom
	SnapCenterY
)

// IsVertical reports whether the kind describes a vertical line (an x
// position). Left/right/centerX points match vertical lines; the rest
// match horizontal lines.
func (k PointKind) IsVertical() bool {
	return k == SnapLeft || k == SnapRight || k == SnapCenterX
}

// SnapPoint is one candidate edge or center of the moving node, in canvas
// space.
type SnapPoint struct {
	Value float64
	Kind  PointKind
}

// Orientation of a guide line.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// SnapLine is one visual guide produced by a query. Alignment guides have
// Spacing zero; spacing guides carry the matched gap. Guides are produced
// fresh every query and consumed immediately by the overlay layer.
type SnapLine struct {
	Orientation Orientation `json:"orientation"`
	Position    float64     `json:"position"`
	Spacing     float64     `json:"spacing,omitempty"`
	SourceID    string      `json:"sourceNodeId"`
	From        Point       `json:"from"`
	To          Point       `json:"to"`
}

// SnapMatch is the authoritative alignment snap on one axis: the moving
// point of the given kind should land exactly on Position.
type SnapMatch struct {
	Kind     PointKind
	Position float64
	Distance float64
	SourceID string
}

// SpacingMatch suggests an offset that makes the moving node's gap to a
// neighbor exactly equal to a previously observed spacing.
type SpacingMatch struct {
	Spacing  float64
	Offset   float64
	SourceID string
}

// SnapResult is the answer to one FindNearestSnaps query.
type SnapResult struct {
	// Horizontal is the snap against horizontal lines (y positions:
	// top/bottom/centerY); Vertical against vertical lines (x positions).
	Horizontal        *SnapMatch
	Vertical          *SnapMatch
	HorizontalSpacing *SpacingMatch // x-axis gaps between row neighbors
	VerticalSpacing   *SpacingMatch // y-axis gaps between column neighbors
	Guides            []SnapLine
}

// SnapCandidate is one stationary node contributing lines to the grid.
type SnapCandidate struct {
	ID   string
	Rect Rect
}

const (
	// Nodes whose centers differ by less than this on the cross axis are
	// considered to share a row (or column) for spacing registration.
	rowTolerance    = 50.0
	columnTolerance = 50.0
)

type gapPair struct {
	a, b string
}

// SnapGrid indexes the alignment lines and inter-node spacings of a
// snapshot of stationary nodes. It is built once per gesture and queried
// on every pointer-move frame; all positions are rounded to integer
// pixels at registration so the multimaps stay small and lookups exact.
type SnapGrid struct {
	horizontal map[int][]string // y line -> contributing node ids
	vertical   map[int][]string // x line -> contributing node ids
	hOrder     []int            // registration order, for tie-breaking
	vOrder     []int

	hGaps     map[int][]gapPair // x-axis gap -> contributing pairs
	vGaps     map[int][]gapPair // y-axis gap -> contributing pairs
	hGapOrder []int
	vGapOrder []int

	candidates []SnapCandidate
}

// BuildSnapGrid indexes the given nodes. Callers pass the visible
// siblings of the editing context, minus the nodes being dragged or
// resized and minus descendants of a dragged container.
func BuildSnapGrid(nodes []SnapCandidate) *SnapGrid {
	g := &SnapGrid{
		horizontal: make(map[int][]string),
		vertical:   make(map[int][]string),
		hGaps:      make(map[int][]gapPair),
		vGaps:      make(map[int][]gapPair),
		candidates: nodes,
	}

	for _, n := range nodes {
		r := n.Rect
		g.addHorizontal(round(r.Top), n.ID)
		g.addHorizontal(round(r.Bottom), n.ID)
		g.addHorizontal(round(r.CenterY()), n.ID)
		g.addVertical(round(r.Left), n.ID)
		g.addVertical(round(r.Right), n.ID)
		g.addVertical(round(r.CenterX()), n.ID)
	}

	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			g.registerGaps(nodes[i], nodes[j])
		}
	}

	return g
}

func (g *SnapGrid) addHorizontal(y int, id string) {
	if _, seen := g.horizontal[y]; !seen {
		g.hOrder = append(g.hOrder, y)
	}
	g.horizontal[y] = append(g.horizontal[y], id)
}

func (g *SnapGrid) addVertical(x int, id string) {
	if _, seen := g.vertical[x]; !seen {
		g.vOrder = append(g.vOrder, x)
	}
	g.vertical[x] = append(g.vertical[x], id)
}

// registerGaps records the facing-edge distance between two nodes that
// share a row (horizontal gap) or a column (vertical gap) and do not
// overlap on the main axis.
func (g *SnapGrid) registerGaps(a, b SnapCandidate) {
	if math.Abs(a.Rect.CenterY()-b.Rect.CenterY()) <= rowTolerance {
		if a.Rect.Right < b.Rect.Left {
			g.addHGap(round(b.Rect.Left-a.Rect.Right), gapPair{a.ID, b.ID})
		} else if b.Rect.Right < a.Rect.Left {
			g.addHGap(round(a.Rect.Left-b.Rect.Right), gapPair{b.ID, a.ID})
		}
	}
	if math.Abs(a.Rect.CenterX()-b.Rect.CenterX()) <= columnTolerance {
		if a.Rect.Bottom < b.Rect.Top {
			g.addVGap(round(b.Rect.Top-a.Rect.Bottom), gapPair{a.ID, b.ID})
		} else if b.Rect.Bottom < a.Rect.Top {
			g.addVGap(round(a.Rect.Top-b.Rect.Bottom), gapPair{b.ID, a.ID})
		}
	}
}

func (g *SnapGrid) addHGap(gap int, p gapPair) {
	if _, seen := g.hGaps[gap]; !seen {
		g.hGapOrder = append(g.hGapOrder, gap)
	}
	g.hGaps[gap] = append(g.hGaps[gap], p)
}

func (g *SnapGrid) addVGap(gap int, p gapPair) {
	if _, seen := g.vGaps[gap]; !seen {
		g.vGapOrder = append(g.vGapOrder, gap)
	}
	g.vGaps[gap] = append(g.vGaps[gap], p)
}

// FindNearestSnaps runs the alignment and spacing passes for the moving
// node. points are the node's candidate edges/centers at its tentative
// position; moving is its tentative bounding box; threshold is inclusive
// (a point exactly at threshold distance snaps). Lines contributed only
// by excludeID are ignored.
func (g *SnapGrid) FindNearestSnaps(points []SnapPoint, moving Rect, threshold float64, excludeID string) SnapResult {
	var res SnapResult

	res.Horizontal = g.alignmentPass(points, threshold, excludeID, false, &res.Guides)
	res.Vertical = g.alignmentPass(points, threshold, excludeID, true, &res.Guides)
	res.HorizontalSpacing = g.spacingPassX(moving, threshold, excludeID, &res.Guides)
	res.VerticalSpacing = g.spacingPassY(moving, threshold, excludeID, &res.Guides)

	return res
}

// alignmentPass scans one axis's registered lines in registration order.
// Every in-threshold position becomes a visible guide (de-duplicated per
// position); only the single closest line becomes the authoritative snap,
// earlier registration winning ties.
func (g *SnapGrid) alignmentPass(points []SnapPoint, threshold float64, excludeID string, vertical bool, guides *[]SnapLine) *SnapMatch {
	lines := g.horizontal
	order := g.hOrder
	if vertical {
		lines = g.vertical
		order = g.vOrder
	}

	var best *SnapMatch
	seen := make(map[int]bool)

	for _, pos := range order {
		contributor := otherContributor(lines[pos], excludeID)
		if contributor == "" {
			continue
		}
		for _, p := range points {
			if p.Kind.IsVertical() != vertical {
				continue
			}
			dist := math.Abs(p.Value - float64(pos))
			if dist > threshold {
				continue
			}
			if !seen[pos] {
				seen[pos] = true
				*guides = append(*guides, g.alignmentGuide(float64(pos), vertical, contributor))
			}
			if best == nil || dist < best.Distance {
				best = &SnapMatch{Kind: p.Kind, Position: float64(pos), Distance: dist, SourceID: contributor}
			}
		}
	}

	return best
}

// alignmentGuide spans the guide line across the contributing rects so
// the overlay can draw it from edge to edge.
func (g *SnapGrid) alignmentGuide(pos float64, vertical bool, sourceID string) SnapLine {
	lo, hi := pos, pos
	for _, c := range g.candidates {
		r := c.Rect
		if vertical {
			if touchesVertical(r, pos) {
				lo = min(lo, r.Top)
				hi = max(hi, r.Bottom)
			}
		} else {
			if touchesHorizontal(r, pos) {
				lo = min(lo, r.Left)
				hi = max(hi, r.Right)
			}
		}
	}
	if vertical {
		return SnapLine{Orientation: Vertical, Position: pos, SourceID: sourceID, From: Point{pos, lo}, To: Point{pos, hi}}
	}
	return SnapLine{Orientation: Horizontal, Position: pos, SourceID: sourceID, From: Point{lo, pos}, To: Point{hi, pos}}
}

// spacingPassX looks for row neighbors of the moving rect and matches the
// candidate gap against every registered x-axis spacing within threshold.
// All matches become guides; the smallest difference sets the suggested
// snap offset.
func (g *SnapGrid) spacingPassX(moving Rect, threshold float64, excludeID string, guides *[]SnapLine) *SpacingMatch {
	var best *SpacingMatch
	bestDiff := math.Inf(1)

	for _, c := range g.candidates {
		if c.ID == excludeID {
			continue
		}
		if math.Abs(c.Rect.CenterY()-moving.CenterY()) > rowTolerance {
			continue
		}

		var gap, direction float64
		switch {
		case c.Rect.Right <= moving.Left:
			gap = moving.Left - c.Rect.Right
			direction = 1 // moving sits right of the neighbor
		case c.Rect.Left >= moving.Right:
			gap = c.Rect.Left - moving.Right
			direction = -1
		default:
			continue
		}

		for _, spacing := range g.hGapOrder {
			diff := math.Abs(gap - float64(spacing))
			if diff > threshold {
				continue
			}
			*guides = append(*guides, spacingGuideX(moving, c.Rect, float64(spacing)))
			if diff < bestDiff {
				bestDiff = diff
				best = &SpacingMatch{
					Spacing:  float64(spacing),
					Offset:   direction * (float64(spacing) - gap),
					SourceID: pairSource(g.hGaps[spacing], c.ID),
				}
			}
		}
	}

	return best
}

// spacingPassY is the column-axis mirror of spacingPassX.
func (g *SnapGrid) spacingPassY(moving Rect, threshold float64, excludeID string, guides *[]SnapLine) *SpacingMatch {
	var best *SpacingMatch
	bestDiff := math.Inf(1)

	for _, c := range g.candidates {
		if c.ID == excludeID {
			continue
		}
		if math.Abs(c.Rect.CenterX()-moving.CenterX()) > columnTolerance {
			continue
		}

		var gap, direction float64
		switch {
		case c.Rect.Bottom <= moving.Top:
			gap = moving.Top - c.Rect.Bottom
			direction = 1
		case c.Rect.Top >= moving.Bottom:
			gap = c.Rect.Top - moving.Bottom
			direction = -1
		default:
			continue
		}

		for _, spacing := range g.vGapOrder {
			diff := math.Abs(gap - float64(spacing))
			if diff > threshold {
				continue
			}
			*guides = append(*guides, spacingGuideY(moving, c.Rect, float64(spacing)))
			if diff < bestDiff {
				bestDiff = diff
				best = &SpacingMatch{
					Spacing:  float64(spacing),
					Offset:   direction * (float64(spacing) - gap),
					SourceID: pairSource(g.vGaps[spacing], c.ID),
				}
			}
		}
	}

	return best
}

func spacingGuideX(moving, neighbor Rect, spacing float64) SnapLine {
	y := (max(moving.Top, neighbor.Top) + min(moving.Bottom, neighbor.Bottom)) / 2
	var from, to float64
	if neighbor.Right <= moving.Left {
		from, to = neighbor.Right, moving.Left
	} else {
		from, to = moving.Right, neighbor.Left
	}
	return SnapLine{Orientation: Horizontal, Position: y, Spacing: spacing, From: Point{from, y}, To: Point{to, y}}
}

func spacingGuideY(moving, neighbor Rect, spacing float64) SnapLine {
	x := (max(moving.Left, neighbor.Left) + min(moving.Right, neighbor.Right)) / 2
	var from, to float64
	if neighbor.Bottom <= moving.Top {
		from, to = neighbor.Bottom, moving.Top
	} else {
		from, to = moving.Bottom, neighbor.Top
	}
	return SnapLine{Orientation: Vertical, Position: x, Spacing: spacing, From: Point{x, from}, To: Point{x, to}}
}

// otherContributor returns the first contributor that is not the excluded
// node, or "" when the line belongs to the excluded node alone.
func otherContributor(ids []string, excludeID string) string {
	for _, id := range ids {
		if id != excludeID {
			return id
		}
	}
	return ""
}

// pairSource picks the partner id from the registered pairs for guide
// attribution; falls back to the neighbor itself.
func pairSource(pairs []gapPair, neighborID string) string {
	for _, p := range pairs {
		if p.a == neighborID {
			return p.b
		}
		if p.b == neighborID {
			return p.a
		}
	}
	if len(pairs) > 0 {
		return pairs[0].a
	}
	return neighborID
}

func touchesVertical(r Rect, x float64) bool {
	return round(r.Left) == round(x) || round(r.Right) == round(x) || round(r.CenterX()) == round(x)
}

func touchesHorizontal(r Rect, y float64) bool {
	return round(r.Top) == round(y) || round(r.Bottom) == round(y) || round(r.CenterY()) == round(y)
}

func round(f float64) int {
	return int(math.Round(f))
}
