package canvas

import "testing"

func TestAlignmentThresholdInclusive(t *testing.T) {
	grid := BuildSnapGrid([]SnapCandidate{
		{ID: "a", Rect: RectFromSize(0, 100, 50, 50)},
	})

	tests := []struct {
		name      string
		top       float64
		threshold float64
		wantSnap  bool
		wantPos   float64
	}{
		{"well within", 105, 10, true, 100},
		{"exactly at threshold", 105, 5, true, 100},
		{"just outside", 105, 4, false, 0},
		{"dead on", 100, 10, true, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := []SnapPoint{{tt.top, SnapTop}}
			moving := RectFromSize(200, tt.top, 50, 50)
			res := grid.FindNearestSnaps(points, moving, tt.threshold, "moving")

			if tt.wantSnap {
				if res.Horizontal == nil {
					t.Fatal("expected a horizontal snap")
				}
				if res.Horizontal.Position != tt.wantPos {
					t.Errorf("Position = %v, want %v", res.Horizontal.Position, tt.wantPos)
				}
			} else if res.Horizontal != nil {
				t.Errorf("unexpected snap at %v", res.Horizontal.Position)
			}
		})
	}
}

func TestAlignmentTieBreakByRegistrationOrder(t *testing.T) {
	// Lines at y=100 (from a) and y=110 (from b); a moving top at 105 is
	// equidistant from both. The earlier-registered line wins.
	grid := BuildSnapGrid([]SnapCandidate{
		{ID: "a", Rect: Rect{Left: 0, Top: 100, Right: 50, Bottom: 300}},
		{ID: "b", Rect: Rect{Left: 60, Top: 110, Right: 110, Bottom: 310}},
	})

	points := []SnapPoint{{105, SnapTop}}
	res := grid.FindNearestSnaps(points, RectFromSize(200, 105, 50, 50), 10, "moving")

	if res.Horizontal == nil {
		t.Fatal("expected a snap")
	}
	if res.Horizontal.Position != 100 || res.Horizontal.SourceID != "a" {
		t.Errorf("got position %v from %q, want 100 from a", res.Horizontal.Position, res.Horizontal.SourceID)
	}
}

func TestAllInThresholdPositionsBecomeGuides(t *testing.T) {
	grid := BuildSnapGrid([]SnapCandidate{
		{ID: "a", Rect: Rect{Left: 100, Top: 0, Right: 104, Bottom: 50}},
		{ID: "b", Rect: Rect{Left: 106, Top: 60, Right: 110, Bottom: 120}},
	})

	// Moving left edge at 103: lines 100, 104, 106, 110 and the two
	// centers 102, 108 are all within threshold 8.
	points := []SnapPoint{{103, SnapLeft}}
	res := grid.FindNearestSnaps(points, RectFromSize(103, 200, 40, 40), 8, "moving")

	if res.Vertical == nil {
		t.Fatal("expected a vertical snap")
	}
	if res.Vertical.Position != 102 && res.Vertical.Position != 104 {
		t.Errorf("closest should be 102 or 104, got %v", res.Vertical.Position)
	}

	positions := make(map[float64]int)
	for _, g := range res.Guides {
		if g.Orientation == Vertical {
			positions[g.Position]++
		}
	}
	for _, want := range []float64{100, 102, 104, 106, 108, 110} {
		if positions[want] != 1 {
			t.Errorf("position %v appears %d times in guides, want exactly 1", want, positions[want])
		}
	}
}

func TestLinesFromExcludedNodeIgnored(t *testing.T) {
	grid := BuildSnapGrid([]SnapCandidate{
		{ID: "self", Rect: RectFromSize(0, 100, 50, 50)},
	})

	points := []SnapPoint{{103, SnapTop}}
	res := grid.FindNearestSnaps(points, RectFromSize(200, 103, 50, 50), 10, "self")

	if res.Horizontal != nil {
		t.Errorf("snapped to own line at %v", res.Horizontal.Position)
	}
	if len(res.Guides) != 0 {
		t.Errorf("got %d guides from excluded node", len(res.Guides))
	}
}

func TestSpacingMatchInRow(t *testing.T) {
	// a and b share a row with a 50px gap between facing edges. The
	// moving rect sits right of b at a 45px gap, so equalizing suggests
	// moving +5 away from b.
	grid := BuildSnapGrid([]SnapCandidate{
		{ID: "a", Rect: RectFromSize(0, 0, 100, 40)},
		{ID: "b", Rect: RectFromSize(150, 0, 100, 40)},
	})

	moving := RectFromSize(295, 0, 80, 40)
	res := grid.FindNearestSnaps(nil, moving, 8, "moving")

	if res.HorizontalSpacing == nil {
		t.Fatal("expected a horizontal spacing match")
	}
	if res.HorizontalSpacing.Spacing != 50 {
		t.Errorf("Spacing = %v, want 50", res.HorizontalSpacing.Spacing)
	}
	if res.HorizontalSpacing.Offset != 5 {
		t.Errorf("Offset = %v, want 5", res.HorizontalSpacing.Offset)
	}
}

func TestSpacingIgnoresCrossRowNodes(t *testing.T) {
	// Centers differ by more than the row tolerance, so no gap registers
	// and nothing matches.
	grid := BuildSnapGrid([]SnapCandidate{
		{ID: "a", Rect: RectFromSize(0, 0, 100, 40)},
		{ID: "b", Rect: RectFromSize(150, 200, 100, 40)},
	})

	moving := RectFromSize(295, 0, 80, 40)
	res := grid.FindNearestSnaps(nil, moving, 8, "moving")

	if res.HorizontalSpacing != nil {
		t.Errorf("unexpected spacing match: %+v", res.HorizontalSpacing)
	}
}

func TestSpacingColumnAxis(t *testing.T) {
	// a above b with a 30px vertical gap; moving sits below b at 27px.
	grid := BuildSnapGrid([]SnapCandidate{
		{ID: "a", Rect: RectFromSize(0, 0, 60, 50)},
		{ID: "b", Rect: RectFromSize(0, 80, 60, 50)},
	})

	moving := RectFromSize(0, 157, 60, 50)
	res := grid.FindNearestSnaps(nil, moving, 8, "moving")

	if res.VerticalSpacing == nil {
		t.Fatal("expected a vertical spacing match")
	}
	if res.VerticalSpacing.Spacing != 30 {
		t.Errorf("Spacing = %v, want 30", res.VerticalSpacing.Spacing)
	}
	if res.VerticalSpacing.Offset != 3 {
		t.Errorf("Offset = %v, want 3", res.VerticalSpacing.Offset)
	}
}
