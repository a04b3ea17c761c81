package bubbles

import (
	"image"
	"math/rand"
	"testing"

	"github.com/iburimskiy/bubble-maker/internal/geom"
)

func testField(w, h int) *Field {
	return New(w, h, rand.New(rand.NewSource(1)))
}

// TestNewDefaults verifies a fresh field's state
func TestNewDefaults(t *testing.T) {
	f := testField(200, 200)

	if f.Count() != 0 {
		t.Errorf("Expected an empty field, got %d bubbles", f.Count())
	}
	if !f.Running() {
		t.Error("Expected the animation running from construction")
	}
	if f.Author() != "David Boddie" {
		t.Errorf("Expected the default author, got %q", f.Author())
	}

	a := f.BackgroundA()
	if a.R < 205 || a.G < 205 || a.B < 205 {
		t.Errorf("Expected a pastel first background color, got %+v", a)
	}
	b := f.BackgroundB()
	if b.R >= 205 || b.G >= 205 || b.B >= 205 {
		t.Errorf("Expected a darkened second background color, got %+v", b)
	}
	if b.A < 91 || b.A > 190 {
		t.Errorf("Expected the second background color's alpha in [91, 191), got %+v", b)
	}
}

// TestNewClampsViewport verifies the minimum viewport size
func TestNewClampsViewport(t *testing.T) {
	f := testField(50, 120)

	w, h := f.Size()
	if w != 200 || h != 200 {
		t.Errorf("Expected the viewport clamped to 200x200, got %dx%d", w, h)
	}
}

// TestGesture verifies the press-grow-move-release sequence
func TestGesture(t *testing.T) {
	f := testField(200, 200)

	f.PointerDown(geom.Pt(100, 50), ButtonLeft)
	if !f.Growing() {
		t.Fatal("Expected a pending bubble after the press")
	}
	p := f.Pending()
	if p.Position() != geom.Pt(100, 50) {
		t.Errorf("Expected the pending bubble under the pointer, got %v", p.Position())
	}
	if p.Radius() != 4 {
		t.Errorf("Expected starting radius 4, got %g", p.Radius())
	}
	if p.Speed() < 1 || p.Speed() >= 8 {
		t.Errorf("Expected speed in [1, 8), got %g", p.Speed())
	}
	if f.Count() != 0 {
		t.Errorf("Expected the pending bubble uncounted, got %d", f.Count())
	}

	f.GrowthTick()
	if p.Radius() != 8 {
		t.Errorf("Expected radius 8 after one growth tick, got %g", p.Radius())
	}
	for i := 0; i < 20; i++ {
		f.GrowthTick()
	}
	if p.Radius() != 25 {
		t.Errorf("Expected growth capped at 25 in a 200x200 viewport, got %g", p.Radius())
	}

	f.PointerMove(geom.Pt(110, 50))
	if p.Position() != geom.Pt(110, 50) {
		t.Errorf("Expected the pending bubble dragged to (110, 50), got %v", p.Position())
	}

	f.Events()
	f.PointerUp(geom.Pt(110, 50), ButtonLeft)
	if f.Growing() {
		t.Error("Expected the gesture finished after the release")
	}
	if f.Count() != 1 {
		t.Fatalf("Expected 1 bubble after the release, got %d", f.Count())
	}
	if got := f.Bubbles()[0]; got.Position() != geom.Pt(110, 50) || got.Radius() != 25 {
		t.Errorf("Expected the committed bubble at (110, 50) with radius 25, got %v r=%g",
			got.Position(), got.Radius())
	}

	evs := f.Events()
	if len(evs) != 1 || evs[0].Kind != EventBubblesRemaining || evs[0].Count != 1 {
		t.Errorf("Expected one remaining-count event for 1 bubble, got %+v", evs)
	}
}

// TestSecondPressIgnored verifies a press during a gesture does nothing
func TestSecondPressIgnored(t *testing.T) {
	f := testField(200, 200)

	f.PointerDown(geom.Pt(100, 50), ButtonLeft)
	p := f.Pending()
	f.PointerDown(geom.Pt(20, 20), ButtonLeft)

	if f.Pending() != p {
		t.Error("Expected the original pending bubble kept")
	}
	if p.Position() != geom.Pt(100, 50) {
		t.Errorf("Expected the pending bubble unmoved, got %v", p.Position())
	}
}

// TestNonLeftButtonsIgnored verifies only the left button drives the gesture
func TestNonLeftButtonsIgnored(t *testing.T) {
	f := testField(200, 200)

	f.PointerDown(geom.Pt(100, 50), ButtonRight)
	if f.Growing() {
		t.Fatal("Expected no gesture from the right button")
	}

	f.PointerDown(geom.Pt(100, 50), ButtonLeft)
	f.PointerUp(geom.Pt(100, 50), ButtonRight)
	if !f.Growing() {
		t.Error("Expected the right button release to leave the gesture running")
	}
}

// TestPointerMoveWithoutGesture verifies moves between gestures are inert
func TestPointerMoveWithoutGesture(t *testing.T) {
	f := testField(200, 200)

	f.Damage()
	f.PointerMove(geom.Pt(10, 10))

	if d := f.Damage(); len(d) != 0 {
		t.Errorf("Expected no damage without a gesture, got %+v", d)
	}
}

// TestAnimationMovesAndCulls verifies the rise and the top-edge departure
func TestAnimationMovesAndCulls(t *testing.T) {
	f := testField(200, 200)
	f.bubbles = append(f.bubbles,
		NewBubble(geom.Pt(100, 3), 5, 10, testInner, testOuter),
		NewBubble(geom.Pt(50, 100), 5, 2, testInner, testOuter),
	)

	f.Events()
	f.AnimationTick()

	if f.Count() != 1 {
		t.Fatalf("Expected 1 bubble after the cull, got %d", f.Count())
	}
	if got := f.Bubbles()[0].Position(); got != geom.Pt(50, 98) {
		t.Errorf("Expected the survivor at (50, 98), got %v", got)
	}

	evs := f.Events()
	if len(evs) != 2 {
		t.Fatalf("Expected a departure and a count event, got %+v", evs)
	}
	if evs[0].Kind != EventBubbleLeft {
		t.Errorf("Expected a departure event first, got %+v", evs[0])
	}
	if evs[1].Kind != EventBubblesRemaining || evs[1].Count != 1 {
		t.Errorf("Expected a remaining count of 1, got %+v", evs[1])
	}
}

// TestCullBoundary verifies a bubble leaves exactly when its bottom
// reaches the top edge
func TestCullBoundary(t *testing.T) {
	f := testField(200, 200)
	f.bubbles = append(f.bubbles,
		NewBubble(geom.Pt(100, 3), 5, 8, testInner, testOuter),   // lands on y+r == 0
		NewBubble(geom.Pt(50, 3.5), 5, 8, testInner, testOuter),  // lands on y+r == 0.5
	)

	f.AnimationTick()

	if f.Count() != 1 {
		t.Fatalf("Expected only the higher bubble culled, got %d remaining", f.Count())
	}
	if got := f.Bubbles()[0].Position(); got != geom.Pt(50, -4.5) {
		t.Errorf("Expected the survivor at (50, -4.5), got %v", got)
	}
}

// TestStopHaltsAnimation verifies Stop freezes the rise but not growth
func TestStopHaltsAnimation(t *testing.T) {
	f := testField(200, 200)
	f.bubbles = append(f.bubbles, NewBubble(geom.Pt(100, 100), 5, 3, testInner, testOuter))

	f.Stop()
	f.Stop() // idempotent
	if f.Running() {
		t.Fatal("Expected the animation stopped")
	}

	f.Events()
	f.Damage()
	f.AnimationTick()
	if got := f.Bubbles()[0].Position(); got != geom.Pt(100, 100) {
		t.Errorf("Expected no movement while stopped, got %v", got)
	}
	if d := f.Damage(); len(d) != 0 {
		t.Errorf("Expected no damage while stopped, got %+v", d)
	}
	if evs := f.Events(); len(evs) != 0 {
		t.Errorf("Expected no events while stopped, got %+v", evs)
	}

	// The growth clock is independent of the animation clock.
	f.PointerDown(geom.Pt(50, 50), ButtonLeft)
	f.GrowthTick()
	if f.Pending().Radius() != 8 {
		t.Errorf("Expected growth while stopped, got radius %g", f.Pending().Radius())
	}

	f.Start()
	f.Start() // idempotent
	f.AnimationTick()
	if got := f.Bubbles()[0].Position(); got != geom.Pt(100, 97) {
		t.Errorf("Expected movement after Start, got %v", got)
	}
}

// TestSetCountGrows verifies synthesized bubbles and their ranges
func TestSetCountGrows(t *testing.T) {
	f := testField(200, 200)

	f.Events()
	f.SetCount(5)

	if f.Count() != 5 {
		t.Fatalf("Expected 5 bubbles, got %d", f.Count())
	}
	for _, b := range f.Bubbles() {
		pos := b.Position()
		if pos.X < 0 || pos.X >= 200 || pos.Y < 0 || pos.Y >= 200 {
			t.Errorf("Expected a position inside the viewport, got %v", pos)
		}
		if b.Radius() < 4 || b.Radius() >= 24 {
			t.Errorf("Expected radius in [4, 24), got %g", b.Radius())
		}
		if b.Speed() < 1 || b.Speed() >= 8 {
			t.Errorf("Expected speed in [1, 8), got %g", b.Speed())
		}
		inner := b.InnerColor()
		if inner.R < 205 || inner.A < 91 {
			t.Errorf("Expected a pastel inner color, got %+v", inner)
		}
	}

	evs := f.Events()
	if len(evs) != 1 || evs[0].Kind != EventBubblesRemaining || evs[0].Count != 5 {
		t.Errorf("Expected one remaining-count event for 5 bubbles, got %+v", evs)
	}
	d := f.Damage()
	if len(d) != 1 || d[0] != image.Rect(0, 0, 200, 200) {
		t.Errorf("Expected the whole viewport damaged, got %+v", d)
	}
}

// TestSetCountTruncates verifies the oldest bubbles survive a shrink
func TestSetCountTruncates(t *testing.T) {
	f := testField(200, 200)

	f.SetCount(5)
	before := f.Bubbles()
	f.SetCount(2)

	if f.Count() != 2 {
		t.Fatalf("Expected 2 bubbles, got %d", f.Count())
	}
	after := f.Bubbles()
	if after[0] != before[0] || after[1] != before[1] {
		t.Error("Expected the two oldest bubbles kept in order")
	}
}

// TestSetCountNegative verifies negative counts saturate to zero
func TestSetCountNegative(t *testing.T) {
	f := testField(200, 200)
	f.SetCount(3)
	f.Events()

	f.SetCount(-2)

	if f.Count() != 0 {
		t.Errorf("Expected an empty field, got %d bubbles", f.Count())
	}
	evs := f.Events()
	if len(evs) != 1 || evs[0].Count != 0 {
		t.Errorf("Expected a remaining count of 0, got %+v", evs)
	}
}

// TestSetCountAlwaysReports verifies a no-op count still notifies and repaints
func TestSetCountAlwaysReports(t *testing.T) {
	f := testField(200, 200)
	f.Events()
	f.Damage()

	f.SetCount(0)

	if evs := f.Events(); len(evs) != 1 || evs[0].Kind != EventBubblesRemaining || evs[0].Count != 0 {
		t.Errorf("Expected a remaining-count event even with nothing to do, got %+v", evs)
	}
	if d := f.Damage(); len(d) != 1 || d[0] != image.Rect(0, 0, 200, 200) {
		t.Errorf("Expected a full repaint, got %+v", d)
	}
}

// TestMoveDamage verifies a drag damages the old and new bounds
func TestMoveDamage(t *testing.T) {
	f := testField(200, 200)

	f.PointerDown(geom.Pt(100, 50), ButtonLeft)
	if d := f.Damage(); len(d) != 0 {
		t.Fatalf("Expected no damage from the press itself, got %+v", d)
	}

	f.PointerMove(geom.Pt(120, 50))

	d := f.Damage()
	if len(d) != 2 {
		t.Fatalf("Expected two damage regions, got %+v", d)
	}
	if d[0] != image.Rect(95, 45, 105, 55) {
		t.Errorf("Expected the vacated bounds damaged, got %v", d[0])
	}
	if d[1] != image.Rect(115, 45, 125, 55) {
		t.Errorf("Expected the new bounds damaged, got %v", d[1])
	}
}

// TestGrowthDamage verifies a growth tick damages the inflated bounds
func TestGrowthDamage(t *testing.T) {
	f := testField(200, 200)

	f.PointerDown(geom.Pt(100, 50), ButtonLeft)
	f.Damage()
	f.GrowthTick()

	d := f.Damage()
	if len(d) != 1 || d[0] != image.Rect(91, 41, 109, 59) {
		t.Errorf("Expected the radius-8 bounds damaged, got %+v", d)
	}
}

// TestAnimationDamageTrailsBelow verifies the damage region covers the
// vacated strip under a rising bubble
func TestAnimationDamageTrailsBelow(t *testing.T) {
	f := testField(200, 200)
	f.bubbles = append(f.bubbles, NewBubble(geom.Pt(100, 100), 10, 4, testInner, testOuter))
	f.Damage()

	f.AnimationTick()

	d := f.Damage()
	if len(d) != 1 || d[0] != image.Rect(89, 85, 111, 111) {
		t.Errorf("Expected damage trailing the rise by the speed, got %+v", d)
	}
}

// TestDamageClippedToViewport verifies regions never extend past the edges
func TestDamageClippedToViewport(t *testing.T) {
	f := testField(200, 200)

	f.PointerDown(geom.Pt(5, 2), ButtonLeft)
	f.Damage()
	f.GrowthTick()

	d := f.Damage()
	if len(d) != 1 || d[0] != image.Rect(0, 0, 14, 11) {
		t.Errorf("Expected the region clipped at the top-left corner, got %+v", d)
	}
}

// TestResize verifies viewport updates, clamping and the repaint
func TestResize(t *testing.T) {
	f := testField(200, 200)
	f.Damage()

	f.Resize(300, 400)
	w, h := f.Size()
	if w != 300 || h != 400 {
		t.Errorf("Expected 300x400, got %dx%d", w, h)
	}
	if d := f.Damage(); len(d) != 1 || d[0] != image.Rect(0, 0, 300, 400) {
		t.Errorf("Expected the whole new viewport damaged, got %+v", d)
	}

	f.Resize(100, 100)
	w, h = f.Size()
	if w != 200 || h != 200 {
		t.Errorf("Expected the resize clamped to 200x200, got %dx%d", w, h)
	}
}

// TestDynamicCapShrinks verifies a mid-gesture resize can pull the pending
// bubble's radius down to the new cap
func TestDynamicCapShrinks(t *testing.T) {
	f := testField(400, 400)

	f.PointerDown(geom.Pt(200, 200), ButtonLeft)
	for i := 0; i < 20; i++ {
		f.GrowthTick()
	}
	if f.Pending().Radius() != 50 {
		t.Fatalf("Expected cap 50 in a 400x400 viewport, got %g", f.Pending().Radius())
	}

	f.Resize(400, 160)
	f.GrowthTick()
	if f.Pending().Radius() != 20 {
		t.Errorf("Expected the shrunken cap to pull the radius to 20, got %g", f.Pending().Radius())
	}
}

// TestBackgroundSetters verifies the color properties repaint everything
func TestBackgroundSetters(t *testing.T) {
	f := testField(200, 200)
	f.Damage()

	a := RandomPastel(rand.New(rand.NewSource(9)))
	f.SetBackgroundA(a)
	if f.BackgroundA() != a {
		t.Errorf("Expected background A %+v, got %+v", a, f.BackgroundA())
	}
	if d := f.Damage(); len(d) != 1 || d[0] != image.Rect(0, 0, 200, 200) {
		t.Errorf("Expected a full repaint, got %+v", d)
	}

	b := Darker(a, 150)
	f.SetBackgroundB(b)
	if f.BackgroundB() != b {
		t.Errorf("Expected background B %+v, got %+v", b, f.BackgroundB())
	}
	if d := f.Damage(); len(d) != 1 {
		t.Errorf("Expected a full repaint, got %+v", d)
	}
}

// TestAuthor verifies the author property and its reset
func TestAuthor(t *testing.T) {
	f := testField(200, 200)
	f.Damage()

	f.SetAuthor("Someone Else")
	if f.Author() != "Someone Else" {
		t.Errorf("Expected the new author, got %q", f.Author())
	}
	if d := f.Damage(); len(d) != 0 {
		t.Errorf("Expected no repaint from an author change, got %+v", d)
	}

	f.ResetAuthor()
	if f.Author() != "David Boddie" {
		t.Errorf("Expected the default author restored, got %q", f.Author())
	}
}

// TestDrainsClear verifies Events and Damage hand over and reset their queues
func TestDrainsClear(t *testing.T) {
	f := testField(200, 200)

	f.SetCount(2)
	if evs := f.Events(); len(evs) == 0 {
		t.Fatal("Expected queued events")
	}
	if evs := f.Events(); len(evs) != 0 {
		t.Errorf("Expected the event queue cleared, got %+v", evs)
	}

	f.SetCount(3)
	if d := f.Damage(); len(d) == 0 {
		t.Fatal("Expected queued damage")
	}
	if d := f.Damage(); len(d) != 0 {
		t.Errorf("Expected the damage queue cleared, got %+v", d)
	}
}

// TestBubblesReturnsCopy verifies callers cannot disturb the collection
func TestBubblesReturnsCopy(t *testing.T) {
	f := testField(200, 200)
	f.SetCount(1)

	bs := f.Bubbles()
	bs[0] = nil

	if f.Bubbles()[0] == nil {
		t.Error("Expected Bubbles to return a copy of the collection")
	}
}
