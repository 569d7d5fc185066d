package browser

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Point is a position in page coordinates.
type Point struct {
	X, Y float64
}

// PointIn returns the point at fractions fx, fy of box. Fractions are
// clamped to [0, 1].
func PointIn(box *playwright.Rect, fx, fy float64) Point {
	return Point{
		X: box.X + box.Width*clamp(fx),
		Y: box.Y + box.Height*clamp(fy),
	}
}

func clamp(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// RandomDelay waits between min and max milliseconds, or until ctx ends.
func RandomDelay(ctx context.Context, min, max int) {
	d := min
	if max > min {
		d = rand.Intn(max-min+1) + min
	}
	t := time.NewTimer(time.Duration(d) * time.Millisecond)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// ClickAt clicks at fractions fx, fy of box.
func ClickAt(ctx context.Context, page playwright.Page, box *playwright.Rect, fx, fy float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if box == nil {
		return fmt.Errorf("element has no bounding box")
	}
	p := PointIn(box, fx, fy)
	return page.Mouse().Click(p.X, p.Y)
}

// DragAcross presses at fromX and releases at toX, both fractions of box
// width, along its vertical centre.
func DragAcross(ctx context.Context, page playwright.Page, box *playwright.Rect, fromX, toX float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if box == nil {
		return fmt.Errorf("element has no bounding box")
	}
	from := PointIn(box, fromX, 0.5)
	to := PointIn(box, toX, 0.5)

	mouse := page.Mouse()
	if err := mouse.Move(from.X, from.Y); err != nil {
		return err
	}
	if err := mouse.Down(); err != nil {
		return err
	}
	RandomDelay(ctx, 100, 300)
	if err := mouse.Move(to.X, to.Y, playwright.MouseMoveOptions{Steps: playwright.Int(10)}); err != nil {
		_ = mouse.Up()
		return err
	}
	return mouse.Up()
}
