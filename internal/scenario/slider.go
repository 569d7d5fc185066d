package scenario

import (
	"context"
	"fmt"
	"math"

	"paintly-probe/internal/locator"
	"paintly-probe/internal/targets"
)

// DefaultSliderPositions are the click points across the comparison slider,
// as fractions of its width.
var DefaultSliderPositions = []float64{0.2, 0.8, 0.5}

// Slider opens a generation's detail view and exercises the before/after
// comparison slider. It expects the history tab to be open.
type Slider struct {
	Positions []float64
}

func (Slider) Name() string { return "slider" }

func (s Slider) Run(ctx context.Context, env *Env) error {
	res, err := env.Act(ctx, targets.DetailButton, locator.Click)
	switch {
	case err != nil:
		env.Summary.Fail(s.Name(), targets.DetailButton, err.Error())
		return nil
	case !res.Found:
		env.Summary.Skip(s.Name(), targets.DetailButton, "no generation to open")
		return nil
	}
	env.Summary.Pass(s.Name(), targets.DetailButton, res.String())
	env.Page.Settle(ctx)

	slider := env.Locate(ctx, targets.Slider)
	if !slider.Found {
		env.Summary.Add(Step{
			Scenario:   s.Name(),
			Name:       targets.Slider,
			Status:     StatusFail,
			Detail:     slider.String(),
			Screenshot: env.Page.Capture("slider_missing", "Slider not found"),
		})
		return nil
	}
	env.Summary.Pass(s.Name(), targets.Slider, slider.String())

	positions := s.Positions
	if len(positions) == 0 {
		positions = DefaultSliderPositions
	}
	for _, p := range positions {
		pct := int(math.Round(p * 100))
		name := fmt.Sprintf("click %d%%", pct)
		if err := env.Page.ClickAt(ctx, slider.Element, p, 0.5); err != nil {
			env.Summary.Fail(s.Name(), name, err.Error())
			continue
		}
		env.Summary.Add(Step{
			Scenario:   s.Name(),
			Name:       name,
			Status:     StatusPass,
			Screenshot: env.Page.Capture(fmt.Sprintf("slider_%d", pct), "Slider moved"),
		})
	}

	if handle := env.Locate(ctx, targets.SliderHandle); handle.Found {
		if err := env.Page.Drag(ctx, slider.Element, 0.5, 0.25); err != nil {
			env.Summary.Fail(s.Name(), "drag handle", err.Error())
		} else {
			env.Summary.Pass(s.Name(), "drag handle", handle.String())
		}
	} else {
		env.Summary.Info(s.Name(), targets.SliderHandle, handle.String())
	}

	images := env.Count(ctx, targets.SliderImages)
	if images >= 2 {
		env.Summary.Pass(s.Name(), targets.SliderImages, fmt.Sprintf("%d images", images))
	} else {
		env.Summary.Fail(s.Name(), targets.SliderImages, fmt.Sprintf("expected before and after images, got %d", images))
	}
	return nil
}
