// Package compare scores a rendered framebuffer against a reference image.
package compare

import (
	"fmt"
	"math"

	"github.com/df07/go-render-regress/pkg/core"
	"github.com/df07/go-render-regress/pkg/imaging"
)

// DimensionMismatchError means the inputs cannot be compared at all.
// It points at a wrong reference or config rather than a rendering regression.
type DimensionMismatchError struct {
	CandidateW, CandidateH int
	ReferenceW, ReferenceH int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("compare: candidate is %dx%d but reference is %dx%d",
		e.CandidateW, e.CandidateH, e.ReferenceW, e.ReferenceH)
}

// ToleranceExceededError is the soft failure of a regression test
type ToleranceExceededError struct {
	Score     float64
	Tolerance float64
	DiffPath  string // empty when no diff image was written
}

func (e *ToleranceExceededError) Error() string {
	msg := fmt.Sprintf("compare: score %.6f exceeds tolerance %.6f", e.Score, e.Tolerance)
	if e.DiffPath != "" {
		msg += " (diff: " + e.DiffPath + ")"
	}
	return msg
}

// Result of a comparison
type Result struct {
	Passed     bool
	Score      float64 // mean squared error per channel
	MaxDiff    float64 // largest absolute channel difference
	DiffPixels int     // pixels whose largest channel difference exceeds the pixel threshold
}

// DefaultPixelThreshold counts a pixel as different when any channel is off by more than 2/255
const DefaultPixelThreshold = 2.0 / 255.0

// Compare scores candidate against reference with mean squared error.
// The result depends only on the pixel values.
func Compare(candidate, reference *imaging.Framebuffer, tolerance float64) (Result, error) {
	return compare(candidate, reference, tolerance, DefaultPixelThreshold)
}

func compare(candidate, reference *imaging.Framebuffer, tolerance, pixelThreshold float64) (Result, error) {
	if !candidate.SameSize(reference) {
		return Result{}, &DimensionMismatchError{
			CandidateW: candidate.Width, CandidateH: candidate.Height,
			ReferenceW: reference.Width, ReferenceH: reference.Height,
		}
	}

	var res Result
	var sum float64
	for i := range candidate.Pix {
		d := absDiff(candidate.Pix[i], reference.Pix[i])
		sum += d.X*d.X + d.Y*d.Y + d.Z*d.Z

		m := d.MaxComponent()
		res.MaxDiff = math.Max(res.MaxDiff, m)
		if m > pixelThreshold {
			res.DiffPixels++
		}
	}

	if n := len(candidate.Pix); n > 0 {
		res.Score = sum / float64(3*n)
	}
	res.Passed = res.Score <= tolerance
	return res, nil
}

func absDiff(a, b core.Vec3) core.Vec3 {
	return core.NewVec3(math.Abs(a.X-b.X), math.Abs(a.Y-b.Y), math.Abs(a.Z-b.Z))
}

// Comparator adds diff image output to Compare
type Comparator struct {
	// DiffPath receives a heat map of the per-pixel error when a comparison fails.
	// Empty disables the write.
	DiffPath string

	// PixelThreshold overrides DefaultPixelThreshold when positive
	PixelThreshold float64
}

// Compare behaves like the package level Compare and writes the diff image on failure.
// A failed diff write is reported as an error next to a valid Result.
func (c Comparator) Compare(candidate, reference *imaging.Framebuffer, tolerance float64) (Result, error) {
	threshold := c.PixelThreshold
	if threshold <= 0 {
		threshold = DefaultPixelThreshold
	}

	res, err := compare(candidate, reference, tolerance, threshold)
	if err != nil || res.Passed || c.DiffPath == "" {
		return res, err
	}

	if err := imaging.Save(c.DiffPath, DiffImage(candidate, reference)); err != nil {
		return res, fmt.Errorf("compare: writing diff image: %w", err)
	}
	return res, nil
}

// Assert compares and converts a failed comparison into *ToleranceExceededError
func (c Comparator) Assert(candidate, reference *imaging.Framebuffer, tolerance float64) (Result, error) {
	res, err := c.Compare(candidate, reference, tolerance)
	if err != nil {
		return res, err
	}
	if !res.Passed {
		return res, &ToleranceExceededError{Score: res.Score, Tolerance: tolerance, DiffPath: c.DiffPath}
	}
	return res, nil
}

// DiffImage renders the absolute difference, amplified so small errors are visible.
// Both inputs must have the same size.
func DiffImage(candidate, reference *imaging.Framebuffer) *imaging.Framebuffer {
	const gain = 4.0

	out := imaging.New(candidate.Width, candidate.Height)
	for i := range candidate.Pix {
		d := absDiff(candidate.Pix[i], reference.Pix[i]).MaxComponent() * gain
		out.Pix[i] = heat(math.Min(d, 1))
	}
	return out
}

// heat maps [0,1] onto black, red, yellow, white
func heat(t float64) core.Vec3 {
	return core.NewVec3(
		math.Min(1, 3*t),
		math.Max(0, math.Min(1, 3*t-1)),
		math.Max(0, math.Min(1, 3*t-2)),
	)
}
