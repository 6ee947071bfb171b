package marketcap

import "math"

// Method records how a Result was reached.
type Method string

const (
	MethodMatched           Method = "matched-to-reference"
	MethodReferenceFallback Method = "reference-fallback"
	MethodHeuristic         Method = "heuristic-bucket"
	MethodReferenceOnly     Method = "reference-only"
	MethodUnavailable       Method = "unavailable"
)

// Result is the outcome of resolving one reported figure.
type Result struct {
	Value  float64 // canonical value in raw units, meaningful unless Method is MethodUnavailable
	Scale  Scale   // set only for MethodMatched and MethodHeuristic
	Method Method
	Score  float64 // log-distance in decades of the chosen candidate (MethodMatched, MethodReferenceFallback)
}

// Canonical returns the canonical value, or nil when unavailable.
func (r Result) Canonical() *float64 {
	if r.Method == MethodUnavailable || r.Method == "" {
		return nil
	}
	v := r.Value
	return &v
}

// Confident reports whether the value is anchored to an independent
// estimate. Heuristic bucket guesses are never confident.
func (r Result) Confident() bool {
	switch r.Method {
	case MethodMatched, MethodReferenceFallback, MethodReferenceOnly:
		return true
	}
	return false
}

// Resolver infers the scale of reported market-cap figures.
type Resolver struct {
	thresholds Thresholds
}

// NewResolver creates a Resolver. Callers are expected to have validated
// the thresholds; empty buckets and a non-positive or non-finite window
// fall back to the defaults.
func NewResolver(t Thresholds) *Resolver {
	if len(t.Buckets) == 0 {
		t.Buckets = DefaultBuckets()
	}
	if !isFinite(t.AcceptDecades) || t.AcceptDecades <= 0 {
		t.AcceptDecades = DefaultAcceptDecades
	}
	return &Resolver{thresholds: t}
}

var defaultResolver = NewResolver(DefaultThresholds())

// Resolve resolves with the default thresholds.
func Resolve(reported, reference *float64) Result {
	return defaultResolver.Resolve(reported, reference)
}

// Resolve decides the real-world magnitude of reported, using reference
// (raw units) as an anchor when one is usable.
func (r *Resolver) Resolve(reported, reference *float64) Result {
	rep, hasReported := usableReported(reported)
	ref, hasReference := usableReference(reference)

	switch {
	case hasReported && hasReference:
		return r.matchReference(rep, ref)
	case hasReported:
		return r.bucket(rep)
	case hasReference:
		return Result{Value: ref, Method: MethodReferenceOnly}
	}
	return Result{Method: MethodUnavailable}
}

func (r *Resolver) matchReference(reported, reference float64) Result {
	best := ScaleNone
	bestScore := math.Inf(1)
	var bestValue float64

	for _, m := range Candidates {
		scaled := reported * m.Multiplier()
		if math.IsInf(scaled, 0) || math.IsNaN(scaled) || scaled <= 0 {
			continue
		}
		score := math.Abs(math.Log10(reference / scaled))
		if score < bestScore {
			best, bestScore, bestValue = m, score, scaled
		}
	}

	if best == ScaleNone {
		return Result{Value: reference, Method: MethodReferenceFallback}
	}
	if bestScore < r.thresholds.AcceptDecades {
		return Result{Value: bestValue, Scale: best, Method: MethodMatched, Score: bestScore}
	}
	return Result{Value: reference, Method: MethodReferenceFallback, Score: bestScore}
}

func (r *Resolver) bucket(reported float64) Result {
	magnitude := math.Abs(reported)
	for _, b := range r.thresholds.Buckets {
		if b.matches(magnitude) {
			return Result{Value: reported * b.Scale.Multiplier(), Scale: b.Scale, Method: MethodHeuristic}
		}
	}
	// Unreachable with validated thresholds; degrade to raw units.
	return Result{Value: reported, Scale: ScaleUnits, Method: MethodHeuristic}
}

// BucketFor returns the name of the bucket a reported magnitude falls in,
// or "" if none matches.
func (r *Resolver) BucketFor(reported float64) string {
	magnitude := math.Abs(reported)
	for _, b := range r.thresholds.Buckets {
		if b.matches(magnitude) {
			return b.Name
		}
	}
	return ""
}

func usableReported(v *float64) (float64, bool) {
	if !finite(v) || *v <= 0 {
		return 0, false
	}
	return *v, true
}

func usableReference(v *float64) (float64, bool) {
	if !finite(v) || *v <= 0 {
		return 0, false
	}
	return *v, true
}
