package renderer

import (
	"time"

	"github.com/df07/go-render-regress/pkg/config"
)

// HaltCondition decides from the current statistics whether rendering is done
type HaltCondition func(Stats) bool

func SamplesAtLeast(n int) HaltCondition {
	return func(s Stats) bool { return s.SamplesPerPixel >= n }
}

func PassesAtLeast(n int) HaltCondition {
	return func(s Stats) bool { return s.Passes >= n }
}

// ElapsedAtLeast compares against render time, not wall time since Start
func ElapsedAtLeast(d time.Duration) HaltCondition {
	return func(s Stats) bool { return s.Elapsed >= d }
}

// Any halts as soon as one condition holds. Nil conditions are ignored.
func Any(conds ...HaltCondition) HaltCondition {
	return func(s Stats) bool {
		for _, c := range conds {
			if c != nil && c(s) {
				return true
			}
		}
		return false
	}
}

// All halts once every non-nil condition holds
func All(conds ...HaltCondition) HaltCondition {
	return func(s Stats) bool {
		matched := false
		for _, c := range conds {
			if c == nil {
				continue
			}
			if !c(s) {
				return false
			}
			matched = true
		}
		return matched
	}
}

// ClearConfigHalt removes batch.haltspp and batch.halttime so that a caller's own
// halt condition is the only one a session built from props observes
func ClearConfigHalt(props *config.Properties) {
	props.Delete(KeyHaltSPP)
	props.Delete(KeyHaltTime)
}

// HaltFromConfig builds a condition from batch.haltspp and batch.halttime (seconds).
// It returns nil when neither key is set; when both are set the first reached wins.
func HaltFromConfig(props *config.Properties) (HaltCondition, error) {
	var conds []HaltCondition

	if props.Has(KeyHaltSPP) {
		spp, err := props.Int(KeyHaltSPP)
		if err != nil {
			return nil, invalid(KeyHaltSPP, err)
		}
		if spp <= 0 {
			return nil, &InvalidConfigError{Key: KeyHaltSPP, Reason: "must be positive"}
		}
		conds = append(conds, SamplesAtLeast(spp))
	}

	if props.Has(KeyHaltTime) {
		secs, err := props.Float(KeyHaltTime)
		if err != nil {
			return nil, invalid(KeyHaltTime, err)
		}
		if secs <= 0 {
			return nil, &InvalidConfigError{Key: KeyHaltTime, Reason: "must be positive"}
		}
		conds = append(conds, ElapsedAtLeast(time.Duration(secs*float64(time.Second))))
	}

	switch len(conds) {
	case 0:
		return nil, nil
	case 1:
		return conds[0], nil
	default:
		return Any(conds...), nil
	}
}
