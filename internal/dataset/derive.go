package dataset

import "math"

// DeltaC is the forecast advantage (react - pred) / max(react, 1). The
// denominator never drops below 1, so small reactive costs do not blow the
// ratio up. Undefined inputs give an undefined result.
func DeltaC(react, pred float64) float64 {
	return (react - pred) / math.Max(react, 1)
}

// LogTauL is log10(tau) with zero treated as undefined, so log(0) is never
// evaluated.
func LogTauL(tau float64) float64 {
	if tau == 0 {
		return math.NaN()
	}
	return math.Log10(tau)
}

// DeriveDeltaC adds (or overwrites) the deltaC column
func DeriveDeltaC(t *Table) error {
	react, err := t.Float64s(ColCReact)
	if err != nil {
		return err
	}
	pred, err := t.Float64s(ColCPred)
	if err != nil {
		return err
	}

	out := make([]float64, t.Len())
	for i := range out {
		out[i] = DeltaC(react[i], pred[i])
	}
	return t.SetFloat64s(ColDeltaC, out)
}

// DeriveLogTauL adds (or overwrites) the logTauL column
func DeriveLogTauL(t *Table) error {
	tau, err := t.Float64s(ColTauL)
	if err != nil {
		return err
	}

	out := make([]float64, t.Len())
	for i, v := range tau {
		out[i] = LogTauL(v)
	}
	return t.SetFloat64s(ColLogTauL, out)
}

// Derive computes both derived columns. It is idempotent: running it again
// recomputes the same values from the same inputs. No row is dropped.
func Derive(t *Table) error {
	if err := DeriveDeltaC(t); err != nil {
		return err
	}
	return DeriveLogTauL(t)
}
