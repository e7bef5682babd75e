package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// correlationCandidates are the variables considered for the matrix, in
// output order.
var correlationCandidates = []Field{
	FieldCarry, FieldTotal, FieldBallSpeed, FieldClubSpeed, FieldSmash,
	FieldSpinRPM, FieldSpinAxis, FieldLaunchV, FieldLaunchH, FieldDescentV,
	FieldHeight, FieldLateral, FieldPath, FieldFTP, FieldAOA, FieldDLoft,
}

// CorrelationMatrix is a symmetric Pearson matrix with a unit diagonal.
type CorrelationMatrix struct {
	Variables []Field     `json:"variables"`
	Matrix    [][]float64 `json:"matrix"`
}

// At returns r for a pair of variables and whether both are in the matrix.
func (m *CorrelationMatrix) At(a, b Field) (float64, bool) {
	i, j := -1, -1
	for k, v := range m.Variables {
		if v == a {
			i = k
		}
		if v == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Matrix[i][j], true
}

// Strongest returns the off-diagonal pair with the largest |r|; the first
// pair in row order wins ties. ok is false for fewer than two variables.
func (m *CorrelationMatrix) Strongest() (a, b Field, r float64, ok bool) {
	best := -1.0
	for i := range m.Variables {
		for j := i + 1; j < len(m.Variables); j++ {
			if v := math.Abs(m.Matrix[i][j]); v > best {
				best = v
				a, b, r, ok = m.Variables[i], m.Variables[j], m.Matrix[i][j], true
			}
		}
	}
	return a, b, r, ok
}

// Correlations builds the matrix over the candidate variables present in at
// least one shot. It returns nil when fewer than two remain.
func Correlations(shots []EnrichedShot) *CorrelationMatrix {
	var vars []Field
	for _, f := range correlationCandidates {
		for i := range shots {
			if _, ok := shots[i].Get(f); ok {
				vars = append(vars, f)
				break
			}
		}
	}
	if len(vars) < 2 {
		return nil
	}
	m := &CorrelationMatrix{Variables: vars, Matrix: make([][]float64, len(vars))}
	for i := range vars {
		m.Matrix[i] = make([]float64, len(vars))
		m.Matrix[i][i] = 1
	}
	for i := range vars {
		for j := i + 1; j < len(vars); j++ {
			r := round(pearson(shots, vars[i], vars[j]), 3)
			m.Matrix[i][j] = r
			m.Matrix[j][i] = r
		}
	}
	return m
}

// pearson correlates x and y over shots carrying both; undefined results
// (no pair, zero variance) are 0.
func pearson(shots []EnrichedShot, x, y Field) float64 {
	xs, ys := pairs(shots, x, y)
	if len(xs) < 2 {
		return 0
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// pairs returns the paired-present values of x and y in shot order.
func pairs(shots []EnrichedShot, x, y Field) ([]float64, []float64) {
	var xs, ys []float64
	for i := range shots {
		vx, okx := shots[i].Get(x)
		vy, oky := shots[i].Get(y)
		if okx && oky {
			xs = append(xs, vx)
			ys = append(ys, vy)
		}
	}
	return xs, ys
}
