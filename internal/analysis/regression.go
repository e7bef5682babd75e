package analysis

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Standing model names.
const (
	ModelDistance = "distance"
	ModelLateral  = "lateral"
)

var (
	distanceFeatures = []Field{FieldBallSpeed, FieldLaunchV, FieldSpinRPM}
	lateralFeatures  = []Field{FieldLaunchH, FieldFTP, FieldSpinAxis, FieldImpactLat}
)

// minRegressionRows is the floor on complete rows for any model.
const minRegressionRows = 8

const pivotEpsilon = 1e-12

var errSingular = errors.New("singular system")

// RegressionModel is an ordinary least squares fit with intercept.
type RegressionModel struct {
	Name         string            `json:"name"`
	Target       Field             `json:"target"`
	Features     []Field           `json:"features"`
	Coefficients map[Field]float64 `json:"coefficients"`
	Intercept    float64           `json:"intercept"`
	R2           float64           `json:"r2"`
	RMSE         float64           `json:"rmse"`
	N            int               `json:"n"`
}

// LargestCoefficient returns the feature with the largest |coefficient|;
// feature order breaks ties.
func (m *RegressionModel) LargestCoefficient() (Field, float64) {
	var best Field
	var coef float64
	for _, f := range m.Features {
		c := m.Coefficients[f]
		if best == "" || math.Abs(c) > math.Abs(coef) {
			best, coef = f, c
		}
	}
	return best, coef
}

// FitModels fits the distance and lateral models.
func FitModels(shots []EnrichedShot) Models {
	return Models{
		Distance: FitLinear(ModelDistance, shots, FieldCarry, distanceFeatures),
		Lateral:  FitLinear(ModelLateral, shots, FieldLateral, lateralFeatures),
	}
}

// FitLinear regresses target on features over the shots where all of them
// are present. It returns nil when there are fewer than max(8, p+2) such
// shots or the normal equations are singular.
func FitLinear(name string, shots []EnrichedShot, target Field, features []Field) *RegressionModel {
	p := len(features) + 1
	var rows [][]float64
	var ys []float64
	for i := range shots {
		y, ok := shots[i].Get(target)
		if !ok {
			continue
		}
		row := make([]float64, p)
		row[0] = 1
		complete := true
		for j, f := range features {
			v, ok := shots[i].Get(f)
			if !ok {
				complete = false
				break
			}
			row[j+1] = v
		}
		if complete {
			rows = append(rows, row)
			ys = append(ys, y)
		}
	}
	n := len(rows)
	if n < minRegressionRows || n < len(features)+2 {
		return nil
	}

	data := make([]float64, 0, n*p)
	for _, r := range rows {
		data = append(data, r...)
	}
	x := mat.NewDense(n, p, data)
	y := mat.NewVecDense(n, ys)
	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	var xty mat.VecDense
	xty.MulVec(x.T(), y)

	a := make([][]float64, p)
	b := make([]float64, p)
	for i := 0; i < p; i++ {
		a[i] = make([]float64, p)
		for j := 0; j < p; j++ {
			a[i][j] = xtx.At(i, j)
		}
		b[i] = xty.AtVec(i)
	}
	beta, err := gaussJordan(a, b)
	if err != nil {
		return nil
	}

	var fitted mat.VecDense
	fitted.MulVec(x, mat.NewVecDense(p, beta))
	mean := 0.0
	for _, v := range ys {
		mean += v
	}
	mean /= float64(n)
	var ssRes, ssTot float64
	for i, v := range ys {
		e := v - fitted.AtVec(i)
		ssRes += e * e
		d := v - mean
		ssTot += d * d
	}
	r2 := 0.0
	if ssTot != 0 {
		r2 = 1 - ssRes/ssTot
	}

	m := &RegressionModel{
		Name:         name,
		Target:       target,
		Features:     append([]Field(nil), features...),
		Coefficients: make(map[Field]float64, len(features)),
		Intercept:    beta[0],
		R2:           r2,
		RMSE:         math.Sqrt(ssRes / float64(n)),
		N:            n,
	}
	for j, f := range features {
		m.Coefficients[f] = beta[j+1]
	}
	return m
}

// gaussJordan solves a·x = b in place with partial pivoting.
func gaussJordan(a [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < pivotEpsilon {
			return nil, errSingular
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		inv := 1 / a[col][col]
		for c := col; c < n; c++ {
			a[col][c] *= inv
		}
		b[col] *= inv
		for r := 0; r < n; r++ {
			if r == col || a[r][col] == 0 {
				continue
			}
			factor := a[r][col]
			for c := col; c < n; c++ {
				a[r][c] -= factor * a[col][c]
			}
			b[r] -= factor * b[col]
		}
	}
	return b, nil
}
