package predict

import "math"

// ridgeLambda is the L2 penalty applied to feature weights during fitting.
// It keeps the normal equations well conditioned on small sample sets.
const ridgeLambda = 1e-2

// Regression is a linear model over scaled features.
type Regression struct {
	Intercept float64   `json:"intercept"`
	Weights   []float64 `json:"weights"`
}

// FitRidge fits a ridge regression by solving the normal equations
// (XᵀX + λI)β = Xᵀy over the design matrix augmented with an intercept
// column. The intercept is not penalized.
func FitRidge(rows [][]float64, labels []float64) (*Regression, error) {
	if len(rows) == 0 || len(rows) != len(labels) {
		return nil, ErrShapeMismatch
	}
	cols := len(rows[0]) + 1 // intercept column first

	// Accumulate XᵀX and Xᵀy.
	xtx := make([][]float64, cols)
	for i := range xtx {
		xtx[i] = make([]float64, cols)
	}
	xty := make([]float64, cols)
	aug := make([]float64, cols)
	for r, row := range rows {
		if len(row) != cols-1 {
			return nil, ErrShapeMismatch
		}
		aug[0] = 1
		copy(aug[1:], row)
		for i := 0; i < cols; i++ {
			xty[i] += aug[i] * labels[r]
			for j := 0; j < cols; j++ {
				xtx[i][j] += aug[i] * aug[j]
			}
		}
	}
	for i := 1; i < cols; i++ {
		xtx[i][i] += ridgeLambda
	}

	beta, err := solve(xtx, xty)
	if err != nil {
		return nil, err
	}
	return &Regression{Intercept: beta[0], Weights: beta[1:]}, nil
}

// Predict evaluates the model on one scaled vector.
func (r *Regression) Predict(v []float64) (float64, error) {
	if len(v) != len(r.Weights) {
		return 0, ErrShapeMismatch
	}
	y := r.Intercept
	for j, w := range r.Weights {
		y += w * v[j]
	}
	return y, nil
}

// solve performs Gaussian elimination with partial pivoting on a copy of
// the system.
func solve(a [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n+1)
		copy(m[i], a[i])
		m[i][n] = b[i]
	}
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(m[pivot][col]) < 1e-12 {
			return nil, ErrSingularSystem
		}
		m[col], m[pivot] = m[pivot], m[col]
		for r := col + 1; r < n; r++ {
			f := m[r][col] / m[col][col]
			for c := col; c <= n; c++ {
				m[r][c] -= f * m[col][c]
			}
		}
	}
	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := m[i][n]
		for j := i + 1; j < n; j++ {
			sum -= m[i][j] * x[j]
		}
		x[i] = sum / m[i][i]
	}
	return x, nil
}
