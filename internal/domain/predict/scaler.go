package predict

import "math"

// Scaler standardizes feature vectors to zero mean and unit variance,
// matching the distribution the companion model was fitted on. It always
// persists and loads together with the model; the pair is meaningless
// apart.
type Scaler struct {
	Means []float64 `json:"means"`
	Stds  []float64 `json:"stds"`
}

// FitScaler computes per-column mean and standard deviation over rows.
// Zero-variance columns keep a unit deviation so transforming them is a
// no-op instead of a division by zero.
func FitScaler(rows [][]float64) *Scaler {
	if len(rows) == 0 {
		return &Scaler{}
	}
	cols := len(rows[0])
	means := make([]float64, cols)
	stds := make([]float64, cols)
	for _, row := range rows {
		for j, v := range row {
			means[j] += v
		}
	}
	n := float64(len(rows))
	for j := range means {
		means[j] /= n
	}
	for _, row := range rows {
		for j, v := range row {
			d := v - means[j]
			stds[j] += d * d
		}
	}
	for j := range stds {
		stds[j] = math.Sqrt(stds[j] / n)
		if stds[j] == 0 {
			stds[j] = 1
		}
	}
	return &Scaler{Means: means, Stds: stds}
}

// Transform standardizes one vector. The input length must match the
// fitted width.
func (s *Scaler) Transform(v []float64) ([]float64, error) {
	if len(v) != len(s.Means) {
		return nil, ErrShapeMismatch
	}
	out := make([]float64, len(v))
	for j, x := range v {
		out[j] = (x - s.Means[j]) / s.Stds[j]
	}
	return out, nil
}

// TransformAll standardizes every row in place-order, for training.
func (s *Scaler) TransformAll(rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		t, err := s.Transform(row)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}
