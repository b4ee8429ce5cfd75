package eval

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/nvandessel/saccadegen/internal/transform"
)

// RMSE returns sqrt(mean((decoded - target)^2)).
func RMSE(decoded, target []float64) (float64, error) {
	if len(decoded) != len(target) {
		return 0, fmt.Errorf("%w: %d decoded vs %d target values", ErrMismatchedLengths, len(decoded), len(target))
	}
	if len(decoded) == 0 {
		return 0, errors.New("rmse of an empty sequence")
	}
	return floats.Distance(decoded, target, 2) / math.Sqrt(float64(len(decoded))), nil
}

// AxisRMSE concatenates all X differences followed by all Y differences and
// returns their root mean square.
func AxisRMSE(decoded [2][]float64, targets []transform.Vec2) (float64, error) {
	want := make([]float64, 0, 2*len(targets))
	for _, v := range targets {
		want = append(want, v.X)
	}
	for _, v := range targets {
		want = append(want, v.Y)
	}
	got := make([]float64, 0, len(decoded[0])+len(decoded[1]))
	got = append(got, decoded[0]...)
	got = append(got, decoded[1]...)
	return RMSE(got, want)
}
