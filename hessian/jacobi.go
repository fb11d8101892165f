package hessian

import (
	"math"

	"github.com/tembolo1284/georisk"
)

// jacobiTau is the off-diagonal convergence threshold: sweeping stops when
// sqrt(2 * sum_{i<j} H_ij^2) < jacobiTau.
const jacobiTau = 1e-12

// jacobiMaxSweeps bounds the classical Jacobi rotation sweep count.
const jacobiMaxSweeps = 100

// jacobiEigen runs classical Jacobi rotation on a working copy of H (H
// itself is left untouched), returning the eigenvalues sorted descending by
// absolute value. Fails with NumericalInstability if it does not converge
// within jacobiMaxSweeps sweeps.
func jacobiEigen(h [][]float64) ([]float64, error) {
	n := len(h)
	a := make([][]float64, n)
	for i := range h {
		a[i] = append([]float64(nil), h[i]...)
	}

	if n == 1 {
		return []float64{a[0][0]}, nil
	}

	for sweep := 0; sweep < jacobiMaxSweeps; sweep++ {
		var offSum float64
		p, q := -1, -1
		maxAbs := -1.0
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				v := a[i][j]
				offSum += v * v
				if av := math.Abs(v); av > maxAbs {
					maxAbs = av
					p, q = i, j
				}
			}
		}
		if math.Sqrt(2*offSum) < jacobiTau {
			eig := make([]float64, n)
			for i := 0; i < n; i++ {
				eig[i] = a[i][i]
			}
			sortDescAbs(eig)
			return eig, nil
		}

		theta := 0.5 * math.Atan2(2*a[p][q], a[q][q]-a[p][p])
		// with this angle convention, s = -sin(theta) is the sign for which
		// the rotation below annihilates a[p][q]
		c, s := math.Cos(theta), -math.Sin(theta)

		for k := 0; k < n; k++ {
			if k == p || k == q {
				continue
			}
			akp, akq := a[k][p], a[k][q]
			a[k][p] = c*akp + s*akq
			a[p][k] = a[k][p]
			a[k][q] = -s*akp + c*akq
			a[q][k] = a[k][q]
		}
		app, aqq, apq := a[p][p], a[q][q], a[p][q]
		a[p][p] = c*c*app + s*s*aqq + 2*s*c*apq
		a[q][q] = s*s*app + c*c*aqq - 2*s*c*apq
		a[p][q] = 0
		a[q][p] = 0
	}

	return nil, risk.Errf(risk.NumericalInstability, "jacobi eigendecomposition did not converge within %d sweeps", jacobiMaxSweeps)
}

// sortDescAbs sorts eig in place, descending by absolute value (insertion
// sort: n is bounded by DMax, so this never needs anything fancier).
func sortDescAbs(eig []float64) {
	for i := 1; i < len(eig); i++ {
		v := eig[i]
		j := i - 1
		for j >= 0 && math.Abs(eig[j]) < math.Abs(v) {
			eig[j+1] = eig[j]
			j--
		}
		eig[j+1] = v
	}
}
