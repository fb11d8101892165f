package transport

import (
	"math"

	"github.com/cpmech/gosl/la"
)

// factoryEpsilon guards the liquidity factory against division by zero.
const factoryEpsilon = 1e-8

// LiquidityTensor builds a diagonal tensor from per-axis liquidity levels:
// G_ii = 1 / max(liq_i, epsilon). Thin liquidity in an axis makes motion
// along it costly.
func LiquidityTensor(liq []float64) [][]float64 {
	n := len(liq)
	g := la.MatAlloc(n, n)
	for i, l := range liq {
		if l < factoryEpsilon {
			l = factoryEpsilon
		}
		g[i][i] = 1 / l
	}
	return g
}

// MarketImpactTensor builds a diagonal tensor from per-axis market-impact
// coefficients and positions: G_ii = 1 + kappa_i * |pos_i|.
func MarketImpactTensor(kappa, pos []float64) [][]float64 {
	n := len(kappa)
	g := la.MatAlloc(n, n)
	for i := range g {
		g[i][i] = 1 + kappa[i]*math.Abs(pos[i])
	}
	return g
}

// AverageTensor returns the symmetric average of two tensors, e.g. buy-side
// and sell-side cost tensors.
func AverageTensor(a, b [][]float64) [][]float64 {
	n := len(a)
	g := la.MatAlloc(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			g[i][j] = 0.5 * (a[i][j] + b[i][j])
		}
	}
	return g
}
