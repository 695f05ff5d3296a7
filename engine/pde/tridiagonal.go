package pde

// tridiagonal solves a tridiagonal system in place with the Thomas
// algorithm. lower[0] and upper[n-1] are ignored. The scratch slices are
// allocated once per pricing call and reused by every time step.
type tridiagonal struct {
	lower, diag, upper, rhs []float64
	cp, dp                  []float64
}

func newTridiagonal(n int) *tridiagonal {
	return &tridiagonal{
		lower: make([]float64, n),
		diag:  make([]float64, n),
		upper: make([]float64, n),
		rhs:   make([]float64, n),
		cp:    make([]float64, n),
		dp:    make([]float64, n),
	}
}

// solve writes the solution into x, which must have len(diag) elements.
// The matrices built by the theta scheme are diagonally dominant, so no
// pivoting is needed.
func (m *tridiagonal) solve(x []float64) {
	n := len(m.diag)
	m.cp[0] = m.upper[0] / m.diag[0]
	m.dp[0] = m.rhs[0] / m.diag[0]
	for i := 1; i < n; i++ {
		denom := m.diag[i] - m.lower[i]*m.cp[i-1]
		if i < n-1 {
			m.cp[i] = m.upper[i] / denom
		}
		m.dp[i] = (m.rhs[i] - m.lower[i]*m.dp[i-1]) / denom
	}
	x[n-1] = m.dp[n-1]
	for i := n - 2; i >= 0; i-- {
		x[i] = m.dp[i] - m.cp[i]*x[i+1]
	}
}
