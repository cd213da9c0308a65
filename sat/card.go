package sat

// AtMostK adds clauses stating that at most k of the given literals are true.
// It uses Sinz's sequential counter: (n-1)*k fresh variables, where n is the number of literals.
func AtMostK(b Backend, lits []int, k int) {
	n := len(lits)
	switch {
	case k < 0:
		b.AddClause()
		return
	case k >= n:
		return
	case k == 0:
		for _, lit := range lits {
			b.AddClause(-lit)
		}
		return
	}
	// s[i][j] is true if at least j+1 literals among lits[0..i] are true.
	s := make([][]int, n-1)
	for i := range s {
		s[i] = make([]int, k)
		for j := range s[i] {
			s[i][j] = b.NewVar()
		}
	}
	b.AddClause(-lits[0], s[0][0])
	for j := 1; j < k; j++ {
		b.AddClause(-s[0][j])
	}
	for i := 1; i < n-1; i++ {
		b.AddClause(-lits[i], s[i][0])
		b.AddClause(-s[i-1][0], s[i][0])
		for j := 1; j < k; j++ {
			b.AddClause(-lits[i], -s[i-1][j-1], s[i][j])
			b.AddClause(-s[i-1][j], s[i][j])
		}
		b.AddClause(-lits[i], -s[i-1][k-1])
	}
	b.AddClause(-lits[n-1], -s[n-2][k-1])
}

// AtLeastK adds clauses stating that at least k of the given literals are true.
func AtLeastK(b Backend, lits []int, k int) {
	n := len(lits)
	switch {
	case k <= 0:
		return
	case k > n:
		b.AddClause()
		return
	case k == 1:
		b.AddClause(lits...)
		return
	}
	negs := make([]int, n)
	for i, lit := range lits {
		negs[i] = -lit
	}
	AtMostK(b, negs, n-k)
}

// ExactlyK adds clauses stating that exactly k of the given literals are true.
func ExactlyK(b Backend, lits []int, k int) {
	AtLeastK(b, lits, k)
	AtMostK(b, lits, k)
}
