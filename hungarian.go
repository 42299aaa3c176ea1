package main

// hungarianCost computes the minimum total cost of a perfect matching on an
// n x n cost matrix using the Kuhn-Munkres algorithm in O(n^3).
// Reference: Andrey Lopatin (https://cp-algorithms.com/graph/hungarian-algorithm.html).
func hungarianCost(n int, cost func(row, col int) int32) int32 {
	const inf = int32(1) << 30

	// 1-indexed arrays with a dummy 0 element.
	u := make([]int32, n+1)
	v := make([]int32, n+1)
	p := make([]int, n+1)
	way := make([]int, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]int32, n+1)
		used := make([]bool, n+1)
		for j := range minv {
			minv[j] = inf
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := 0

			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost(i0-1, j-1) - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}

			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}

			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		for {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
			if j0 == 0 {
				break
			}
		}
	}

	return -v[0]
}
