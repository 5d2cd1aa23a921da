package keyword

// LevenshteinDistance returns the minimum number of single-character edits
// (insertions, deletions, substitutions) needed to turn a into b. Used to
// suggest near-miss error codes.
func LevenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// Single row plus a diagonal carry.
	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(rb); j++ {
			sub := diag
			if ra[i-1] != rb[j-1] {
				sub++
			}
			diag = row[j]
			best := sub
			if del := row[j] + 1; del < best {
				best = del
			}
			if ins := row[j-1] + 1; ins < best {
				best = ins
			}
			row[j] = best
		}
	}
	return row[len(rb)]
}
