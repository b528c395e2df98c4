package excerpt

import "slices"

const (
	// visibleThreshold is the rendered position past which the second
	// fragment is considered hidden from a typical preview.
	visibleThreshold = 40
	// contextReach caps expansion beyond the keyword span on either side.
	contextReach = 15
	// expandStep is how far a boundary moves per expansion pass.
	expandStep = 2
)

// renderedLength is the visible length of frags once joined with "...".
// Leading and trailing ellipses are not counted.
func renderedLength(frags []*Fragment) int {
	if len(frags) == 0 {
		return 0
	}
	total := len(ellipsis) * (len(frags) - 1)
	for _, f := range frags {
		total += f.Len()
	}
	return total
}

// Fit prunes and grows frags so their rendered length approaches maxLength
// without exceeding it. frags must be sorted and non-overlapping; the
// returned slice keeps that order.
func Fit(frags []*Fragment, textLen, maxLength int) []*Fragment {
	frags = prune(frags, maxLength)
	total := expand(frags, textLen, maxLength)
	fillTail(frags, textLen, maxLength, total)
	return frags
}

// prune drops fragments until the list fits the budget and the second
// fragment starts within the visible window. A lone fragment is never
// dropped, only cut to the budget.
func prune(frags []*Fragment, maxLength int) []*Fragment {
	for len(frags) > 1 {
		if renderedLength(frags) <= maxLength {
			if frags[0].Len()+len(ellipsis) > visibleThreshold {
				frags = frags[1:]
				continue
			}
			break
		}

		worst := leastUnique(frags)
		if worst < 0 {
			break
		}
		frags = slices.Delete(frags, worst, worst+1)
	}

	// A single cluster can still be wider than the budget; keep its head,
	// which holds the first keyword.
	if len(frags) == 1 && frags[0].Len() > maxLength {
		frags[0].End = frags[0].Start + maxLength
	}
	return frags
}

// leastUnique returns the index of the fragment contributing the fewest
// tokens found in no other fragment. The scan runs right to left and only
// a strictly smaller count replaces the candidate, so later fragments lose
// ties.
func leastUnique(frags []*Fragment) int {
	worst := -1
	fewest := 0
	for i := len(frags) - 1; i >= 0; i-- {
		unique := 0
		for token := range frags[i].Tokens {
			if !heldElsewhere(frags, i, token) {
				unique++
			}
		}
		if worst < 0 || unique < fewest {
			worst = i
			fewest = unique
		}
	}
	return worst
}

func heldElsewhere(frags []*Fragment, skip int, token string) bool {
	for j, f := range frags {
		if j == skip {
			continue
		}
		if _, ok := f.Tokens[token]; ok {
			return true
		}
	}
	return false
}

// expand grows every fragment symmetrically, expandStep runes per side per
// pass, until the budget is spent or a full pass changes nothing. A
// fragment never reaches more than contextReach runes past its keyword span
// and never crosses into a neighbour. It returns the new rendered length.
func expand(frags []*Fragment, textLen, maxLength int) int {
	total := renderedLength(frags)

	for changed := true; changed && total < maxLength; {
		changed = false
		for i, f := range frags {
			if total >= maxLength {
				break
			}

			floor := 0
			if i > 0 {
				floor = frags[i-1].End
			}
			ceiling := textLen
			if i+1 < len(frags) {
				ceiling = frags[i+1].Start
			}
			minStart := max(f.OriginalStart-contextReach, floor)
			maxEnd := min(f.OriginalEnd+contextReach, ceiling)

			if step := min(expandStep, maxLength-total, f.Start-minStart); step > 0 {
				f.Start -= step
				total += step
				changed = true
			}
			if step := min(expandStep, maxLength-total, maxEnd-f.End); step > 0 {
				f.End += step
				total += step
				changed = true
			}
		}
	}
	return total
}

// fillTail spends any remaining budget by extending the last fragment
// toward the end of the text, ignoring contextReach.
func fillTail(frags []*Fragment, textLen, maxLength, total int) {
	if len(frags) == 0 || total >= maxLength {
		return
	}
	last := frags[len(frags)-1]
	if last.End < textLen {
		last.End += min(maxLength-total, textLen-last.End)
	}
}
