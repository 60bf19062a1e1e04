package voi

import "sort"

// InterventionFrequency counts, per state, how many rows intervene there.
// Only rows with TerminalRate >= minTerminalRate are counted; pass 0 to
// count every row.
func InterventionFrequency(rows []Row, minTerminalRate float64) map[string]int {
	freq := make(map[string]int)
	for _, r := range rows {
		if r.TerminalRate < minTerminalRate {
			continue
		}
		for _, s := range r.IntervenedStates {
			freq[s]++
		}
	}
	return freq
}

// ParetoFront returns the rows not dominated on (lower intervention cost,
// higher VoI), ordered by intervention cost then enumeration order.
func ParetoFront(rows []Row) []Row {
	var front []Row
	for i, r := range rows {
		dominated := false
		for j, o := range rows {
			if i == j {
				continue
			}
			noWorse := o.InterventionCost <= r.InterventionCost && o.VoI >= r.VoI
			better := o.InterventionCost < r.InterventionCost || o.VoI > r.VoI
			if noWorse && better {
				dominated = true
				break
			}
		}
		if !dominated {
			front = append(front, r)
		}
	}
	sort.SliceStable(front, func(i, j int) bool { return front[i].InterventionCost < front[j].InterventionCost })
	return front
}

// VoIByState attributes each row's VoI to the states it intervenes in.
// The result has one row per input row and one column per state; a cell is
// the row's VoI when it intervenes in that state and 0 otherwise.
func VoIByState(rows []Row, states []string) [][]float64 {
	col := make(map[string]int, len(states))
	for i, s := range states {
		col[s] = i
	}
	matrix := make([][]float64, len(rows))
	for i, r := range rows {
		matrix[i] = make([]float64, len(states))
		for _, s := range r.IntervenedStates {
			if c, ok := col[s]; ok {
				matrix[i][c] = r.VoI
			}
		}
	}
	return matrix
}
