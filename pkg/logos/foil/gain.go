package foil

import "math"

// Info is the information content of a set with tp positives out of total
// members: -log2(tp/total). An empty set is -Inf and a set without
// positives is +Inf.
func Info(tp, total int) float64 {
	if total == 0 {
		return math.Inf(-1)
	}
	if tp == 0 {
		return math.Inf(1)
	}
	return -math.Log2(float64(tp) / float64(total))
}

// Gain scores a candidate literal: the positives it keeps times the
// information it saves going from the current set to the extended one.
// Literals keeping no positive score -Inf.
func Gain(covered int, current, extended float64) float64 {
	if covered == 0 {
		return math.Inf(-1)
	}
	return float64(covered) * (current - extended)
}
