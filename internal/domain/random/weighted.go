package random

// Outcome is one entry of a discrete weighted distribution.
type Outcome[T any] struct {
	Value  T
	Weight float64
}

// Choose performs a cumulative-weight roulette draw over items.
//
// A threshold is drawn uniformly from [0, total) and each item's weight is
// subtracted from it in order; the first item that drives the threshold to a
// non-positive value wins. If floating point leftover selects nothing the
// first item is returned. ok is false only when items is empty.
func Choose[T any](src Source, items []T, weight func(T) float64) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}

	weights := make([]float64, len(items))
	total := 0.0
	for i, it := range items {
		weights[i] = weight(it)
		total += weights[i]
	}

	threshold := src.Float64() * total
	for i, w := range weights {
		threshold -= w
		if threshold <= 0 {
			return items[i], true
		}
	}
	return items[0], true
}

// ChooseOutcome draws a value from a discrete distribution.
func ChooseOutcome[T any](src Source, outcomes []Outcome[T]) (T, bool) {
	o, ok := Choose(src, outcomes, func(o Outcome[T]) float64 { return o.Weight })
	return o.Value, ok
}

// Pick returns a uniformly chosen element of items.
func Pick[T any](src Source, items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	idx := int(src.Float64() * float64(len(items)))
	if idx >= len(items) {
		idx = len(items) - 1
	}
	return items[idx], true
}

// Chance reports true with probability p. p <= 0 never fires, p >= 1 always does.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}
