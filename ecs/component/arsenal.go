package component

// Arsenal holds the remaining bombs per variant for the current level.
type Arsenal struct {
	Counts   map[Variant]int
	Selected Variant
}

// Remaining returns the total number of unlaunched bombs.
func (a *Arsenal) Remaining() int {
	if a == nil {
		return 0
	}
	total := 0
	for _, n := range a.Counts {
		if n > 0 {
			total += n
		}
	}
	return total
}

// Next returns the selected variant if it has stock, otherwise the first
// stocked variant in launcher order.
func (a *Arsenal) Next() (Variant, bool) {
	if a == nil {
		return VariantNone, false
	}
	if a.Counts[a.Selected] > 0 {
		return a.Selected, true
	}
	for _, v := range Variants() {
		if a.Counts[v] > 0 {
			return v, true
		}
	}
	return VariantNone, false
}

var ArsenalComponent = NewComponent[Arsenal]()
