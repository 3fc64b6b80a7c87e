package locomotion

// Predicate is an externally supplied condition, e.g. "not reloading".
type Predicate func() bool

// Gate is an ordered list of predicates ANDed together. An empty gate allows
// everything. Evaluation stops at the first predicate that denies.
type Gate struct {
	preds []Predicate
}

// Add appends p. Nil predicates are ignored.
func (g *Gate) Add(p Predicate) {
	if p == nil {
		return
	}
	g.preds = append(g.preds, p)
}

// Clear removes every predicate.
func (g *Gate) Clear() {
	g.preds = nil
}

// Len returns the number of predicates.
func (g *Gate) Len() int {
	return len(g.preds)
}

// Allow reports whether every predicate holds.
func (g *Gate) Allow() bool {
	for _, p := range g.preds {
		if !p() {
			return false
		}
	}
	return true
}

// Gates groups the conditions consulted when entering gated states.
type Gates struct {
	Sprint Gate
	Prone  Gate
	Slide  Gate
}
