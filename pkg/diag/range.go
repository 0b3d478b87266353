package diag

// Ranger wraps the Range method.
type Ranger interface {
	// Range returns the range associated with the value.
	Range() Ranging
}

// Ranging represents a range [From, To) of byte offsets within a script.
// Structs can embed Ranging to satisfy the [Ranger] interface.
type Ranging struct {
	From int
	To   int
}

// Range returns the Ranging itself.
func (r Ranging) Range() Ranging { return r }

// PointRanging returns a zero-width Ranging at the given offset.
func PointRanging(p int) Ranging {
	return Ranging{p, p}
}

// SpanRanging returns a Ranging covering at least one byte starting at p,
// clipped to a source of length n.
func SpanRanging(p, n int) Ranging {
	if p < n {
		return Ranging{p, p + 1}
	}
	return Ranging{p, p}
}
