package parse

// Source describes a piece of script source code.
type Source struct {
	Name string
	Code string
}

// Fragment is stripped script text together with a map back to the original
// source. Offsets[i] is the offset in the original source of Code[i]; it has
// one extra element for the position just past the end.
type Fragment struct {
	Code    string
	Offsets []int
}

// Slice returns the part of the fragment in [from, to).
func (f Fragment) Slice(from, to int) Fragment {
	offsets := make([]int, to-from+1)
	copy(offsets, f.Offsets[from:to+1])
	return Fragment{f.Code[from:to], offsets}
}

// Terminated returns the fragment with a trailing ';' appended if it does not
// already end with one.
func (f Fragment) Terminated() Fragment {
	if len(f.Code) > 0 && f.Code[len(f.Code)-1] == ';' {
		return f
	}
	end := f.Offsets[len(f.Offsets)-1]
	offsets := make([]int, len(f.Offsets)+1)
	copy(offsets, f.Offsets)
	offsets[len(offsets)-1] = end
	return Fragment{f.Code + ";", offsets}
}
