package segment

// fenwick is a binary indexed tree over per-root segment counts. It answers
// "how many segments precede root r" in O(log n).
type fenwick struct {
	tree   []int
	counts []int
}

func newFenwick(counts []int) fenwick {
	f := fenwick{tree: make([]int, len(counts)+1), counts: append([]int(nil), counts...)}
	for i, c := range counts {
		f.tree[i+1] += c
		if j := (i + 1) + ((i + 1) & -(i + 1)); j <= len(counts) {
			f.tree[j] += f.tree[i+1]
		}
	}
	return f
}

func (f *fenwick) len() int {
	return len(f.counts)
}

// add adjusts the count of root r by delta.
func (f *fenwick) add(r, delta int) {
	f.counts[r] += delta
	for i := r + 1; i < len(f.tree); i += i & -i {
		f.tree[i] += delta
	}
}

// prefix returns the total count of roots [0, r).
func (f *fenwick) prefix(r int) int {
	sum := 0
	for i := r; i > 0; i -= i & -i {
		sum += f.tree[i]
	}
	return sum
}

// span returns the segment range [start, end) of root r.
func (f *fenwick) span(r int) (int, int) {
	start := f.prefix(r)
	return start, start + f.counts[r]
}
