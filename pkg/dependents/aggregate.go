package dependents

// Accumulate returns the downloads of n plus those of every descendant.
func Accumulate(n *Node) int64 {
	total := n.Downloads
	for _, c := range n.Children {
		total += Accumulate(c)
	}
	return total
}

// AccumulateAll replaces the downloads of each node with its subtree total,
// recomputes traffic against unpackedSize, drops the children and re-sorts.
func AccumulateAll(nodes []*Node, unpackedSize int64) {
	for _, n := range nodes {
		n.Downloads = Accumulate(n)
		n.Traffic = n.Downloads * unpackedSize
		n.Children = nil
	}
	SortByDownloads(nodes)
}

// Count returns the number of nodes in the forest, descendants included.
func Count(nodes []*Node) int {
	total := len(nodes)
	for _, n := range nodes {
		total += Count(n.Children)
	}
	return total
}
