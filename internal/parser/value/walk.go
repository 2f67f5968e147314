package value

// Walk visits nodes depth first in document order. When visit returns false
// for a function node, its children are skipped.
func Walk(nodes []Node, visit func(Node) bool) {
	for _, n := range nodes {
		descend := visit(n)
		if fn, ok := n.(*Function); ok && descend {
			Walk(fn.Nodes, visit)
		}
	}
}
