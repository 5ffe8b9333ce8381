package domain

// CategoryNode is one node of the recursive category tree. The whole tree
// is stored as a single document; parents own their children and children
// carry no back-reference.
type CategoryNode struct {
	ID       string         `json:"id"`
	PublicID string         `json:"public_id"` // stable public slug, e.g. "shoes"
	Title    LocalizedText  `json:"title"`
	Children []CategoryNode `json:"children"`
}

// IsLeaf reports whether the node has no children.
func (c CategoryNode) IsLeaf() bool {
	return len(c.Children) == 0
}

// Leaves returns the leaf categories of the given trees in depth-first
// order. A node with children is never emitted, only its leaf descendants.
// Nodes are emitted as-is, not copied.
func Leaves(roots []CategoryNode) []CategoryNode {
	var leaves []CategoryNode
	for _, node := range roots {
		if node.IsLeaf() {
			leaves = append(leaves, node)
			continue
		}
		leaves = append(leaves, Leaves(node.Children)...)
	}
	return leaves
}
