package domain_test

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop/admin/internal/domain"
)

func node(publicID string, children ...domain.CategoryNode) domain.CategoryNode {
	return domain.CategoryNode{
		ID:       "id-" + publicID,
		PublicID: publicID,
		Title:    domain.LocalizedText{domain.LocaleEN: publicID},
		Children: children,
	}
}

func TestLeavesDepthFirstOrder(t *testing.T) {
	tree := []domain.CategoryNode{
		node("clothes",
			node("outerwear"),
			node("tops",
				node("tshirts"),
				node("shirts"),
			),
			node("pants"),
		),
		node("shoes"),
		node("accessories",
			node("bags"),
		),
	}

	leaves := domain.Leaves(tree)

	publicIDs := make([]string, 0, len(leaves))
	for _, leaf := range leaves {
		publicIDs = append(publicIDs, leaf.PublicID)
	}
	assert.Equal(t, []string{"outerwear", "tshirts", "shirts", "pants", "shoes", "bags"}, publicIDs)
}

func TestLeavesNeverEmitsParents(t *testing.T) {
	tree := []domain.CategoryNode{
		node("root", node("child")),
	}

	leaves := domain.Leaves(tree)

	require.Len(t, leaves, 1)
	assert.Equal(t, "child", leaves[0].PublicID)
}

func TestLeavesEmptyInput(t *testing.T) {
	assert.Empty(t, domain.Leaves(nil))
	assert.Empty(t, domain.Leaves([]domain.CategoryNode{}))
}

// randomTree builds an acyclic tree of bounded depth and width.
func randomTree(depth int, counter *int) domain.CategoryNode {
	*counter++
	n := node(fmt.Sprintf("cat-%d", *counter))
	if depth == 0 {
		return n
	}
	for i := 0; i < rand.IntN(4); i++ {
		n.Children = append(n.Children, randomTree(depth-1, counter))
	}
	return n
}

func countZeroChildren(nodes []domain.CategoryNode) int {
	count := 0
	for _, n := range nodes {
		if len(n.Children) == 0 {
			count++
			continue
		}
		count += countZeroChildren(n.Children)
	}
	return count
}

func TestLeavesMatchZeroChildrenCount(t *testing.T) {
	for i := 0; i < 100; i++ {
		var counter int
		roots := []domain.CategoryNode{
			randomTree(4, &counter),
			randomTree(3, &counter),
		}

		leaves := domain.Leaves(roots)

		assert.Len(t, leaves, countZeroChildren(roots))
		for _, leaf := range leaves {
			assert.True(t, leaf.IsLeaf())
		}
	}
}

func TestLocalizedTextFallback(t *testing.T) {
	title := domain.LocalizedText{
		domain.LocaleEN: "Shoes",
		domain.LocaleUA: "Взуття",
	}

	assert.Equal(t, "Взуття", title.Get(domain.LocaleUA))
	assert.Equal(t, "Shoes", title.Get(domain.LocaleRU))
}
