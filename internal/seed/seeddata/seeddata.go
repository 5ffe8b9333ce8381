// Package seeddata carries the embedded seed fixtures: the demo category
// tree and the six attribute definitions.
package seeddata

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"shop/admin/internal/domain"
)

//go:embed categories_tree.json
var categoriesTreeJSON []byte

var (
	//go:embed attribute_color.json
	attributeColorJSON []byte
	//go:embed attribute_condition.json
	attributeConditionJSON []byte
	//go:embed attribute_fabric.json
	attributeFabricJSON []byte
	//go:embed attribute_size.json
	attributeSizeJSON []byte
	//go:embed attribute_size_shoes.json
	attributeSizeShoesJSON []byte
	//go:embed attribute_style.json
	attributeStyleJSON []byte
)

// CategoriesTree parses the embedded category tree.
func CategoriesTree() ([]domain.CategoryNode, error) {
	var tree []domain.CategoryNode
	if err := json.Unmarshal(categoriesTreeJSON, &tree); err != nil {
		return nil, fmt.Errorf("failed to parse embedded categories tree: %w", err)
	}
	return tree, nil
}

// Attributes parses every embedded attribute definition, in a stable
// order.
func Attributes() ([]domain.Attribute, error) {
	raw := [][]byte{
		attributeColorJSON,
		attributeConditionJSON,
		attributeFabricJSON,
		attributeSizeJSON,
		attributeSizeShoesJSON,
		attributeStyleJSON,
	}

	attributes := make([]domain.Attribute, 0, len(raw))
	for _, data := range raw {
		var attribute domain.Attribute
		if err := json.Unmarshal(data, &attribute); err != nil {
			return nil, fmt.Errorf("failed to parse embedded attribute: %w", err)
		}
		attributes = append(attributes, attribute)
	}
	return attributes, nil
}
