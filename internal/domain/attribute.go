package domain

// AttributeKind identifies one of the known item attributes. The set is
// closed so that category-conditional branches stay exhaustive.
type AttributeKind string

func (k AttributeKind) String() string {
	return string(k)
}

const (
	KindColor     AttributeKind = "color"
	KindCondition AttributeKind = "condition"
	KindFabric    AttributeKind = "fabricComposition"
	KindSize      AttributeKind = "size"
	KindShoeSize  AttributeKind = "sizeShoes"
	KindStyle     AttributeKind = "style"
)

var AttributeKinds = []AttributeKind{
	KindColor,
	KindCondition,
	KindFabric,
	KindSize,
	KindShoeSize,
	KindStyle,
}

// CharacteristicKinds are the attributes used as product-level
// characteristics during enrichment, as opposed to per-item attributes.
var CharacteristicKinds = []AttributeKind{
	KindCondition,
	KindFabric,
	KindStyle,
}

// AttributeValue is one allowed value of an attribute.
type AttributeValue struct {
	Key   string        `json:"key"`
	Title LocalizedText `json:"title"`
}

// Attribute is a full attribute definition as stored.
type Attribute struct {
	Key    AttributeKind    `json:"key"`
	Title  LocalizedText    `json:"title"`
	Values []AttributeValue `json:"values"`
}

// ValueKeys returns the ordered value keys of the attribute.
func (a Attribute) ValueKeys() []string {
	keys := make([]string, 0, len(a.Values))
	for _, v := range a.Values {
		keys = append(keys, v.Key)
	}
	return keys
}

// ValueSets maps every attribute kind to its ordered allowed value keys.
// Built once per run and read-only afterwards, so it is safe to share
// across concurrent jobs.
type ValueSets map[AttributeKind][]string

// NewValueSets builds the lookup table from full attribute definitions.
func NewValueSets(attributes []Attribute) ValueSets {
	sets := make(ValueSets, len(attributes))
	for _, attribute := range attributes {
		sets[attribute.Key] = attribute.ValueKeys()
	}
	return sets
}
