package domain

// ProductItem is one stock-keeping unit of a product: a fresh SKU, the
// sampled attribute values and the ids of its uploaded image sets.
type ProductItem struct {
	SKU        string                     `json:"sku"`
	Attributes map[AttributeKind][]string `json:"attributes"`
	Images     []string                   `json:"images"`
}

// ProductDraft is the minimal product record submitted to the store on
// the first persistence round.
type ProductDraft struct {
	Name  string        `json:"name"`
	Price int           `json:"price"`
	Items []ProductItem `json:"items"`
}

// ProductEnrichment is the second persistence round: everything added to
// a product after it got its id.
type ProductEnrichment struct {
	Name            string                     `json:"name"`
	Price           int                        `json:"price"`
	Items           []ProductItem              `json:"items"`
	Categories      []string                   `json:"categories"`
	Title           LocalizedText              `json:"title"`
	Description     LocalizedText              `json:"description"`
	Characteristics map[AttributeKind][]string `json:"characteristics"`
	ImagesByColor   map[string][]string        `json:"images_by_color"`
	Active          bool                       `json:"active"`
}
