package seed_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop/admin/internal/config"
	"shop/admin/internal/domain"
	"shop/admin/internal/seed"
)

// pinnedSeedConfig pins every random range to a single value so the run
// shape is deterministic.
func pinnedSeedConfig() config.SeedConfig {
	one := config.Range{Min: 1, Max: 1}
	return config.SeedConfig{
		ProductsPerCategory:       one,
		ItemsPerProduct:           one,
		ColorsPerItem:             one,
		ImagesPerItem:             one,
		CharacteristicsPerProduct: one,
		CharacteristicValues:      one,
		Price:                     config.Range{Min: 100, Max: 100},
		Concurrency:               1,
		ColorThreshold:            30,
		BannedColors:              []string{"transparent", "multicolor", "silver", "gold"},
		NonPhysicalColors:         []string{"multicolor", "transparent"},
		DefaultColor:              "white",
		FootwearSlugs:             []string{"shoes"},
		JPEGQuality:               100,
	}
}

type fakeCategoryStore struct {
	mu    sync.Mutex
	tree  []domain.CategoryNode
	saved bool
}

func (f *fakeCategoryStore) SaveTree(ctx context.Context, nodes []domain.CategoryNode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tree = nodes
	f.saved = true
	return nil
}

func (f *fakeCategoryStore) Tree(ctx context.Context) ([]domain.CategoryNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tree, nil
}

type fakeAttributeStore struct {
	mu         sync.Mutex
	attributes []domain.Attribute
}

func (f *fakeAttributeStore) ReplaceAll(ctx context.Context, attributes []domain.Attribute) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attributes = attributes
	return nil
}

type fakeProductStore struct {
	mu       sync.Mutex
	nextID   int
	removed  bool
	created  map[string]domain.ProductDraft
	enriched map[string]domain.ProductEnrichment

	failCreateFor string // category name that fails Create
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{
		created:  make(map[string]domain.ProductDraft),
		enriched: make(map[string]domain.ProductEnrichment),
	}
}

func (f *fakeProductStore) Create(ctx context.Context, draft domain.ProductDraft) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failCreateFor != "" && draft.Name == f.failCreateFor {
		return "", errors.New("store rejected create")
	}

	f.nextID++
	id := fmt.Sprintf("product-%d", f.nextID)
	f.created[id] = draft
	return id, nil
}

func (f *fakeProductStore) Update(ctx context.Context, id string, enrichment domain.ProductEnrichment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	// The minimal record must exist before it can be enriched.
	if _, ok := f.created[id]; !ok {
		return fmt.Errorf("product %s was never created", id)
	}
	f.enriched[id] = enrichment
	return nil
}

func (f *fakeProductStore) RemoveAll(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = true
	f.created = make(map[string]domain.ProductDraft)
	f.enriched = make(map[string]domain.ProductEnrichment)
	return nil
}

type fakeUploader struct {
	mu     sync.Mutex
	nextID int
}

func (f *fakeUploader) UploadProductImage(ctx context.Context, referenceImage []byte, keyPrefix string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return fmt.Sprintf("image-%d", f.nextID), nil
}

type fakeSynthesizer struct{}

func (fakeSynthesizer) Synthesize(colorKeywords []string) ([]byte, error) {
	if len(colorKeywords) == 0 {
		return nil, errors.New("no colors")
	}
	return []byte("reference-image"), nil
}

type fakeRecorder struct {
	mu   sync.Mutex
	runs []seed.RunSummary
}

func (f *fakeRecorder) RecordRun(ctx context.Context, run seed.RunSummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, run)
	return nil
}

func twoLeafTree() []domain.CategoryNode {
	return []domain.CategoryNode{
		{
			ID:       "cat-dresses",
			PublicID: "dresses",
			Title:    domain.LocalizedText{domain.LocaleEN: "Dresses", domain.LocaleUA: "Сукні", domain.LocaleRU: "Платья"},
		},
		{
			ID:       "cat-shoes",
			PublicID: "shoes",
			Title:    domain.LocalizedText{domain.LocaleEN: "Shoes", domain.LocaleUA: "Взуття", domain.LocaleRU: "Обувь"},
		},
	}
}

func newTestService(t *testing.T, deps seed.Deps) *seed.Service {
	t.Helper()
	service, err := seed.NewService(deps, pinnedSeedConfig(), "products")
	require.NoError(t, err)
	return service
}

func TestSeedProductsEndToEnd(t *testing.T) {
	categories := &fakeCategoryStore{tree: twoLeafTree()}
	products := newFakeProductStore()
	uploader := &fakeUploader{}
	recorder := &fakeRecorder{}

	service := newTestService(t, seed.Deps{
		Categories:  categories,
		Attributes:  &fakeAttributeStore{},
		Products:    products,
		Uploader:    uploader,
		Synthesizer: fakeSynthesizer{},
		Recorder:    recorder,
	})

	require.NoError(t, service.SeedProducts(context.Background()))

	assert.True(t, products.removed)
	require.Len(t, products.created, 2)
	require.Len(t, products.enriched, 2)

	for id, enrichment := range products.enriched {
		draft := products.created[id]
		require.Len(t, draft.Items, 1)
		require.Len(t, enrichment.Items, 1)

		item := enrichment.Items[0]
		assert.NotEmpty(t, item.SKU)
		assert.Len(t, item.Images, 1)
		assert.Len(t, item.Attributes[domain.KindColor], 1)

		assert.True(t, enrichment.Active)
		assert.Len(t, enrichment.Categories, 1)
		require.Len(t, enrichment.Characteristics, 1)
		for _, values := range enrichment.Characteristics {
			assert.Len(t, values, 1)
		}
		for _, locale := range domain.Locales {
			assert.NotEmpty(t, enrichment.Title.Get(locale))
			assert.NotEmpty(t, enrichment.Description[locale])
		}

		totalImages := 0
		for _, ids := range enrichment.ImagesByColor {
			totalImages += len(ids)
		}
		assert.Equal(t, 1, totalImages)
	}

	// SKUs are unique across the whole run.
	skus := make(map[string]struct{})
	for _, enrichment := range products.enriched {
		for _, item := range enrichment.Items {
			_, duplicate := skus[item.SKU]
			assert.False(t, duplicate, "duplicate SKU %s", item.SKU)
			skus[item.SKU] = struct{}{}
		}
	}

	require.Len(t, recorder.runs, 1)
	assert.Equal(t, 2, recorder.runs[0].Scheduled)
	assert.Equal(t, 2, recorder.runs[0].Succeeded)
	assert.Zero(t, recorder.runs[0].Failed)
}

func TestSeedProductsAppliesFootwearRule(t *testing.T) {
	categories := &fakeCategoryStore{tree: twoLeafTree()}
	products := newFakeProductStore()

	service := newTestService(t, seed.Deps{
		Categories:  categories,
		Attributes:  &fakeAttributeStore{},
		Products:    products,
		Uploader:    &fakeUploader{},
		Synthesizer: fakeSynthesizer{},
	})

	require.NoError(t, service.SeedProducts(context.Background()))

	for _, enrichment := range products.enriched {
		item := enrichment.Items[0]
		switch enrichment.Categories[0] {
		case "cat-shoes":
			assert.Contains(t, item.Attributes, domain.KindShoeSize)
			assert.NotContains(t, item.Attributes, domain.KindSize)
		case "cat-dresses":
			assert.Contains(t, item.Attributes, domain.KindSize)
			assert.NotContains(t, item.Attributes, domain.KindShoeSize)
		default:
			t.Fatalf("unexpected category linkage %v", enrichment.Categories)
		}
	}
}

func TestSeedProductsAggregatesPerJobFailures(t *testing.T) {
	categories := &fakeCategoryStore{tree: twoLeafTree()}
	products := newFakeProductStore()
	products.failCreateFor = "Shoes"
	recorder := &fakeRecorder{}

	service := newTestService(t, seed.Deps{
		Categories:  categories,
		Attributes:  &fakeAttributeStore{},
		Products:    products,
		Uploader:    &fakeUploader{},
		Synthesizer: fakeSynthesizer{},
		Recorder:    recorder,
	})

	err := service.SeedProducts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 jobs failed")

	// The sibling job's product survives; nothing is rolled back.
	assert.Len(t, products.enriched, 1)

	require.Len(t, recorder.runs, 1)
	assert.Equal(t, 1, recorder.runs[0].Failed)
	assert.Len(t, recorder.runs[0].Errors, 1)
}

func TestSeedProductsRequiresSeededCategories(t *testing.T) {
	service := newTestService(t, seed.Deps{
		Categories:  &fakeCategoryStore{},
		Attributes:  &fakeAttributeStore{},
		Products:    newFakeProductStore(),
		Uploader:    &fakeUploader{},
		Synthesizer: fakeSynthesizer{},
	})

	err := service.SeedProducts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no leaf categories")
}

func TestSeedCategoriesStoresEmbeddedTree(t *testing.T) {
	categories := &fakeCategoryStore{}

	service := newTestService(t, seed.Deps{
		Categories:  categories,
		Attributes:  &fakeAttributeStore{},
		Products:    newFakeProductStore(),
		Uploader:    &fakeUploader{},
		Synthesizer: fakeSynthesizer{},
	})

	require.NoError(t, service.SeedCategories(context.Background()))

	assert.True(t, categories.saved)
	require.NotEmpty(t, categories.tree)
	assert.Len(t, domain.Leaves(categories.tree), 8)
}

func TestSeedAttributesStoresEmbeddedDefinitions(t *testing.T) {
	attributes := &fakeAttributeStore{}

	service := newTestService(t, seed.Deps{
		Categories:  &fakeCategoryStore{},
		Attributes:  attributes,
		Products:    newFakeProductStore(),
		Uploader:    &fakeUploader{},
		Synthesizer: fakeSynthesizer{},
	})

	require.NoError(t, service.SeedAttributes(context.Background()))

	require.Len(t, attributes.attributes, 6)
	kinds := make([]domain.AttributeKind, 0, len(attributes.attributes))
	for _, attribute := range attributes.attributes {
		kinds = append(kinds, attribute.Key)
		assert.NotEmpty(t, attribute.Values)
	}
	assert.ElementsMatch(t, domain.AttributeKinds, kinds)
}
