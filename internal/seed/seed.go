// Package seed fabricates a synthetic product catalog: it discovers the
// leaf categories of the stored tree, fills each with randomly sampled
// products, synthesizes and uploads product images and persists the
// results in two rounds (create, then enrich).
package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"shop/admin/internal/colormatch"
	"shop/admin/internal/config"
	"shop/admin/internal/domain"
	"shop/admin/internal/media"
	"shop/admin/internal/scheduler"
	"shop/admin/internal/seed/seeddata"
)

// CategoryStore is the category-tree port.
type CategoryStore interface {
	SaveTree(ctx context.Context, nodes []domain.CategoryNode) error
	Tree(ctx context.Context) ([]domain.CategoryNode, error)
}

// AttributeStore is the attribute-definitions port.
type AttributeStore interface {
	ReplaceAll(ctx context.Context, attributes []domain.Attribute) error
}

// ProductStore is the product persistence port. Create and Update are
// the two persistence rounds of one product's lifecycle.
type ProductStore interface {
	Create(ctx context.Context, draft domain.ProductDraft) (string, error)
	Update(ctx context.Context, id string, enrichment domain.ProductEnrichment) error
	RemoveAll(ctx context.Context) error
}

// ImageUploader is the image derivative pipeline port.
type ImageUploader interface {
	UploadProductImage(ctx context.Context, referenceImage []byte, keyPrefix string) (string, error)
}

// RunSummary describes one finished seed run.
type RunSummary struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Leaves     int       `json:"leaves"`
	Scheduled  int       `json:"scheduled"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	Errors     []string  `json:"errors,omitempty"`
}

// RunRecorder persists the summary of the last seed run.
type RunRecorder interface {
	RecordRun(ctx context.Context, run RunSummary) error
}

// Deps are the external collaborators of the seed service.
type Deps struct {
	Categories  CategoryStore
	Attributes  AttributeStore
	Products    ProductStore
	Uploader    ImageUploader
	Synthesizer media.Synthesizer
	Recorder    RunRecorder
}

// Service drives catalog seeding.
type Service struct {
	deps    Deps
	cfg     config.SeedConfig
	sampler *Sampler
	matcher *colormatch.Matcher
	banned  map[string]struct{}

	keyPrefix string
}

// NewService builds the seed service. The attribute value sets and the
// color matcher table come from the embedded seed fixtures.
func NewService(deps Deps, cfg config.SeedConfig, keyPrefix string) (*Service, error) {
	attributes, err := seeddata.Attributes()
	if err != nil {
		return nil, err
	}
	sets := domain.NewValueSets(attributes)

	matcher, err := colormatch.New(sets[domain.KindColor], cfg.NonPhysicalColors)
	if err != nil {
		return nil, fmt.Errorf("failed to build color matcher: %w", err)
	}

	banned := make(map[string]struct{}, len(cfg.BannedColors))
	for _, color := range cfg.BannedColors {
		banned[color] = struct{}{}
	}

	return &Service{
		deps:      deps,
		cfg:       cfg,
		sampler:   NewSampler(sets, cfg.FootwearSlugs),
		matcher:   matcher,
		banned:    banned,
		keyPrefix: keyPrefix,
	}, nil
}

// SeedCategories replaces the stored category tree with the embedded one.
func (s *Service) SeedCategories(ctx context.Context) error {
	log.Info("seeding categories")

	tree, err := seeddata.CategoriesTree()
	if err != nil {
		return err
	}
	return s.deps.Categories.SaveTree(ctx, tree)
}

// SeedAttributes replaces every stored attribute definition with the
// embedded ones.
func (s *Service) SeedAttributes(ctx context.Context) error {
	log.Info("seeding attributes")

	attributes, err := seeddata.Attributes()
	if err != nil {
		return err
	}
	return s.deps.Attributes.ReplaceAll(ctx, attributes)
}

// SeedProducts regenerates the whole synthetic catalog: it wipes the
// product store, expands every leaf category into a random number of
// product-build jobs and runs them under the configured concurrency
// ceiling. Per-job failures are collected, not fatal to siblings; a
// non-empty failure list is surfaced as one aggregate error. Already
// persisted products are never rolled back.
func (s *Service) SeedProducts(ctx context.Context) error {
	startedAt := time.Now()
	log.Info("seeding products")

	if err := s.deps.Products.RemoveAll(ctx); err != nil {
		return fmt.Errorf("failed to remove existing products: %w", err)
	}

	tree, err := s.deps.Categories.Tree(ctx)
	if err != nil {
		return fmt.Errorf("failed to load categories tree: %w", err)
	}
	leaves := domain.Leaves(tree)
	if len(leaves) == 0 {
		return fmt.Errorf("categories tree has no leaf categories, seed categories first")
	}

	var jobs []scheduler.Job
	for _, leaf := range leaves {
		count := IntInRange(s.cfg.ProductsPerCategory)
		for i := 0; i < count; i++ {
			jobs = append(jobs, s.productJob(leaf))
		}
	}
	log.Infof("scheduling %d product jobs across %d leaf categories (concurrency %d)",
		len(jobs), len(leaves), s.cfg.Concurrency)

	result := scheduler.Run(ctx, jobs, s.cfg.Concurrency)

	s.recordRun(ctx, startedAt, len(leaves), result)

	if err := result.Err(); err != nil {
		log.Errorf("seed run finished with %d of %d jobs failed", len(result.Failed()), len(jobs))
		return fmt.Errorf("seed run finished with %d of %d jobs failed: %w",
			len(result.Failed()), len(jobs), err)
	}

	log.Infof("seeded %d products", len(jobs))
	return nil
}

// productJob wraps one build-and-persist unit with the per-job timeout.
func (s *Service) productJob(leaf domain.CategoryNode) scheduler.Job {
	return func(ctx context.Context) error {
		if s.cfg.JobTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.cfg.JobTimeout)
			defer cancel()
		}
		return s.buildProduct(ctx, leaf)
	}
}

// buildProduct is strictly sequential: sampling, image synthesis, the
// minimal create round, then the enrichment update round.
func (s *Service) buildProduct(ctx context.Context, leaf domain.CategoryNode) error {
	items := s.sampleItems(leaf)

	imagesByColor := make(map[string][]string, len(items))
	for i := range items {
		imageIDs, err := s.itemImages(ctx, items[i])
		if err != nil {
			return fmt.Errorf("category %s: %w", leaf.PublicID, err)
		}
		items[i].Images = imageIDs

		mainColor := s.cfg.DefaultColor
		if colors := items[i].Attributes[domain.KindColor]; len(colors) > 0 {
			mainColor = colors[0]
		}
		imagesByColor[mainColor] = append(imagesByColor[mainColor], imageIDs...)
	}

	draft := domain.ProductDraft{
		Name:  leaf.Title.Get(domain.LocaleEN),
		Price: IntInRange(s.cfg.Price),
		Items: items,
	}

	id, err := s.deps.Products.Create(ctx, draft)
	if err != nil {
		return fmt.Errorf("category %s: failed to create product: %w", leaf.PublicID, err)
	}

	if err := s.deps.Products.Update(ctx, id, s.enrich(leaf, draft, imagesByColor)); err != nil {
		return fmt.Errorf("category %s: failed to update product %s: %w", leaf.PublicID, id, err)
	}

	return nil
}

// sampleItems draws the item count and per-item attributes, applying the
// footwear size rule for the category slug. Every item gets a fresh SKU.
func (s *Service) sampleItems(leaf domain.CategoryNode) []domain.ProductItem {
	count := IntInRange(s.cfg.ItemsPerProduct)
	sizeKind := s.sampler.SizeKind(leaf.PublicID)

	items := make([]domain.ProductItem, 0, count)
	for i := 0; i < count; i++ {
		items = append(items, domain.ProductItem{
			SKU: uuid.NewString(),
			Attributes: map[domain.AttributeKind][]string{
				domain.KindColor:     s.sampler.Values(domain.KindColor, s.cfg.ColorsPerItem),
				domain.KindCondition: {s.sampler.One(domain.KindCondition)},
				domain.KindFabric:    {s.sampler.One(domain.KindFabric)},
				domain.KindStyle:     {s.sampler.One(domain.KindStyle)},
				sizeKind:             {s.sampler.One(sizeKind)},
			},
		})
	}
	return items
}

// itemImages synthesizes and uploads the item's images. The visual theme
// is the matcher's near-color expansion of the item's sampled colors,
// with banned non-physical colors replaced by the default.
func (s *Service) itemImages(ctx context.Context, item domain.ProductItem) ([]string, error) {
	keywords := s.imageKeywords(item.Attributes[domain.KindColor])

	theme, err := s.matcher.Nearest(keywords, s.cfg.ColorThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to pick image colors: %w", err)
	}
	if len(theme) == 0 {
		theme = keywords
	}

	count := IntInRange(s.cfg.ImagesPerItem)
	imageIDs := make([]string, 0, count)
	for i := 0; i < count; i++ {
		referenceImage, err := s.deps.Synthesizer.Synthesize(theme)
		if err != nil {
			return nil, fmt.Errorf("failed to synthesize reference image: %w", err)
		}

		imageID, err := s.deps.Uploader.UploadProductImage(ctx, referenceImage, s.keyPrefix)
		if err != nil {
			return nil, err
		}
		imageIDs = append(imageIDs, imageID)
	}
	return imageIDs, nil
}

// imageKeywords maps sampled color values to renderable keywords,
// replacing banned colors with the default one.
func (s *Service) imageKeywords(colors []string) []string {
	keywords := make([]string, 0, len(colors))
	for _, color := range colors {
		if _, ok := s.banned[color]; ok {
			color = s.cfg.DefaultColor
		}
		keywords = append(keywords, color)
	}
	if len(keywords) == 0 {
		keywords = append(keywords, s.cfg.DefaultColor)
	}
	return keywords
}

// enrich builds the second persistence round: localized title and
// description, characteristics, category linkage and the activation flag.
func (s *Service) enrich(leaf domain.CategoryNode, draft domain.ProductDraft, imagesByColor map[string][]string) domain.ProductEnrichment {
	description := gofakeit.LoremIpsumParagraph(1, 3, 8, " ")
	localized := make(domain.LocalizedText, len(domain.Locales))
	for _, locale := range domain.Locales {
		localized[locale] = description
	}

	return domain.ProductEnrichment{
		Name:            draft.Name,
		Price:           draft.Price,
		Items:           draft.Items,
		Categories:      []string{leaf.ID},
		Title:           leaf.Title,
		Description:     localized,
		Characteristics: s.characteristics(),
		ImagesByColor:   imagesByColor,
		Active:          true,
	}
}

// characteristics picks a random non-empty subset of the characteristic
// kinds and samples values for each.
func (s *Service) characteristics() map[domain.AttributeKind][]string {
	count := IntInRange(s.cfg.CharacteristicsPerProduct)
	if count < 1 {
		count = 1
	}
	if count > len(domain.CharacteristicKinds) {
		count = len(domain.CharacteristicKinds)
	}

	kinds := slices.Clone(domain.CharacteristicKinds)
	rand.Shuffle(len(kinds), func(i, j int) {
		kinds[i], kinds[j] = kinds[j], kinds[i]
	})

	result := make(map[domain.AttributeKind][]string, count)
	for _, kind := range kinds[:count] {
		result[kind] = s.sampler.Values(kind, s.cfg.CharacteristicValues)
	}
	return result
}

func (s *Service) recordRun(ctx context.Context, startedAt time.Time, leaves int, result scheduler.BatchResult) {
	if s.deps.Recorder == nil {
		return
	}

	failed := result.Failed()
	summary := RunSummary{
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
		Leaves:     leaves,
		Scheduled:  len(result.Outcomes),
		Succeeded:  len(result.Outcomes) - len(failed),
		Failed:     len(failed),
	}
	for _, outcome := range failed {
		summary.Errors = append(summary.Errors, fmt.Sprintf("job %d: %v", outcome.Index, outcome.Err))
	}

	if err := s.deps.Recorder.RecordRun(ctx, summary); err != nil {
		log.Warnf("failed to record seed run summary: %v", err)
	}
}
