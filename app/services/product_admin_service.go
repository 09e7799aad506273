package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rakadenta/wholesale-catalog/app/models"
	"github.com/rakadenta/wholesale-catalog/app/repositories"
	"github.com/rakadenta/wholesale-catalog/app/storage"
	"github.com/shopspring/decimal"
)

var (
	ErrConfirmationRequired = errors.New("image deletion requires confirmation")
	ErrImageIndexOutOfRange = errors.New("image index out of range")
)

// ProductInput is the validated form payload for a product save.
type ProductInput struct {
	Name           string `validate:"required"`
	Description    string
	WholesalePrice string `validate:"required"`
	RetailPrice    string `validate:"required"`
	Stock          string
	Hidden         bool
}

type ProductAdminService struct {
	products repositories.ProductRepositoryImpl
	store    storage.Storage
	assist   AssistClient
	validate *validator.Validate
}

func NewProductAdminService(products repositories.ProductRepositoryImpl, store storage.Storage, assist AssistClient) *ProductAdminService {
	return &ProductAdminService{
		products: products,
		store:    store,
		assist:   assist,
		validate: validator.New(),
	}
}

// ProductForm is one open edit-form instance. New products are created
// optimistically before the form opens; the single source of truth for
// "was this actually saved by the user" is the saved flag, set only by a
// successful Save or by opening an already-existing product.
type ProductForm struct {
	svc *ProductAdminService

	mu        sync.Mutex
	productID string
	saved     bool
	analyzing bool

	Name           string
	Description    string
	WholesalePrice decimal.Decimal
	RetailPrice    decimal.Decimal
	Stock          int
	Hidden         bool
	Images         []models.ImageVariantSet
	CreatedAt      time.Time
}

// OpenNew speculatively creates the backing record and opens a form over
// it. Cancel must reverse the creation.
func (s *ProductAdminService) OpenNew(ctx context.Context) (*ProductForm, error) {
	placeholder := &models.Product{Stock: 0}
	if err := s.products.Create(ctx, placeholder); err != nil {
		return nil, fmt.Errorf("failed to create placeholder product: %w", err)
	}

	return &ProductForm{
		svc:       s,
		productID: placeholder.ID,
		saved:     false,
		CreatedAt: placeholder.CreatedAt,
	}, nil
}

func (s *ProductAdminService) OpenExisting(ctx context.Context, id string) (*ProductForm, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load product %s: %w", id, err)
	}

	normalized := NormalizeProduct(*product)
	return &ProductForm{
		svc:            s,
		productID:      normalized.ID,
		saved:          true,
		Name:           normalized.Name,
		Description:    normalized.Description,
		WholesalePrice: normalized.WholesalePrice,
		RetailPrice:    normalized.RetailPrice,
		Stock:          normalized.Stock,
		Hidden:         normalized.Hidden,
		Images:         normalized.Images,
		CreatedAt:      normalized.CreatedAt,
	}, nil
}

func (f *ProductForm) ProductID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.productID
}

func (f *ProductForm) Saved() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saved
}

// FormData is a consistent snapshot of the form's current fields, safe to
// read while a concurrent analysis may be filling in suggestions.
type FormData struct {
	ProductID      string
	Saved          bool
	Name           string
	Description    string
	WholesalePrice decimal.Decimal
	RetailPrice    decimal.Decimal
	Stock          int
	Hidden         bool
	Images         []models.ImageVariantSet
}

func (f *ProductForm) Data() FormData {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FormData{
		ProductID:      f.productID,
		Saved:          f.saved,
		Name:           f.Name,
		Description:    f.Description,
		WholesalePrice: f.WholesalePrice,
		RetailPrice:    f.RetailPrice,
		Stock:          f.Stock,
		Hidden:         f.Hidden,
		Images:         append([]models.ImageVariantSet(nil), f.Images...),
	}
}

// AddImage runs the variant pipeline, uploads all three variants, and
// appends the resulting set. The set is all-or-nothing: if any upload
// fails, the ones that succeeded are deleted again and the whole add fails.
// When the form still has no name and this is the first image, an image
// analysis is kicked off concurrently; its failure is swallowed.
func (f *ProductForm) AddImage(ctx context.Context, fileName string, data []byte) error {
	variants, err := GenerateVariants(data)
	if err != nil {
		return err
	}

	now := time.Now()
	productID := f.ProductID()

	// Upload order follows current behavior: medium first, big last.
	uploads := []struct {
		variant string
		blob    []byte
	}{
		{storage.VariantMedium, variants.Medium},
		{storage.VariantSmall, variants.Small},
		{storage.VariantBig, variants.Big},
	}

	urls := make(map[string]string, len(uploads))
	var uploaded []string
	for _, up := range uploads {
		key := storage.VariantKey(productID, fileName, up.variant, now)
		url, err := f.svc.store.Upload(ctx, key, bytes.NewReader(up.blob), "image/jpeg")
		if err != nil {
			f.rollbackUploads(ctx, uploaded)
			return fmt.Errorf("failed to upload %s variant: %w", up.variant, err)
		}
		urls[up.variant] = url
		uploaded = append(uploaded, url)
	}

	set := models.ImageVariantSet{
		FileName: fileName,
		Small:    urls[storage.VariantSmall],
		Medium:   urls[storage.VariantMedium],
		Big:      urls[storage.VariantBig],
	}

	f.mu.Lock()
	f.Images = append(f.Images, set)
	launchAnalysis := f.Name == "" && len(f.Images) == 1 && !f.analyzing
	if launchAnalysis {
		f.analyzing = true
	}
	f.mu.Unlock()

	if launchAnalysis {
		go f.analyze(data)
	}

	return nil
}

// rollbackUploads deletes the variants that made it up before a failure, so
// no partial set is ever persisted.
func (f *ProductForm) rollbackUploads(ctx context.Context, urls []string) {
	for _, url := range urls {
		if err := f.svc.store.Delete(ctx, url); err != nil {
			log.Printf("product form: failed to roll back uploaded variant %s: %v", url, err)
		}
	}
}

// analyze asks the collaborator for metadata suggestions and fills in any
// field the user still has at its default. Failures leave the form as the
// user left it.
func (f *ProductForm) analyze(imageData []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := f.svc.assist.AnalyzeImage(ctx, imageData)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.analyzing = false

	if err != nil {
		log.Printf("product form: image analysis failed: %v", err)
		return
	}

	if result.Name != "" && f.Name == "" {
		f.Name = result.Name
	}
	if result.Description != "" && f.Description == "" {
		f.Description = result.Description
	}
	if result.PriceEstimate != "" && f.WholesalePrice.IsZero() {
		if price, err := decimal.NewFromString(result.PriceEstimate); err == nil && !price.IsNegative() {
			f.WholesalePrice = price
		}
	}
}

// Reorder moves an image from index i to index j. For a saved product the
// new order is written through immediately, not deferred to Save.
func (f *ProductForm) Reorder(ctx context.Context, from, to int) error {
	f.mu.Lock()
	if from < 0 || from >= len(f.Images) || to < 0 || to >= len(f.Images) {
		f.mu.Unlock()
		return ErrImageIndexOutOfRange
	}
	moved := f.Images[from]
	f.Images = append(f.Images[:from], f.Images[from+1:]...)
	f.Images = append(f.Images[:to], append([]models.ImageVariantSet{moved}, f.Images[to:]...)...)
	images := append([]models.ImageVariantSet(nil), f.Images...)
	persist := f.saved
	productID := f.productID
	f.mu.Unlock()

	if persist {
		return f.svc.products.UpdateImages(ctx, productID, images)
	}
	return nil
}

// DeleteImage removes one variant set after explicit confirmation. Blobs
// are only deleted when they live in the managed storage namespace; the
// store treats anything else as a no-op.
func (f *ProductForm) DeleteImage(ctx context.Context, index int, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	f.mu.Lock()
	if index < 0 || index >= len(f.Images) {
		f.mu.Unlock()
		return ErrImageIndexOutOfRange
	}
	set := f.Images[index]
	f.Images = append(f.Images[:index], f.Images[index+1:]...)
	images := append([]models.ImageVariantSet(nil), f.Images...)
	persist := f.saved
	productID := f.productID
	f.mu.Unlock()

	for _, url := range []string{set.Small, set.Medium, set.Big} {
		if url == "" {
			continue
		}
		if err := f.svc.store.Delete(ctx, url); err != nil {
			log.Printf("product form: failed to delete variant blob %s: %v", url, err)
		}
	}

	if persist {
		return f.svc.products.UpdateImages(ctx, productID, images)
	}
	return nil
}

// Save validates the input and writes the full product record.
func (f *ProductForm) Save(ctx context.Context, input ProductInput) error {
	if err := f.svc.validate.Struct(input); err != nil {
		return err
	}

	wholesale, err := decimal.NewFromString(input.WholesalePrice)
	if err != nil || wholesale.IsNegative() {
		return fmt.Errorf("wholesale price must be a non-negative number")
	}
	retail, err := decimal.NewFromString(input.RetailPrice)
	if err != nil || retail.IsNegative() {
		return fmt.Errorf("retail price must be a non-negative number")
	}

	stock := 1
	if input.Stock != "" {
		stock, err = strconv.Atoi(input.Stock)
		if err != nil || stock < 0 {
			return fmt.Errorf("stock must be a non-negative integer")
		}
	}

	f.mu.Lock()
	f.Name = input.Name
	f.Description = input.Description
	f.WholesalePrice = wholesale
	f.RetailPrice = retail
	f.Stock = stock
	f.Hidden = input.Hidden
	product := &models.Product{
		ID:             f.productID,
		Name:           f.Name,
		Description:    f.Description,
		WholesalePrice: f.WholesalePrice,
		RetailPrice:    f.RetailPrice,
		Stock:          f.Stock,
		Hidden:         f.Hidden,
		Images:         append([]models.ImageVariantSet(nil), f.Images...),
		CreatedAt:      f.CreatedAt,
	}
	f.mu.Unlock()

	if err := f.svc.products.Update(ctx, product); err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}

	f.mu.Lock()
	f.saved = true
	f.mu.Unlock()
	return nil
}

// Cancel closes the form. If the product was optimistically created and
// never saved, the placeholder record is deleted so no orphaned empty
// products remain.
func (f *ProductForm) Cancel(ctx context.Context) error {
	f.mu.Lock()
	saved := f.saved
	productID := f.productID
	f.mu.Unlock()

	if saved {
		return nil
	}

	// Blobs uploaded while the form was open belong to nothing once the
	// placeholder goes away.
	urls, err := f.svc.store.List(ctx, storage.ProductPrefix(productID))
	if err != nil {
		log.Printf("product form: failed to list blobs of cancelled product %s: %v", productID, err)
	}
	for _, url := range urls {
		if err := f.svc.store.Delete(ctx, url); err != nil {
			log.Printf("product form: failed to delete blob %s: %v", url, err)
		}
	}

	if err := f.svc.products.Delete(ctx, productID); err != nil {
		return fmt.Errorf("failed to delete placeholder product: %w", err)
	}
	return nil
}
