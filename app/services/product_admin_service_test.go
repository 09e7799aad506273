package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rakadenta/wholesale-catalog/app/models"
	"github.com/stretchr/testify/require"
)

// recordingProductRepo records every write so the tests can assert which
// persistence calls a form operation produced.
type recordingProductRepo struct {
	mockProductRepo

	mu           sync.Mutex
	created      []string
	updated      []*models.Product
	imageUpdates map[string][][]models.ImageVariantSet
	deleted      []string
}

func newRecordingRepo(products ...models.Product) *recordingProductRepo {
	return &recordingProductRepo{
		mockProductRepo: mockProductRepo{products: products},
		imageUpdates:    map[string][][]models.ImageVariantSet{},
	}
}

func (r *recordingProductRepo) Create(ctx context.Context, p *models.Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.CreatedAt = time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, p.ID)
	r.products = append(r.products, *p)
	return nil
}

func (r *recordingProductRepo) Update(ctx context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updated = append(r.updated, p)
	return nil
}

func (r *recordingProductRepo) UpdateImages(ctx context.Context, id string, images []models.ImageVariantSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.imageUpdates[id] = append(r.imageUpdates[id], images)
	return nil
}

func (r *recordingProductRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, id)
	return nil
}

// mockStorage serves uploads from memory and can be told to fail a
// specific variant upload.
type mockStorage struct {
	mu          sync.Mutex
	failVariant string
	uploads     []string
	deletes     []string
}

func (s *mockStorage) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	if s.failVariant != "" && strings.Contains(key, "_"+s.failVariant+".jpg") {
		return "", errors.New("upload rejected")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	url := "https://blobs.test/" + key
	s.uploads = append(s.uploads, url)
	return url, nil
}

func (s *mockStorage) Delete(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, url)
	return nil
}

func (s *mockStorage) List(ctx context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var urls []string
	for _, u := range s.uploads {
		if strings.HasPrefix(u, "https://blobs.test/"+prefix) {
			urls = append(urls, u)
		}
	}
	return urls, nil
}
func (s *mockStorage) Owns(url string) bool {
	return strings.HasPrefix(url, "https://blobs.test/")
}

// mockAssist returns a canned analysis and signals when it has been asked.
type mockAssist struct {
	result   AnalysisResult
	err      error
	analyzed chan struct{}
}

func newMockAssist(result AnalysisResult) *mockAssist {
	return &mockAssist{result: result, analyzed: make(chan struct{}, 4)}
}

func (a *mockAssist) AnalyzeImage(ctx context.Context, imageData []byte) (*AnalysisResult, error) {
	defer func() { a.analyzed <- struct{}{} }()
	if a.err != nil {
		return nil, a.err
	}
	result := a.result
	return &result, nil
}

func (a *mockAssist) DraftEmail(ctx context.Context, user *models.User, items []models.InterestItem) (*EmailDraft, error) {
	return &EmailDraft{Subject: "draft", Body: "draft"}, nil
}

func newAdminFixture(t *testing.T, products ...models.Product) (*ProductAdminService, *recordingProductRepo, *mockStorage, *mockAssist) {
	t.Helper()
	repo := newRecordingRepo(products...)
	store := &mockStorage{}
	assist := newMockAssist(AnalysisResult{})
	return NewProductAdminService(repo, store, assist), repo, store, assist
}

func TestProductFormLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("OpenNewCreatesPlaceholder", func(t *testing.T) {
		svc, repo, _, _ := newAdminFixture(t)

		form, err := svc.OpenNew(ctx)
		require.NoError(t, err)
		require.Len(t, repo.created, 1)
		require.Equal(t, repo.created[0], form.ProductID())
		require.False(t, form.Saved())
	})

	t.Run("CancelUnsavedDeletesPlaceholder", func(t *testing.T) {
		svc, repo, _, _ := newAdminFixture(t)

		form, err := svc.OpenNew(ctx)
		require.NoError(t, err)
		require.NoError(t, form.Cancel(ctx))
		require.Equal(t, []string{form.ProductID()}, repo.deleted)
	})

	t.Run("CancelUnsavedDeletesUploadedBlobs", func(t *testing.T) {
		svc, _, store, assist := newAdminFixture(t)

		form, err := svc.OpenNew(ctx)
		require.NoError(t, err)
		require.NoError(t, form.AddImage(ctx, "lamp.jpg", encodeTestImage(t, 600, 400)))
		<-assist.analyzed

		require.NoError(t, form.Cancel(ctx))
		require.Len(t, store.deletes, 3, "all uploaded variants are cleaned up")
		for _, url := range store.deletes {
			require.Contains(t, store.uploads, url)
		}
	})

	t.Run("CancelSavedKeepsRecord", func(t *testing.T) {
		existing := product("p1", "Lamp")
		svc, repo, _, _ := newAdminFixture(t, existing)

		form, err := svc.OpenExisting(ctx, "p1")
		require.NoError(t, err)
		require.True(t, form.Saved())
		require.NoError(t, form.Cancel(ctx))
		require.Empty(t, repo.deleted)
	})

	t.Run("SaveValidatesAndMarksSaved", func(t *testing.T) {
		svc, repo, _, _ := newAdminFixture(t)
		form, err := svc.OpenNew(ctx)
		require.NoError(t, err)

		err = form.Save(ctx, ProductInput{Name: "", WholesalePrice: "10", RetailPrice: "15"})
		require.Error(t, err, "missing name fails validation")
		require.False(t, form.Saved())

		err = form.Save(ctx, ProductInput{
			Name:           "Lamp",
			WholesalePrice: "10.50",
			RetailPrice:    "19.99",
		})
		require.NoError(t, err)
		require.True(t, form.Saved())
		require.Len(t, repo.updated, 1)
		require.Equal(t, 1, repo.updated[0].Stock, "empty stock defaults to 1")

		require.NoError(t, form.Cancel(ctx))
		require.Empty(t, repo.deleted, "cancel after save keeps the record")
	})

	t.Run("SaveRejectsNegativeValues", func(t *testing.T) {
		svc, _, _, _ := newAdminFixture(t)
		form, err := svc.OpenNew(ctx)
		require.NoError(t, err)

		err = form.Save(ctx, ProductInput{Name: "Lamp", WholesalePrice: "-1", RetailPrice: "5"})
		require.Error(t, err)
		err = form.Save(ctx, ProductInput{Name: "Lamp", WholesalePrice: "1", RetailPrice: "5", Stock: "-3"})
		require.Error(t, err)
	})
}

func TestProductFormImages(t *testing.T) {
	ctx := context.Background()
	src := func(t *testing.T) []byte { return encodeTestImage(t, 600, 400) }

	t.Run("AddImageUploadsAllThreeVariants", func(t *testing.T) {
		svc, _, store, _ := newAdminFixture(t)
		form, err := svc.OpenNew(ctx)
		require.NoError(t, err)

		require.NoError(t, form.AddImage(ctx, "lamp.jpg", src(t)))

		data := form.Data()
		require.Len(t, data.Images, 1)
		set := data.Images[0]
		require.Contains(t, set.Small, "_small.jpg")
		require.Contains(t, set.Medium, "_medium.jpg")
		require.Contains(t, set.Big, "_big.jpg")
		require.Len(t, store.uploads, 3)
		require.Contains(t, store.uploads[0], "_medium.jpg", "medium uploads first")
	})

	t.Run("PartialUploadFailureRollsBack", func(t *testing.T) {
		svc, _, store, _ := newAdminFixture(t)
		store.failVariant = "big"
		form, err := svc.OpenNew(ctx)
		require.NoError(t, err)

		err = form.AddImage(ctx, "lamp.jpg", src(t))
		require.Error(t, err)
		require.Empty(t, form.Data().Images, "no partial set is kept")
		require.Len(t, store.deletes, 2, "medium and small uploads are rolled back")
		for _, url := range store.deletes {
			require.Contains(t, store.uploads, url)
		}
	})

	t.Run("FirstImageTriggersAnalysisFillingDefaults", func(t *testing.T) {
		svc, _, _, assist := newAdminFixture(t)
		assist.result = AnalysisResult{Name: "Brass Lamp", Description: "vintage", PriceEstimate: "12.50"}
		form, err := svc.OpenNew(ctx)
		require.NoError(t, err)

		require.NoError(t, form.AddImage(ctx, "lamp.jpg", src(t)))

		select {
		case <-assist.analyzed:
		case <-time.After(5 * time.Second):
			t.Fatal("analysis never ran")
		}
		require.Eventually(t, func() bool {
			return form.Data().Name == "Brass Lamp"
		}, 5*time.Second, 10*time.Millisecond)

		data := form.Data()
		require.Equal(t, "vintage", data.Description)
		require.Equal(t, "12.5", data.WholesalePrice.String())
	})

	t.Run("AnalysisNeverOverwritesUserInput", func(t *testing.T) {
		svc, _, _, assist := newAdminFixture(t)
		assist.result = AnalysisResult{Name: "Suggested", Description: "suggested"}
		form, err := svc.OpenNew(ctx)
		require.NoError(t, err)

		form.mu.Lock()
		form.Description = "handwritten"
		form.mu.Unlock()

		require.NoError(t, form.AddImage(ctx, "lamp.jpg", src(t)))
		select {
		case <-assist.analyzed:
		case <-time.After(5 * time.Second):
			t.Fatal("analysis never ran")
		}
		require.Eventually(t, func() bool {
			return form.Data().Name == "Suggested"
		}, 5*time.Second, 10*time.Millisecond)
		require.Equal(t, "handwritten", form.Data().Description)
	})

	t.Run("SecondImageDoesNotAnalyze", func(t *testing.T) {
		svc, _, _, assist := newAdminFixture(t)
		form, err := svc.OpenNew(ctx)
		require.NoError(t, err)

		require.NoError(t, form.AddImage(ctx, "a.jpg", src(t)))
		<-assist.analyzed
		require.NoError(t, form.AddImage(ctx, "b.jpg", src(t)))

		select {
		case <-assist.analyzed:
			t.Fatal("second image must not trigger analysis")
		case <-time.After(100 * time.Millisecond):
		}
	})
}

func TestProductFormReorderAndDelete(t *testing.T) {
	ctx := context.Background()

	sets := func(n int) []models.ImageVariantSet {
		out := make([]models.ImageVariantSet, n)
		for i := range out {
			out[i] = models.ImageVariantSet{
				FileName: fmt.Sprintf("img%d.jpg", i),
				Small:    fmt.Sprintf("https://blobs.test/products/p1/%d_img%d_small.jpg", i, i),
				Medium:   fmt.Sprintf("https://blobs.test/products/p1/%d_img%d_medium.jpg", i, i),
				Big:      fmt.Sprintf("https://blobs.test/products/p1/%d_img%d_big.jpg", i, i),
			}
		}
		return out
	}

	openWithImages := func(t *testing.T, n int) (*ProductForm, *recordingProductRepo, *mockStorage) {
		t.Helper()
		existing := product("p1", "Lamp", func(p *models.Product) { p.Images = sets(n) })
		svc, repo, store, _ := newAdminFixture(t, existing)
		form, err := svc.OpenExisting(ctx, "p1")
		require.NoError(t, err)
		return form, repo, store
	}

	t.Run("ReorderPersistsImmediatelyWhenSaved", func(t *testing.T) {
		form, repo, _ := openWithImages(t, 3)

		require.NoError(t, form.Reorder(ctx, 0, 2))

		data := form.Data()
		require.Equal(t, "img1.jpg", data.Images[0].FileName)
		require.Equal(t, "img0.jpg", data.Images[2].FileName)
		require.Len(t, repo.imageUpdates["p1"], 1)
		require.Equal(t, data.Images, repo.imageUpdates["p1"][0])
	})

	t.Run("ReorderOnUnsavedFormDefersPersistence", func(t *testing.T) {
		svc, repo, _, _ := newAdminFixture(t)
		form, err := svc.OpenNew(ctx)
		require.NoError(t, err)
		require.NoError(t, form.AddImage(ctx, "a.jpg", encodeTestImage(t, 600, 400)))
		require.NoError(t, form.AddImage(ctx, "b.jpg", encodeTestImage(t, 600, 400)))

		require.NoError(t, form.Reorder(ctx, 1, 0))
		require.Empty(t, repo.imageUpdates, "order is written only on save")
	})

	t.Run("ReorderOutOfRange", func(t *testing.T) {
		form, _, _ := openWithImages(t, 2)
		require.ErrorIs(t, form.Reorder(ctx, 0, 5), ErrImageIndexOutOfRange)
		require.ErrorIs(t, form.Reorder(ctx, -1, 0), ErrImageIndexOutOfRange)
	})

	t.Run("DeleteRequiresConfirmation", func(t *testing.T) {
		form, repo, store := openWithImages(t, 2)

		require.ErrorIs(t, form.DeleteImage(ctx, 0, false), ErrConfirmationRequired)
		require.Len(t, form.Data().Images, 2)
		require.Empty(t, store.deletes)
		require.Empty(t, repo.imageUpdates)
	})

	t.Run("ConfirmedDeleteRemovesBlobsAndPersists", func(t *testing.T) {
		form, repo, store := openWithImages(t, 2)

		require.NoError(t, form.DeleteImage(ctx, 0, true))

		data := form.Data()
		require.Len(t, data.Images, 1)
		require.Equal(t, "img1.jpg", data.Images[0].FileName)
		require.Len(t, store.deletes, 3, "all three variant blobs are deleted")
		require.Len(t, repo.imageUpdates["p1"], 1)
	})

	t.Run("DeleteOutOfRange", func(t *testing.T) {
		form, _, _ := openWithImages(t, 1)
		require.ErrorIs(t, form.DeleteImage(ctx, 3, true), ErrImageIndexOutOfRange)
	})
}
