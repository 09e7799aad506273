package admin

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rakadenta/wholesale-catalog/app/helpers"
	"github.com/rakadenta/wholesale-catalog/app/models"
	"github.com/rakadenta/wholesale-catalog/app/services"
	"github.com/unrolled/render"
)

const maxImageUploadBytes = 32 << 20

// ProductAdminHandler exposes the edit-form workflow over HTTP. Open forms
// are held in memory, keyed by the product ID the form edits.
type ProductAdminHandler struct {
	svc     *services.ProductAdminService
	catalog *services.CatalogService
	render  *render.Render

	mu    sync.Mutex
	forms map[string]*services.ProductForm
}

func NewProductAdminHandler(svc *services.ProductAdminService, catalog *services.CatalogService, r *render.Render) *ProductAdminHandler {
	return &ProductAdminHandler{
		svc:     svc,
		catalog: catalog,
		render:  r,
		forms:   make(map[string]*services.ProductForm),
	}
}

type formResponse struct {
	ProductID      string                   `json:"productId"`
	Saved          bool                     `json:"saved"`
	Name           string                   `json:"name"`
	Description    string                   `json:"description"`
	WholesalePrice string                   `json:"wholesalePrice"`
	RetailPrice    string                   `json:"retailPrice"`
	Stock          int                      `json:"stock"`
	Hidden         bool                     `json:"hidden"`
	Images         []models.ImageVariantSet `json:"images"`
}

// List returns every product, hidden ones included, for the dashboard.
func (h *ProductAdminHandler) List(w http.ResponseWriter, r *http.Request) {
	_ = r
	_ = h.render.JSON(w, http.StatusOK, h.catalog.Visible(true))
}

// Open creates a placeholder product and opens a form over it. The record
// exists from this moment; Cancel must delete it if the user never saves.
func (h *ProductAdminHandler) Open(w http.ResponseWriter, r *http.Request) {
	form, err := h.svc.OpenNew(r.Context())
	if err != nil {
		log.Printf("Open: failed to create placeholder: %v", err)
		http.Error(w, "failed to create product, please retry", http.StatusInternalServerError)
		return
	}

	h.mu.Lock()
	h.forms[form.ProductID()] = form
	h.mu.Unlock()

	h.respondForm(w, form)
}

// OpenExisting loads a persisted product into a form.
func (h *ProductAdminHandler) OpenExisting(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	form, err := h.svc.OpenExisting(r.Context(), id)
	if err != nil {
		log.Printf("OpenExisting: failed to load product %s: %v", id, err)
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}

	h.mu.Lock()
	h.forms[form.ProductID()] = form
	h.mu.Unlock()

	h.respondForm(w, form)
}

func (h *ProductAdminHandler) form(id string) (*services.ProductForm, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	form, ok := h.forms[id]
	return form, ok
}

func (h *ProductAdminHandler) closeForm(id string) {
	h.mu.Lock()
	delete(h.forms, id)
	h.mu.Unlock()
}

// AddImage accepts a multipart upload, runs the variant pipeline, and
// uploads the set. A failed variant upload fails the whole image add.
func (h *ProductAdminHandler) AddImage(w http.ResponseWriter, r *http.Request) {
	form, ok := h.form(mux.Vars(r)["id"])
	if !ok {
		http.Error(w, "no open form for product", http.StatusNotFound)
		return
	}

	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		http.Error(w, "invalid upload", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read upload", http.StatusBadRequest)
		return
	}

	if err := form.AddImage(r.Context(), header.Filename, data); err != nil {
		log.Printf("AddImage: %v", err)
		http.Error(w, "image upload failed, please retry", http.StatusBadGateway)
		return
	}

	h.respondForm(w, form)
}

// ReorderImages moves an image between positions. Persisted immediately
// for a saved product.
func (h *ProductAdminHandler) ReorderImages(w http.ResponseWriter, r *http.Request) {
	form, ok := h.form(mux.Vars(r)["id"])
	if !ok {
		http.Error(w, "no open form for product", http.StatusNotFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	from, err1 := strconv.Atoi(r.Form.Get("from"))
	to, err2 := strconv.Atoi(r.Form.Get("to"))
	if err1 != nil || err2 != nil {
		http.Error(w, "from and to must be integers", http.StatusBadRequest)
		return
	}

	if err := form.Reorder(r.Context(), from, to); err != nil {
		if errors.Is(err, services.ErrImageIndexOutOfRange) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("ReorderImages: %v", err)
		http.Error(w, "reorder failed, please retry", http.StatusInternalServerError)
		return
	}

	h.respondForm(w, form)
}

// DeleteImage removes one variant set. The confirm flag is the explicit
// confirmation the destructive path requires.
func (h *ProductAdminHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	form, ok := h.form(vars["id"])
	if !ok {
		http.Error(w, "no open form for product", http.StatusNotFound)
		return
	}

	index, err := strconv.Atoi(vars["index"])
	if err != nil {
		http.Error(w, "invalid image index", http.StatusBadRequest)
		return
	}
	confirmed := r.URL.Query().Get("confirm") == "1"

	if err := form.DeleteImage(r.Context(), index, confirmed); err != nil {
		switch {
		case errors.Is(err, services.ErrConfirmationRequired):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, services.ErrImageIndexOutOfRange):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Printf("DeleteImage: %v", err)
			http.Error(w, "delete failed, please retry", http.StatusInternalServerError)
		}
		return
	}

	h.respondForm(w, form)
}

// Save validates and writes the full record, then closes the form.
func (h *ProductAdminHandler) Save(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	form, ok := h.form(id)
	if !ok {
		http.Error(w, "no open form for product", http.StatusNotFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	input := services.ProductInput{
		Name:           r.Form.Get("name"),
		Description:    r.Form.Get("description"),
		WholesalePrice: r.Form.Get("wholesalePrice"),
		RetailPrice:    r.Form.Get("retailPrice"),
		Stock:          r.Form.Get("stock"),
		Hidden:         r.Form.Get("hidden") == "1",
	}

	if err := form.Save(r.Context(), input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			_ = h.render.JSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"errors": helpers.FormatValidationErrors(verrs),
			})
			return
		}
		log.Printf("Save: %v", err)
		_ = h.render.JSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}

	h.closeForm(id)
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"saved": true, "productId": id})
}

// Cancel closes the form, reversing the optimistic create when the product
// was never saved.
func (h *ProductAdminHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	form, ok := h.form(id)
	if !ok {
		http.Error(w, "no open form for product", http.StatusNotFound)
		return
	}

	if err := form.Cancel(r.Context()); err != nil {
		log.Printf("Cancel: %v", err)
		http.Error(w, "cancel failed, please retry", http.StatusInternalServerError)
		return
	}

	h.closeForm(id)
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"cancelled": true, "deleted": !form.Saved()})
}

func (h *ProductAdminHandler) respondForm(w http.ResponseWriter, form *services.ProductForm) {
	data := form.Data()
	_ = h.render.JSON(w, http.StatusOK, formResponse{
		ProductID:      data.ProductID,
		Saved:          data.Saved,
		Name:           data.Name,
		Description:    data.Description,
		WholesalePrice: data.WholesalePrice.String(),
		RetailPrice:    data.RetailPrice.String(),
		Stock:          data.Stock,
		Hidden:         data.Hidden,
		Images:         data.Images,
	})
}
