// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/mirelo-dev/canopy/internal/middleware"
	"github.com/mirelo-dev/canopy/internal/model"
	"github.com/mirelo-dev/canopy/internal/render"
	"github.com/mirelo-dev/canopy/internal/service"
	"github.com/mirelo-dev/canopy/internal/store"
)

// maxFormMemory bounds how much of a multipart form is held in memory.
const maxFormMemory = 32 << 20

// ProductHandler handles product management routes.
type ProductHandler struct {
	store          *store.Store
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	uploads        *service.Uploader
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(st *store.Store, renderer *render.Renderer, sm *scs.SessionManager, up *service.Uploader) *ProductHandler {
	return &ProductHandler{store: st, renderer: renderer, sessionManager: sm, uploads: up}
}

// ProductsListData holds data for the products list template.
type ProductsListData struct {
	Products   []model.Product
	Categories []model.Category
	CategoryID string
	Pagination AdminPagination
}

// List handles GET /admin/products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromRequest(r)
	filter := store.ProductFilter{CategoryID: r.URL.Query().Get("category")}

	products, total, err := h.store.ListProducts(r.Context(), params, filter)
	if err != nil {
		logAndInternalError(w, "failed to list products", "error", err)
		return
	}

	categories, err := h.store.AllCategories(r.Context(), model.CategoryKindProduct)
	if err != nil {
		slog.Error("failed to load product categories", "error", err)
	}

	data := ProductsListData{
		Products:   products,
		Categories: categories,
		CategoryID: filter.CategoryID,
		Pagination: BuildAdminPagination(params, total, redirectAdminProducts, r.URL.Query()),
	}

	h.renderList(w, r, "Products", data, params)
}

// ProductFormData holds data for the product form template.
type ProductFormData struct {
	Product    *model.Product
	Categories []model.Category
	Countries  []model.Country
	IsEdit     bool
}

// NewForm handles GET /admin/products/new.
func (h *ProductHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, "New Product", ProductFormData{
		Categories: h.formCategories(r),
		Countries:  h.formCountries(r),
	})
}

// Create handles POST /admin/products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		flashError(w, r, h.renderer, redirectAdminProductsNew, "Invalid form data")
		return
	}

	if missing := firstMissingField(r, [2]string{"title", "Title"}); missing != "" {
		flashError(w, r, h.renderer, redirectAdminProductsNew, missing+" is required")
		return
	}

	now := time.Now()
	product := &model.Product{
		ID:        store.NewID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	h.fillFromForm(product, r)

	if img, ok := h.saveImage(w, r, redirectAdminProductsNew); !ok {
		return
	} else if img != "" {
		product.Images = append(product.Images, img)
	}

	if err := h.store.CreateProduct(r.Context(), product); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			flashError(w, r, h.renderer, redirectAdminProductsNew, "A product with this slug already exists")
			return
		}
		slog.Error("failed to create product", "error", err)
		flashError(w, r, h.renderer, redirectAdminProductsNew, "Error creating product")
		return
	}

	slog.Info("product created", "product_id", product.ID, "slug", product.Slug,
		"created_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminProducts, "Product created successfully")
}

// EditForm handles GET /admin/products/{id}.
func (h *ProductHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	product, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminProducts, "Product", idParam(r),
		func(id string) (*model.Product, error) { return h.store.GetProductByID(r.Context(), id) })
	if !ok {
		return
	}

	h.renderForm(w, r, "Edit Product", ProductFormData{
		Product:    product,
		Categories: h.formCategories(r),
		Countries:  h.formCountries(r),
		IsEdit:     true,
	})
}

// Update handles POST /admin/products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		flashError(w, r, h.renderer, redirectAdminProducts, "Invalid form data")
		return
	}

	product, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminProducts, "Product", idParam(r),
		func(id string) (*model.Product, error) { return h.store.GetProductByID(r.Context(), id) })
	if !ok {
		return
	}

	if missing := firstMissingField(r, [2]string{"title", "Title"}); missing != "" {
		flashError(w, r, h.renderer, redirectAdminProducts, missing+" is required")
		return
	}

	h.fillFromForm(product, r)
	product.UpdatedAt = time.Now()

	if img, ok := h.saveImage(w, r, redirectAdminProducts); !ok {
		return
	} else if img != "" {
		product.Images = append(product.Images, img)
	}

	if err := h.store.UpdateProduct(r.Context(), product); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			flashError(w, r, h.renderer, redirectAdminProducts, "Product not found")
			return
		}
		slog.Error("failed to update product", "error", err, "product_id", product.ID)
		flashError(w, r, h.renderer, redirectAdminProducts, "Error updating product")
		return
	}

	slog.Info("product updated", "product_id", product.ID, "updated_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminProducts, "Product updated successfully")
}

// Delete handles POST /admin/products/{id}/delete.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if err := h.store.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			flashError(w, r, h.renderer, redirectAdminProducts, "Product not found")
			return
		}
		slog.Error("failed to delete product", "error", err, "product_id", id)
		flashError(w, r, h.renderer, redirectAdminProducts, "Error deleting product")
		return
	}

	slog.Info("product deleted", "product_id", id, "deleted_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminProducts, "Product deleted successfully")
}

// DeleteBulk handles POST /admin/products/delete.
func (h *ProductHandler) DeleteBulk(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminProducts) {
		return
	}

	deleted, err := h.store.DeleteProducts(r.Context(), formIDs(r))
	if err != nil {
		if errors.Is(err, store.ErrInvalidID) {
			flashError(w, r, h.renderer, redirectAdminProducts, "Invalid selection, nothing was deleted")
			return
		}
		slog.Error("failed to bulk delete products", "error", err)
		flashError(w, r, h.renderer, redirectAdminProducts, "Error deleting products")
		return
	}

	slog.Info("products bulk deleted", "count", deleted, "deleted_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminProducts, "Selected products deleted")
}

// ToggleStatus handles POST /admin/products/{id}/status.
func (h *ProductHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if err := h.store.ToggleProductStatus(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			flashError(w, r, h.renderer, redirectAdminProducts, "Product not found")
			return
		}
		slog.Error("failed to toggle product status", "error", err, "product_id", id)
		flashError(w, r, h.renderer, redirectAdminProducts, "Error updating product status")
		return
	}

	h.renderer.SetFlash(r, "Product visibility updated", "success")
	redirectBack(w, r, redirectAdminProducts)
}

// fillFromForm copies editable form fields into the product.
func (h *ProductHandler) fillFromForm(product *model.Product, r *http.Request) {
	product.Title = r.FormValue("title")
	product.Slug = deriveSlug(product.Title, r.FormValue("slug"))
	product.Summary = r.FormValue("summary")
	product.Description = r.FormValue("description")
	product.Price = r.FormValue("price")
	product.CategoryID = r.FormValue("category_id")
	product.CountryID = r.FormValue("country_id")
	product.ShowStatus = r.FormValue("show_status") != ""
	product.SEO = seoFromForm(r)
}

// saveImage stores an optional "image" upload. The bool result is false only
// when a response has already been written.
func (h *ProductHandler) saveImage(w http.ResponseWriter, r *http.Request, redirectURL string) (string, bool) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", true
		}
		flashError(w, r, h.renderer, redirectURL, "Invalid image upload")
		return "", false
	}
	defer func() { _ = file.Close() }()

	saved, err := h.uploads.Save(service.UploadProducts, file, header)
	if err != nil {
		slog.Error("failed to save product image", "error", err)
		flashError(w, r, h.renderer, redirectURL, "Error saving image: "+err.Error())
		return "", false
	}
	return saved.URL, true
}

func (h *ProductHandler) renderList(w http.ResponseWriter, r *http.Request, title string, data ProductsListData, params store.ListParams) {
	if err := h.renderer.Render(w, r, "admin/products_list", render.TemplateData{
		Title:  title,
		User:   middleware.GetUser(r),
		Data:   data,
		Search: params.Search,
		Page:   data.Pagination.CurrentPage,
		Pages:  data.Pagination.TotalPages,
	}); err != nil {
		logAndInternalError(w, "rendering products list", "error", err)
	}
}

func (h *ProductHandler) renderForm(w http.ResponseWriter, r *http.Request, title string, data ProductFormData) {
	if err := h.renderer.Render(w, r, "admin/products_form", render.TemplateData{
		Title: title,
		User:  middleware.GetUser(r),
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "rendering product form", "error", err)
	}
}

func (h *ProductHandler) formCategories(r *http.Request) []model.Category {
	categories, err := h.store.AllCategories(r.Context(), model.CategoryKindProduct)
	if err != nil {
		slog.Error("failed to load product categories", "error", err)
	}
	return categories
}

func (h *ProductHandler) formCountries(r *http.Request) []model.Country {
	countries, err := h.store.AllCountries(r.Context())
	if err != nil {
		slog.Error("failed to load countries", "error", err)
	}
	return countries
}

// seoFromForm reads the shared SEO form fields.
func seoFromForm(r *http.Request) model.SEO {
	return model.SEO{
		MetaTitle:       r.FormValue("meta_title"),
		MetaDescription: r.FormValue("meta_description"),
		MetaKeywords:    r.FormValue("meta_keywords"),
		CanonicalURL:    r.FormValue("canonical_url"),
	}
}
