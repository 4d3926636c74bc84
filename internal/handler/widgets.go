// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Sliders, FAQs and videos share the same simple management shape, so the
// three entity groups live in one handler.

package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/mirelo-dev/canopy/internal/middleware"
	"github.com/mirelo-dev/canopy/internal/model"
	"github.com/mirelo-dev/canopy/internal/render"
	"github.com/mirelo-dev/canopy/internal/service"
	"github.com/mirelo-dev/canopy/internal/store"
)

// WidgetHandler handles slider, FAQ and video management routes.
type WidgetHandler struct {
	store          *store.Store
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	uploads        *service.Uploader
}

// NewWidgetHandler creates a new WidgetHandler.
func NewWidgetHandler(st *store.Store, renderer *render.Renderer, sm *scs.SessionManager, up *service.Uploader) *WidgetHandler {
	return &WidgetHandler{store: st, renderer: renderer, sessionManager: sm, uploads: up}
}

// SlidersListData holds data for the sliders list template.
type SlidersListData struct {
	Sliders    []model.Slider
	Pagination AdminPagination
}

// ListSliders handles GET /admin/sliders.
func (h *WidgetHandler) ListSliders(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromRequest(r)

	sliders, total, err := h.store.ListSliders(r.Context(), params)
	if err != nil {
		logAndInternalError(w, "failed to list sliders", "error", err)
		return
	}

	data := SlidersListData{
		Sliders:    sliders,
		Pagination: BuildAdminPagination(params, total, redirectAdminSliders, r.URL.Query()),
	}
	h.renderWidget(w, r, "admin/sliders_list", "Sliders", data, params, data.Pagination)
}

// SliderFormData holds data for the slider form template.
type SliderFormData struct {
	Slider *model.Slider
	IsEdit bool
}

// NewSliderForm handles GET /admin/sliders/new.
func (h *WidgetHandler) NewSliderForm(w http.ResponseWriter, r *http.Request) {
	h.renderWidgetForm(w, r, "admin/sliders_form", "New Slider", SliderFormData{})
}

// CreateSlider handles POST /admin/sliders.
func (h *WidgetHandler) CreateSlider(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		flashError(w, r, h.renderer, redirectAdminSliders, "Invalid form data")
		return
	}

	if missing := firstMissingField(r, [2]string{"title", "Title"}); missing != "" {
		flashError(w, r, h.renderer, redirectAdminSliders, missing+" is required")
		return
	}

	now := time.Now()
	slider := &model.Slider{
		ID:         store.NewID(),
		Title:      r.FormValue("title"),
		Caption:    r.FormValue("caption"),
		Link:       r.FormValue("link"),
		Position:   atoiOrZero(r.FormValue("position")),
		ShowStatus: r.FormValue("show_status") != "",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if img, ok := h.saveSliderImage(w, r); !ok {
		return
	} else if img != "" {
		slider.Image = img
	}

	if err := h.store.CreateSlider(r.Context(), slider); err != nil {
		slog.Error("failed to create slider", "error", err)
		flashError(w, r, h.renderer, redirectAdminSliders, "Error creating slider")
		return
	}

	slog.Info("slider created", "slider_id", slider.ID, "created_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminSliders, "Slider created successfully")
}

// EditSliderForm handles GET /admin/sliders/{id}.
func (h *WidgetHandler) EditSliderForm(w http.ResponseWriter, r *http.Request) {
	slider, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminSliders, "Slider", idParam(r),
		func(id string) (*model.Slider, error) { return h.store.GetSliderByID(r.Context(), id) })
	if !ok {
		return
	}
	h.renderWidgetForm(w, r, "admin/sliders_form", "Edit Slider", SliderFormData{Slider: slider, IsEdit: true})
}

// UpdateSlider handles POST /admin/sliders/{id}.
func (h *WidgetHandler) UpdateSlider(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		flashError(w, r, h.renderer, redirectAdminSliders, "Invalid form data")
		return
	}

	slider, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminSliders, "Slider", idParam(r),
		func(id string) (*model.Slider, error) { return h.store.GetSliderByID(r.Context(), id) })
	if !ok {
		return
	}

	if missing := firstMissingField(r, [2]string{"title", "Title"}); missing != "" {
		flashError(w, r, h.renderer, redirectAdminSliders, missing+" is required")
		return
	}

	slider.Title = r.FormValue("title")
	slider.Caption = r.FormValue("caption")
	slider.Link = r.FormValue("link")
	slider.Position = atoiOrZero(r.FormValue("position"))
	slider.ShowStatus = r.FormValue("show_status") != ""
	slider.UpdatedAt = time.Now()

	if img, ok := h.saveSliderImage(w, r); !ok {
		return
	} else if img != "" {
		slider.Image = img
	}

	if err := h.store.UpdateSlider(r.Context(), slider); err != nil {
		slog.Error("failed to update slider", "error", err, "slider_id", slider.ID)
		flashError(w, r, h.renderer, redirectAdminSliders, "Error updating slider")
		return
	}

	slog.Info("slider updated", "slider_id", slider.ID, "updated_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminSliders, "Slider updated successfully")
}

// DeleteSlider handles POST /admin/sliders/{id}/delete.
func (h *WidgetHandler) DeleteSlider(w http.ResponseWriter, r *http.Request) {
	h.deleteOne(w, r, "Slider", redirectAdminSliders, h.store.DeleteSlider)
}

// DeleteSlidersBulk handles POST /admin/sliders/delete.
func (h *WidgetHandler) DeleteSlidersBulk(w http.ResponseWriter, r *http.Request) {
	h.deleteBulk(w, r, "sliders", redirectAdminSliders, h.store.DeleteSliders)
}

// ToggleSliderStatus handles POST /admin/sliders/{id}/status.
func (h *WidgetHandler) ToggleSliderStatus(w http.ResponseWriter, r *http.Request) {
	h.toggleStatus(w, r, "Slider", redirectAdminSliders, h.store.ToggleSliderStatus)
}

// FaqsListData holds data for the FAQs list template.
type FaqsListData struct {
	Faqs       []model.Faq
	Pagination AdminPagination
}

// ListFaqs handles GET /admin/faqs.
func (h *WidgetHandler) ListFaqs(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromRequest(r)

	faqs, total, err := h.store.ListFaqs(r.Context(), params)
	if err != nil {
		logAndInternalError(w, "failed to list faqs", "error", err)
		return
	}

	data := FaqsListData{
		Faqs:       faqs,
		Pagination: BuildAdminPagination(params, total, redirectAdminFaqs, r.URL.Query()),
	}
	h.renderWidget(w, r, "admin/faqs_list", "FAQs", data, params, data.Pagination)
}

// FaqFormData holds data for the FAQ form template.
type FaqFormData struct {
	Faq    *model.Faq
	IsEdit bool
}

// NewFaqForm handles GET /admin/faqs/new.
func (h *WidgetHandler) NewFaqForm(w http.ResponseWriter, r *http.Request) {
	h.renderWidgetForm(w, r, "admin/faqs_form", "New FAQ", FaqFormData{})
}

// CreateFaq handles POST /admin/faqs.
func (h *WidgetHandler) CreateFaq(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminFaqs) {
		return
	}

	if missing := firstMissingField(r,
		[2]string{"question", "Question"},
		[2]string{"answer", "Answer"},
	); missing != "" {
		flashError(w, r, h.renderer, redirectAdminFaqs, missing+" is required")
		return
	}

	now := time.Now()
	faq := &model.Faq{
		ID:         store.NewID(),
		Question:   r.FormValue("question"),
		Answer:     r.FormValue("answer"),
		Position:   atoiOrZero(r.FormValue("position")),
		ShowStatus: r.FormValue("show_status") != "",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := h.store.CreateFaq(r.Context(), faq); err != nil {
		slog.Error("failed to create faq", "error", err)
		flashError(w, r, h.renderer, redirectAdminFaqs, "Error creating FAQ")
		return
	}

	slog.Info("faq created", "faq_id", faq.ID, "created_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminFaqs, "FAQ created successfully")
}

// EditFaqForm handles GET /admin/faqs/{id}.
func (h *WidgetHandler) EditFaqForm(w http.ResponseWriter, r *http.Request) {
	faq, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminFaqs, "FAQ", idParam(r),
		func(id string) (*model.Faq, error) { return h.store.GetFaqByID(r.Context(), id) })
	if !ok {
		return
	}
	h.renderWidgetForm(w, r, "admin/faqs_form", "Edit FAQ", FaqFormData{Faq: faq, IsEdit: true})
}

// UpdateFaq handles POST /admin/faqs/{id}.
func (h *WidgetHandler) UpdateFaq(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminFaqs) {
		return
	}

	faq, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminFaqs, "FAQ", idParam(r),
		func(id string) (*model.Faq, error) { return h.store.GetFaqByID(r.Context(), id) })
	if !ok {
		return
	}

	if missing := firstMissingField(r,
		[2]string{"question", "Question"},
		[2]string{"answer", "Answer"},
	); missing != "" {
		flashError(w, r, h.renderer, redirectAdminFaqs, missing+" is required")
		return
	}

	faq.Question = r.FormValue("question")
	faq.Answer = r.FormValue("answer")
	faq.Position = atoiOrZero(r.FormValue("position"))
	faq.ShowStatus = r.FormValue("show_status") != ""
	faq.UpdatedAt = time.Now()

	if err := h.store.UpdateFaq(r.Context(), faq); err != nil {
		slog.Error("failed to update faq", "error", err, "faq_id", faq.ID)
		flashError(w, r, h.renderer, redirectAdminFaqs, "Error updating FAQ")
		return
	}

	slog.Info("faq updated", "faq_id", faq.ID, "updated_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminFaqs, "FAQ updated successfully")
}

// DeleteFaq handles POST /admin/faqs/{id}/delete.
func (h *WidgetHandler) DeleteFaq(w http.ResponseWriter, r *http.Request) {
	h.deleteOne(w, r, "FAQ", redirectAdminFaqs, h.store.DeleteFaq)
}

// DeleteFaqsBulk handles POST /admin/faqs/delete.
func (h *WidgetHandler) DeleteFaqsBulk(w http.ResponseWriter, r *http.Request) {
	h.deleteBulk(w, r, "faqs", redirectAdminFaqs, h.store.DeleteFaqs)
}

// ToggleFaqStatus handles POST /admin/faqs/{id}/status.
func (h *WidgetHandler) ToggleFaqStatus(w http.ResponseWriter, r *http.Request) {
	h.toggleStatus(w, r, "FAQ", redirectAdminFaqs, h.store.ToggleFaqStatus)
}

// VideosListData holds data for the videos list template.
type VideosListData struct {
	Videos     []model.Video
	Pagination AdminPagination
}

// ListVideos handles GET /admin/videos.
func (h *WidgetHandler) ListVideos(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromRequest(r)

	videos, total, err := h.store.ListVideos(r.Context(), params)
	if err != nil {
		logAndInternalError(w, "failed to list videos", "error", err)
		return
	}

	data := VideosListData{
		Videos:     videos,
		Pagination: BuildAdminPagination(params, total, redirectAdminVideos, r.URL.Query()),
	}
	h.renderWidget(w, r, "admin/videos_list", "Videos", data, params, data.Pagination)
}

// VideoFormData holds data for the video form template.
type VideoFormData struct {
	Video  *model.Video
	IsEdit bool
}

// NewVideoForm handles GET /admin/videos/new.
func (h *WidgetHandler) NewVideoForm(w http.ResponseWriter, r *http.Request) {
	h.renderWidgetForm(w, r, "admin/videos_form", "New Video", VideoFormData{})
}

// CreateVideo handles POST /admin/videos.
func (h *WidgetHandler) CreateVideo(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminVideos) {
		return
	}

	if missing := firstMissingField(r,
		[2]string{"title", "Title"},
		[2]string{"url", "URL"},
	); missing != "" {
		flashError(w, r, h.renderer, redirectAdminVideos, missing+" is required")
		return
	}

	now := time.Now()
	video := &model.Video{
		ID:          store.NewID(),
		Title:       r.FormValue("title"),
		URL:         r.FormValue("url"),
		Description: r.FormValue("description"),
		ShowStatus:  r.FormValue("show_status") != "",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.store.CreateVideo(r.Context(), video); err != nil {
		slog.Error("failed to create video", "error", err)
		flashError(w, r, h.renderer, redirectAdminVideos, "Error creating video")
		return
	}

	slog.Info("video created", "video_id", video.ID, "created_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminVideos, "Video created successfully")
}

// EditVideoForm handles GET /admin/videos/{id}.
func (h *WidgetHandler) EditVideoForm(w http.ResponseWriter, r *http.Request) {
	video, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminVideos, "Video", idParam(r),
		func(id string) (*model.Video, error) { return h.store.GetVideoByID(r.Context(), id) })
	if !ok {
		return
	}
	h.renderWidgetForm(w, r, "admin/videos_form", "Edit Video", VideoFormData{Video: video, IsEdit: true})
}

// UpdateVideo handles POST /admin/videos/{id}.
func (h *WidgetHandler) UpdateVideo(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminVideos) {
		return
	}

	video, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminVideos, "Video", idParam(r),
		func(id string) (*model.Video, error) { return h.store.GetVideoByID(r.Context(), id) })
	if !ok {
		return
	}

	if missing := firstMissingField(r,
		[2]string{"title", "Title"},
		[2]string{"url", "URL"},
	); missing != "" {
		flashError(w, r, h.renderer, redirectAdminVideos, missing+" is required")
		return
	}

	video.Title = r.FormValue("title")
	video.URL = r.FormValue("url")
	video.Description = r.FormValue("description")
	video.ShowStatus = r.FormValue("show_status") != ""
	video.UpdatedAt = time.Now()

	if err := h.store.UpdateVideo(r.Context(), video); err != nil {
		slog.Error("failed to update video", "error", err, "video_id", video.ID)
		flashError(w, r, h.renderer, redirectAdminVideos, "Error updating video")
		return
	}

	slog.Info("video updated", "video_id", video.ID, "updated_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminVideos, "Video updated successfully")
}

// DeleteVideo handles POST /admin/videos/{id}/delete.
func (h *WidgetHandler) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	h.deleteOne(w, r, "Video", redirectAdminVideos, h.store.DeleteVideo)
}

// DeleteVideosBulk handles POST /admin/videos/delete.
func (h *WidgetHandler) DeleteVideosBulk(w http.ResponseWriter, r *http.Request) {
	h.deleteBulk(w, r, "videos", redirectAdminVideos, h.store.DeleteVideos)
}

// ToggleVideoStatus handles POST /admin/videos/{id}/status.
func (h *WidgetHandler) ToggleVideoStatus(w http.ResponseWriter, r *http.Request) {
	h.toggleStatus(w, r, "Video", redirectAdminVideos, h.store.ToggleVideoStatus)
}

func (h *WidgetHandler) saveSliderImage(w http.ResponseWriter, r *http.Request) (string, bool) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", true
		}
		flashError(w, r, h.renderer, redirectAdminSliders, "Invalid image upload")
		return "", false
	}
	defer func() { _ = file.Close() }()

	saved, err := h.uploads.Save(service.UploadSliders, file, header)
	if err != nil {
		slog.Error("failed to save slider image", "error", err)
		flashError(w, r, h.renderer, redirectAdminSliders, "Error saving image: "+err.Error())
		return "", false
	}
	return saved.URL, true
}

func (h *WidgetHandler) deleteOne(w http.ResponseWriter, r *http.Request, name, redirectURL string, fn func(ctx context.Context, id string) error) {
	id := idParam(r)
	if err := fn(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			flashError(w, r, h.renderer, redirectURL, name+" not found")
			return
		}
		slog.Error("failed to delete "+name, "error", err, "id", id)
		flashError(w, r, h.renderer, redirectURL, "Error deleting "+name)
		return
	}

	slog.Info(name+" deleted", "id", id, "deleted_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectURL, name+" deleted successfully")
}

func (h *WidgetHandler) deleteBulk(w http.ResponseWriter, r *http.Request, plural, redirectURL string, fn func(ctx context.Context, ids []string) (int64, error)) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectURL) {
		return
	}

	deleted, err := fn(r.Context(), formIDs(r))
	if err != nil {
		if errors.Is(err, store.ErrInvalidID) {
			flashError(w, r, h.renderer, redirectURL, "Invalid selection, nothing was deleted")
			return
		}
		slog.Error("failed to bulk delete "+plural, "error", err)
		flashError(w, r, h.renderer, redirectURL, "Error deleting "+plural)
		return
	}

	slog.Info(plural+" bulk deleted", "count", deleted, "deleted_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectURL, "Selected "+plural+" deleted")
}

func (h *WidgetHandler) toggleStatus(w http.ResponseWriter, r *http.Request, name, redirectURL string, fn func(ctx context.Context, id string) error) {
	id := idParam(r)
	if err := fn(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			flashError(w, r, h.renderer, redirectURL, name+" not found")
			return
		}
		slog.Error("failed to toggle "+name+" status", "error", err, "id", id)
		flashError(w, r, h.renderer, redirectURL, "Error updating "+name+" status")
		return
	}

	h.renderer.SetFlash(r, name+" visibility updated", "success")
	redirectBack(w, r, redirectURL)
}

func (h *WidgetHandler) renderWidget(w http.ResponseWriter, r *http.Request, tmpl, title string, data any, params store.ListParams, pagination AdminPagination) {
	if err := h.renderer.Render(w, r, tmpl, render.TemplateData{
		Title:  title,
		User:   middleware.GetUser(r),
		Data:   data,
		Search: params.Search,
		Page:   pagination.CurrentPage,
		Pages:  pagination.TotalPages,
	}); err != nil {
		logAndInternalError(w, "rendering widget list", "error", err, "template", tmpl)
	}
}

func (h *WidgetHandler) renderWidgetForm(w http.ResponseWriter, r *http.Request, tmpl, title string, data any) {
	if err := h.renderer.Render(w, r, tmpl, render.TemplateData{
		Title: title,
		User:  middleware.GetUser(r),
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "rendering widget form", "error", err, "template", tmpl)
	}
}

// atoiOrZero parses an int form value, treating blanks and junk as zero.
func atoiOrZero(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
