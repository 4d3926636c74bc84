// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"

	"github.com/mirelo-dev/canopy/internal/session"
)

func testTemplatesFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": &fstest.MapFile{
			Data: []byte(`{{define "base"}}<html><body>{{block "content" .}}{{end}}{{if .Flash}}<div class="flash {{.FlashType}}">{{.Flash}}</div>{{end}}</body></html>{{end}}`),
		},
		"layouts/admin.html": &fstest.MapFile{
			Data: []byte(`{{define "nav"}}<nav>{{.Title}}</nav>{{end}}`),
		},
		"partials/pager.html": &fstest.MapFile{
			Data: []byte(`{{define "pager"}}<span>{{.Page}}/{{.Pages}}</span>{{end}}`),
		},
		"admin/dashboard.html": &fstest.MapFile{
			Data: []byte(`{{define "content"}}{{template "nav" .}}<h1>{{.Title}}</h1>{{end}}`),
		},
		"auth/login.html": &fstest.MapFile{
			Data: []byte(`{{define "content"}}<form>{{.CSRFToken}}</form>{{end}}`),
		},
	}
}

func newTestRenderer(t *testing.T, sm *scs.SessionManager) *Renderer {
	t.Helper()
	r, err := New(Config{TemplatesFS: testTemplatesFS(), SessionManager: sm, IsDev: true})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return r
}

func TestNew_ParsesAdminAndAuthTemplates(t *testing.T) {
	r := newTestRenderer(t, nil)

	for _, name := range []string{"admin/dashboard", "auth/login"} {
		if _, ok := r.templates[name]; !ok {
			t.Errorf("template %q not parsed", name)
		}
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	r := newTestRenderer(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin", nil)
	if err := r.Render(w, req, "admin/nope", TemplateData{}); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestRender_WritesHTML(t *testing.T) {
	r := newTestRenderer(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin", nil)
	if err := r.Render(w, req, "admin/dashboard", TemplateData{Title: "Dashboard"}); err != nil {
		t.Fatalf("Render error: %v", err)
	}

	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
	if !strings.Contains(w.Body.String(), "<h1>Dashboard</h1>") {
		t.Errorf("body missing rendered title: %s", w.Body.String())
	}
}

func TestRender_FlashShownOnce(t *testing.T) {
	sm := scs.New()
	sm.Store = memstore.New()
	r := newTestRenderer(t, sm)

	req := httptest.NewRequest("GET", "/admin", nil)
	ctx, err := sm.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("session load error: %v", err)
	}
	req = req.WithContext(ctx)

	r.SetFlash(req, "Saved", "success")

	w := httptest.NewRecorder()
	if err := r.Render(w, req, "admin/dashboard", TemplateData{Title: "Dashboard"}); err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(w.Body.String(), `<div class="flash success">Saved</div>`) {
		t.Errorf("flash not rendered: %s", w.Body.String())
	}

	// The flash was popped, a second render must not repeat it.
	w = httptest.NewRecorder()
	if err := r.Render(w, req, "admin/dashboard", TemplateData{Title: "Dashboard"}); err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if strings.Contains(w.Body.String(), "Saved") {
		t.Error("flash rendered twice")
	}
}

func TestRender_FlashTypeDefaultsToInfo(t *testing.T) {
	sm := scs.New()
	sm.Store = memstore.New()
	r := newTestRenderer(t, sm)

	req := httptest.NewRequest("GET", "/admin", nil)
	ctx, err := sm.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("session load error: %v", err)
	}
	req = req.WithContext(ctx)

	sm.Put(req.Context(), session.KeyFlash, "Heads up")

	w := httptest.NewRecorder()
	if err := r.Render(w, req, "admin/dashboard", TemplateData{}); err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(w.Body.String(), `class="flash info"`) {
		t.Errorf("default flash type not applied: %s", w.Body.String())
	}
}

func TestTemplateFuncs_FormatDate(t *testing.T) {
	funcs := (&Renderer{}).templateFuncs()

	formatDate := funcs["formatDate"].(func(time.Time) string)
	testTime := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	if got := formatDate(testTime); got != "Mar 15, 2026" {
		t.Errorf("formatDate() = %q, want %q", got, "Mar 15, 2026")
	}
}

func TestTemplateFuncs_StatusLabel(t *testing.T) {
	funcs := (&Renderer{}).templateFuncs()

	statusLabel := funcs["statusLabel"].(func(bool) string)
	if got := statusLabel(true); got != "Visible" {
		t.Errorf("statusLabel(true) = %q", got)
	}
	if got := statusLabel(false); got != "Hidden" {
		t.Errorf("statusLabel(false) = %q", got)
	}
}
