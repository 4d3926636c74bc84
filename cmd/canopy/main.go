// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Command canopy runs the CMS server: the admin console under /admin and
// the public JSON API under /api/v1, backed by MongoDB.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/mirelo-dev/canopy/internal/auth"
	"github.com/mirelo-dev/canopy/internal/config"
	"github.com/mirelo-dev/canopy/internal/handler"
	"github.com/mirelo-dev/canopy/internal/handler/api"
	"github.com/mirelo-dev/canopy/internal/logging"
	"github.com/mirelo-dev/canopy/internal/middleware"
	"github.com/mirelo-dev/canopy/internal/model"
	"github.com/mirelo-dev/canopy/internal/render"
	"github.com/mirelo-dev/canopy/internal/scheduler"
	"github.com/mirelo-dev/canopy/internal/service"
	"github.com/mirelo-dev/canopy/internal/session"
	"github.com/mirelo-dev/canopy/internal/store"
	"github.com/mirelo-dev/canopy/web"
)

// Version information, injected at build time via ldflags.
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
)

// entityHandlers groups the handler methods of one admin entity. Nil
// entries skip their route, so entities without a status toggle or bulk
// delete simply leave those unset.
type entityHandlers struct {
	List         http.HandlerFunc
	NewForm      http.HandlerFunc
	Create       http.HandlerFunc
	EditForm     http.HandlerFunc
	Update       http.HandlerFunc
	Delete       http.HandlerFunc
	DeleteBulk   http.HandlerFunc
	ToggleStatus http.HandlerFunc
}

// registerEntity mounts the standard admin routes for one entity under
// base, guarding each route with the matching (resource, action)
// permission.
func registerEntity(r chi.Router, authz *middleware.Authorizer, base, resource string, h entityHandlers) {
	r.Route(base, func(r chi.Router) {
		r.With(authz.Require(resource, model.ActionRead)).Get(handler.RouteRoot, h.List)
		if h.NewForm != nil {
			r.With(authz.Require(resource, model.ActionAdd)).Get(handler.RouteSuffixNew, h.NewForm)
		}
		if h.Create != nil {
			r.With(authz.Require(resource, model.ActionCreate)).Post(handler.RouteRoot, h.Create)
		}
		if h.EditForm != nil {
			r.With(authz.Require(resource, model.ActionEdit)).Get(handler.RouteParamID, h.EditForm)
		}
		if h.Update != nil {
			r.With(authz.Require(resource, model.ActionUpdate)).Post(handler.RouteParamID, h.Update)
		}
		if h.Delete != nil {
			r.With(authz.Require(resource, model.ActionDelete)).Post(handler.RouteParamID+handler.RouteSuffixDelete, h.Delete)
		}
		if h.DeleteBulk != nil {
			r.With(authz.Require(resource, model.ActionDelete)).Post(handler.RouteSuffixDelete, h.DeleteBulk)
		}
		if h.ToggleStatus != nil {
			r.With(authz.Require(resource, model.ActionStatus)).Post(handler.RouteParamID+handler.RouteSuffixStatus, h.ToggleStatus)
		}
	})
}

// mintTokenSubject, when set, mints a bearer token for the protected
// API listings instead of starting the server. Tokens are not stored,
// holders stay valid until they expire.
var mintTokenSubject = flag.String("mint-api-token", "",
	"print a bearer token for the given subject and exit")

func main() {
	flag.Parse()
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is fine, env vars may come from the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if *mintTokenSubject != "" {
		token, err := auth.GenerateAPIToken([]byte(cfg.APISecret()), *mintTokenSubject, auth.DefaultTokenTTL)
		if err != nil {
			return fmt.Errorf("minting token: %w", err)
		}
		fmt.Println(token)
		return nil
	}

	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})
	slog.SetDefault(slog.New(textHandler))

	st, err := store.NewStore(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return fmt.Errorf("connecting to mongodb: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}()

	// Route warnings and errors into the events collection as well.
	slog.SetDefault(slog.New(logging.NewEventLogHandler(textHandler, st)))
	slog.Info("starting canopy", "version", appVersion, "commit", appGitCommit, "env", cfg.Env)

	if cfg.DoSeed {
		if err := seed(cfg, st); err != nil {
			return fmt.Errorf("seeding: %w", err)
		}
	}

	sessionManager, err := session.New(cfg.RedisURL, cfg.IsDevelopment())
	if err != nil {
		return fmt.Errorf("creating session manager: %w", err)
	}

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("accessing templates: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	uploader, err := service.NewUploader(service.DefaultUploadConfig(cfg.UploadsDir))
	if err != nil {
		return fmt.Errorf("creating uploader: %w", err)
	}

	retention := time.Duration(cfg.PurgeRetentionDays) * 24 * time.Hour
	sched := scheduler.New(st, retention, slog.Default())
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()
	sched.RunPurgeNow()

	router := buildRouter(cfg, st, sessionManager, renderer, uploader)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Longer write timeout to allow for large uploads.
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func buildRouter(cfg *config.Config, st *store.Store, sessionManager *scs.SessionManager, renderer *render.Renderer, uploader *service.Uploader) http.Handler {
	r := chi.NewRouter()
	isDev := cfg.IsDevelopment()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(isDev)))
	r.Use(middleware.CompressSelective(5, 1024))
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.RequestPath)

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	publicLimiter := middleware.NewGlobalRateLimiter(20, 40)
	apiLimiter := middleware.NewGlobalRateLimiter(10, 30)
	csrfCfg := middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), isDev)

	authz := &middleware.Authorizer{
		Source:   st,
		Sessions: sessionManager,
		Renderer: renderer,
		Events:   st,
	}

	authHandler := handler.NewAuthHandler(st, renderer, sessionManager, loginProtection)
	dashboardHandler := handler.NewDashboardHandler(st, renderer)
	productHandler := handler.NewProductHandler(st, renderer, sessionManager, uploader)
	postHandler := handler.NewPostHandler(st, renderer, sessionManager, uploader)
	taxonomyHandler := handler.NewTaxonomyHandler(st, renderer, sessionManager)
	pageHandler := handler.NewPageHandler(st, renderer, sessionManager)
	geoHandler := handler.NewGeoHandler(st, renderer, sessionManager)
	careerHandler := handler.NewCareerHandler(st, renderer, sessionManager, uploader)
	widgetHandler := handler.NewWidgetHandler(st, renderer, sessionManager, uploader)
	userHandler := handler.NewUserHandler(st, renderer, sessionManager)
	rbacHandler := handler.NewRBACHandler(st, renderer, sessionManager)
	settingsHandler := handler.NewSettingsHandler(st, renderer, sessionManager)
	eventHandler := handler.NewEventHandler(st, renderer, sessionManager)
	apiHandler := api.New(st, uploader)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth pages.
	r.Group(func(r chi.Router) {
		r.Use(publicLimiter.HTMLMiddleware())
		r.Use(middleware.CSRF(csrfCfg))
		r.With(middleware.RequireGuest(sessionManager)).Get(handler.RouteLogin, authHandler.LoginForm)
		r.With(middleware.RequireGuest(sessionManager), loginProtection.Middleware()).Post(handler.RouteLogin, authHandler.Login)
		r.Post(handler.RouteLogout, authHandler.Logout)
	})

	// Admin console.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Auth(sessionManager))
		r.Use(middleware.LoadUser(sessionManager, st))
		r.Use(middleware.CSRF(csrfCfg))

		r.Get(handler.RouteRoot, dashboardHandler.Dashboard)

		registerEntity(r, authz, handler.RouteProducts, "Product", entityHandlers{
			List: productHandler.List, NewForm: productHandler.NewForm,
			Create: productHandler.Create, EditForm: productHandler.EditForm,
			Update: productHandler.Update, Delete: productHandler.Delete,
			DeleteBulk: productHandler.DeleteBulk, ToggleStatus: productHandler.ToggleStatus,
		})
		registerEntity(r, authz, handler.RoutePosts, "Post", entityHandlers{
			List: postHandler.List, NewForm: postHandler.NewForm,
			Create: postHandler.Create, EditForm: postHandler.EditForm,
			Update: postHandler.Update, Delete: postHandler.Delete,
			DeleteBulk: postHandler.DeleteBulk, ToggleStatus: postHandler.ToggleStatus,
		})
		registerEntity(r, authz, handler.RouteCategories, "Category", entityHandlers{
			List: taxonomyHandler.ListCategories, NewForm: taxonomyHandler.NewCategoryForm,
			Create: taxonomyHandler.CreateCategory, EditForm: taxonomyHandler.EditCategoryForm,
			Update: taxonomyHandler.UpdateCategory, Delete: taxonomyHandler.DeleteCategory,
			DeleteBulk: taxonomyHandler.DeleteCategoriesBulk,
		})
		registerEntity(r, authz, handler.RouteTags, "Tag", entityHandlers{
			List: taxonomyHandler.ListTags, NewForm: taxonomyHandler.NewTagForm,
			Create: taxonomyHandler.CreateTag, EditForm: taxonomyHandler.EditTagForm,
			Update: taxonomyHandler.UpdateTag, Delete: taxonomyHandler.DeleteTag,
			DeleteBulk: taxonomyHandler.DeleteTagsBulk,
		})
		registerEntity(r, authz, handler.RoutePages, "Page", entityHandlers{
			List: pageHandler.List, NewForm: pageHandler.NewForm,
			Create: pageHandler.Create, EditForm: pageHandler.EditForm,
			Update: pageHandler.Update, Delete: pageHandler.Delete,
			DeleteBulk: pageHandler.DeleteBulk, ToggleStatus: pageHandler.ToggleStatus,
		})
		registerEntity(r, authz, handler.RouteCountries, "Country", entityHandlers{
			List: geoHandler.ListCountries, NewForm: geoHandler.NewCountryForm,
			Create: geoHandler.CreateCountry, EditForm: geoHandler.EditCountryForm,
			Update: geoHandler.UpdateCountry, Delete: geoHandler.DeleteCountry,
			DeleteBulk: geoHandler.DeleteCountriesBulk,
		})
		registerEntity(r, authz, handler.RouteStates, "State", entityHandlers{
			List: geoHandler.ListStates, NewForm: geoHandler.NewStateForm,
			Create: geoHandler.CreateState, EditForm: geoHandler.EditStateForm,
			Update: geoHandler.UpdateState, Delete: geoHandler.DeleteState,
			DeleteBulk: geoHandler.DeleteStatesBulk,
		})
		registerEntity(r, authz, handler.RouteCities, "City", entityHandlers{
			List: geoHandler.ListCities, NewForm: geoHandler.NewCityForm,
			Create: geoHandler.CreateCity, EditForm: geoHandler.EditCityForm,
			Update: geoHandler.UpdateCity, Delete: geoHandler.DeleteCity,
			DeleteBulk: geoHandler.DeleteCitiesBulk,
		})
		registerEntity(r, authz, handler.RouteCareers, "Career", entityHandlers{
			List: careerHandler.List, NewForm: careerHandler.NewForm,
			Create: careerHandler.Create, EditForm: careerHandler.EditForm,
			Update: careerHandler.Update, Delete: careerHandler.Delete,
			DeleteBulk: careerHandler.DeleteBulk, ToggleStatus: careerHandler.ToggleStatus,
		})
		registerEntity(r, authz, handler.RouteSliders, "Slider", entityHandlers{
			List: widgetHandler.ListSliders, NewForm: widgetHandler.NewSliderForm,
			Create: widgetHandler.CreateSlider, EditForm: widgetHandler.EditSliderForm,
			Update: widgetHandler.UpdateSlider, Delete: widgetHandler.DeleteSlider,
			DeleteBulk: widgetHandler.DeleteSlidersBulk, ToggleStatus: widgetHandler.ToggleSliderStatus,
		})
		registerEntity(r, authz, handler.RouteFaqs, "Faq", entityHandlers{
			List: widgetHandler.ListFaqs, NewForm: widgetHandler.NewFaqForm,
			Create: widgetHandler.CreateFaq, EditForm: widgetHandler.EditFaqForm,
			Update: widgetHandler.UpdateFaq, Delete: widgetHandler.DeleteFaq,
			DeleteBulk: widgetHandler.DeleteFaqsBulk, ToggleStatus: widgetHandler.ToggleFaqStatus,
		})
		registerEntity(r, authz, handler.RouteVideos, "Video", entityHandlers{
			List: widgetHandler.ListVideos, NewForm: widgetHandler.NewVideoForm,
			Create: widgetHandler.CreateVideo, EditForm: widgetHandler.EditVideoForm,
			Update: widgetHandler.UpdateVideo, Delete: widgetHandler.DeleteVideo,
			DeleteBulk: widgetHandler.DeleteVideosBulk, ToggleStatus: widgetHandler.ToggleVideoStatus,
		})
		registerEntity(r, authz, handler.RouteUsers, "User", entityHandlers{
			List: userHandler.List, NewForm: userHandler.NewForm,
			Create: userHandler.Create, EditForm: userHandler.EditForm,
			Update: userHandler.Update, Delete: userHandler.Delete,
		})
		registerEntity(r, authz, handler.RouteRoles, "Role", entityHandlers{
			List: rbacHandler.ListRoles, NewForm: rbacHandler.NewRoleForm,
			Create: rbacHandler.CreateRole, EditForm: rbacHandler.EditRoleForm,
			Update: rbacHandler.UpdateRole, Delete: rbacHandler.DeleteRole,
		})
		registerEntity(r, authz, handler.RoutePermissions, "Permission", entityHandlers{
			List: rbacHandler.ListPermissions, NewForm: rbacHandler.NewPermissionForm,
			Create: rbacHandler.CreatePermission, EditForm: rbacHandler.EditPermissionForm,
			Update: rbacHandler.UpdatePermission, Delete: rbacHandler.DeletePermission,
		})

		r.Route(handler.RouteApplications, func(r chi.Router) {
			r.With(authz.Require("JobApplication", model.ActionRead)).Get(handler.RouteRoot, careerHandler.ListApplications)
			r.With(authz.Require("JobApplication", model.ActionRead)).Get(handler.RouteParamID, careerHandler.ViewApplication)
			r.With(authz.Require("JobApplication", model.ActionDelete)).Post(handler.RouteParamID+handler.RouteSuffixDelete, careerHandler.DeleteApplication)
		})
		r.Route(handler.RouteEnquiries, func(r chi.Router) {
			r.With(authz.Require("Enquiry", model.ActionRead)).Get(handler.RouteRoot, settingsHandler.ListEnquiries)
			r.With(authz.Require("Enquiry", model.ActionRead)).Get(handler.RouteParamID, settingsHandler.ViewEnquiry)
			r.With(authz.Require("Enquiry", model.ActionDelete)).Post(handler.RouteParamID+handler.RouteSuffixDelete, settingsHandler.DeleteEnquiry)
		})
		r.Route(handler.RouteSettings, func(r chi.Router) {
			r.With(authz.Require("Setting", model.ActionRead)).Get(handler.RouteRoot, settingsHandler.Form)
			r.With(authz.Require("Setting", model.ActionUpdate)).Post(handler.RouteRoot, settingsHandler.Save)
		})

		// The event log is visible to every signed-in user.
		r.Get(handler.RouteEvents, eventHandler.List)
	})

	// Public JSON API.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiLimiter.Middleware())

		r.Get("/status", apiHandler.Status)
		r.Get("/products", apiHandler.ListProducts)
		r.Get("/products/{slug}", apiHandler.GetProduct)
		r.Get("/posts", apiHandler.ListPosts)
		r.Get("/posts/{slug}", apiHandler.GetPost)
		r.Get("/pages/{slug}", apiHandler.GetPage)
		r.Get("/categories", apiHandler.ListCategories)
		r.Get("/tags", apiHandler.ListTags)
		r.Get("/countries", apiHandler.ListCountries)
		r.Get("/countries/{code}/states", apiHandler.ListStates)
		r.Get("/states/{id}/cities", apiHandler.ListCities)
		r.Get("/careers", apiHandler.ListCareers)
		r.Get("/careers/{slug}", apiHandler.GetCareer)
		r.Post("/careers/{slug}/apply", apiHandler.Apply)
		r.Get("/sliders", apiHandler.ListSliders)
		r.Get("/faqs", apiHandler.ListFaqs)
		r.Get("/videos", apiHandler.ListVideos)
		r.Get("/settings", apiHandler.GetSettings)
		r.Post("/enquiries", apiHandler.CreateEnquiry)

		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth([]byte(cfg.APISecret())))
			r.Get("/enquiries", apiHandler.ListEnquiries)
			r.Get("/applications", apiHandler.ListApplications)
		})
	})

	// Embedded static assets.
	if staticFS, err := fs.Sub(web.Static, "static/dist"); err == nil {
		r.Handle("/static/*", middleware.StaticCache(31536000)(
			http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))))
	}

	// Uploaded media.
	uploadsHandler := middleware.StaticCache(604800)(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploader.BaseDir()))))
	r.Handle("/uploads/*", uploadsHandler)

	// Root redirects into the console.
	r.Get(handler.RouteRoot, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
	})

	return r
}

// seed provisions the permission matrix, admin role and admin user on
// first run. A missing admin password is generated and logged once.
func seed(cfg *config.Config, st *store.Store) error {
	password := cfg.SeedAdminPass
	if password == "" {
		password = uuid.NewString()
		slog.Info("generated admin password", "email", cfg.SeedAdminEmail, "password", password)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return st.Seed(ctx, cfg.SeedAdminEmail, hash)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
