package httpserver

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"lion_estate/internal/adapters/uploads"
	"lion_estate/internal/app"
	"lion_estate/internal/domain"
)

type Handlers struct {
	Properties *app.PropertyService
	Auth       *app.AuthService
	Tokens     TokenVerifier
	Images     domain.ImageStore

	// UploadDir, when set, is served read-only under uploads.PublicPrefix.
	UploadDir     string
	LoginLimiter  *rate.Limiter
	SecureCookies bool
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/api", func(r chi.Router) {
		r.With(LoginThrottle(h.LoginLimiter)).Post("/auth/login", h.login)
		r.Post("/auth/logout", h.logout)
		r.With(RequireAdmin(h.Tokens)).Get("/auth/me", h.me)

		r.Get("/properties", h.listProperties)
		r.Get("/properties/{id}", h.getProperty)
		r.Get("/properties/slug/{slug}", h.getPropertyBySlug)

		r.Group(func(r chi.Router) {
			r.Use(RequireAdmin(h.Tokens))
			r.Post("/properties", h.createProperty)
			r.Put("/properties/{id}", h.updateProperty)
			r.Delete("/properties/{id}", h.deleteProperty)
			r.Post("/upload", h.upload)
		})
	})

	if h.UploadDir != "" {
		files := http.StripPrefix(uploads.PublicPrefix+"/", http.FileServer(http.Dir(h.UploadDir)))
		s.mux.Get(uploads.PublicPrefix+"/*", func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/") {
				http.NotFound(w, r)
				return
			}
			files.ServeHTTP(w, r)
		})
	}
}

type propertyEnvelope struct {
	Property propertyDTO `json:"property"`
}

type successBody struct {
	Success bool `json:"success"`
}

func (h *Handlers) listProperties(w http.ResponseWriter, r *http.Request) {
	q := domain.ListQuery{
		Locale:              h.Properties.Locale(r.URL.Query().Get("locale")),
		IncludeTranslations: r.URL.Query().Get("includeTranslations") != "false",
	}
	ps, err := h.Properties.List(r.Context(), q)
	if err != nil {
		writeServiceError(w, r, err, "Property not found")
		return
	}
	writeCacheable(w, r, struct {
		Properties []propertyDTO `json:"properties"`
	}{toPropertyDTOs(ps)}, q.Locale)
}

func (h *Handlers) getProperty(w http.ResponseWriter, r *http.Request) {
	locale := h.Properties.Locale(r.URL.Query().Get("locale"))
	p, err := h.Properties.Get(r.Context(), chi.URLParam(r, "id"), locale)
	if err != nil {
		writeServiceError(w, r, err, "Property not found")
		return
	}
	writeCacheable(w, r, propertyEnvelope{toPropertyDTO(p)}, locale)
}

func (h *Handlers) getPropertyBySlug(w http.ResponseWriter, r *http.Request) {
	locale := h.Properties.Locale(r.URL.Query().Get("locale"))
	p, err := h.Properties.GetBySlug(r.Context(), chi.URLParam(r, "slug"), locale)
	if err != nil {
		writeServiceError(w, r, err, "Property not found")
		return
	}
	writeCacheable(w, r, propertyEnvelope{toPropertyDTO(p)}, locale)
}

func (h *Handlers) createProperty(w http.ResponseWriter, r *http.Request) {
	var in app.PropertyInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.Properties.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err, "Property not found")
		return
	}
	writeJSON(w, http.StatusCreated, propertyEnvelope{toPropertyDTO(p)})
}

func (h *Handlers) updateProperty(w http.ResponseWriter, r *http.Request) {
	var in app.PropertyInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.Properties.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, r, err, "Property not found")
		return
	}
	writeJSON(w, http.StatusOK, propertyEnvelope{toPropertyDTO(p)})
}

func (h *Handlers) deleteProperty(w http.ResponseWriter, r *http.Request) {
	if err := h.Properties.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err, "Property not found")
		return
	}
	writeJSON(w, http.StatusOK, successBody{Success: true})
}
