package api

import (
	"bytes"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/streamdash/streamdash-server/internal/catalog"
	domainerrors "github.com/streamdash/streamdash-server/internal/errors"
	"github.com/streamdash/streamdash-server/internal/http/response"
	"github.com/streamdash/streamdash-server/internal/present"
)

func (s *Server) registerWebRoutes() {
	s.router.Get("/", s.handleDashboardPage)
	s.router.Get("/static/style.css", s.handleStylesheet)
	s.router.Get("/charts/{view}.png", s.handleChartPNG)
}

// handleDashboardPage serves the dashboard: filter sidebar plus the four
// charts for the selection in the query string.
// GET /
func (s *Server) handleDashboardPage(w http.ResponseWriter, r *http.Request) {
	sel := catalog.ParseSelection(r.URL.Query())

	opts := s.services.Dashboard.Options()
	in := present.PageInput{
		Platforms:  opts.Platforms,
		Types:      opts.Types,
		Selection:  sel,
		CSS:        s.css(),
		AssetsHost: s.opts.AssetsHost,
	}

	render, err := s.services.Dashboard.Render(r.Context(), sel)
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) && domainErr.Code == domainerrors.CodeValidation {
		s.writePage(w, domainErr.HTTPStatus(), "", present.NewErrorPageData(in, domainErr.Message, errorDetails(domainErr.Details)))
		return
	}
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	in.Summary = render.Summary
	data, err := present.NewPageData(in)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	s.writePage(w, http.StatusOK, render.ID, data)
}

func (s *Server) writePage(w http.ResponseWriter, status int, renderID string, data present.PageData) {
	// Render into a buffer so a template failure still yields a clean 500.
	var buf bytes.Buffer
	if err := s.page.Render(&buf, data); err != nil {
		s.logger.Error("Failed to render dashboard page", "render_id", renderID, "error", err)
		response.InternalError(w, "failed to render page", s.logger)
		return
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	w.Header().Set("Cache-Control", CacheNoStore)
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// errorDetails flattens validation details into sorted "field: message" lines.
func errorDetails(details any) []string {
	fields, ok := details.(map[string]string)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(fields))
	for field, msg := range fields {
		out = append(out, field+": "+msg)
	}
	slices.Sort(out)
	return out
}

// handleStylesheet serves the current stylesheet with an ETag so browsers
// revalidate after a reload.
// GET /static/style.css
func (s *Server) handleStylesheet(w http.ResponseWriter, r *http.Request) {
	if s.stylesheet == nil {
		response.NotFound(w, "no stylesheet configured", s.logger)
		return
	}

	etag := s.stylesheet.ETag()
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", CacheNoStore)

	if match := r.Header.Get("If-None-Match"); match != "" && etagMatches(match, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", contentTypeCSS)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(s.stylesheet.CSS()))
}

// handleChartPNG renders one summary view as a PNG image.
// GET /charts/{view}.png
func (s *Server) handleChartPNG(w http.ResponseWriter, r *http.Request) {
	view := chi.URLParam(r, "view")
	if !present.IsView(view) {
		response.NotFound(w, "unknown summary view", s.logger)
		return
	}

	render, err := s.services.Dashboard.Render(r.Context(), catalog.ParseSelection(r.URL.Query()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	var buf bytes.Buffer
	if err := present.RenderPNG(&buf, view, render.Summary); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	w.Header().Set("Content-Type", contentTypePNG)
	w.Header().Set("Cache-Control", CacheNoStore)
	w.Header().Set("Content-Disposition", `inline; filename="`+view+`.png"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) css() string {
	if s.stylesheet == nil {
		return ""
	}
	return s.stylesheet.CSS()
}

// etagMatches reports whether an If-None-Match header lists etag.
func etagMatches(header, etag string) bool {
	for candidate := range strings.SplitSeq(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
