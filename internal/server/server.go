// Package server exposes a small gin application that edits the location of
// stored records through the map field.
package server

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-mapfield/components/mapfield"
	"github.com/goliatone/go-mapfield/components/mapfield/formgenwiring"
	"github.com/goliatone/go-mapfield/pkg/record"
	"github.com/goliatone/go-mapfield/pkg/render"
	gotemplate "github.com/goliatone/go-mapfield/pkg/render/template/gotemplate"
	"github.com/goliatone/go-mapfield/pkg/renderers/vanilla"
)

//go:embed templates/*.tmpl
var pageTemplates embed.FS

const (
	defaultTitle      = "Location"
	defaultAssetsPath = "/assets"
	pageTemplate      = "templates/edit"
)

// Option configures a Server.
type Option func(*Server)

// WithFieldOptions sets the override options of every field.
func WithFieldOptions(opts mapfield.OptionSet) Option {
	return func(s *Server) {
		s.options = opts.Clone()
	}
}

// WithTitle sets the field title.
func WithTitle(title string) Option {
	return func(s *Server) {
		if title = strings.TrimSpace(title); title != "" {
			s.title = title
		}
	}
}

// WithAssetsPath sets the URL prefix the client assets are served under.
func WithAssetsPath(path string) Option {
	return func(s *Server) {
		s.assetsPath = path
	}
}

// WithLookup replaces the environment lookup used to resolve the API key.
func WithLookup(lookup mapfield.LookupFunc) Option {
	return func(s *Server) {
		s.lookup = lookup
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRenderer replaces the default vanilla renderer. The edit page embeds
// its output, so it must produce HTML.
func WithRenderer(renderer render.Renderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.renderer = renderer
		}
	}
}

// Server edits records of one Store.
type Server struct {
	store      Store
	options    mapfield.OptionSet
	title      string
	assetsPath string
	lookup     mapfield.LookupFunc
	logger     zerolog.Logger
	renderer   render.Renderer
	pages      *gotemplate.Engine
	router     *gin.Engine
}

// New builds the server and its routes.
func New(store Store, opts ...Option) (*Server, error) {
	if store == nil {
		return nil, errors.New("server: missing store")
	}

	s := &Server{
		store:      store,
		title:      defaultTitle,
		assetsPath: defaultAssetsPath,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	s.assetsPath = normalizeAssetsPath(s.assetsPath)

	if s.renderer == nil {
		renderer, err := vanilla.New()
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.renderer = renderer
	}

	pages, err := gotemplate.New(gotemplate.WithFS(pageTemplates))
	if err != nil {
		return nil, fmt.Errorf("server: page templates: %w", err)
	}
	s.pages = pages
	s.router = s.routes()
	return s, nil
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(s.logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	records := router.Group("/records")
	records.GET("/:id", s.edit)
	records.POST("/:id", s.update)
	records.GET("/:id/settings", s.settings)

	assets := gin.WrapH(http.StripPrefix(s.assetsPath, mapfield.AssetsHandler(vanilla.AssetsFS())))
	router.GET(s.assetsPath+"/*filepath", assets)
	router.HEAD(s.assetsPath+"/*filepath", assets)

	return router
}

func (s *Server) field(rec mapfield.Record) *mapfield.Field {
	return mapfield.New(rec, s.title, s.options)
}

func (s *Server) edit(c *gin.Context) {
	rec, err := s.store.Find(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	s.renderPage(c, http.StatusOK, s.field(rec), c.Query("saved") != "", "")
}

func (s *Server) update(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	rec, err := s.store.Find(ctx, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	field := s.field(rec)
	asJSON := c.ContentType() == gin.MIMEJSON

	var values map[string]any
	if asJSON {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
			return
		}
		values, err = mapfield.ValueFromJSON(body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := formgenwiring.ValidateSubmission(ctx, field.Options(), values); err != nil {
			_ = c.Error(err)
			message := "invalid location"
			if name := formgenwiring.InvalidField(err); name != "" {
				message += ": " + name
			}
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": message})
			return
		}
	} else {
		if err := c.Request.ParseForm(); err != nil {
			c.String(http.StatusBadRequest, "invalid form")
			return
		}
		values = mapfield.ValueFromForm(c.Request.PostForm, field.Name())
	}

	field.SetValue(values)
	submitted := field.Value().Map()
	if err := field.SaveInto(rec); err != nil {
		var castErr *record.CastError
		if !errors.As(err, &castErr) {
			s.fail(c, err)
			return
		}
		_ = c.Error(err)
		if asJSON {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		s.renderPage(c, http.StatusUnprocessableEntity, field, false, err.Error())
		return
	}
	if err := rec.Save(ctx); err != nil {
		s.fail(c, err)
		return
	}

	if asJSON {
		c.JSON(http.StatusOK, gin.H{"data": submitted})
		return
	}
	c.Redirect(http.StatusSeeOther, "/records/"+id+"?saved=1")
}

func (s *Server) settings(c *gin.Context) {
	rec, err := s.store.Find(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	payload, err := s.field(rec).SettingsJSON()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(payload))
}

func (s *Server) renderPage(c *gin.Context, status int, field *mapfield.Field, saved bool, message string) {
	fieldHTML, err := s.renderer.RenderField(field)
	if err != nil {
		s.fail(c, err)
		return
	}
	assetsHTML, err := s.renderer.RenderAssets(mapfield.Assets(s.assetsPath, field.Options(), s.lookup))
	if err != nil {
		s.fail(c, err)
		return
	}

	page, err := s.pages.RenderTemplate(pageTemplate, map[string]any{
		"title":     s.title,
		"record_id": c.Param("id"),
		"action":    "/records/" + c.Param("id"),
		"saved":     saved,
		"error":     message,
		"field":     string(fieldHTML),
		"assets":    string(assetsHTML),
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(status, s.renderer.ContentType(), []byte(page))
}

func (s *Server) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func normalizeAssetsPath(path string) string {
	path = strings.TrimRight(strings.TrimSpace(path), "/")
	if path == "" {
		return defaultAssetsPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}
