// Package site serves the public portfolio pages and the owner's admin area.
package site

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/Zachkp/portfolio/internal/auth"
	"github.com/Zachkp/portfolio/internal/objectstore"
	"github.com/Zachkp/portfolio/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*.html
var templateFS embed.FS

// Objects stores uploaded files.
type Objects interface {
	Put(ctx context.Context, kind objectstore.Kind, ownerID, filename string, r io.Reader) (*objectstore.Object, error)
	DeleteURL(ctx context.Context, kind objectstore.Kind, publicURL string) error
}

type Deps struct {
	Store   store.Store
	Objects Objects
	Auth    *auth.Authenticator
	Mailer  Mailer

	// UploadDir is served under /uploads when set.
	UploadDir string

	SecureCookies    bool
	VisitorRetention time.Duration
}

type Server struct {
	store   store.Store
	objects Objects
	auth    *auth.Authenticator
	mailer  Mailer
	owner   string
	visits  *visitorTracker

	secureCookies    bool
	visitorRetention time.Duration
	now              func() time.Time

	engine *gin.Engine
}

func New(d Deps) (*Server, error) {
	if d.Store == nil || d.Auth == nil {
		return nil, errors.New("site needs a store and an authenticator")
	}
	if d.Mailer == nil {
		d.Mailer = noMailer{}
	}
	if d.VisitorRetention <= 0 {
		d.VisitorRetention = 365 * 24 * time.Hour
	}
	tracker, err := newVisitorTracker(d.Store)
	if err != nil {
		return nil, err
	}

	s := &Server{
		store:            d.Store,
		objects:          d.Objects,
		auth:             d.Auth,
		mailer:           d.Mailer,
		owner:            d.Auth.OwnerID(),
		visits:           tracker,
		secureCookies:    d.SecureCookies,
		visitorRetention: d.VisitorRetention,
		now:              time.Now,
	}

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(requestLogger(), recovery(), s.visits.middleware())
	r.SetHTMLTemplate(tmpl)
	r.MaxMultipartMemory = objectstore.MaxFileSize + 1<<20

	if d.UploadDir != "" {
		r.Static("/uploads", d.UploadDir)
	}

	s.publicRoutes(r)
	s.adminRoutes(r)
	s.engine = r

	log.Info().Msg("Admin access available at: /admin/login")
	log.Info().Msg("Privacy: Visitor tracking enabled with hashed IP addresses")
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) publicRoutes(r *gin.Engine) {
	r.GET("/", s.home)
	r.GET("/contact-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact.html", gin.H{"title": "Contact Me"})
	})
	r.GET("/work-content", s.fragment("work-content.html"))
	r.GET("/certificates-content", s.fragment("certificates-content.html"))
	r.GET("/portfolio-content", s.fragment("portfolio-content.html"))
	r.POST("/contact", s.contact)
	r.GET("/api/portfolio", s.portfolioJSON)
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":     "Privacy Policy",
			"retention": s.visitorRetention.String(),
		})
	})
}

func (s *Server) adminRoutes(r *gin.Engine) {
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{"title": "Admin Login"})
	})
	r.POST("/admin/login", s.login)
	r.GET("/admin/logout", s.logout)

	admin := r.Group("/admin")
	admin.Use(s.requireOwner())

	admin.GET("/dashboard", s.dashboard)
	admin.GET("/api/stats", s.statsJSON)
	admin.GET("/export/stats", s.exportStats)
	admin.POST("/privacy/cleanup", s.cleanupVisitors)

	admin.PUT("/api/about", s.updateAbout)
	admin.PUT("/api/skills", s.updateSkills)
	admin.POST("/api/period", s.previewPeriod)

	admin.POST("/api/experiences", s.createExperience)
	admin.PUT("/api/experiences/:id", s.updateExperience)
	admin.DELETE("/api/experiences/:id", s.deleteExperience)

	admin.POST("/api/projects", s.createProject)
	admin.PUT("/api/projects/:id", s.updateProject)
	admin.DELETE("/api/projects/:id", s.deleteProject)

	admin.POST("/api/certificates", s.createCertificate)
	admin.PUT("/api/certificates/:id", s.updateCertificate)
	admin.DELETE("/api/certificates/:id", s.deleteCertificate)

	admin.POST("/api/upload", s.upload)
	admin.DELETE("/api/upload", s.deleteUpload)
}

var templateFuncs = template.FuncMap{
	"year": func() int { return time.Now().Year() },
}
