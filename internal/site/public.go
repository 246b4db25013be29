package site

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func (s *Server) loadPortfolio(ctx context.Context) (*content.Portfolio, error) {
	prof, err := s.store.GetProfile(ctx, s.owner)
	switch {
	case errors.Is(err, store.ErrNotFound):
		prof = defaultProfile(s.owner)
	case err != nil:
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	pf := &content.Portfolio{Profile: prof}
	if pf.Experiences, err = s.store.ListExperiences(ctx, s.owner); err != nil {
		return nil, fmt.Errorf("loading experiences: %w", err)
	}
	if pf.Projects, err = s.store.ListProjects(ctx, s.owner); err != nil {
		return nil, fmt.Errorf("loading projects: %w", err)
	}
	if pf.Certificates, err = s.store.ListCertificates(ctx, s.owner); err != nil {
		return nil, fmt.Errorf("loading certificates: %w", err)
	}
	return pf, nil
}

func (s *Server) home(c *gin.Context) {
	s.fragment("index.html")(c)
}

// fragment renders one of the page sections from the current content.
func (s *Server) fragment(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		pf, err := s.loadPortfolio(c.Request.Context())
		if err != nil {
			log.Error().Err(err).Str("request_id", c.GetString(requestIDKey)).Msg("Error loading portfolio")
			c.HTML(http.StatusInternalServerError, "error.html", gin.H{
				"error": "Failed to load content",
			})
			return
		}
		c.HTML(http.StatusOK, name, pf)
	}
}

func (s *Server) portfolioJSON(c *gin.Context) {
	pf, err := s.loadPortfolio(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, pf)
}
