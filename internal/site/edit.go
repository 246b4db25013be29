package site

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/period"
	"github.com/Zachkp/portfolio/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func bindJSON(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// savePatch applies a profile patch, creating the profile on first save.
func (s *Server) savePatch(c *gin.Context, patch content.ProfilePatch) {
	if err := content.Validate(patch); err != nil {
		abortWithError(c, err)
		return
	}
	ctx := c.Request.Context()
	prof, err := s.store.PatchProfile(ctx, s.owner, patch)
	if errors.Is(err, store.ErrNotFound) {
		prof = &content.Profile{OwnerID: s.owner}
		patch.Apply(prof)
		err = s.store.UpsertProfile(ctx, prof)
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "About Me data updated successfully", "data": prof})
}

func (s *Server) updateAbout(c *gin.Context) {
	var patch content.ProfilePatch
	if err := bindJSON(c, &patch); err != nil {
		abortWithError(c, err)
		return
	}
	s.savePatch(c, patch)
}

type skillsRequest struct {
	Hobbies  *[]content.Item `json:"hobbies"`
	Skillset *[]content.Item `json:"skillset"`
	Tools    *[]content.Item `json:"tools"`
}

func (s *Server) updateSkills(c *gin.Context) {
	var req skillsRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}
	s.savePatch(c, content.ProfilePatch{Hobbies: req.Hobbies, Skillset: req.Skillset, Tools: req.Tools})
}

type periodRequest struct {
	Period string `json:"period"`
}

// previewPeriod shows how a free-text period will be stored.
func (s *Server) previewPeriod(c *gin.Context) {
	var req periodRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}
	r := period.Parse(req.Period)
	c.JSON(http.StatusOK, gin.H{
		"period":     req.Period,
		"start_date": r.Start,
		"end_date":   r.End,
		"parsed":     !r.Empty(),
		"ongoing":    r.Ongoing(),
	})
}

// experienceRequest takes either explicit dates or a free-text period; a
// non-empty period wins.
type experienceRequest struct {
	JobTitle       string       `json:"job_title"`
	CompanyName    string       `json:"company_name"`
	Description    string       `json:"description"`
	Location       string       `json:"location"`
	CompanyLogoURL string       `json:"company_logo_url"`
	IconName       string       `json:"icon_name"`
	StartDate      *period.Date `json:"start_date"`
	EndDate        *period.Date `json:"end_date"`
	Period         string       `json:"period"`
	DisplayOrder   int          `json:"display_order"`
}

func (req experienceRequest) experience(ownerID, id string) (*content.Experience, error) {
	e := &content.Experience{
		ID:             id,
		OwnerID:        ownerID,
		JobTitle:       strings.TrimSpace(req.JobTitle),
		CompanyName:    strings.TrimSpace(req.CompanyName),
		Description:    req.Description,
		Location:       req.Location,
		CompanyLogoURL: req.CompanyLogoURL,
		IconName:       req.IconName,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		DisplayOrder:   req.DisplayOrder,
	}
	if strings.TrimSpace(req.Period) != "" {
		r := period.Parse(req.Period)
		if r.Empty() {
			return nil, fmt.Errorf("%w: could not read period %q", errBadRequest, req.Period)
		}
		e.SetPeriod(r)
	}
	if e.StartDate != nil && e.EndDate != nil && e.EndDate.Before(e.StartDate.Time) {
		return nil, fmt.Errorf("%w: end_date is before start_date", errBadRequest)
	}
	if err := content.Validate(e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Server) createExperience(c *gin.Context) {
	var req experienceRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}
	e, err := req.experience(s.owner, "")
	if err == nil {
		err = s.store.CreateExperience(c.Request.Context(), e)
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (s *Server) updateExperience(c *gin.Context) {
	var req experienceRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}
	e, err := req.experience(s.owner, c.Param("id"))
	if err == nil {
		err = s.store.UpdateExperience(c.Request.Context(), e)
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (s *Server) deleteExperience(c *gin.Context) {
	s.deleted(c, "Experience", s.store.DeleteExperience(c.Request.Context(), s.owner, c.Param("id")))
}

func (s *Server) createProject(c *gin.Context) {
	var p content.Project
	if err := bindJSON(c, &p); err != nil {
		abortWithError(c, err)
		return
	}
	p.OwnerID = s.owner
	err := content.Validate(p)
	if err == nil {
		err = s.store.CreateProject(c.Request.Context(), &p)
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (s *Server) updateProject(c *gin.Context) {
	var p content.Project
	if err := bindJSON(c, &p); err != nil {
		abortWithError(c, err)
		return
	}
	p.ID, p.OwnerID = c.Param("id"), s.owner
	err := content.Validate(p)
	if err == nil {
		err = s.store.UpdateProject(c.Request.Context(), &p)
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) deleteProject(c *gin.Context) {
	s.deleted(c, "Project", s.store.DeleteProject(c.Request.Context(), s.owner, c.Param("id")))
}

func (s *Server) createCertificate(c *gin.Context) {
	var cert content.Certificate
	if err := bindJSON(c, &cert); err != nil {
		abortWithError(c, err)
		return
	}
	cert.OwnerID = s.owner
	err := content.Validate(cert)
	if err == nil {
		err = s.store.CreateCertificate(c.Request.Context(), &cert)
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cert)
}

func (s *Server) updateCertificate(c *gin.Context) {
	var cert content.Certificate
	if err := bindJSON(c, &cert); err != nil {
		abortWithError(c, err)
		return
	}
	cert.ID, cert.OwnerID = c.Param("id"), s.owner
	err := content.Validate(cert)
	if err == nil {
		err = s.store.UpdateCertificate(c.Request.Context(), &cert)
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, cert)
}

func (s *Server) deleteCertificate(c *gin.Context) {
	s.deleted(c, "Certificate", s.store.DeleteCertificate(c.Request.Context(), s.owner, c.Param("id")))
}

func (s *Server) deleted(c *gin.Context, what string, err error) {
	if err != nil {
		abortWithError(c, err)
		return
	}
	log.Info().Str("id", c.Param("id")).Msgf("%s deleted by admin", what)
	c.JSON(http.StatusOK, gin.H{"message": what + " deleted successfully"})
}
