package site

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"github.com/Zachkp/portfolio/internal/auth"
	"github.com/Zachkp/portfolio/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	tokenCookie = "admin_token"
	ownerKey    = "owner_id"
)

type visitorTracker struct {
	store store.Store
	salt  string
}

func newVisitorTracker(st store.Store) (*visitorTracker, error) {
	salt, err := auth.RandomSecret()
	if err != nil {
		return nil, err
	}
	return &visitorTracker{store: st, salt: salt}, nil
}

// hashIP is stable for an IP within one process; the salt is never stored.
func (t *visitorTracker) hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + t.salt))
	return hex.EncodeToString(sum[:])[:16]
}

var untrackedPrefixes = []string{"/static/", "/uploads/", "/admin", "/favicon", "/privacy", "/api/"}

// middleware records page views with a hashed client IP. Static files, the
// admin area and the privacy page are skipped, and so is anyone sending DNT.
func (t *visitorTracker) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet || c.GetHeader("DNT") == "1" || untracked(path) {
			c.Next()
			return
		}

		err := t.store.RecordVisit(c.Request.Context(), store.Visit{
			HashedIP:  t.hashIP(c.ClientIP()),
			UserAgent: c.Request.UserAgent(),
			Path:      path,
		})
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error recording visitor")
		}
		c.Next()
	}
}

func untracked(path string) bool {
	for _, p := range untrackedPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func sessionToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		parts := strings.Fields(h)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}
	token, _ := c.Cookie(tokenCookie)
	return token
}

// requireOwner lets only the signed-in owner through. Browsers asking for an
// admin page are sent to the login form, API calls get a 401.
func (s *Server) requireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, err := s.auth.Authenticate(sessionToken(c))
		if err != nil {
			if c.Request.Method == http.MethodGet && !strings.HasPrefix(c.Request.URL.Path, "/admin/api/") {
				c.Redirect(http.StatusFound, "/admin/login")
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		c.Set(ownerKey, ownerID)
		c.Next()
	}
}

type loginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

func (s *Server) login(c *gin.Context) {
	wantsJSON := c.ContentType() == gin.MIMEJSON
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		if wantsJSON {
			abortWithError(c, errors.Join(errBadRequest, err))
			return
		}
		c.HTML(http.StatusBadRequest, "admin-login.html", gin.H{"error": "Invalid request"})
		return
	}

	hashed := s.visits.hashIP(c.ClientIP())
	token, expires, err := s.auth.Login(req.Username, req.Password)
	if err != nil {
		log.Warn().Str("from", hashed).Msg("Failed admin login attempt")
		if wantsJSON {
			abortWithError(c, err)
			return
		}
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{"error": "Invalid credentials"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenCookie, token, int(s.auth.TTL().Seconds()), "/admin", "", s.secureCookies, true)
	log.Info().Str("from", hashed).Msg("Admin login successful")

	if wantsJSON {
		c.JSON(http.StatusOK, gin.H{"token": token, "expires_at": expires})
		return
	}
	c.Redirect(http.StatusFound, "/admin/dashboard")
}

func (s *Server) logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenCookie, "", -1, "/admin", "", s.secureCookies, true)
	log.Info().Str("from", s.visits.hashIP(c.ClientIP())).Msg("Admin logout")
	c.Redirect(http.StatusFound, "/admin/login")
}

func (s *Server) dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	stats, err := s.store.VisitorStats(ctx, s.now())
	if err != nil {
		log.Error().Err(err).Msg("Error loading admin stats")
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"error": "Failed to load statistics"})
		return
	}
	pf, err := s.loadPortfolio(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error loading portfolio")
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"error": "Failed to load content"})
		return
	}
	c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
		"stats":     stats,
		"portfolio": pf,
	})
}

func (s *Server) statsJSON(c *gin.Context) {
	stats, err := s.store.VisitorStats(c.Request.Context(), s.now())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) exportStats(c *gin.Context) {
	stats, err := s.store.VisitorStats(c.Request.Context(), s.now())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
	log.Info().Str("by", s.visits.hashIP(c.ClientIP())).Msg("Admin stats exported")
	c.JSON(http.StatusOK, stats)
}

// cleanupVisitors deletes visits older than the retention period.
func (s *Server) cleanupVisitors(c *gin.Context) {
	before := s.now().Add(-s.visitorRetention)
	n, err := s.store.PurgeVisitors(c.Request.Context(), before)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if n > 0 {
		log.Info().Int64("deleted", n).Dur("retention", s.visitorRetention).Msg("Privacy cleanup removed visitor records")
	}
	c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "deleted": n})
}
