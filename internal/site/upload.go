package site

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Zachkp/portfolio/internal/objectstore"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var errNoObjects = errors.New("uploads are not configured")

// upload stores a multipart "file" of the given "type". When currentFileUrl
// is sent, the file it points to is removed once the new one is saved.
func (s *Server) upload(c *gin.Context) {
	if s.objects == nil {
		abortWithError(c, errNoObjects)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, objectstore.MaxFileSize+1<<20)

	if _, err := c.MultipartForm(); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			abortWithError(c, objectstore.ErrTooLarge)
			return
		}
		abortWithError(c, fmt.Errorf("%w: expected a multipart form: %v", errBadRequest, err))
		return
	}

	kind, err := objectstore.ParseKind(c.PostForm("type"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, fmt.Errorf("%w: no file provided", errBadRequest))
		return
	}
	if fh.Size > objectstore.MaxFileSize {
		abortWithError(c, objectstore.ErrTooLarge)
		return
	}

	f, err := fh.Open()
	if err != nil {
		abortWithError(c, err)
		return
	}
	defer f.Close()

	ctx := c.Request.Context()
	obj, err := s.objects.Put(ctx, kind, s.owner, fh.Filename, f)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if old := c.PostForm("currentFileUrl"); old != "" {
		if err := s.objects.DeleteURL(ctx, kind, old); err != nil {
			log.Warn().Err(err).Str("url", old).Msg("Could not delete replaced file")
		}
	}

	log.Info().Str("bucket", obj.Bucket).Str("path", obj.Path).Int64("size", obj.Size).Msg("File uploaded")
	c.JSON(http.StatusOK, gin.H{"message": "File uploaded successfully!", "url": obj.URL})
}

type deleteUploadRequest struct {
	FileURL string `json:"fileUrl"`
	Type    string `json:"type"`
}

func (s *Server) deleteUpload(c *gin.Context) {
	if s.objects == nil {
		abortWithError(c, errNoObjects)
		return
	}
	var req deleteUploadRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}
	if req.FileURL == "" || req.Type == "" {
		abortWithError(c, fmt.Errorf("%w: missing fileUrl or type in request body", errBadRequest))
		return
	}
	kind, err := objectstore.ParseKind(req.Type)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if err := s.objects.DeleteURL(c.Request.Context(), kind, req.FileURL); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}
