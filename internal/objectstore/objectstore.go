// Package objectstore keeps uploaded binary assets (profile image, resume,
// project images, certificate files) and hands out their public URLs.
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const MaxFileSize = 5 << 20

var (
	ErrTooLarge        = errors.New("file exceeds the 5MB limit")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrUnknownKind     = errors.New("unknown upload type")
	ErrBadPath         = errors.New("invalid object path")
)

// Kind is what an upload is for; it picks the bucket and the allowed types.
type Kind string

const (
	KindProfile     Kind = "profile"
	KindResume      Kind = "resume"
	KindProject     Kind = "project"
	KindCertificate Kind = "certificate"
)

var imageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

var kinds = map[Kind]struct {
	bucket  string
	allowed []string
	expect  string
}{
	KindProfile:     {"profile-images", imageTypes, "an image (JPEG, PNG, GIF, WebP)"},
	KindResume:      {"resumes", []string{"application/pdf"}, "a PDF"},
	KindProject:     {"project-images", imageTypes, "an image (JPEG, PNG, GIF, WebP)"},
	KindCertificate: {"certificate-files", append([]string{"application/pdf"}, imageTypes...), "a PDF or an image"},
}

// ParseKind validates a client-supplied upload type.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := kinds[k]; !ok {
		return "", fmt.Errorf("%w %q: must be one of profile, resume, project, certificate", ErrUnknownKind, s)
	}
	return k, nil
}

// Bucket returns the bucket name for k.
func (k Kind) Bucket() string {
	return kinds[k].bucket
}

// Object describes a stored file.
type Object struct {
	Bucket      string `json:"bucket"`
	Path        string `json:"path"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// LocalStore stores objects on disk under root/<bucket>/<path> and serves
// them below publicBase.
type LocalStore struct {
	root       string
	publicBase string
}

func NewLocalStore(root, publicBase string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir %s: %w", root, err)
	}
	return &LocalStore{root: root, publicBase: strings.TrimRight(publicBase, "/")}, nil
}

// Root is the directory objects are written to.
func (s *LocalStore) Root() string {
	return s.root
}

var unsafeOwner = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// Put validates and stores r as a new object of the given kind. The content
// type is sniffed from the data; the client's claim is ignored.
func (s *LocalStore) Put(ctx context.Context, kind Kind, ownerID, filename string, r io.Reader) (*Object, error) {
	rule, ok := kinds[kind]
	if !ok {
		return nil, ErrUnknownKind
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if len(data) > MaxFileSize {
		return nil, ErrTooLarge
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), rule.allowed...) {
		return nil, fmt.Errorf("%w: expected %s, received %s", ErrUnsupportedType, rule.expect, mt.String())
	}

	// The extension follows the sniffed type so /uploads never serves a
	// file under a type it is not.
	ext := mt.Extension()
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(filename))
	}
	owner := unsafeOwner.ReplaceAllString(ownerID, "")
	objPath := path.Join(string(kind), owner, fmt.Sprintf("%s-%s-%s%s", kind, owner, uuid.NewString(), ext))

	full, err := s.fullPath(rule.bucket, objPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, fmt.Errorf("creating object dir: %w", err)
	}
	if err := writeNew(full, data); err != nil {
		return nil, err
	}

	return &Object{
		Bucket:      rule.bucket,
		Path:        objPath,
		URL:         s.URL(rule.bucket, objPath),
		ContentType: mt.String(),
		Size:        int64(len(data)),
	}, nil
}

func writeNew(full string, data []byte) error {
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("creating object: %w", err)
	}
	if _, err := io.Copy(f, bytes.NewReader(data)); err != nil {
		f.Close()
		os.Remove(full)
		return fmt.Errorf("writing object: %w", err)
	}
	return f.Close()
}

// Delete removes an object. Deleting a missing object is not an error.
func (s *LocalStore) Delete(ctx context.Context, bucket, objPath string) error {
	full, err := s.fullPath(bucket, objPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting %s/%s: %w", bucket, objPath, err)
	}
	return nil
}

// DeleteURL removes the object behind a public URL of the given kind.
func (s *LocalStore) DeleteURL(ctx context.Context, kind Kind, publicURL string) error {
	bucket := kind.Bucket()
	objPath, err := PathFromURL(publicURL, bucket)
	if err != nil {
		return err
	}
	return s.Delete(ctx, bucket, objPath)
}

// URL is the public address of an object.
func (s *LocalStore) URL(bucket, objPath string) string {
	return s.publicBase + "/" + bucket + "/" + objPath
}

func (s *LocalStore) fullPath(bucket, objPath string) (string, error) {
	if bucket == "" || objPath == "" || path.IsAbs(objPath) || strings.Contains(objPath, "\\") {
		return "", ErrBadPath
	}
	clean := path.Clean(objPath)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrBadPath
	}
	return filepath.Join(s.root, bucket, filepath.FromSlash(clean)), nil
}

// PathFromURL extracts the in-bucket path from a public object URL, i.e.
// everything after the bucket segment.
func PathFromURL(publicURL, bucket string) (string, error) {
	u, err := url.Parse(publicURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadPath, err)
	}
	parts := strings.Split(u.Path, "/")
	for i, p := range parts {
		if p == bucket && i < len(parts)-1 {
			rest := strings.Join(parts[i+1:], "/")
			if rest == "" {
				break
			}
			return rest, nil
		}
	}
	return "", fmt.Errorf("%w: no %s object in %s", ErrBadPath, bucket, publicURL)
}
