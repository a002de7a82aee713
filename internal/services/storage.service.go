package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"agency/internal/logger"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrObjectExists   = errors.New("object already exists")
	ErrObjectNotFound = errors.New("object not found")
	ErrInvalidName    = errors.New("invalid object name")
	ErrInvalidToken   = errors.New("invalid signed url token")
)

const ResumeBucket = "resumes"

type UploadOptions struct {
	CacheControl string
	Upsert       bool
}

type objectClaims struct {
	Bucket string `json:"bucket"`
	Object string `json:"object"`
	jwt.RegisteredClaims
}

// StorageService is a file bucket on local disk that hands out short-lived signed
// download URLs.
type StorageService struct {
	root    string
	baseURL string
	secret  []byte
	log     logger.Logger
	now     func() time.Time
}

func NewStorageService(root, baseURL, secret string) *StorageService {
	return &StorageService{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  []byte(secret),
		log:     logger.New("StorageService"),
		now:     time.Now,
	}
}

func (s *StorageService) objectPath(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.root, ResumeBucket, name), nil
}

func (s *StorageService) Upload(ctx context.Context, name string, body io.Reader, opts UploadOptions) error {
	log := s.log.Function("Upload")

	path, err := s.objectPath(name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return log.Err("failed to create bucket directory", err, "bucket", ResumeBucket)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !opts.Upsert {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}

	file, err := os.OpenFile(path, flags, 0o644)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%w: %s", ErrObjectExists, name)
	}
	if err != nil {
		return log.Err("failed to create object", err, "name", name)
	}

	if _, err := io.Copy(file, readerWithContext(ctx, body)); err != nil {
		file.Close()
		os.Remove(path)
		return log.Err("failed to write object", err, "name", name)
	}

	if err := file.Close(); err != nil {
		os.Remove(path)
		return log.Err("failed to close object", err, "name", name)
	}

	log.Info("Stored object", "bucket", ResumeBucket, "name", name)
	return nil
}

func (s *StorageService) Open(name string) (*os.File, error) {
	path, err := s.objectPath(name)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, name)
	}
	return file, err
}

func (s *StorageService) Remove(name string) error {
	path, err := s.objectPath(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// CreateSignedURL returns a download URL for an existing object that stops
// working after ttl.
func (s *StorageService) CreateSignedURL(name string, ttl time.Duration) (string, error) {
	log := s.log.Function("CreateSignedURL")

	path, err := s.objectPath(name)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrObjectNotFound, name)
		}
		return "", log.Err("failed to stat object", err, "name", name)
	}

	now := s.now()
	claims := objectClaims{
		Bucket: ResumeBucket,
		Object: name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", log.Err("failed to sign url", err, "name", name)
	}

	return fmt.Sprintf(
		"%s/storage/%s/%s?token=%s",
		s.baseURL,
		ResumeBucket,
		url.PathEscape(name),
		url.QueryEscape(token),
	), nil
}

// VerifySignedToken checks a token issued by CreateSignedURL against the object
// it is being redeemed for.
func (s *StorageService) VerifySignedToken(name, token string) error {
	claims := &objectClaims{}
	parsed, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return ErrInvalidToken
	}

	if claims.Bucket != ResumeBucket || claims.Object != name {
		return ErrInvalidToken
	}

	return nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return ctxReader{ctx: ctx, r: r}
}
