package covers

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/ch1kulya/logger"
	"github.com/ch1kulya/mstories/internal/config"
	"github.com/ch1kulya/mstories/internal/models"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStore puts a rendered cover somewhere public and returns its URL.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte) (string, error)
}

type S3Store struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewS3Store(cfg config.S3Config) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	logger.Info("MinIO client initialized for endpoint: %s", cfg.Endpoint)

	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "https"
		if !cfg.UseSSL {
			scheme = "http"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &S3Store{client: client, bucket: cfg.Bucket, publicURL: publicURL}, nil
}

func (s *S3Store) PublicURL() string { return s.publicURL }

func (s *S3Store) Put(ctx context.Context, key string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  "image/png",
		CacheControl: "public, max-age=86400",
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return s.publicURL + "/" + key, nil
}

// Service renders covers once per story version and, when an ObjectStore
// is configured, uploads them and hands out the public URL instead.
type Service struct {
	store ObjectStore

	mu       sync.Mutex
	rendered map[string][]byte
	uploaded map[string]string
}

func NewService(store ObjectStore) *Service {
	return &Service{
		store:    store,
		rendered: make(map[string][]byte),
		uploaded: make(map[string]string),
	}
}

// Key names the cover object; it changes whenever the story is updated.
func Key(story models.Story) string {
	return fmt.Sprintf("covers/%s-%s.png", story.ID, story.UpdatedAt.Format("20060102"))
}

// Cover returns either a public URL (uploaded covers) or the PNG bytes.
func (s *Service) Cover(ctx context.Context, story models.Story) (string, []byte, error) {
	key := Key(story)

	s.mu.Lock()
	if url, ok := s.uploaded[key]; ok {
		s.mu.Unlock()
		return url, nil, nil
	}
	data, ok := s.rendered[key]
	s.mu.Unlock()

	if !ok {
		var err error
		data, err = EncodePNG(Render(story))
		if err != nil {
			return "", nil, err
		}
		s.mu.Lock()
		s.rendered[key] = data
		s.mu.Unlock()
	}

	if s.store == nil {
		return "", data, nil
	}

	url, err := s.store.Put(ctx, key, data)
	if err != nil {
		logger.Warn("Cover upload failed, serving inline: %v", err)
		return "", data, nil
	}

	s.mu.Lock()
	s.uploaded[key] = url
	delete(s.rendered, key)
	s.mu.Unlock()
	return url, nil, nil
}
