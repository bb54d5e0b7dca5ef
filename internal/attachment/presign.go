// Package attachment issues signed upload policies for brief attachments.
// Only the resulting object key and URL are stored in a brief; file bytes
// go straight from the client to the bucket.
package attachment

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/nhle/contenthub/internal/logger"
	"github.com/nhle/contenthub/internal/model"
)

// DefaultContentType is used when the caller does not name one.
const DefaultContentType = "application/octet-stream"

// keyPrefix namespaces brief attachments inside the bucket.
const keyPrefix = "briefs/"

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Upload describes one signed POST upload.
type Upload struct {
	Key         string            `json:"key"`
	URL         string            `json:"url"`
	UploadURL   string            `json:"upload_url"`
	Fields      map[string]string `json:"fields"`
	ContentType string            `json:"content_type"`
	ExpiresAt   time.Time         `json:"expires_at"`
}

// SecretSource looks up secrets by key, e.g. a *credential.Store.
type SecretSource interface {
	Get(key string) (string, error)
}

// Presigner signs GCS V4 POST policies.
type Presigner struct {
	cfg     model.StorageConfig
	secrets SecretSource
	log     *logger.Logger

	now   func() time.Time
	newID func() uuid.UUID

	mu     sync.Mutex
	client *storage.Client
}

// NewPresigner returns a Presigner for cfg. secrets may be nil when the
// private key is set in the configuration itself.
func NewPresigner(cfg model.StorageConfig, secrets SecretSource, log *logger.Logger) *Presigner {
	if log == nil {
		log = logger.Nop()
	}
	return &Presigner{
		cfg:     cfg,
		secrets: secrets,
		log:     log.With("component", "attachment"),
		now:     time.Now,
		newID:   uuid.New,
	}
}

// Configured reports whether a bucket is set.
func (p *Presigner) Configured() bool {
	return strings.TrimSpace(p.cfg.Bucket) != ""
}

// PresignUpload returns a key, public URL and signed POST form for one file.
// It fails with a *model.ConfigError when the bucket or signing credentials
// are missing.
func (p *Presigner) PresignUpload(ctx context.Context, filename, contentType string) (*Upload, error) {
	if !p.Configured() {
		return nil, &model.ConfigError{Component: "storage", Message: "bucket is not configured"}
	}
	if strings.TrimSpace(contentType) == "" {
		contentType = DefaultContentType
	}

	privateKey, err := p.privateKey()
	if err != nil {
		return nil, err
	}
	if p.cfg.GoogleAccessID == "" {
		return nil, &model.ConfigError{Component: "storage", Message: "google_access_id is not configured"}
	}

	client, err := p.storageClient(ctx)
	if err != nil {
		return nil, err
	}

	key := ObjectKey(p.newID(), filename)
	expires := p.now().Add(time.Duration(p.cfg.UploadTTLSec) * time.Second)

	policy, err := client.Bucket(p.cfg.Bucket).GenerateSignedPostPolicyV4(key, &storage.PostPolicyV4Options{
		GoogleAccessID: p.cfg.GoogleAccessID,
		PrivateKey:     []byte(privateKey),
		Expires:        expires,
		Fields: &storage.PolicyV4Fields{
			ContentType: contentType,
		},
	})
	if err != nil {
		return nil, &model.ConfigError{
			Component: "storage",
			Message:   fmt.Sprintf("unable to generate upload URL: %v", err),
		}
	}

	p.log.Debug("Upload policy signed", "key", key, "content_type", contentType, "expires_at", expires)

	return &Upload{
		Key:         key,
		URL:         p.publicURL(key),
		UploadURL:   policy.URL,
		Fields:      policy.Fields,
		ContentType: contentType,
		ExpiresAt:   expires.UTC(),
	}, nil
}

// Close releases the storage client, if one was created.
func (p *Presigner) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == nil {
		return nil
	}
	err := p.client.Close()
	p.client = nil
	return err
}

// privateKey returns the PEM signing key from config or the keyring.
func (p *Presigner) privateKey() (string, error) {
	if p.cfg.PrivateKey != "" {
		return p.cfg.PrivateKey, nil
	}
	if p.secrets != nil && p.cfg.PrivateKeyRef != "" {
		key, err := p.secrets.Get(p.cfg.PrivateKeyRef)
		if err == nil && key != "" {
			return key, nil
		}
		p.log.Warn("Signing key lookup failed", "ref", p.cfg.PrivateKeyRef, "error", err)
	}
	return "", &model.ConfigError{Component: "storage", Message: "no signing key configured"}
}

// storageClient lazily builds an unauthenticated client: signing happens
// locally with the configured key, so no API call is ever made.
func (p *Presigner) storageClient(ctx context.Context) (*storage.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		return p.client, nil
	}
	client, err := storage.NewClient(ctx, option.WithoutAuthentication())
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	p.client = client
	return client, nil
}

func (p *Presigner) publicURL(key string) string {
	if base := strings.TrimRight(strings.TrimSpace(p.cfg.PublicBaseURL), "/"); base != "" {
		return base + "/" + key
	}
	return "https://storage.googleapis.com/" + p.cfg.Bucket + "/" + key
}

// SafeFilename replaces runs of characters outside [A-Za-z0-9._-] with a
// dash and trims dashes from both ends. An empty result becomes "upload".
func SafeFilename(name string) string {
	cleaned := strings.Trim(unsafeFilenameChars.ReplaceAllString(name, "-"), "-")
	if cleaned == "" {
		return "upload"
	}
	return cleaned
}

// ObjectKey builds the storage key briefs/<32 hex chars>-<safe filename>.
func ObjectKey(id uuid.UUID, filename string) string {
	return keyPrefix + strings.ReplaceAll(id.String(), "-", "") + "-" + SafeFilename(filename)
}
