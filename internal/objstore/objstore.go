package objstore

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Client wraps the S3-compatible bucket holding project files. Files are
// written once and served through public URLs; nothing is ever deleted here.
type Client struct {
	mc        *minio.Client
	bucket    string
	publicURL string
	useSSL    bool
}

func New(endpoint, accessKey, secretKey, bucket, publicURL string, useSSL bool) (*Client, error) {
	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &Client{
		mc:        mc,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		useSSL:    useSSL,
	}, nil
}

func (c *Client) Upload(ctx context.Context, path string, reader io.Reader, size int64, contentType string) error {
	_, err := c.mc.PutObject(ctx, c.bucket, path, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// PublicURL prefers the configured CDN/base URL and falls back to the direct
// endpoint form.
func (c *Client) PublicURL(path string) string {
	if c.publicURL != "" {
		return c.publicURL + "/" + path
	}
	scheme := "https"
	if !c.useSSL {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, c.mc.EndpointURL().Host, c.bucket, path)
}

// ObjectPath builds the collision-free storage key:
// {folder}/{registrationCode}_{sanitizedEmailPrefix}_{unixTimestamp}.{ext}
func ObjectPath(folder, registrationCode, email string, now time.Time, ext string) string {
	return fmt.Sprintf("%s/%s_%s_%d.%s", folder, registrationCode, sanitizeEmailPrefix(email), now.Unix(), ext)
}

// sanitizeEmailPrefix keeps only lowercase letters and digits from the local
// part of the address so the key stays filesystem and URL safe.
func sanitizeEmailPrefix(email string) string {
	local, _, _ := strings.Cut(email, "@")
	var b strings.Builder
	for _, r := range strings.ToLower(local) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}
