// Package dataset resolves benchmark input locations. Remote sources are
// fetched once into a local cache; the harness hands engines a plain
// local path and records the original location as provenance.
package dataset

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Resolve turns a dataset source into a local file path. Supported
// schemes: gs:// (public object storage), http:// and https://;
// everything else is treated as a local path. Remote fetches are cached
// under cacheDir keyed by the source, so repeated runs against the same
// source hit the network once.
func Resolve(ctx context.Context, source, cacheDir string) (string, error) {
	switch {
	case strings.HasPrefix(source, "gs://"):
		return fetchCached(ctx, source, cacheDir, fetchGCS)
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return fetchCached(ctx, source, cacheDir, fetchHTTP)
	default:
		if _, err := os.Stat(source); err != nil {
			return "", fmt.Errorf("dataset not found at %s: %w", source, err)
		}
		return source, nil
	}
}

type fetchFunc func(ctx context.Context, source string, dst io.Writer) error

func fetchCached(ctx context.Context, source, cacheDir string, fetch fetchFunc) (string, error) {
	local := cachePath(cacheDir, source)
	if _, err := os.Stat(local); err == nil {
		return local, nil
	}

	if err := os.MkdirAll(filepath.Dir(local), 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	// Download to a temp file and rename so a failed fetch never leaves
	// a truncated file behind for the next run to trust.
	tmp, err := os.CreateTemp(filepath.Dir(local), ".download-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if err := fetch(ctx, source, tmp); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to fetch %s: %w", source, err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), local); err != nil {
		return "", err
	}
	return local, nil
}

func cachePath(cacheDir, source string) string {
	sum := sha256.Sum256([]byte(source))
	base := path.Base(source)
	return filepath.Join(cacheDir, fmt.Sprintf("%x-%s", sum[:8], base))
}

func fetchGCS(ctx context.Context, source string, dst io.Writer) error {
	trimmed := strings.TrimPrefix(source, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("invalid gs:// source %q", source)
	}
	bucket, object := parts[0], parts[1]

	// Benchmark datasets are public; no credentials required.
	client, err := storage.NewClient(ctx, option.WithoutAuthentication())
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}
	defer client.Close()

	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return fmt.Errorf("failed to open gs://%s/%s: %w", bucket, object, err)
	}
	defer r.Close()

	_, err = io.Copy(dst, r)
	return err
}

func fetchHTTP(ctx context.Context, source string, dst io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	_, err = io.Copy(dst, resp.Body)
	return err
}
