package media

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pyarchinit/archweb/internal/errors"
	"github.com/pyarchinit/archweb/internal/httpclient"
)

// maxResponseBytes caps a single storage-server response.
const maxResponseBytes = 4 << 20

// storageDescriptor is the wire shape the storage server returns for one
// media association.
type storageDescriptor struct {
	IDMedia       int    `json:"id_media"`
	MediaFilename string `json:"media_filename"`
	MediaType     string `json:"mediatype"`
	Filepath      string `json:"filepath"`
	PathResize    string `json:"path_resize"`
}

// StorageClient talks to the storage server's media lookup endpoint.
type StorageClient struct {
	baseURL string
	apiKey  string
	http    *httpclient.Client
}

// NewStorageClient creates a client for the given storage server base URL.
func NewStorageClient(baseURL, apiKey string, client *httpclient.Client) *StorageClient {
	return &StorageClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    client,
	}
}

// MediaForEntity fetches the media descriptors associated with one entity.
// An entity with no associations yields an empty list, not an error.
func (c *StorageClient) MediaForEntity(ctx context.Context, ref EntityRef) ([]Descriptor, error) {
	url := fmt.Sprintf("%s/media/for-entity/%s/%d", c.baseURL, ref.Type, ref.ID)

	resp, err := c.http.Get(ctx, url, c.headers())
	if err != nil {
		return nil, errors.New(err).
			Component("media").
			Category(errors.CategoryNetwork).
			Context("url", url).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		// The storage server reports unknown entities as 404; for this
		// subsystem that simply means "no media".
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("storage server returned status %d", resp.StatusCode).
			Component("media").
			Category(errors.CategoryMediaFetch).
			Context("url", url).
			Build()
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.New(err).
			Component("media").
			Category(errors.CategoryNetwork).
			Context("url", url).
			Build()
	}

	var raw []storageDescriptor
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.New(err).
			Component("media").
			Category(errors.CategoryMediaFetch).
			Context("url", url).
			Build()
	}

	descriptors := make([]Descriptor, 0, len(raw))
	for i := range raw {
		descriptors = append(descriptors, c.toDescriptor(ref, &raw[i]))
	}
	return descriptors, nil
}

// FetchThumbnail retrieves the raw thumbnail bytes for a descriptor.
// Used by PDF rendering; failures are the caller's to tolerate.
func (c *StorageClient) FetchThumbnail(ctx context.Context, d *Descriptor) ([]byte, string, error) {
	if d.ThumbnailURL == "" {
		return nil, "", errors.NewStd("descriptor has no thumbnail")
	}
	return c.http.GetBytes(ctx, d.ThumbnailURL, c.headers(), maxResponseBytes)
}

func (c *StorageClient) headers() map[string]string {
	if c.apiKey == "" {
		return nil
	}
	return map[string]string{"X-API-Key": c.apiKey}
}

func (c *StorageClient) toDescriptor(ref EntityRef, raw *storageDescriptor) Descriptor {
	fullPath := raw.PathResize
	if fullPath == "" {
		fullPath = raw.Filepath
	}
	return Descriptor{
		MediaID:      raw.IDMedia,
		EntityType:   ref.Type,
		EntityID:     ref.ID,
		Filename:     raw.MediaFilename,
		MimeType:     raw.MediaType,
		URL:          c.fileURL("original", fullPath),
		ThumbnailURL: c.fileURL("thumbnail", raw.Filepath),
	}
}

// fileURL builds the storage server URL for a stored file path.
func (c *StorageClient) fileURL(folder, path string) string {
	if path == "" {
		return ""
	}
	path = strings.TrimPrefix(path, "/")
	return fmt.Sprintf("%s/files/%s/%s", c.baseURL, folder, path)
}
