// Package storage implements the media relay to the ImageKit-compatible
// object storage provider.
package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"postfeed/internal/config"
	"postfeed/internal/middleware"
	"postfeed/internal/models"

	"github.com/google/uuid"
)

// Storage is the provider-facing interface consumed by the services.
type Storage interface {
	Upload(ctx context.Context, data []byte, fileName string) (*UploadResult, error)
	Delete(ctx context.Context, fileID string) error
	AuthParams() AuthParams
	PublicKey() string
}

// UploadResult holds the provider's locator and file handle for a stored object.
type UploadResult struct {
	URL    string `json:"url"`
	FileID string `json:"fileId"`
}

// AuthParams are short-lived delegated-upload credentials allowing a
// client to upload directly to the provider without routing bytes
// through this backend.
type AuthParams struct {
	Token     string `json:"token"`
	Expire    int64  `json:"expire"`
	Signature string `json:"signature"`
}

// authParamsTTL bounds delegated-upload credentials; ImageKit rejects
// expiry values more than an hour out.
const authParamsTTL = 30 * time.Minute

const uploadFolder = "/postfeed"

// Client talks to the ImageKit REST API.
type Client struct {
	publicKey      string
	privateKey     string
	uploadEndpoint string
	apiEndpoint    string
	httpClient     *http.Client
}

// NewClient creates a storage client from the application config.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		publicKey:      cfg.ImageKitPublicKey,
		privateKey:     cfg.ImageKitPrivateKey,
		uploadEndpoint: cfg.ImageKitUploadEndpoint,
		apiEndpoint:    cfg.ImageKitAPIEndpoint,
		httpClient:     &http.Client{Timeout: 30 * time.Second},
	}
}

// PublicKey returns the provider public key handed to direct-upload clients.
func (c *Client) PublicKey() string {
	return c.publicKey
}

// Upload base64-encodes data and forwards it to the provider under a
// namespaced folder with a collision-resistant generated name.
// Provider failures surface as STORAGE_UNAVAILABLE; no retries.
func (c *Client) Upload(ctx context.Context, data []byte, fileName string) (*UploadResult, error) {
	if c.privateKey == "" {
		return nil, models.NewStorageError(fmt.Errorf("storage provider not configured"))
	}
	if len(data) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}

	form := url.Values{}
	form.Set("file", base64.StdEncoding.EncodeToString(data))
	form.Set("fileName", remoteName(fileName))
	form.Set("folder", uploadFolder)
	form.Set("useUniqueFileName", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadEndpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, models.NewStorageError(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.privateKey, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		middleware.StorageRequests.WithLabelValues("upload", "error").Inc()
		return nil, models.NewStorageError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		middleware.StorageRequests.WithLabelValues("upload", "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, models.NewStorageError(
			fmt.Errorf("provider returned %d: %s", resp.StatusCode, string(body)))
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		middleware.StorageRequests.WithLabelValues("upload", "error").Inc()
		return nil, models.NewStorageError(err)
	}
	if result.URL == "" || result.FileID == "" {
		middleware.StorageRequests.WithLabelValues("upload", "error").Inc()
		return nil, models.NewStorageError(fmt.Errorf("provider response missing url or fileId"))
	}

	middleware.StorageRequests.WithLabelValues("upload", "ok").Inc()
	return &result, nil
}

// Delete removes a remote object. A provider 404 means the object is
// already gone and is treated as success.
func (c *Client) Delete(ctx context.Context, fileID string) error {
	if fileID == "" {
		return nil
	}
	if c.privateKey == "" {
		return models.NewStorageError(fmt.Errorf("storage provider not configured"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.apiEndpoint+"/files/"+url.PathEscape(fileID), nil)
	if err != nil {
		return models.NewStorageError(err)
	}
	req.SetBasicAuth(c.privateKey, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		middleware.StorageRequests.WithLabelValues("delete", "error").Inc()
		return models.NewStorageError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		middleware.StorageRequests.WithLabelValues("delete", "ok").Inc()
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		middleware.StorageRequests.WithLabelValues("delete", "error").Inc()
		return models.NewStorageError(fmt.Errorf("provider returned %d", resp.StatusCode))
	}

	middleware.StorageRequests.WithLabelValues("delete", "ok").Inc()
	return nil
}

// AuthParams issues delegated-upload credentials: a one-time token, an
// expiry and an HMAC-SHA1 signature over token+expire, matching the
// provider's client-upload authentication scheme.
func (c *Client) AuthParams() AuthParams {
	if c.privateKey == "" {
		return AuthParams{}
	}
	token := uuid.New().String()
	expire := time.Now().Add(authParamsTTL).Unix()

	mac := hmac.New(sha1.New, []byte(c.privateKey))
	mac.Write([]byte(token + strconv.FormatInt(expire, 10)))

	return AuthParams{
		Token:     token,
		Expire:    expire,
		Signature: hex.EncodeToString(mac.Sum(nil)),
	}
}

// remoteName produces a collision-resistant object name keeping the
// original extension when present.
func remoteName(fileName string) string {
	ext := ""
	for i := len(fileName) - 1; i >= 0 && len(fileName)-i <= 6; i-- {
		if fileName[i] == '.' {
			ext = fileName[i:]
			break
		}
	}
	return uuid.New().String() + ext
}
