package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 5 * time.Minute

// Client issues the remote service operations over HTTP with JSON bodies.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient creates a gateway client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: defaultTimeout},
	}
}

// CheckHealth queries /api/health. A well-formed JSON body is decoded
// regardless of HTTP status; only transport failure yields an error.
func (c *Client) CheckHealth(ctx context.Context) (HealthReport, error) {
	var report HealthReport
	if err := c.getJSON(ctx, "/api/health", nil, &report); err != nil {
		return HealthReport{}, remoteErr("check health", err)
	}
	return report, nil
}

// StartServices asks the backend to start its worker services. Returns the
// server's confirmation message.
func (c *Client) StartServices(ctx context.Context) (string, error) {
	body, err := c.post(ctx, "/api/start_services", "application/json", nil)
	if err != nil {
		return "", remoteErr("start services", err)
	}

	var resp struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", remoteErr("start services", err)
	}
	if resp.Message == "" {
		return "", &ServiceError{Op: "start services", Message: errMessage(resp.Error)}
	}

	return resp.Message, nil
}

// Upload sends file contents as a multipart form and returns the stored
// asset reference.
func (c *Client) Upload(ctx context.Context, contents []byte, filename string) (UploadedAsset, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return UploadedAsset{}, remoteErr("upload", err)
	}
	if _, err := part.Write(contents); err != nil {
		return UploadedAsset{}, remoteErr("upload", err)
	}
	if err := mw.Close(); err != nil {
		return UploadedAsset{}, remoteErr("upload", err)
	}

	body, err := c.post(ctx, "/api/upload", mw.FormDataContentType(), buf.Bytes())
	if err != nil {
		return UploadedAsset{}, remoteErr("upload", err)
	}

	var resp struct {
		UploadedAsset
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return UploadedAsset{}, remoteErr("upload", err)
	}
	if resp.FileID == "" {
		return UploadedAsset{}, &ServiceError{Op: "upload", Message: errMessage(resp.Error)}
	}

	return resp.UploadedAsset, nil
}

// Voices lists the voices matching the filter.
func (c *Client) Voices(ctx context.Context, filter CatalogFilter) ([]Voice, error) {
	var resp struct {
		Voices []Voice `json:"voices"`
	}
	if err := c.getJSON(ctx, "/api/voices", filterQuery(filter), &resp); err != nil {
		return nil, remoteErr("list voices", err)
	}
	return resp.Voices, nil
}

// Avatars lists the avatars matching the filter.
func (c *Client) Avatars(ctx context.Context, filter CatalogFilter) ([]Avatar, error) {
	var resp struct {
		Avatars []Avatar `json:"avatars"`
	}
	if err := c.getJSON(ctx, "/api/avatars", filterQuery(filter), &resp); err != nil {
		return nil, remoteErr("list avatars", err)
	}
	return resp.Avatars, nil
}

// Languages lists the languages the service supports.
func (c *Client) Languages(ctx context.Context) ([]Language, error) {
	var resp struct {
		Languages []Language `json:"languages"`
	}
	if err := c.getJSON(ctx, "/api/languages", nil, &resp); err != nil {
		return nil, remoteErr("list languages", err)
	}
	return resp.Languages, nil
}

// Generate submits a generation request and waits for the final result.
// A response without a final video id is a service failure.
func (c *Client) Generate(ctx context.Context, req GenerationRequest) (GenerationResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return GenerationResult{}, remoteErr("generate", err)
	}

	body, err := c.post(ctx, "/api/generate", "application/json", payload)
	if err != nil {
		return GenerationResult{}, remoteErr("generate", err)
	}

	var resp struct {
		GenerationResult
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return GenerationResult{}, remoteErr("generate", err)
	}
	if resp.FinalVideoID == "" {
		return GenerationResult{}, &ServiceError{Op: "generate", Message: errMessage(resp.Error)}
	}

	return resp.GenerationResult, nil
}

// getJSON issues a GET and decodes the body into out, ignoring the HTTP
// status code. Error payloads share the envelope with success payloads on
// this API, so callers inspect the decoded fields instead.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// post issues a POST and returns the raw body bytes for callers to decode.
func (c *Client) post(ctx context.Context, path, contentType string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(body) == 0 {
		return nil, errors.New("empty response body")
	}

	return body, nil
}

func filterQuery(filter CatalogFilter) url.Values {
	return url.Values{
		"language": {filter.Language},
		"gender":   {filter.Gender},
	}
}

func errMessage(msg string) string {
	if msg == "" {
		return "unknown error"
	}
	return msg
}
