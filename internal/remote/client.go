// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package remote talks to the Google Drive v3 and Docs v1 REST APIs.
//
// Every call takes the caller's OAuth access token; the client never stores
// or refreshes credentials. Read-only calls retry on HTTP 429, mutations are
// sent exactly once.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"github.com/pdiddy/drivenote/internal/convert"
	"github.com/pdiddy/drivenote/internal/httputil"
	"github.com/pdiddy/drivenote/pkg/types"
)

// API endpoints. Declared as vars so tests can substitute an httptest server.
var (
	driveBase = "https://www.googleapis.com/drive/v3"
	docsBase  = "https://docs.googleapis.com/v1"
)

const (
	FolderMimeType   = "application/vnd.google-apps.folder"
	DocumentMimeType = "application/vnd.google-apps.document"
)

// ErrNoCredential is returned when a call is made without an access token.
var ErrNoCredential = errors.New("missing access token")

// APIError is a non-2xx response from Drive or Docs.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: HTTP %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, e.Message)
}

// Client is a minimal Drive and Docs client.
type Client struct {
	HTTP           *http.Client
	UserAgent      string
	MaxReadRetries int
}

// New returns a Client configured from cfg.
func New(cfg types.RemoteConfig) *Client {
	return &Client{
		HTTP:           &http.Client{Timeout: cfg.Timeout},
		UserAgent:      cfg.UserAgent,
		MaxReadRetries: cfg.MaxReadRetries,
	}
}

// FindFolder returns the id of a non-trashed folder named name. ok is false
// when no such folder exists. When several match, the first listed wins.
func (c *Client) FindFolder(ctx context.Context, name, cred string) (id string, ok bool, err error) {
	params := url.Values{
		"q":      {folderQuery(name)},
		"fields": {"files(id, name)"},
		"spaces": {"drive"},
	}
	req, err := c.newRequest(ctx, http.MethodGet, driveBase+"/files?"+params.Encode(), cred, nil)
	if err != nil {
		return "", false, err
	}

	var out fileList
	if err := c.read(ctx, "drive.files.list", req, &out); err != nil {
		return "", false, err
	}
	if len(out.Files) == 0 {
		return "", false, nil
	}
	return out.Files[0].ID, true, nil
}

// CreateFolder creates a folder named name in the drive root.
func (c *Client) CreateFolder(ctx context.Context, name, cred string) (string, error) {
	return c.createFile(ctx, "drive.files.create folder", fileMetadata{
		Name:     name,
		MimeType: FolderMimeType,
	}, cred)
}

// CreateDocument creates an empty Google Doc named name inside folderID.
func (c *Client) CreateDocument(ctx context.Context, name, folderID, cred string) (string, error) {
	meta := fileMetadata{Name: name, MimeType: DocumentMimeType}
	if folderID != "" {
		meta.Parents = []string{folderID}
	}
	return c.createFile(ctx, "drive.files.create document", meta, cred)
}

// Rename sets the name of a Drive file.
func (c *Client) Rename(ctx context.Context, fileID, name, cred string) error {
	body, err := json.Marshal(fileMetadata{Name: name})
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPatch, driveBase+"/files/"+url.PathEscape(fileID), cred, body)
	if err != nil {
		return err
	}
	return c.write(req, "drive.files.update", nil)
}

// DeleteFile permanently deletes a Drive file.
func (c *Client) DeleteFile(ctx context.Context, fileID, cred string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, driveBase+"/files/"+url.PathEscape(fileID), cred, nil)
	if err != nil {
		return err
	}
	return c.write(req, "drive.files.delete", nil)
}

// EndIndex returns the end index of the last structural element of the
// document body, or 1 when the body is empty.
func (c *Client) EndIndex(ctx context.Context, docID, cred string) (int, error) {
	ref, err := c.Inspect(ctx, docID, cred)
	if err != nil {
		return 0, err
	}
	return ref.EndIndex, nil
}

// Inspect reads the document's body length.
func (c *Client) Inspect(ctx context.Context, docID, cred string) (types.RemoteRef, error) {
	params := url.Values{"fields": {"body.content.endIndex"}}
	req, err := c.newRequest(ctx, http.MethodGet, docsBase+"/documents/"+url.PathEscape(docID)+"?"+params.Encode(), cred, nil)
	if err != nil {
		return types.RemoteRef{}, err
	}

	var doc document
	if err := c.read(ctx, "docs.documents.get", req, &doc); err != nil {
		return types.RemoteRef{}, err
	}
	ref := types.RemoteRef{ID: docID, EndIndex: 1}
	if content := doc.Body.Content; len(content) > 0 && content[len(content)-1].EndIndex > 0 {
		ref.EndIndex = content[len(content)-1].EndIndex
	}
	return ref, nil
}

// BatchUpdate applies cmds to the document in a single batch. The API
// applies a batch atomically and in order.
func (c *Client) BatchUpdate(ctx context.Context, docID string, cmds []convert.Command, cred string) error {
	requests, err := EncodeRequests(cmds)
	if err != nil {
		return err
	}
	body, err := json.Marshal(batchUpdate{Requests: requests})
	if err != nil {
		return fmt.Errorf("encoding batch: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, docsBase+"/documents/"+url.PathEscape(docID)+":batchUpdate", cred, body)
	if err != nil {
		return err
	}
	return c.write(req, "docs.documents.batchUpdate", nil)
}

func (c *Client) createFile(ctx context.Context, op string, meta fileMetadata, cred string) (string, error) {
	body, err := json.Marshal(meta)
	if err != nil {
		return "", err
	}
	req, err := c.newRequest(ctx, http.MethodPost, driveBase+"/files?fields=id", cred, body)
	if err != nil {
		return "", err
	}
	var out file
	if err := c.write(req, op, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("%s: response has no id", op)
	}
	return out.ID, nil
}

func (c *Client) newRequest(ctx context.Context, method, rawURL, cred string, body []byte) (*http.Request, error) {
	if cred == "" {
		return nil, ErrNoCredential
	}
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, r)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	(&oauth2.Token{AccessToken: cred}).SetAuthHeader(req)
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) read(ctx context.Context, op string, req *http.Request, out any) error {
	resp, err := httputil.DoWithRetry(ctx, c.httpClient(), req, c.MaxReadRetries)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return decode(op, resp, out)
}

func (c *Client) write(req *http.Request, op string, out any) error {
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return decode(op, resp, out)
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func decode(op string, resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return &APIError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: parsing response: %w", op, err)
	}
	return nil
}

// errorMessage extracts error.message from a Google API error body, falling
// back to the raw body.
func errorMessage(data []byte) string {
	var e apiErrorBody
	if err := json.Unmarshal(data, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return strings.TrimSpace(string(data))
}

// folderQuery builds a Drive search expression. Quotes and backslashes in
// name are escaped as the query language requires.
func folderQuery(name string) string {
	esc := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(name)
	return fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false", esc, FolderMimeType)
}

// Drive and Docs JSON structures.
type fileMetadata struct {
	Name     string   `json:"name,omitempty"`
	MimeType string   `json:"mimeType,omitempty"`
	Parents  []string `json:"parents,omitempty"`
}

type file struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type fileList struct {
	Files []file `json:"files"`
}

type document struct {
	Body struct {
		Content []struct {
			EndIndex int `json:"endIndex"`
		} `json:"content"`
	} `json:"body"`
}

type batchUpdate struct {
	Requests []Request `json:"requests"`
}

type apiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
