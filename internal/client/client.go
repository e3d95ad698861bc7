// Package client provides an HTTP client for the comment board REST API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/evcraddock/comment-board/internal/comment"
)

// Client is an HTTP client for the comment board API.
type Client struct {
	serverURL  string
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client for the server at serverURL with the API
// mounted under prefix (e.g. "/api").
func New(serverURL, prefix string) *Client {
	serverURL = strings.TrimRight(serverURL, "/")
	prefix = strings.Trim(prefix, "/")
	baseURL := serverURL
	if prefix != "" {
		baseURL += "/" + prefix
	}
	return &Client{
		serverURL:  serverURL,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Health reports whether the server and its store are up.
func (c *Client) Health() error {
	resp, err := c.httpClient.Get(c.serverURL + "/health")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			fmt.Printf("warning: closing response body: %v\n", cerr)
		}
	}()

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decoding health response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || body.Status != "ok" {
		return fmt.Errorf("server unhealthy: %s", body.Status)
	}
	return nil
}

// ListResponse is the data payload of GET /comments/.
type ListResponse struct {
	Count    int            `json:"count"`
	Comments []comment.View `json:"comments"`
}

// APIError is a failure envelope returned by the server.
type APIError struct {
	Status  int
	Message string
	Errors  map[string][]string
	Detail  string
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Message == "" {
		b.WriteString(http.StatusText(e.Status))
	}

	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintf(&b, " %s: %s", f, strings.Join(e.Errors[f], " "))
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, " (%s)", e.Detail)
	}
	return b.String()
}

// ListComments returns every comment, newest first.
func (c *Client) ListComments() (*ListResponse, error) {
	var resp ListResponse
	if err := c.get("/comments/", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateComment posts a new comment.
func (c *Client) CreateComment(content string) (*comment.View, error) {
	body := map[string]string{"content": content}
	var v comment.View
	if err := c.post("/comments/create/", body, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// get performs a GET request and decodes the envelope data.
func (c *Client) get(path string, result interface{}) error {
	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

// post performs a POST request with a JSON body and decodes the envelope data.
func (c *Client) post(path string, body interface{}, result interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, result)
}

// envelope mirrors the server's response wrapper.
type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Errors  map[string][]string `json:"errors"`
	Error   string              `json:"error"`
}

// do executes an HTTP request and unwraps the envelope.
func (c *Client) do(req *http.Request, result interface{}) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			fmt.Printf("warning: closing response body: %v\n", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var env envelope
	if jerr := json.Unmarshal(respBody, &env); jerr != nil {
		if resp.StatusCode >= 400 {
			return &APIError{Status: resp.StatusCode}
		}
		return fmt.Errorf("decoding response: %w", jerr)
	}

	if resp.StatusCode >= 400 || !env.Success {
		return &APIError{
			Status:  resp.StatusCode,
			Message: env.Message,
			Errors:  env.Errors,
			Detail:  env.Error,
		}
	}

	if result != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return fmt.Errorf("decoding data: %w", err)
		}
	}

	return nil
}
