// Package apiclient is the HTTP client for the SurvEase API. It covers
// every operation the authoring and analytics sides need: survey listing
// and upserts, response submission and retrieval, publishing, and
// deletion. The client satisfies builder.Persister, so it can back the
// autosave reconciler directly.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/PSilyDev/survease/internal/builder"
	"github.com/PSilyDev/survease/internal/model"
)

// APIError is a rejected API operation carrying the human-readable message
// extracted from the transport's {message} envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Client talks to a SurvEase server.
type Client struct {
	base  string
	token string
	http  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token attached to every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a client for the API at base (e.g. "http://localhost:4000").
func New(base string, opts ...Option) *Client {
	c := &Client{
		base: base,
		http: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token, e.g. after login.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var resp model.LoginResponse
	body := model.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth-api/login", body, &resp); err != nil {
		return err
	}
	c.token = resp.Token
	return nil
}

// ListSurveys fetches every category with its surveys.
func (c *Client) ListSurveys(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := c.do(ctx, http.MethodGet, "/survey-api/public", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateSurvey registers an empty survey under the category.
func (c *Client) CreateSurvey(ctx context.Context, categoryName, surveyName string) error {
	body := map[string]string{
		"category_name": categoryName,
		"survey_name":   surveyName,
	}
	return c.do(ctx, http.MethodPost, "/survey-api/createSurvey", body, nil)
}

// ReplaceSurvey performs the idempotent whole-survey upsert.
func (c *Client) ReplaceSurvey(ctx context.Context, categoryName, surveyName string, questions []model.Question) error {
	body := map[string]interface{}{
		"category_name": categoryName,
		"surveys": []map[string]interface{}{
			{
				"survey_name": surveyName,
				"questions":   questions,
			},
		},
	}
	return c.do(ctx, http.MethodPut, "/survey-api/replaceSurvey", body, nil)
}

// Replace implements builder.Persister, backing the autosave reconciler.
func (c *Client) Replace(ctx context.Context, draft builder.Draft) error {
	return c.ReplaceSurvey(ctx, draft.CategoryName, draft.SurveyName, draft.Questions)
}

// DeleteSurvey removes a survey definition.
func (c *Client) DeleteSurvey(ctx context.Context, categoryName, surveyName string) error {
	body := map[string]string{
		"category_name": categoryName,
		"survey_name":   surveyName,
	}
	return c.do(ctx, http.MethodDelete, "/survey-api/survey", body, nil)
}

// Publish opens a survey for public responses and returns its share token.
func (c *Client) Publish(ctx context.Context, categoryName, surveyName string) (string, error) {
	body := map[string]string{
		"category_name": categoryName,
		"survey_name":   surveyName,
	}
	var payload struct {
		ShareID string `json:"shareId"`
	}
	if err := c.do(ctx, http.MethodPost, "/survey-api/publish", body, &payload); err != nil {
		return "", err
	}
	return payload.ShareID, nil
}

// ResolveShare maps a share token back to its survey.
func (c *Client) ResolveShare(ctx context.Context, shareID string) (*model.SurveyRef, error) {
	var ref model.SurveyRef
	if err := c.do(ctx, http.MethodGet, "/survey-api/share/"+url.PathEscape(shareID), nil, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

// SubmitResponse submits a filled response document.
func (c *Client) SubmitResponse(ctx context.Context, doc *model.ResponseDocument) error {
	return c.do(ctx, http.MethodPost, "/response-api/response", doc, nil)
}

// FetchResponses returns every stored response in submission order.
func (c *Client) FetchResponses(ctx context.Context) ([]model.ResponseDocument, error) {
	var docs []model.ResponseDocument
	if err := c.do(ctx, http.MethodGet, "/response-api/responses", nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// DeleteResponse removes one stored response by id.
func (c *Client) DeleteResponse(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/response-api/response/"+url.PathEscape(id), nil, nil)
}

// do issues one request and decodes the {message, payload} envelope into
// out. Non-2xx replies become an *APIError with the envelope's message.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var envelope struct {
		Message string          `json:"message"`
		Payload json.RawMessage `json:"payload"`
	}
	// A non-JSON body is tolerated; the status code still decides.
	_ = json.Unmarshal(data, &envelope)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: envelope.Message}
	}

	if out == nil {
		return nil
	}
	if len(envelope.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(envelope.Payload, out)
}
