package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rakadenta/wholesale-catalog/app/models"
	"github.com/rakadenta/wholesale-catalog/app/utils/format"
)

// AnalysisResult is the metadata suggestion for an uploaded product image.
// Any field may be empty.
type AnalysisResult struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	PriceEstimate string `json:"priceEstimate"`
}

// EmailDraft is a drafted interest inquiry.
type EmailDraft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// AssistClient is the external text-generation collaborator. Both calls may
// be backed by the deterministic fallback when no credential is configured;
// the output shape is identical either way.
type AssistClient interface {
	AnalyzeImage(ctx context.Context, imageData []byte) (*AnalysisResult, error)
	DraftEmail(ctx context.Context, user *models.User, items []models.InterestItem) (*EmailDraft, error)
}

type httpAssistClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewAssistClient returns the HTTP-backed collaborator, or the deterministic
// fallback when no API key is configured.
func NewAssistClient(baseURL, apiKey string) AssistClient {
	if apiKey == "" || baseURL == "" {
		return &fallbackAssist{}
	}
	return &httpAssistClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *httpAssistClient) doRequest(ctx context.Context, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("assist request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read assist response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("assist returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

func (s *httpAssistClient) AnalyzeImage(ctx context.Context, imageData []byte) (*AnalysisResult, error) {
	respBody, err := s.doRequest(ctx, "/v1/analyze-image", "image/jpeg", bytes.NewReader(imageData))
	if err != nil {
		return nil, err
	}

	var result AnalysisResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse analysis response: %w", err)
	}
	return &result, nil
}

type draftEmailRequest struct {
	User  *models.User          `json:"user"`
	Items []models.InterestItem `json:"items"`
}

func (s *httpAssistClient) DraftEmail(ctx context.Context, user *models.User, items []models.InterestItem) (*EmailDraft, error) {
	payload, err := json.Marshal(draftEmailRequest{User: user, Items: items})
	if err != nil {
		return nil, err
	}

	respBody, err := s.doRequest(ctx, "/v1/draft-email", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	var draft EmailDraft
	if err := json.Unmarshal(respBody, &draft); err != nil {
		return nil, fmt.Errorf("failed to parse draft response: %w", err)
	}
	return &draft, nil
}

// fallbackAssist is the deterministic local substitute used when no API
// credential is configured.
type fallbackAssist struct{}

// AnalyzeImage has no local substitute; it returns an empty suggestion so
// callers leave the form fields untouched.
func (f *fallbackAssist) AnalyzeImage(ctx context.Context, imageData []byte) (*AnalysisResult, error) {
	_ = ctx
	_ = imageData
	return &AnalysisResult{}, nil
}

// DraftEmail builds the deterministic template: product names with
// wholesale prices and quantities, then the merchant's contact fields.
func (f *fallbackAssist) DraftEmail(ctx context.Context, user *models.User, items []models.InterestItem) (*EmailDraft, error) {
	_ = ctx

	var b strings.Builder
	b.WriteString("Hello,\n\n")
	b.WriteString("I would like to inquire about the following products:\n\n")
	for _, item := range items {
		fmt.Fprintf(&b, "- %s x%d (%s each)\n",
			item.Product.Name, item.Quantity, format.Money(item.Product.WholesalePrice))
	}
	b.WriteString("\nContact details:\n")
	fmt.Fprintf(&b, "Name: %s %s\n", user.FirstName, user.LastName)
	fmt.Fprintf(&b, "Email: %s\n", user.Email)
	if user.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", user.Phone)
	}
	if user.BusinessName != "" {
		fmt.Fprintf(&b, "Business: %s\n", user.BusinessName)
	}
	b.WriteString("\nThank you.\n")

	subject := "Wholesale interest"
	if user.BusinessName != "" {
		subject = fmt.Sprintf("Wholesale interest from %s", user.BusinessName)
	} else if user.FirstName != "" || user.LastName != "" {
		subject = strings.TrimSpace(fmt.Sprintf("Wholesale interest from %s %s", user.FirstName, user.LastName))
	}

	return &EmailDraft{Subject: subject, Body: b.String()}, nil
}
