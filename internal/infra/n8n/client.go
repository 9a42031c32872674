package n8n

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mkranker-server/internal/domain"
	apperrors "mkranker-server/pkg/errors"
)

// featurePaths maps each feature to its workflow webhook path.
var featurePaths = map[domain.FeatureKey]string{
	domain.FeatureMercadoPublicoAlvo: "/webhook/mercado-publico-alvo",
	domain.FeaturePalavrasChaves:     "/webhook/palavras-chaves",
	domain.FeatureFunilDeBusca:       "/webhook/funil-de-busca",
	domain.FeatureTextoSeoLp:         "/webhook/texto-seo-lp",
	domain.FeatureTextoSeoProduto:    "/webhook/texto-seo-produto",
	domain.FeatureTextoSeoBlog:       "/webhook/texto-seo-blog",
	domain.FeaturePautasBlog:         "/webhook/pautas-blog",
	domain.FeatureMetaTags:           "/webhook/meta-tags",
}

// Client calls the n8n-hosted AI workflows. Implements domain.ContentGenerator.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     domain.Logger
}

// NewClient creates a workflow webhook client.
func NewClient(config domain.Config, logger domain.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(config.GetN8NWebhookBaseURL(), "/"),
		token:   config.GetN8NWebhookToken(),
		httpClient: &http.Client{
			// Workflows chain several LLM calls; generous timeout.
			Timeout: 120 * time.Second,
		},
		logger: logger,
	}
}

type webhookResponse struct {
	Output string `json:"output"`
}

// Generate POSTs the form fields to the feature's workflow and returns the
// generated content.
func (c *Client) Generate(ctx context.Context, req *domain.GenerationRequest) (string, error) {
	path, ok := featurePaths[req.Feature]
	if !ok {
		return "", domain.ErrUnknownFeature
	}
	if c.baseURL == "" {
		return "", fmt.Errorf("n8n webhook base URL not configured")
	}

	payload := make(map[string]interface{}, len(req.Fields)+1)
	for k, v := range req.Fields {
		payload[k] = v
	}
	payload["user_id"] = req.UserID

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build webhook request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", apperrors.NewUpstreamError("workflow webhook unreachable", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.NewUpstreamError("failed to read workflow response", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Workflow webhook returned non-OK status", nil,
			"feature", req.Feature, "status", resp.StatusCode)
		return "", apperrors.NewUpstreamError(
			fmt.Sprintf("workflow webhook returned status %d", resp.StatusCode), nil)
	}

	// Workflows respond with {"output": "..."}; older ones return raw text.
	var parsed webhookResponse
	if err := json.Unmarshal(respBody, &parsed); err == nil && parsed.Output != "" {
		return parsed.Output, nil
	}
	return string(respBody), nil
}
