/*
Package imagegen implements the avatar frame concept generator.

It talks to the Gemini generateContent REST API, requesting two renders per
concept (the assembled frame and an engineering exploded view of its parts)
and returning both as inline PNG data URLs.
*/
package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"yallagames/internal/pkg/logx"
)

// Client calls the image generation backend.
type Client struct {
	endpoint string
	model    string
	apiKey   string
	http     *http.Client
}

// NewClient creates a Client for the given endpoint, model, and API key.
func NewClient(endpoint, model, apiKey string) *Client {
	return &Client{
		endpoint: endpoint,
		model:    model,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 60 * time.Second},
	}
}

// FrameConcept is the result of a frame generation run.
type FrameConcept struct {
	// ConceptName is the user's idea, echoed back as the concept title.
	ConceptName string `json:"conceptName"`

	// Description is a short caption derived from the idea.
	Description string `json:"description"`

	// MainImageURL is the assembled frame render as a PNG data URL.
	MainImageURL string `json:"mainImageUrl"`

	// ExplodedImageURL is the exploded parts render as a PNG data URL.
	ExplodedImageURL string `json:"explodedImageUrl"`
}

// request/response wire types for the generateContent endpoint.

type generatePart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	Contents []generateContent `json:"contents"`
	Config   *generateConfig   `json:"generationConfig,omitempty"`
}

type generateConfig struct {
	ImageConfig *imageConfig `json:"imageConfig,omitempty"`
}

type imageConfig struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content generateContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateFrameConcept renders the assembled frame and its exploded view for
// the given idea. Both images must come back for the call to succeed; a
// partial result is treated as a failure.
func (c *Client) GenerateFrameConcept(ctx context.Context, idea string) (*FrameConcept, error) {
	mainPrompt := fmt.Sprintf(`A high-quality, ornate circular fantasy avatar frame, symmetrical design.
Style: Game UI, luxury, magic.
Details: %s.
Features: Gold filigree, glowing gemstones, intricate ornaments, isolated on a black background, 8k resolution, photorealistic materials.`, idea)

	explodedPrompt := fmt.Sprintf(`An engineering exploded view of the same fantasy circular frame: %s.
Separate the components: The golden circular base, individual floating gemstones, ornamental wings, and decorations.
Show them floating apart in a technical 3D layout.
Clean dark background, technical but magical style.`, idea)

	mainImage, err := c.generateImage(ctx, mainPrompt)
	if err != nil {
		return nil, fmt.Errorf("main frame render failed: %w", err)
	}

	explodedImage, err := c.generateImage(ctx, explodedPrompt)
	if err != nil {
		return nil, fmt.Errorf("exploded view render failed: %w", err)
	}

	return &FrameConcept{
		ConceptName:      idea,
		Description:      fmt.Sprintf("إطار خيالي مصمم بناءً على فكرة: %s", idea),
		MainImageURL:     mainImage,
		ExplodedImageURL: explodedImage,
	}, nil
}

// generateImage runs a single generateContent call and returns the first
// inline image as a data URL.
func (c *Client) generateImage(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Contents: []generateContent{{Parts: []generatePart{{Text: prompt}}}},
		Config:   &generateConfig{ImageConfig: &imageConfig{AspectRatio: "1:1"}},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.endpoint, c.model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	res, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 32<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response (HTTP %d): %w", res.StatusCode, err)
	}

	if res.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("backend returned HTTP %d: %s", res.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("backend returned HTTP %d", res.StatusCode)
	}

	for _, candidate := range parsed.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				mime := part.InlineData.MimeType
				if mime == "" {
					mime = "image/png"
				}
				return fmt.Sprintf("data:%s;base64,%s", mime, part.InlineData.Data), nil
			}
		}
	}

	logx.Warn("Image generation response contained no inline image", "model", c.model)
	return "", fmt.Errorf("response contained no image data")
}
