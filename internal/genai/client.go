package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxResponseBytes = 10 << 20

// Config carries the upstream endpoint settings and sampling parameters.
type Config struct {
	APIKey      string
	Endpoint    string
	Model       string
	Temperature float64
	TopP        float64
	MaxTokens   int
	Timeout     time.Duration
}

// Client calls a DashScope-compatible text-generation endpoint. One
// synchronous attempt per call; retry policy belongs to callers.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Transport: &http.Transport{Proxy: http.ProxyFromEnvironment},
		},
	}
}

type generationRequest struct {
	Model      string          `json:"model"`
	Parameters samplingParams  `json:"parameters"`
	Input      generationInput `json:"input"`
}

type samplingParams struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	MaxTokens   int     `json:"max_tokens"`
}

type generationInput struct {
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type generationResponse struct {
	Output struct {
		Text    *string `json:"text"`
		Choices []struct {
			Message struct {
				Content *string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	} `json:"output"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate submits the prompt as a single user message and returns the
// generated text, or a classified *Error.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", &Error{Kind: KindParse, Message: "empty prompt"}
	}

	payload, err := json.Marshal(generationRequest{
		Model: c.cfg.Model,
		Parameters: samplingParams{
			Temperature: c.cfg.Temperature,
			TopP:        c.cfg.TopP,
			MaxTokens:   c.cfg.MaxTokens,
		},
		Input: generationInput{
			Messages: []chatMessage{{Role: "user", Content: prompt}},
		},
	})
	if err != nil {
		return "", &Error{Kind: KindParse, Message: fmt.Sprintf("marshal request: %v", err)}
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", &Error{Kind: KindUnavailable, Message: fmt.Sprintf("create request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	res, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", &Error{Kind: KindTimeout, Message: fmt.Sprintf("request exceeded %s", c.cfg.Timeout)}
		}
		return "", &Error{Kind: KindUnavailable, Message: fmt.Sprintf("send request: %v", err)}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", classifyStatus(res)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", &Error{Kind: KindTimeout, Message: fmt.Sprintf("response exceeded %s", c.cfg.Timeout)}
		}
		return "", &Error{Kind: KindUnavailable, Message: fmt.Sprintf("read response: %v", err)}
	}

	return extractText(body, res.StatusCode)
}

func classifyStatus(res *http.Response) *Error {
	detail, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
	msg := strings.TrimSpace(string(detail))

	switch {
	case res.StatusCode == http.StatusUnauthorized:
		return &Error{Kind: KindAuth, StatusCode: res.StatusCode, Message: msg}
	case res.StatusCode == http.StatusForbidden:
		return &Error{Kind: KindForbidden, StatusCode: res.StatusCode, Message: msg}
	case res.StatusCode == http.StatusTooManyRequests:
		return &Error{Kind: KindRateLimited, StatusCode: res.StatusCode, Message: msg}
	case res.StatusCode >= 500:
		return &Error{Kind: KindUpstreamUnavailable, StatusCode: res.StatusCode, Message: msg}
	default:
		return &Error{Kind: KindUpstreamError, StatusCode: res.StatusCode, Message: msg}
	}
}

func extractText(body []byte, status int) (string, error) {
	var parsed generationResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &Error{Kind: KindParse, StatusCode: status, Message: fmt.Sprintf("unmarshal response: %v", err)}
	}
	if parsed.Error != nil {
		return "", &Error{Kind: KindUpstreamError, StatusCode: status, Message: parsed.Error.Message}
	}
	if parsed.Output.Text != nil {
		return *parsed.Output.Text, nil
	}
	if len(parsed.Output.Choices) > 0 && parsed.Output.Choices[0].Message.Content != nil {
		return *parsed.Output.Choices[0].Message.Content, nil
	}
	return "", &Error{Kind: KindParse, StatusCode: status, Message: "response carries no text field"}
}
