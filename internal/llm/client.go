// Package llm talks to the DeepSeek and Gemini chat APIs over plain HTTP.
// DeepSeek is tried first; Gemini is the fallback, mirroring the order the
// qualification prompts were tuned in.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

const (
	defaultDeepSeekBase = "https://api.deepseek.com"
	defaultGeminiBase   = "https://generativelanguage.googleapis.com"

	deepSeekModel = "deepseek-reasoner"
	geminiModel   = "gemini-2.0-flash"
)

var ErrNoModels = errors.New("no model API keys configured")

type Client struct {
	client       *http.Client
	deepSeekKey  string
	geminiKey    string
	deepSeekBase string
	geminiBase   string
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.client = client }
}

func WithDeepSeekBaseURL(base string) Option {
	return func(c *Client) { c.deepSeekBase = base }
}

func WithGeminiBaseURL(base string) Option {
	return func(c *Client) { c.geminiBase = base }
}

func NewClient(deepSeekKey, geminiKey string, options ...Option) *Client {
	c := &Client{
		client:       &http.Client{Timeout: 120 * time.Second},
		deepSeekKey:  deepSeekKey,
		geminiKey:    geminiKey,
		deepSeekBase: defaultDeepSeekBase,
		geminiBase:   defaultGeminiBase,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Complete sends a prompt through the fallback chain and returns the raw
// completion text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.deepSeekKey == "" && c.geminiKey == "" {
		return "", ErrNoModels
	}

	var errs []error
	if c.deepSeekKey != "" {
		text, err := c.callDeepSeek(ctx, prompt)
		if err == nil {
			return text, nil
		}
		log.Printf("[llm] deepseek call failed: %v", err)
		errs = append(errs, fmt.Errorf("deepseek: %w", err))
	}
	if c.geminiKey != "" {
		text, err := c.callGemini(ctx, prompt)
		if err == nil {
			return text, nil
		}
		log.Printf("[llm] gemini call failed: %v", err)
		errs = append(errs, fmt.Errorf("gemini: %w", err))
	}
	return "", fmt.Errorf("all model calls failed: %w", errors.Join(errs...))
}

type deepSeekRequest struct {
	Model       string            `json:"model"`
	Messages    []deepSeekMessage `json:"messages"`
	Temperature float64           `json:"temperature"`
}

type deepSeekMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type deepSeekResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) callDeepSeek(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(deepSeekRequest{
		Model:       deepSeekModel,
		Messages:    []deepSeekMessage{{Role: "user", Content: prompt}},
		Temperature: 0.1,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.deepSeekBase+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.deepSeekKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var parsed deepSeekResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := ""
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, msg)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("empty choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature float64 `json:"temperature"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) callGemini(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents:         []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenConfig{Temperature: 0.2},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.geminiBase, geminiModel, c.geminiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := ""
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, msg)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty candidates")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// sliceJSONObject trims a completion down to its outermost JSON object.
// Models often wrap JSON in prose or code fences.
func sliceJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// sliceJSONArray trims a completion down to its outermost JSON array.
func sliceJSONArray(s string) (string, bool) {
	start := strings.IndexByte(s, '[')
	end := strings.LastIndexByte(s, ']')
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
