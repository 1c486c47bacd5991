package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"faculty-finder/models"
)

const (
	classifySystemPrompt = "You are an AI that determines if a webpage belongs to a professor at a university or research institution. Look for indicators like academic titles (Professor, Dr., Ph.D.), research interests, publications, courses taught, and academic affiliations. Respond with JSON: {\"is_professor\": true/false, \"confidence\": 0.0-1.0, \"name\": \"\", \"title\": \"\", \"department\": \"\"}."

	extractSystemPrompt = "You are an AI that extracts and summarizes a professor's research interests from their webpage. Capture specific research areas, methodologies, and nuanced differences in research directions. Respond with JSON: {\"interests\": \"detailed summary\", \"keywords\": [\"kw1\", \"kw2\"]}."

	similaritySystemPrompt = "You are an academic matching expert. Analyze the similarity between a professor's research interests and a user's research interests. Give a similarity score from 0 to 100 in the form \"Score: N/100\" followed by a detailed explanation."
)

// Client is an OpenAI-compatible chat-completions client. The base URL is
// configurable so alternative providers with the same wire format work
// unchanged. Construct it explicitly and pass it by reference; there is no
// package-level instance.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
	log        *zap.SugaredLogger
}

func NewClient(apiKey, baseURL, model string, log *zap.SugaredLogger) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		maxRetries: 3,
		backoff:    time.Second,
		log:        log,
	}, nil
}

// ClassifyFacultyPage asks the model whether the page belongs to a faculty
// member. A JSON response is preferred; free-text answers degrade through
// the fallback parser rather than failing.
func (c *Client) ClassifyFacultyPage(ctx context.Context, features models.PageFeatures) (ClassifyResult, error) {
	prompt := fmt.Sprintf(
		"Based on the following webpage details, determine if this is a personal or professional page of a professor, faculty member, or academic researcher.\n\nURL: %s\nTitle: %s\nMeta Description: %s\n\nContent Preview: %s\n\nDetected Keywords: %s",
		features.URL, features.Title, features.MetaDescription,
		features.TextPreview, strings.Join(features.KeywordMatches, ", "))

	raw, err := c.complete(ctx, classifySystemPrompt, prompt)
	if err != nil {
		return ClassifyResult{}, err
	}

	result := parseClassifyResponse(raw)
	c.log.Debugw("classification", "url", features.URL,
		"is_professor", result.IsProfessor, "structured", result.Structured)
	return result, nil
}

// ExtractResearchProfile summarizes research interests and keywords from
// page content.
func (c *Client) ExtractResearchProfile(ctx context.Context, title, content string) (ProfileResult, error) {
	prompt := fmt.Sprintf(
		"Based on the following professor's webpage content, provide a detailed summary of their research interests plus a list of topical keywords.\n\nPage Title: %s\n\n%s",
		title, content)

	raw, err := c.complete(ctx, extractSystemPrompt, prompt)
	if err != nil {
		return ProfileResult{}, err
	}
	return parseProfileResponse(raw), nil
}

// ScoreSimilarity compares a professor's interests against the user's and
// extracts a 0-100 score from the analysis text.
func (c *Client) ScoreSimilarity(ctx context.Context, professorInterests, userInterests string) (SimilarityResult, error) {
	prompt := fmt.Sprintf(
		"Analyze the similarity between this professor's research interests and the user's research interests. Give a 0-100 similarity score and a detailed explanation.\n\nProfessor research interests: %s\n\nUser research interests: %s",
		professorInterests, userInterests)

	raw, err := c.complete(ctx, similaritySystemPrompt, prompt)
	if err != nil {
		return SimilarityResult{}, err
	}
	return SimilarityResult{Analysis: raw, Score: ExtractSimilarityScore(raw)}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// complete posts one chat completion, retrying transient failures with a
// linear backoff before surfacing the final error.
func (c *Client) complete(ctx context.Context, system, prompt string) (string, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * c.backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		content, retryable, err := c.completeOnce(ctx, system, prompt)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if !retryable {
			break
		}
		c.log.Debugw("llm retry", "attempt", attempt+1, "error", err)
	}

	return "", fmt.Errorf("llm request failed: %w", lastErr)
}

func (c *Client) completeOnce(ctx context.Context, system, prompt string) (content string, retryable bool, err error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", true, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, err
	}

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		var apiResp chatResponse
		if json.Unmarshal(respBody, &apiResp) == nil && apiResp.Error != nil {
			return "", retryable, fmt.Errorf("API error (%d): %s", resp.StatusCode, apiResp.Error.Message)
		}
		return "", retryable, fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var apiResp chatResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", false, fmt.Errorf("parsing response: %w", err)
	}
	if len(apiResp.Choices) == 0 {
		return "", false, fmt.Errorf("empty completion response")
	}

	return strings.TrimSpace(apiResp.Choices[0].Message.Content), false, nil
}
