// Package imagegen talks to the external image-generation provider: it
// submits a prompt, then polls the returned task until it completes.
package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nft-bots/go-marketplace/types"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultMaxAttempts  = 150

	maxPromptLength = 500

	statusCompleted = "COMPLETED"
	statusFailed    = "FAILED"
)

type (
	Client struct {
		client       *http.Client
		baseURL      string
		apiKey       string
		pollInterval time.Duration
		maxAttempts  int
	}

	taskDetail struct {
		TaskID    string   `json:"task_id"`
		Status    string   `json:"status"`
		Generated []string `json:"generated"`
	}

	taskResponse struct {
		Data taskDetail `json:"data"`
	}
)

// NewClient builds a provider client. maxAttempts bounds the poll loop;
// zero or negative selects the default budget.
func NewClient(baseURL, apiKey string, maxAttempts int) *Client {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &Client{
		client:       &http.Client{Timeout: 30 * time.Second},
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		pollInterval: defaultPollInterval,
		maxAttempts:  maxAttempts,
	}
}

// Generate submits the prompt and polls until the provider reports a
// result, the provider reports failure, or the attempt budget runs out.
func (c *Client) Generate(ctx context.Context, prompt, style string) (string, error) {
	if prompt == "" || len(prompt) > maxPromptLength {
		return "", fmt.Errorf("%w: prompt must be 1-%d characters", types.ErrInvalidInput, maxPromptLength)
	}

	fullPrompt := prompt
	if style != "" {
		fullPrompt = fmt.Sprintf("%s in %s style", prompt, style)
	}

	task, err := c.submit(ctx, fullPrompt)
	if err != nil {
		return "", err
	}

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		switch task.Status {
		case statusCompleted:
			if len(task.Generated) == 0 {
				return "", fmt.Errorf("%w: no image in completed task %s", types.ErrProviderFailed, task.TaskID)
			}
			return task.Generated[0], nil
		case statusFailed:
			return "", fmt.Errorf("%w: task %s failed", types.ErrProviderFailed, task.TaskID)
		}

		select {
		case <-time.After(c.pollInterval):
		case <-ctx.Done():
			return "", ctx.Err()
		}

		task, err = c.poll(ctx, task.TaskID)
		if err != nil {
			return "", err
		}
	}

	return "", fmt.Errorf("%w: task %s still pending after %d attempts", types.ErrProviderTimedOut, task.TaskID, c.maxAttempts)
}

func (c *Client) submit(ctx context.Context, prompt string) (*taskDetail, error) {
	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/ai/mystic", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-freepik-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *Client) poll(ctx context.Context, taskID string) (*taskDetail, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/ai/mystic/"+taskID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-freepik-api-key", c.apiKey)

	return c.do(req)
}

func (c *Client) do(req *http.Request) (*taskDetail, error) {
	ret, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrProviderFailed, err)
	}
	defer ret.Body.Close()

	body, err := io.ReadAll(ret.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrProviderFailed, err)
	}

	if ret.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", types.ErrProviderFailed, ret.StatusCode, body)
	}

	var resp taskResponse
	if err = json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrProviderFailed, err)
	}
	return &resp.Data, nil
}
