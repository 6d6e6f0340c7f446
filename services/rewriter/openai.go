package rewritersvc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/pivotpoint/platform/core"
	"github.com/pivotpoint/platform/core/report"
)

const systemPrompt = "You are a school psychologist's writing assistant. Rewrite the draft " +
	"section below into professional, report-ready clinical language. Preserve every fact; " +
	"do not invent findings."

// OpenAIRewriter rewrites section drafts through an OpenAI-compatible
// chat-completions endpoint.
type OpenAIRewriter struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

var _ report.Rewriter = (*OpenAIRewriter)(nil)

func NewOpenAIRewriter(conf *core.Config) *OpenAIRewriter {
	return &OpenAIRewriter{
		endpoint: conf.Rewriter.Endpoint,
		model:    conf.Rewriter.Model,
		apiKey:   conf.Rewriter.APIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type (
	chatMessage struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	chatRequest struct {
		Model    string        `json:"model"`
		Messages []chatMessage `json:"messages"`
	}

	chatResponse struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
	}
)

func (rw *OpenAIRewriter) Rewrite(ctx context.Context, sectionTitle, content string) (string, error) {
	if rw.apiKey == "" || rw.endpoint == "" || rw.model == "" {
		return "", errors.New("rewriter misconfigured")
	}

	body, err := json.Marshal(chatRequest{
		Model: rw.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: "Section: " + sectionTitle + "\n\n" + content},
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "marshalling rewrite payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rw.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "building rewrite request")
	}
	req.Header.Set("Authorization", "Bearer "+rw.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := rw.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "sending rewrite request")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", errors.Errorf("rewrite error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var cr chatResponse
	if err = json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", errors.Wrap(err, "decoding rewrite response")
	}
	if len(cr.Choices) == 0 {
		return "", errors.New("rewrite response has no choices")
	}
	return strings.TrimSpace(cr.Choices[0].Message.Content), nil
}
