package grading

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIGrader grades free-text answers through an OpenAI-compatible chat
// completion endpoint. Any provider speaking that protocol works; the base
// URL and model come from configuration.
type OpenAIGrader struct {
	client *openai.Client
	model  string
}

// NewOpenAIGrader builds the client. baseURL may be empty for the default
// endpoint.
func NewOpenAIGrader(apiKey, model, baseURL string) *OpenAIGrader {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIGrader{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

const gradingSystemPrompt = `You are a strict grader for a student assessment.
Grade the student's answer against the question and rubric.
Respond with a JSON object containing exactly these fields:
"score": a number between 0 and 1 (1 = fully correct),
"feedback": a short explanation for the student,
"confidence": a number between 0 and 1 reflecting how certain you are.`

type gradingPayload struct {
	Score      float64 `json:"score"`
	Feedback   string  `json:"feedback"`
	Confidence float64 `json:"confidence"`
}

// Grade implements the Grader interface.
func (g *OpenAIGrader) Grade(ctx context.Context, questionText, rubric, studentAnswer string) (Result, error) {
	prompt := fmt.Sprintf("Question:\n%s\n\nRubric:\n%s\n\nStudent answer:\n%s",
		questionText, rubric, studentAnswer)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: gradingSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("grading request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, fmt.Errorf("grader returned no choices")
	}

	var payload gradingPayload
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &payload); err != nil {
		return Result{}, fmt.Errorf("parsing grader response: %w", err)
	}

	return Result{
		Score:      payload.Score,
		Feedback:   payload.Feedback,
		Confidence: payload.Confidence,
	}, nil
}
