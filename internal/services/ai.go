package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
)

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type AIService struct {
	client  chatCompleter
	breaker *gobreaker.CircuitBreaker
}

// GeneratedTask is a task draft suggested by the model. Drafts are never
// persisted; an admin turns them into tasks through the normal create flow.
type GeneratedTask struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Date        *time.Time `json:"date"`
}

func NewAIService(apiKey string) *AIService {
	return newAIService(openai.NewClient(apiKey))
}

func newAIService(client chatCompleter) *AIService {
	return &AIService{
		client: client,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "openai",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
	}
}

// GenerateTasksFromText extracts task drafts from free text.
func (s *AIService) GenerateTasksFromText(ctx context.Context, text string) ([]GeneratedTask, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	currentTime := time.Now().Format(time.RFC3339)
	prompt := fmt.Sprintf(`You help a manager turn notes into tasks for employees.

Current time: %s

Notes:
%s

Return a JSON array of task drafts in this shape:
[
  {
    "title": "short task title",
    "description": "what needs to be done",
    "category": "one word such as Design, Development, Documentation or Bug",
    "date": "due date in RFC3339, or null when none is given"
  }
]

Rules:
- Return [] when the notes contain no tasks
- Resolve relative dates such as "tomorrow" against the current time
- Return JSON only, without any prose`, currentTime, text)

	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.client.CreateChatCompletion(
			ctx,
			openai.ChatCompletionRequest{
				Model: openai.GPT4o,
				Messages: []openai.ChatCompletionMessage{
					{
						Role:    openai.ChatMessageRoleUser,
						Content: prompt,
					},
				},
				Temperature: 0.3,
			},
		)
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	resp := result.(openai.ChatCompletionResponse)
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)

	var tasks []GeneratedTask
	if err := json.Unmarshal([]byte(content), &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	return tasks, nil
}

// stripCodeFence removes a ```json fence the model sometimes wraps output in.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
