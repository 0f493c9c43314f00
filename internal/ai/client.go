package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"
)

// Client реализует AI помощника предложений через OpenAI-совместимый API.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient создаёт экземпляр клиента.
func NewClient(baseURL, model string, timeout time.Duration) *Client {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("AI_API_KEY")
	}

	if model == "" {
		model = "gpt-4o"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Available сообщает, настроен ли доступ к AI провайдеру.
func (c *Client) Available() bool {
	return c != nil && c.baseURL != "" && c.apiKey != ""
}

// ContentSuggestions — результат подсказок по улучшению текста секции.
type ContentSuggestions struct {
	Suggestions     []string `json:"suggestions"`
	ImprovedContent string   `json:"improvedContent"`
}

// StructureAnalysis — результат анализа структуры предложения.
type StructureAnalysis struct {
	Score           int      `json:"score"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	MissingSections []string `json:"missingSections"`
	Recommendations []string `json:"recommendations"`
}

// ProposalDraft — сгенерированный черновик предложения.
type ProposalDraft struct {
	Title    string         `json:"title"`
	Sections []DraftSection `json:"sections"`
}

// DraftSection — секция сгенерированного черновика.
type DraftSection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// SuggestContent возвращает подсказки по улучшению текста секции предложения.
func (c *Client) SuggestContent(ctx context.Context, title, content, contentType string) (*ContentSuggestions, error) {
	systemPrompt := "Ты — эксперт по составлению коммерческих предложений. " +
		"Отвечай строго валидным JSON объектом с полями suggestions (массив строк, 3-5 конкретных советов) " +
		"и improvedContent (улучшенная версия текста)."

	userPrompt := fmt.Sprintf(
		"Предложение: %q. Тип секции: %s.\n\nТекущий текст секции:\n%s\n\nПредложи улучшения.",
		title, contentType, content,
	)

	raw, err := c.chatCompletionJSON(ctx, systemPrompt, userPrompt, 1024, 0.7)
	if err != nil {
		return nil, err
	}

	var result ContentSuggestions
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("ai: не удалось разобрать ответ провайдера: %w", err)
	}
	return &result, nil
}

// AnalyzeStructure оценивает структуру предложения и возвращает рекомендации.
func (c *Client) AnalyzeStructure(ctx context.Context, title string, sectionTitles []string) (*StructureAnalysis, error) {
	systemPrompt := "Ты — эксперт по структуре коммерческих предложений. " +
		"Отвечай строго валидным JSON объектом с полями score (число от 0 до 100), " +
		"strengths, weaknesses, missingSections и recommendations (массивы строк)."

	userPrompt := fmt.Sprintf(
		"Предложение: %q.\nСекции в текущем порядке:\n- %s\n\nОцени структуру и полноту.",
		title, strings.Join(sectionTitles, "\n- "),
	)

	raw, err := c.chatCompletionJSON(ctx, systemPrompt, userPrompt, 1024, 0.3)
	if err != nil {
		return nil, err
	}

	var result StructureAnalysis
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("ai: не удалось разобрать ответ провайдера: %w", err)
	}
	return &result, nil
}

// GenerateDraft формирует черновик предложения по краткому описанию.
func (c *Client) GenerateDraft(ctx context.Context, title, clientName, notes string) (*ProposalDraft, error) {
	systemPrompt := "Ты — помощник по составлению коммерческих предложений. " +
		"Отвечай строго валидным JSON объектом с полями title (строка) и sections " +
		"(массив объектов с полями title и content). Черновик должен включать введение, " +
		"описание работ, сроки и условия."

	userPrompt := fmt.Sprintf(
		"Составь черновик предложения.\nНазвание: %s\nКлиент: %s\nЗаметки: %s",
		title, clientName, notes,
	)

	raw, err := c.chatCompletionJSON(ctx, systemPrompt, userPrompt, 2048, 0.7)
	if err != nil {
		return nil, err
	}

	var result ProposalDraft
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("ai: не удалось разобрать ответ провайдера: %w", err)
	}
	return &result, nil
}

// chatCompletionJSON выполняет запрос в JSON режиме и возвращает извлечённый
// из ответа JSON объект в сыром виде.
func (c *Client) chatCompletionJSON(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (json.RawMessage, error) {
	content, err := c.chatCompletionWithOptions(ctx, []map[string]string{
		{"role": "system", "content": systemPrompt},
		{"role": "user", "content": userPrompt},
	}, maxTokens, temperature)
	if err != nil {
		return nil, err
	}

	raw := extractJSONFromText(content)
	if raw == nil {
		return nil, fmt.Errorf("ai: в ответе провайдера нет JSON объекта")
	}
	return raw, nil
}

// chatCompletionWithOptions выполняет запрос с настраиваемыми параметрами.
func (c *Client) chatCompletionWithOptions(ctx context.Context, messages []map[string]string, maxTokens int, temperature float64) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("ai: baseURL не задан")
	}

	payload := map[string]any{
		"model":           c.model,
		"messages":        messages,
		"max_tokens":      maxTokens,
		"temperature":     temperature,
		"response_format": map[string]string{"type": "json_object"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := c.baseURL
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}
	url += "chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errorBody map[string]any
		json.NewDecoder(resp.Body).Decode(&errorBody)
		return "", fmt.Errorf("ai: код ответа %d: %v", resp.StatusCode, errorBody)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("ai: пустой ответ")
	}

	return result.Choices[0].Message.Content, nil
}

var codeBlockRegex = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// extractJSONFromText пытается извлечь JSON объект из текста, который может
// содержать markdown или пояснения вокруг.
func extractJSONFromText(text string) json.RawMessage {
	jsonStart := strings.Index(text, "{")
	jsonEnd := strings.LastIndex(text, "}")
	if jsonStart != -1 && jsonEnd != -1 && jsonEnd > jsonStart {
		candidate := text[jsonStart : jsonEnd+1]
		if json.Valid([]byte(candidate)) {
			return json.RawMessage(candidate)
		}
	}

	if strings.Contains(text, "```") {
		match := codeBlockRegex.FindStringSubmatch(text)
		if len(match) > 1 && json.Valid([]byte(match[1])) {
			return json.RawMessage(match[1])
		}
	}

	return nil
}
