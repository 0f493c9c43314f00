package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func chatResponse(content string) string {
	body := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}},
		},
	}
	raw, _ := json.Marshal(body)
	return string(raw)
}

func newTestClient(serverURL string) *Client {
	client := NewClient(serverURL, "gpt-4o", 5*time.Second)
	client.apiKey = "test-key"
	return client
}

func TestSuggestContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("неожиданный путь: %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("неожиданный заголовок Authorization: %q", auth)
		}

		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("не удалось разобрать тело запроса: %v", err)
		}
		if payload["model"] != "gpt-4o" {
			t.Errorf("модель = %v, ожидалась gpt-4o", payload["model"])
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatResponse(`{"suggestions":["Добавьте цифры","Сократите вступление"],"improvedContent":"Улучшенный текст"}`)))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.SuggestContent(context.Background(), "Сайт для ООО Ромашка", "Мы сделаем сайт", "introduction")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(result.Suggestions) != 2 {
		t.Errorf("получено %d подсказок, ожидалось 2", len(result.Suggestions))
	}
	if result.ImprovedContent != "Улучшенный текст" {
		t.Errorf("improvedContent = %q", result.ImprovedContent)
	}
}

func TestAnalyzeStructure_MarkdownWrappedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		content := "Вот анализ:\n```json\n{\"score\":72,\"strengths\":[\"Ясное введение\"],\"weaknesses\":[],\"missingSections\":[\"Сроки\"],\"recommendations\":[\"Добавьте сроки\"]}\n```"
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatResponse(content)))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.AnalyzeStructure(context.Background(), "Сайт", []string{"Введение", "Цена"})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if result.Score != 72 {
		t.Errorf("score = %d, ожидалось 72", result.Score)
	}
	if len(result.MissingSections) != 1 || result.MissingSections[0] != "Сроки" {
		t.Errorf("missingSections = %v", result.MissingSections)
	}
}

func TestGenerateDraft_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if _, err := client.GenerateDraft(context.Background(), "Сайт", "ООО Ромашка", "лендинг"); err == nil {
		t.Fatal("ожидалась ошибка провайдера")
	}
}

func TestSuggestContent_NoJSONInResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatResponse("просто текст без структуры")))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if _, err := client.SuggestContent(context.Background(), "Сайт", "текст", "scope"); err == nil {
		t.Fatal("ожидалась ошибка разбора ответа")
	}
}

func TestAvailable(t *testing.T) {
	client := NewClient("", "gpt-4o", time.Second)
	client.apiKey = ""
	if client.Available() {
		t.Error("клиент без baseURL и ключа не должен быть доступен")
	}

	client = newTestClient("http://localhost:9999")
	if !client.Available() {
		t.Error("настроенный клиент должен быть доступен")
	}
}

func TestExtractJSONFromText(t *testing.T) {
	raw := extractJSONFromText(`до {"a":1} после`)
	if raw == nil {
		t.Fatal("JSON объект не извлечён")
	}

	if extractJSONFromText("нет объекта") != nil {
		t.Error("ожидался nil для текста без JSON")
	}
}
