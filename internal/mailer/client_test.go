package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSend(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3/mail/send" {
			t.Errorf("неожиданный путь: %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("неожиданный заголовок Authorization: %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("не удалось разобрать тело запроса: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL, "noreply@proposalpro.ru", "ProposalPro")
	err := client.Send(context.Background(), Message{
		To:      "client@example.com",
		Subject: "Новое предложение",
		Text:    "Вам отправлено предложение",
	})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if captured["subject"] != "Новое предложение" {
		t.Errorf("subject = %v", captured["subject"])
	}
	from, _ := captured["from"].(map[string]any)
	if from["email"] != "noreply@proposalpro.ru" {
		t.Errorf("from = %v", from)
	}
}

func TestSend_Disabled(t *testing.T) {
	client := NewClient("", "", "noreply@proposalpro.ru", "ProposalPro")
	if client.Enabled() {
		t.Error("клиент без ключа должен быть выключен")
	}

	// Выключенный клиент молча пропускает отправку.
	if err := client.Send(context.Background(), Message{To: "x@example.com", Text: "hi"}); err != nil {
		t.Errorf("неожиданная ошибка: %v", err)
	}
}

func TestSend_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer server.Close()

	client := NewClient("bad-key", server.URL, "noreply@proposalpro.ru", "ProposalPro")
	err := client.Send(context.Background(), Message{To: "x@example.com", Subject: "s", Text: "t"})
	if err == nil {
		t.Fatal("ожидалась ошибка отправки")
	}
}

func TestSend_EmptyRecipient(t *testing.T) {
	client := NewClient("key", "http://localhost:9", "noreply@proposalpro.ru", "ProposalPro")
	if err := client.Send(context.Background(), Message{Subject: "s", Text: "t"}); err == nil {
		t.Fatal("ожидалась ошибка пустого получателя")
	}
}
