package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/ignatzorin/proposalpro-backend/internal/goroutine"
)

// ErrHubStopped возвращается при попытке рассылки после остановки хаба.
var ErrHubStopped = errors.New("ws: хаб остановлен")

// Hub рассылает события дашборда всем подключённым клиентам. В отличие от
// адресных уведомлений лента действий общая, поэтому клиенты не группируются
// по пользователям.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
}

// NewHub создаёт новый хаб.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 32),
		done:       make(chan struct{}),
	}
}

// Run запускает главный цикл хаба.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case payload := <-h.broadcast:
			h.send(payload)
		case <-h.done:
			return
		}
	}
}

// Stop останавливает главный цикл хаба.
func (h *Hub) Stop() {
	close(h.done)
}

// Register добавляет клиента. После остановки хаба вызов ничего не делает.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister удаляет клиента. После остановки хаба вызов ничего не делает.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast отправляет событие всем подключённым клиентам. Поле "type"
// содержит имя события, "data" — полезную нагрузку.
func (h *Hub) Broadcast(event string, data any) error {
	payload := map[string]any{
		"type": event,
		"data": data,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ws: не удалось сериализовать сообщение: %w", err)
	}

	// Проверка до отправки: после Stop буферизованный канал и закрытый done
	// готовы одновременно, а select выбирает случайно.
	select {
	case <-h.done:
		return ErrHubStopped
	default:
	}

	select {
	case h.broadcast <- raw:
		return nil
	case <-h.done:
		return ErrHubStopped
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

func (h *Hub) send(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			// Медленный клиент отключается, чтобы не блокировать рассылку.
			goroutine.SafeGo(client.Close)
		}
	}
}
