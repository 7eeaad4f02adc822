package searchindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/psds-microservice/helpdesk/internal/model"
)

// Client отправляет тикеты в search-service для индексации (best-effort, не блокирует API).
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient возвращает клиент. Если baseURL пустой, все вызовы — no-op.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

// IndexTicketPayload — тело POST /search/index/ticket.
type IndexTicketPayload struct {
	TicketID    int64  `json:"ticket_id"`
	FirstName   string `json:"first_name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func NewIndexTicketPayload(t *model.Ticket) IndexTicketPayload {
	return IndexTicketPayload{
		TicketID:    int64(t.ID),
		FirstName:   t.FirstName,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   model.Timestamp(t.CreatedAt).String(),
		UpdatedAt:   model.Timestamp(t.UpdatedAt).String(),
	}
}

// IndexTicket отправляет тикет в search-service.
func (c *Client) IndexTicket(ctx context.Context, t *model.Ticket) {
	if c.baseURL == "" {
		return
	}
	body, err := json.Marshal(NewIndexTicketPayload(t))
	if err != nil {
		log.Printf("searchindex: marshal: %v", err)
		return
	}
	c.do(ctx, http.MethodPost, c.baseURL+"/search/index/ticket", body, t.ID)
}

// RemoveTicket удаляет тикет из индекса.
func (c *Client) RemoveTicket(ctx context.Context, id uint64) {
	if c.baseURL == "" {
		return
	}
	c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/search/index/ticket/%d", c.baseURL, id), nil, id)
}

func (c *Client) do(ctx context.Context, method, url string, body []byte, id uint64) {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		log.Printf("searchindex: new request: %v", err)
		return
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("searchindex: request: %v", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		log.Printf("searchindex: %s status %d for ticket %d", method, resp.StatusCode, id)
	}
}
