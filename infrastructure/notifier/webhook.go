package notifier

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/domain"
)

const defaultWebhookTimeout = 10 * time.Second

// WebhookNotifier envia o resumo via HTTP POST em JSON
type WebhookNotifier struct {
	httpClient *http.Client
	url        string
}

func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	if timeout <= 0 {
		timeout = defaultWebhookTimeout
	}
	return &WebhookNotifier{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		url: url,
	}
}

func (n *WebhookNotifier) Notify(ctx context.Context, notification domain.TaskNotification) error {
	body, err := jsoniter.Marshal(notification)
	if err != nil {
		return fmt.Errorf("erro ao serializar notificação: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("erro ao criar a requisição: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("erro ao executar a requisição: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook respondeu com status: %s", resp.Status)
	}

	return nil
}
