// Package whatsapp sends template and freeform messages through the
// WhatsApp Cloud API. Without credentials it degrades to a local mock so
// the reminder sweep and broadcasts run end to end offline.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/policydesk/polgw/internal/config"
	"github.com/policydesk/polgw/internal/logger"
	"github.com/policydesk/polgw/internal/metrics"
	"github.com/policydesk/polgw/internal/model"
)

// Messenger is the outbound-message collaborator consumed by the
// reminder sweep and the broadcast engine. Implementations must not
// return transport errors; failures surface in the result status.
type Messenger interface {
	Send(ctx context.Context, phone string, msg model.OutboundMessage) model.DeliveryResult
}

type Client struct {
	token         string
	phoneNumberID string
	baseURL       string
	client        *http.Client
	br            *MicroBreaker
}

var _ Messenger = (*Client)(nil)

func NewClient(cfg config.WhatsAppConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	threshold := cfg.Breaker.FailThreshold
	if threshold <= 0 {
		threshold = 3
	}
	openFor := cfg.Breaker.OpenFor
	if openFor <= 0 {
		openFor = 15 * time.Second
	}

	return &Client{
		token:         cfg.Token,
		phoneNumberID: cfg.PhoneNumberID,
		baseURL:       cfg.BaseURL,
		client:        &http.Client{Timeout: timeout},
		br:            NewMicroBreaker(threshold, openFor),
	}
}

// Send dispatches one message. Missing credentials short-circuit to
// mock_sent; an open breaker short-circuits to failed.
func (c *Client) Send(ctx context.Context, phone string, msg model.OutboundMessage) model.DeliveryResult {
	res := c.send(ctx, phone, msg)
	metrics.MessagesTotal.WithLabelValues(string(msg.Kind), res.Status.String()).Inc()
	return res
}

func (c *Client) send(ctx context.Context, phone string, msg model.OutboundMessage) model.DeliveryResult {
	if c.token == "" || c.phoneNumberID == "" {
		logger.Log.Info("mock whatsapp send",
			zap.String("to", phone),
			zap.String("kind", string(msg.Kind)),
			zap.String("template", msg.TemplateName),
			zap.Strings("params", msg.Params),
			zap.String("body", msg.Body),
		)
		return model.DeliveryResult{Status: model.StatusMockSent}
	}

	if !c.br.TryAcquire() {
		return model.DeliveryResult{Status: model.StatusFailed, Detail: "provider temporarily unavailable"}
	}

	if err := c.post(ctx, phone, msg); err != nil {
		c.br.OnFailure()
		logger.Log.Error("whatsapp api error", zap.String("to", phone), zap.Error(err))
		return model.DeliveryResult{Status: model.StatusFailed, Detail: err.Error()}
	}

	c.br.OnSuccess()
	return model.DeliveryResult{Status: model.StatusSent}
}

func (c *Client) post(ctx context.Context, phone string, msg model.OutboundMessage) error {
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                phone,
	}

	if msg.Kind == model.KindTemplate {
		params := make([]map[string]string, 0, len(msg.Params))
		for _, p := range msg.Params {
			params = append(params, map[string]string{"type": "text", "text": p})
		}
		payload["type"] = "template"
		payload["template"] = map[string]any{
			"name":     msg.TemplateName,
			"language": map[string]string{"code": "en_US"},
			"components": []map[string]any{
				{"type": "body", "parameters": params},
			},
		}
	} else {
		payload["type"] = "text"
		payload["text"] = map[string]string{"body": msg.Body}
	}

	b, _ := json.Marshal(payload)
	url := c.baseURL + "/" + c.phoneNumberID + "/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("whatsapp status=%d body=%s", res.StatusCode, string(body))
	}

	return nil
}
