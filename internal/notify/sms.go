package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	dErrors "permit-gateway/pkg/domain-errors"
)

// SMSGateway sends messages through an HTTP SMS provider. The provider is a
// plain JSON-over-HTTP API authenticated with a static key.
type SMSGateway struct {
	baseURL    string
	apiKey     string
	senderID   string
	httpClient *http.Client
}

func NewSMSGateway(baseURL, apiKey, senderID string, timeout time.Duration) *SMSGateway {
	return &SMSGateway{
		baseURL:  baseURL,
		apiKey:   apiKey,
		senderID: senderID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type smsRequest struct {
	To       string `json:"to"`
	Message  string `json:"message"`
	SenderID string `json:"sender_id"`
}

func (g *SMSGateway) SendSMS(ctx context.Context, phone, message string) error {
	payload, err := json.Marshal(smsRequest{To: phone, Message: message, SenderID: g.senderID})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode sms request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/send", bytes.NewReader(payload))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to build sms request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "sms delivery failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		diag, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return dErrors.Wrap(fmt.Errorf("sms gateway %s: %s", resp.Status, diag),
			dErrors.CodeUnavailable, "sms delivery failed")
	}
	return nil
}
