// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultTimeout = 10 * time.Second

// Notification is the JSON body posted to the webhook after a quote
// has been published.
type Notification struct {
	QuoteNumber string    `json:"quote_number"`
	SheetURL    string    `json:"sheet_url"`
	Timestamp   time.Time `json:"timestamp"`
}

// WebhookNotifier posts Notifications to a fixed URL. An empty URL
// disables notification entirely; Notify becomes a no-op.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// Option configures a WebhookNotifier.
type Option func(*WebhookNotifier)

// WithHTTPClient replaces the default client, mainly for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(n *WebhookNotifier) {
		n.client = client
	}
}

// WithTimeout sets the request timeout on the default client.
func WithTimeout(timeout time.Duration) Option {
	return func(n *WebhookNotifier) {
		n.client.Timeout = timeout
	}
}

func NewWebhookNotifier(url string, opts ...Option) *WebhookNotifier {
	notifier := &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(notifier)
	}
	return notifier
}

// Enabled reports whether a webhook URL was configured.
func (n *WebhookNotifier) Enabled() bool {
	return n.url != ""
}

// Notify posts the notification. Any non-2xx response is an error.
func (n *WebhookNotifier) Notify(ctx context.Context, quoteNumber, sheetURL string) error {
	if !n.Enabled() {
		return nil
	}

	body, err := json.Marshal(Notification{
		QuoteNumber: quoteNumber,
		SheetURL:    sheetURL,
		Timestamp:   time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encoding notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
