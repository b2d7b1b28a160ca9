package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"
)

// PushProvider is the capability surface the dispatcher uses to show a push
// notification. Implementations may be disabled; callers check Enabled.
type PushProvider interface {
	Enabled() bool
	Show(ctx context.Context, title, body string) error
}

const oneSignalEndpoint = "https://onesignal.com/api/v1/notifications"

// OneSignalProvider sends push notifications through OneSignal's REST API.
type OneSignalProvider struct {
	appID    string
	apiKey   string
	endpoint string
	client   *http.Client
}

var (
	pushOnce     sync.Once
	pushProvider *OneSignalProvider
)

// PushFromEnv returns the process-wide push provider, initialized exactly
// once from ONESIGNAL_APP_ID / ONESIGNAL_API_KEY. A missing app id disables
// the provider without failing startup.
func PushFromEnv() *OneSignalProvider {
	pushOnce.Do(func() {
		pushProvider = NewOneSignalProvider(os.Getenv("ONESIGNAL_APP_ID"), os.Getenv("ONESIGNAL_API_KEY"))
		if !pushProvider.Enabled() {
			log.Println("ONESIGNAL_APP_ID not set, push notifications disabled")
		}
	})
	return pushProvider
}

func NewOneSignalProvider(appID, apiKey string) *OneSignalProvider {
	return &OneSignalProvider{
		appID:    appID,
		apiKey:   apiKey,
		endpoint: oneSignalEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *OneSignalProvider) Enabled() bool {
	return p.appID != ""
}

// Show pushes a notification to all subscribed devices. A disabled provider
// is a no-op.
func (p *OneSignalProvider) Show(ctx context.Context, title, body string) error {
	if !p.Enabled() {
		return nil
	}

	payload := map[string]interface{}{
		"app_id":            p.appID,
		"headings":          map[string]string{"en": title},
		"contents":          map[string]string{"en": body},
		"included_segments": []string{"Subscribed Users"},
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error encoding push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("error building push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Basic "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send push notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("push provider returned status %d", resp.StatusCode)
	}
	return nil
}
