package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SMSConfig configures the outbound SMS transport.
type SMSConfig struct {
	AccountSID    string        `env:"SMS_ACCOUNT_SID"`
	AuthToken     string        `env:"SMS_AUTH_TOKEN"`
	FromNumber    string        `env:"SMS_FROM_NUMBER"`
	DefaultRegion string        `env:"SMS_DEFAULT_REGION"` // e.g. "+91"
	APIBase       string        `env:"SMS_API_BASE"`       // override for testing
	Timeout       time.Duration `env:"SMS_TIMEOUT"`
}

// SMSClient sends one message to one destination and returns the carrier's
// message identifier. Implementations make exactly one transport call per
// Send; retry policy, if any, belongs to the caller.
type SMSClient interface {
	Send(ctx context.Context, to, body string) (string, error)
}

const twilioAPIBase = "https://api.twilio.com/2010-04-01"

// TwilioClient is the production SMSClient against the Twilio messages
// endpoint. Construct once at startup and share across handlers; it holds no
// mutable state.
type TwilioClient struct {
	cfg  SMSConfig
	http *http.Client
}

func NewTwilioClient(cfg SMSConfig) *TwilioClient {
	if cfg.APIBase == "" {
		cfg.APIBase = twilioAPIBase
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &TwilioClient{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type twilioMessageResponse struct {
	SID     string `json:"sid"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Send posts one message and returns the carrier SID.
func (c *TwilioClient) Send(ctx context.Context, to, body string) (string, error) {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.cfg.FromNumber)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", c.cfg.APIBase, c.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var msg twilioMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		return "", fmt.Errorf("decode carrier response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if msg.Message != "" {
			return "", fmt.Errorf("carrier rejected send: %s", msg.Message)
		}
		return "", fmt.Errorf("carrier rejected send: HTTP %d", resp.StatusCode)
	}
	return msg.SID, nil
}
