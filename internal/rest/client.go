package rest

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/logging"
)

const defaultBaseURL = "https://discord.com/api/v10"

// Client is a small read-only Discord REST client used for the fetches
// discordgo's cached state cannot answer, currently webhook
// enumeration. It watches rate-limit headers and sleeps out a bucket
// exhaustion instead of burning the audit's budget on 429s.
type Client struct {
	http    *fasthttp.Client
	baseURL string
	token   string
}

// NewClient builds a client authenticated with the bot token.
func NewClient(token string) *Client {
	return &Client{
		http: &fasthttp.Client{
			MaxConnsPerHost:     64,
			MaxIdleConnDuration: 90 * time.Second,
			ReadTimeout:         5 * time.Second,
			WriteTimeout:        5 * time.Second,
			ReadBufferSize:      16384,
			WriteBufferSize:     16384,
			MaxResponseBodySize: 4 * 1024 * 1024,
			TLSConfig: &tls.Config{
				MinVersion:         tls.VersionTLS12,
				ClientSessionCache: tls.NewLRUClientSessionCache(64),
			},
		},
		baseURL: defaultBaseURL,
		token:   token,
	}
}

// ErrForbidden marks a fetch the bot lacks permission for.
var ErrForbidden = fmt.Errorf("rest: forbidden")

// ChannelWebhookCount returns the number of webhooks attached to a
// channel. Permission-denied responses return ErrForbidden so callers
// can substitute an unavailable marker.
func (c *Client) ChannelWebhookCount(ctx context.Context, channelID string) (int, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/channels/%s/webhooks", c.baseURL, channelID))
	if err != nil {
		return 0, err
	}

	var hooks []json.RawMessage
	if err := json.Unmarshal(body, &hooks); err != nil {
		return 0, fmt.Errorf("rest: decode webhook list: %w", err)
	}
	return len(hooks), nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Authorization", "Bot "+c.token)
	req.Header.Set("User-Agent", "PrivEscCord (guild security audit)")

	for attempt := 0; attempt < 2; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		deadline := time.Now().Add(5 * time.Second)
		if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
			deadline = d
		}
		if err := c.http.DoDeadline(req, resp, deadline); err != nil {
			return nil, fmt.Errorf("rest: GET %s: %w", url, err)
		}

		switch resp.StatusCode() {
		case fasthttp.StatusOK:
			out := make([]byte, len(resp.Body()))
			copy(out, resp.Body())
			return out, nil
		case fasthttp.StatusForbidden:
			return nil, ErrForbidden
		case fasthttp.StatusTooManyRequests:
			wait := retryAfter(resp)
			logging.Warn("Rate limited on %s, waiting %s", url, wait)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		default:
			return nil, fmt.Errorf("rest: GET %s: status %d", url, resp.StatusCode())
		}
	}

	return nil, fmt.Errorf("rest: GET %s: rate limit not cleared", url)
}

func retryAfter(resp *fasthttp.Response) time.Duration {
	raw := string(resp.Header.Peek("Retry-After"))
	if raw == "" {
		return time.Second
	}
	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil || secs <= 0 {
		return time.Second
	}
	return time.Duration(secs * float64(time.Second))
}
