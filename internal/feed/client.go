package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"trade-bridge/internal/logger"
	"trade-bridge/internal/types"
)

// Client fetches trade ideas from the alert feed endpoint.
//
// The endpoint is a legacy service: it returns a JSON array whose ID
// field is sometimes a number and sometimes a quoted string, and field
// casing has drifted over the years. Parsing is therefore tolerant per
// field but strict about the id itself: a record without a usable id is
// dropped with a warning rather than guessed at.
type Client struct {
	url        string
	sourceTag  string
	httpClient *http.Client
}

// NewClient creates a feed client for the given endpoint URL.
func NewClient(url, sourceTag string, timeout time.Duration) *Client {
	return &Client{
		url:       url,
		sourceTag: sourceTag,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchBatch retrieves the current window of trade ideas. Transport or
// decode failures are returned as errors; the caller treats them the
// same as an empty batch. No ordering is guaranteed by the feed.
func (c *Client) FetchBatch(ctx context.Context) ([]types.TradeIdea, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch trade ideas: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read feed response: %w", err)
	}

	return c.parseBatch(ctx, body)
}

func (c *Client) parseBatch(ctx context.Context, body []byte) ([]types.TradeIdea, error) {
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, fmt.Errorf("feed response is not a JSON array")
	}

	var ideas []types.TradeIdea
	for _, rec := range root.Array() {
		id := firstField(rec, "ID", "id", "Id")
		if !id.Exists() || id.Int() <= 0 {
			logger.Warn(ctx, "Dropping feed record without a usable id", "record", rec.Raw)
			continue
		}
		ideas = append(ideas, types.TradeIdea{
			ID:        id.Int(), // gjson coerces "123" and 123 alike
			Symbol:    firstField(rec, "Symbol", "symbol").String(),
			Action:    firstField(rec, "BuySell", "buysell", "Action", "action").String(),
			SourceTag: c.sourceTag,
		})
	}
	return ideas, nil
}

func firstField(rec gjson.Result, names ...string) gjson.Result {
	for _, n := range names {
		if v := rec.Get(n); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}
