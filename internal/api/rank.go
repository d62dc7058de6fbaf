package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"wc3-stats/internal/config"
	"wc3-stats/internal/domain"
	"wc3-stats/internal/stats"

	"github.com/valyala/fasthttp"
)

// RankClient reads rank numbers from the external ranking service. Ranks are
// computed there; this service only merges them into read responses.
type RankClient struct {
	baseURL string
	client  *fasthttp.Client
}

func NewRankClient(cfg *config.Config) *RankClient {
	return &RankClient{
		baseURL: cfg.RankAPIURL,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

type rankResponse struct {
	RankNumber int    `json:"rankNumber"`
	League     string `json:"league"`
}

// LookupRank returns the player's rank for one gateway and game mode, or nil
// when the ranking service has none (or no service is configured).
func (c *RankClient) LookupRank(ctx context.Context, battleTag string, gateway domain.Gateway, gameMode domain.GameMode) (*stats.Rank, error) {
	if c.baseURL == "" {
		return nil, nil
	}

	requestURL := fmt.Sprintf("%s/api/ranks/%d/%d/%s",
		c.baseURL, int(gateway), int(gameMode), url.PathEscape(battleTag))

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, fmt.Errorf("rank lookup failed: %w", err)
		}
	} else {
		if err := c.client.Do(req, resp); err != nil {
			return nil, fmt.Errorf("rank lookup failed: %w", err)
		}
	}

	if resp.StatusCode() == fasthttp.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("rank API error: %d", resp.StatusCode())
	}

	var result rankResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode rank response: %w", err)
	}

	return &stats.Rank{
		RankNumber: result.RankNumber,
		League:     result.League,
	}, nil
}
