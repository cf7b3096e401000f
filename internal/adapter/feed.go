package adapter

import (
	"bufio"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jdbravo/vencsync/internal/config"
	"github.com/jdbravo/vencsync/internal/logger"
	"github.com/jdbravo/vencsync/models"
)

type sseChangeFeed struct {
	client        *resty.Client
	retryInterval time.Duration
	logger        *logger.Logger
}

// NewSSEChangeFeed builds a [ChangeFeed] over the remote store's
// server-sent-events endpoint. The feed client carries no request timeout:
// the stream is expected to stay open indefinitely, and a dead connection is
// detected when the read loop fails and triggers a resubscribe.
func NewSSEChangeFeed(cfg config.AgentRemote, token string, log *logger.Logger) ChangeFeed {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	retry := cfg.FeedRetryInterval
	if retry <= 0 {
		retry = 5 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/"))
	if token != "" {
		cli.SetAuthToken(token)
	}

	return &sseChangeFeed{client: cli, retryInterval: retry, logger: log}
}

func (f *sseChangeFeed) Subscribe(ctx context.Context, scope models.Scope, handler func(models.ChangeEvent)) (UnsubscribeFunc, error) {
	feedCtx, cancel := context.WithCancel(ctx)

	go f.run(feedCtx, scope, handler)

	var once sync.Once
	return func() {
		once.Do(cancel)
	}, nil
}

// run keeps one streaming request open per subscription and restarts it
// after retryInterval when the connection drops.
func (f *sseChangeFeed) run(ctx context.Context, scope models.Scope, handler func(models.ChangeEvent)) {
	for {
		if err := f.stream(ctx, scope, handler); err != nil && ctx.Err() == nil {
			f.logger.Warn().
				Err(err).
				Str("scope", scope.Key()).
				Msg("change feed connection lost, will resubscribe")
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(f.retryInterval):
		}
	}
}

func (f *sseChangeFeed) stream(ctx context.Context, scope models.Scope, handler func(models.ChangeEvent)) error {
	resp, err := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		SetHeader("Accept", "text/event-stream").
		Get(recordsPath(scope) + "/feed")
	if err != nil {
		return err
	}

	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() >= 300 {
		return mapHTTPError(resp)
	}

	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}

		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" {
			continue
		}

		var event models.ChangeEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			f.logger.Warn().
				Err(err).
				Str("scope", scope.Key()).
				Msg("skipping malformed change feed event")
			continue
		}

		handler(event)
	}

	return scanner.Err()
}
