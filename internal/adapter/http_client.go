package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jdbravo/vencsync/internal/config"
	"github.com/jdbravo/vencsync/models"
)

type httpRemoteStore struct {
	client *resty.Client
}

// NewHTTPRemoteStore builds a [RemoteStore] speaking the hosted backend's
// REST protocol. The token is attached as a bearer credential to every
// request; issuing and refreshing it is the surrounding application's job.
func NewHTTPRemoteStore(cfg config.AgentRemote, token string) RemoteStore {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout)

	if token != "" {
		cli.SetAuthToken(token)
	}

	return &httpRemoteStore{client: cli}
}

func (h *httpRemoteStore) List(ctx context.Context, scope models.Scope) ([]models.Record, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		Get(recordsPath(scope))
	if err != nil {
		return nil, fmt.Errorf("list request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var records []models.Record
	if err = json.Unmarshal(resp.Body(), &records); err != nil {
		return nil, fmt.Errorf("list decode response: %w", err)
	}

	return records, nil
}

func (h *httpRemoteStore) Insert(ctx context.Context, scope models.Scope, record models.Record) (models.Record, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(record).
		Post(recordsPath(scope))
	if err != nil {
		return models.Record{}, fmt.Errorf("insert request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Record{}, err
	}

	var durable models.Record
	if err = json.Unmarshal(resp.Body(), &durable); err != nil {
		return models.Record{}, fmt.Errorf("insert decode response: %w", err)
	}

	return durable, nil
}

func (h *httpRemoteStore) Update(ctx context.Context, scope models.Scope, id string, fields models.FieldMap, updatedAt int64) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.UpdateRequest{Fields: fields, UpdatedAt: updatedAt}).
		Put(recordPath(scope, id))
	if err != nil {
		return fmt.Errorf("update request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpRemoteStore) Delete(ctx context.Context, scope models.Scope, id string) error {
	resp, err := h.client.R().
		SetContext(ctx).
		Delete(recordPath(scope, id))
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}

	return mapHTTPError(resp)
}

func recordsPath(scope models.Scope) string {
	return fmt.Sprintf("/api/scopes/%s/%s/records",
		url.PathEscape(scope.Tenant), url.PathEscape(scope.Branch))
}

func recordPath(scope models.Scope, id string) string {
	return recordsPath(scope) + "/" + url.PathEscape(id)
}
