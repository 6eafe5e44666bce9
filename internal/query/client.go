package query

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"paygate-console/internal/event"
	"paygate-console/internal/model"
	"paygate-console/internal/normalize"
	"paygate-console/internal/validation"
	"paygate-console/pkg/apierror"
)

const maxResponseBody = 8 << 20

// Client reads the console's own /api routes on behalf of one signed-in
// browser session and caches the validated results.
type Client struct {
	baseURL  string
	http     *http.Client
	cookie   *http.Cookie
	cache    *Cache
	validate *validation.Validator
	group    singleflight.Group
}

func NewClient(baseURL string, cookie *http.Cookie, cache *Cache, validate *validation.Validator, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if cache == nil {
		cache = NewCache(nil)
	}
	if validate == nil {
		validate = validation.New()
	}
	return &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		http:     httpClient,
		cookie:   cookie,
		cache:    cache,
		validate: validate,
	}
}

func (c *Client) Cache() *Cache {
	return c.cache
}

// Fetch returns the value under key, fetching path when there is no fresh
// entry. Concurrent fetches of one key share a single request; the shared
// request is detached from any one caller, and each caller stops waiting
// when its own ctx is done.
func Fetch[T any](ctx context.Context, c *Client, key Key, path string, query url.Values) (T, error) {
	if v, fresh, ok := c.cache.Get(key); ok && fresh {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	results := c.group.DoChan(key.String(), func() (any, error) {
		var out T
		if err := c.do(context.WithoutCancel(ctx), http.MethodGet, path, query, nil, &out); err != nil {
			return nil, err
		}
		if err := c.validate.Check(out); err != nil {
			return nil, fmt.Errorf("response for %s failed validation: %w", path, err)
		}
		c.cache.Set(key, out)
		return out, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-results:
		if res.Err != nil {
			return zero, res.Err
		}
		if res.Shared {
			slog.DebugContext(ctx, "query fetch shared", "key", key.String())
		}
		return res.Val.(T), nil
	}
}

// Mutate sends a write and, on success, invalidates every key in
// invalidate.
func Mutate[T any](ctx context.Context, c *Client, method string, path string, body any, invalidate ...Key) (T, error) {
	var out T
	if err := c.do(ctx, method, path, nil, body, &out); err != nil {
		return out, err
	}
	for _, key := range invalidate {
		c.cache.Invalidate(key)
	}
	return out, nil
}

// ApplyInvalidation marks the keys carried by a server-pushed event stale.
func (c *Client) ApplyInvalidation(e event.Event) int {
	n := 0
	for _, key := range e.Keys {
		n += c.cache.Invalidate(Key(key))
	}
	return n
}

func (c *Client) Transactions(ctx context.Context, filters Params, page normalize.PageRequest) (model.PaginatedResponse[model.Transaction], error) {
	params := filters.withPage(page)
	return Fetch[model.PaginatedResponse[model.Transaction]](ctx, c, Keys.Transactions.List(params), "/api/transactions", params.values())
}

// PrefetchTransactions warms the pages after page for the same filters.
func (c *Client) PrefetchTransactions(ctx context.Context, p *Prefetcher, filters Params, page normalize.PageRequest, totalPages int) {
	p.Prefetch(ctx, fmt.Sprintf("%s|%d", filters.canonical(), page.PerPage), page.Page, totalPages, func(ctx context.Context, next int) error {
		_, err := c.Transactions(ctx, filters, normalize.PageRequest{Page: next, PerPage: page.PerPage})
		return err
	})
}

func (c *Client) Transaction(ctx context.Context, id string) (model.Transaction, error) {
	return Fetch[model.Transaction](ctx, c, Keys.Transactions.Detail(id), "/api/transactions/"+url.PathEscape(id), nil)
}

func (c *Client) CanUpdateTransaction(ctx context.Context, id string) (model.CanUpdateResult, error) {
	return Fetch[model.CanUpdateResult](ctx, c, Keys.Transactions.Sub("can-update", id), "/api/transactions/"+url.PathEscape(id)+"/can-update", nil)
}

func (c *Client) CancelTransaction(ctx context.Context, id string, reason string) (model.ActionResult, error) {
	return c.transactionAction(ctx, id, "cancel", reason)
}

func (c *Client) CompleteTransaction(ctx context.Context, id string, reason string) (model.ActionResult, error) {
	return c.transactionAction(ctx, id, "complete", reason)
}

func (c *Client) transactionAction(ctx context.Context, id string, verb string, reason string) (model.ActionResult, error) {
	return Mutate[model.ActionResult](ctx, c, http.MethodPost,
		"/api/transactions/"+url.PathEscape(id)+"/"+verb,
		model.ActionRequest{Reason: reason},
		Keys.Transactions.Lists(),
		Keys.Transactions.Detail(id),
		Keys.Transactions.Sub("can-update", id),
		Keys.Dashboard.All(),
	)
}

func (c *Client) Disbursements(ctx context.Context, filters Params, page normalize.PageRequest) (model.PaginatedResponse[model.Disbursement], error) {
	params := filters.withPage(page)
	return Fetch[model.PaginatedResponse[model.Disbursement]](ctx, c, Keys.Disbursements.List(params), "/api/disbursements", params.values())
}

func (c *Client) Disbursement(ctx context.Context, id string) (model.Disbursement, error) {
	return Fetch[model.Disbursement](ctx, c, Keys.Disbursements.Detail(id), "/api/disbursements/"+url.PathEscape(id), nil)
}

func (c *Client) RetryDisbursement(ctx context.Context, id string, reason string) (model.ActionResult, error) {
	return c.disbursementAction(ctx, id, "retry", reason)
}

func (c *Client) CancelDisbursement(ctx context.Context, id string, reason string) (model.ActionResult, error) {
	return c.disbursementAction(ctx, id, "cancel", reason)
}

func (c *Client) disbursementAction(ctx context.Context, id string, verb string, reason string) (model.ActionResult, error) {
	return Mutate[model.ActionResult](ctx, c, http.MethodPost,
		"/api/disbursements/"+url.PathEscape(id)+"/"+verb,
		model.ActionRequest{Reason: reason},
		Keys.Disbursements.Lists(),
		Keys.Disbursements.Detail(id),
		Key{Keys.Disbursements.Resource, "volume"},
		Keys.Dashboard.All(),
	)
}

func (c *Client) Merchants(ctx context.Context, filters Params, page normalize.PageRequest) (model.PaginatedResponse[model.Merchant], error) {
	params := filters.withPage(page)
	return Fetch[model.PaginatedResponse[model.Merchant]](ctx, c, Keys.Merchants.List(params), "/api/merchants", params.values())
}

func (c *Client) Merchant(ctx context.Context, uid string) (model.Merchant, error) {
	return Fetch[model.Merchant](ctx, c, Keys.Merchants.Detail(uid), "/api/merchants/"+url.PathEscape(uid), nil)
}

func (c *Client) CreateMerchant(ctx context.Context, req model.CreateMerchantRequest) (model.Merchant, error) {
	return Mutate[model.Merchant](ctx, c, http.MethodPost, "/api/merchants", req, Keys.Merchants.Lists())
}

func (c *Client) Roles(ctx context.Context, page normalize.PageRequest) (model.PaginatedResponse[model.Role], error) {
	params := Params{}.withPage(page)
	return Fetch[model.PaginatedResponse[model.Role]](ctx, c, Keys.Roles.List(params), "/api/roles", params.values())
}

type rpcResult[T any] struct {
	Result struct {
		Data T `json:"data"`
	} `json:"result"`
}

// DashboardStats reads the summary through the RPC transport.
func (c *Client) DashboardStats(ctx context.Context) (model.DashboardStats, error) {
	res, err := Fetch[rpcResult[model.DashboardStats]](ctx, c, Keys.Dashboard.All(), "/api/trpc/dashboard.stats", nil)
	return res.Result.Data, err
}

func (c *Client) do(ctx context.Context, method string, path string, query url.Values, body any, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return responseError(resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func responseError(status int, raw []byte) error {
	var body model.ErrorResponse
	if err := json.Unmarshal(raw, &body); err != nil || body.Error == "" {
		body = rpcError(raw)
	}
	if body.Error == "" {
		body.Error = http.StatusText(status)
	}
	if body.Code == "" {
		body.Code = "HTTP_ERROR"
	}
	return apierror.New(body.Code, body.Error, body.Details, status)
}

func rpcError(raw []byte) model.ErrorResponse {
	var env struct {
		Error struct {
			Message string `json:"message"`
			Data    struct {
				Code    string `json:"code"`
				Details any    `json:"details"`
			} `json:"data"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return model.ErrorResponse{}
	}
	return model.ErrorResponse{Error: env.Error.Message, Code: env.Error.Data.Code, Details: env.Error.Data.Details}
}

// IsUnauthorized reports whether err means the session is gone and the
// browser should go back to the login page.
func IsUnauthorized(err error) bool {
	var apiErr *apierror.APIError
	return errors.As(err, &apiErr) && apiErr.HTTPStatus == http.StatusUnauthorized
}
