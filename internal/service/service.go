package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"paygate-console/internal/event"
	"paygate-console/internal/model"
	"paygate-console/internal/normalize"
	"paygate-console/internal/rbac"
	"paygate-console/internal/upstream"
	"paygate-console/internal/util"
	"paygate-console/pkg/apierror"
)

// Upstream page bases. Audit logs are the one 1-based resource.
const (
	zeroBased = 0
	oneBased  = 1
)

var listShapes = []normalize.Shape{
	normalize.ShapeDataArray,
	normalize.ShapeNestedData,
	normalize.ShapePage,
	normalize.ShapeArray,
}

var numericID = regexp.MustCompile(`^[0-9]+$`)

// ExportFile is an upstream export body ready to be streamed to the browser.
// The caller must close Body.
type ExportFile struct {
	Body          io.ReadCloser
	ContentType   string
	Filename      string
	ContentLength int64
}

type proxy struct {
	api upstream.Caller
	bus event.Bus
	now func() time.Time
}

func newProxy(api upstream.Caller, bus event.Bus) proxy {
	return proxy{api: api, bus: bus, now: time.Now}
}

func (p proxy) call(ctx context.Context, sess *model.Session, method string, path string, query url.Values, body any) (json.RawMessage, error) {
	if sess == nil || sess.Token == "" {
		return nil, apierror.Unauthorized()
	}
	return p.api.DoJSON(ctx, upstream.Request{
		Method: method,
		Path:   path,
		Query:  query,
		Body:   body,
		Token:  sess.Token,
	})
}

func (p proxy) publish(e event.Event) {
	if p.bus != nil {
		p.bus.Publish(e)
	}
}

func fetchPage[T any](ctx context.Context, p proxy, sess *model.Session, fields normalize.FieldMap, method string, path string, query url.Values, body any, page normalize.PageRequest, base int) (model.PaginatedResponse[T], error) {
	raw, err := p.call(ctx, sess, method, path, query, body)
	if err != nil {
		return model.PaginatedResponse[T]{}, err
	}

	list, err := normalize.ExtractList(fields.Resource, raw, listShapes...)
	if err != nil {
		return model.PaginatedResponse[T]{}, err
	}

	items, err := normalize.DecodeAll[T](fields, list.Items)
	if err != nil {
		return model.PaginatedResponse[T]{}, err
	}

	return normalize.Paginate(items, list.Meta, page, base), nil
}

func fetchList[T any](ctx context.Context, p proxy, sess *model.Session, fields normalize.FieldMap, path string, query url.Values) (model.ListResponse[T], error) {
	raw, err := p.call(ctx, sess, http.MethodGet, path, query, nil)
	if err != nil {
		return model.ListResponse[T]{}, err
	}

	list, err := normalize.ExtractList(fields.Resource, raw, listShapes...)
	if err != nil {
		return model.ListResponse[T]{}, err
	}

	items, err := normalize.DecodeAll[T](fields, list.Items)
	if err != nil {
		return model.ListResponse[T]{}, err
	}

	return model.ListResponse[T]{Data: items}, nil
}

func fetchObject[T any](ctx context.Context, p proxy, sess *model.Session, fields normalize.FieldMap, method string, path string, body any) (T, error) {
	var zero T

	raw, err := p.call(ctx, sess, method, path, nil, body)
	if err != nil {
		return zero, err
	}

	obj, err := normalize.ExtractObject(fields.Resource, raw)
	if err != nil {
		return zero, err
	}

	return normalize.Decode[T](fields, obj)
}

// action forwards a mutation whose response body is not reshaped.
func action(ctx context.Context, p proxy, sess *model.Session, method string, path string, body any) (model.ActionResult, error) {
	raw, err := p.call(ctx, sess, method, path, nil, body)
	if err != nil {
		return model.ActionResult{}, err
	}

	result := model.ActionResult{Success: true}
	if len(raw) == 0 {
		return result, nil
	}

	obj, err := normalize.ExtractObject("action", raw)
	if err != nil {
		slog.DebugContext(ctx, "unexpected upstream action response", "method", method, "path", path, "error", err)
		return result, nil
	}
	if msg, ok := obj["message"].(string); ok {
		result.Message = msg
	}
	result.Data = obj
	return result, nil
}

func (p proxy) export(ctx context.Context, sess *model.Session, resource string, path string, formatName string, filters map[string]any) (*ExportFile, error) {
	if sess == nil || sess.Token == "" {
		return nil, apierror.Unauthorized()
	}

	format, err := util.LookupExportFormat(formatName)
	if err != nil {
		return nil, apierror.BadRequest("Unsupported export format", formatName)
	}

	filename, err := util.ExportFilename(resource, format, p.now())
	if err != nil {
		return nil, err
	}

	body := map[string]any{"format": format.Upstream}
	for key, value := range filters {
		body[key] = value
	}

	resp, err := p.api.Stream(ctx, upstream.Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   body,
		Token:  sess.Token,
		Accept: format.ContentType + ", application/octet-stream",
	})
	if err != nil {
		return nil, err
	}

	return &ExportFile{
		Body:          resp.Body,
		ContentType:   format.ContentType,
		Filename:      filename,
		ContentLength: resp.ContentLength,
	}, nil
}

func requireNumericID(id string) error {
	if !numericID.MatchString(id) {
		return apierror.BadRequest(fmt.Sprintf("Transaction id must be numeric, got %q", id), "id")
	}
	return nil
}

func requireID(name string, value string) error {
	if value == "" {
		return apierror.BadRequest(name+" is required", name)
	}
	return nil
}

// upstreamRange converts browser date filters to upstream LocalDateTime bounds.
func upstreamRange(start string, end string) (string, string, error) {
	from, err := normalize.LocalDateTime(start, false)
	if err != nil {
		return "", "", apierror.BadRequest("Invalid start date", start)
	}
	to, err := normalize.LocalDateTime(end, true)
	if err != nil {
		return "", "", apierror.BadRequest("Invalid end date", end)
	}
	return from, to, nil
}

func setIf(values url.Values, key string, value string) {
	if value != "" {
		values.Set(key, value)
	}
}

func putIf(body map[string]any, key string, value string) {
	if value != "" {
		body[key] = value
	}
}

func actorID(sess *model.Session) string {
	if sess == nil {
		return ""
	}
	return sess.UserID
}

// mutationEvent builds the invalidation event for a change to one resource
// instance. Lists are always invalidated along with the detail key.
func mutationEvent(t event.Type, resource string, id string, sess *model.Session, perm rbac.Permission) event.Event {
	e := event.New(t, resource, id, actorID(sess)).
		Invalidate(resource, "list").
		RequirePermission(string(perm))
	if id != "" {
		e = e.Invalidate(resource, "detail", id)
	}
	return e
}
