package service

import (
	"context"
	"net/http"
	"strings"

	"paygate-console/internal/event"
	"paygate-console/internal/model"
	"paygate-console/internal/normalize"
	"paygate-console/internal/upstream"
)

// LogService reads the upstream audit trail, which pages from 1.
type LogService struct {
	proxy
	fields normalize.FieldMap
}

func NewLogService(api upstream.Caller, bus event.Bus) *LogService {
	return &LogService{proxy: newProxy(api, bus), fields: auditLogFields()}
}

func (s *LogService) List(ctx context.Context, sess *model.Session, filter model.AuditLogFilter, page normalize.PageRequest) (model.PaginatedResponse[model.AuditLog], error) {
	from, to, err := upstreamRange(strings.TrimSpace(filter.From), strings.TrimSpace(filter.To))
	if err != nil {
		return model.PaginatedResponse[model.AuditLog]{}, err
	}

	query := page.Query(oneBased)
	setIf(query, "action", strings.TrimSpace(filter.Action))
	setIf(query, "username", strings.TrimSpace(filter.Actor))
	setIf(query, "entityType", strings.TrimSpace(filter.Resource))
	setIf(query, "startDate", from)
	setIf(query, "endDate", to)

	return fetchPage[model.AuditLog](ctx, s.proxy, sess, s.fields, http.MethodGet, upstream.PathAuditLogs, query, nil, page, oneBased)
}
