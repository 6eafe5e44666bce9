package service

import (
	"context"
	"net/http"

	"paygate-console/internal/event"
	"paygate-console/internal/model"
	"paygate-console/internal/normalize"
	"paygate-console/internal/upstream"
)

type DashboardService struct {
	proxy
	fields normalize.FieldMap
}

func NewDashboardService(api upstream.Caller, bus event.Bus, currency string) *DashboardService {
	return &DashboardService{proxy: newProxy(api, bus), fields: dashboardFields(currency)}
}

func (s *DashboardService) Stats(ctx context.Context, sess *model.Session) (model.DashboardStats, error) {
	return fetchObject[model.DashboardStats](ctx, s.proxy, sess, s.fields, http.MethodGet, upstream.PathDashboardStats, nil)
}
