package service

import (
	"context"
	"net/http"

	"paygate-console/internal/event"
	"paygate-console/internal/model"
	"paygate-console/internal/normalize"
	"paygate-console/internal/upstream"
)

type RoleService struct {
	proxy
	fields normalize.FieldMap
}

func NewRoleService(api upstream.Caller, bus event.Bus) *RoleService {
	return &RoleService{proxy: newProxy(api, bus), fields: roleFields()}
}

func (s *RoleService) List(ctx context.Context, sess *model.Session, page normalize.PageRequest) (model.PaginatedResponse[model.Role], error) {
	return fetchPage[model.Role](ctx, s.proxy, sess, s.fields, http.MethodGet, upstream.PathRoles, page.Query(zeroBased), nil, page, zeroBased)
}

func (s *RoleService) Get(ctx context.Context, sess *model.Session, id string) (model.Role, error) {
	if err := requireID("id", id); err != nil {
		return model.Role{}, err
	}
	return fetchObject[model.Role](ctx, s.proxy, sess, s.fields, http.MethodGet, upstream.Path(upstream.PathRole, id), nil)
}
