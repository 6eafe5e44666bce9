package service

import (
	"context"
	"net/http"

	"paygate-console/internal/event"
	"paygate-console/internal/model"
	"paygate-console/internal/normalize"
	"paygate-console/internal/rbac"
	"paygate-console/internal/upstream"
)

type UserService struct {
	proxy
	fields normalize.FieldMap
}

func NewUserService(api upstream.Caller, bus event.Bus) *UserService {
	return &UserService{proxy: newProxy(api, bus), fields: userFields()}
}

func (s *UserService) List(ctx context.Context, sess *model.Session, search string, page normalize.PageRequest) (model.PaginatedResponse[model.ConsoleUser], error) {
	query := page.Query(zeroBased)
	setIf(query, "search", search)
	return fetchPage[model.ConsoleUser](ctx, s.proxy, sess, s.fields, http.MethodGet, upstream.PathUsers, query, nil, page, zeroBased)
}

func (s *UserService) Create(ctx context.Context, sess *model.Session, req model.CreateUserRequest) (model.ConsoleUser, error) {
	user, err := fetchObject[model.ConsoleUser](ctx, s.proxy, sess, s.fields, http.MethodPost, upstream.PathUsers, req.Upstream())
	if err != nil {
		return model.ConsoleUser{}, err
	}

	s.publish(mutationEvent(event.TypeUserCreated, "users", user.ID, sess, rbac.PermissionUsersRead))
	return user, nil
}
