package rpc

import (
	"paygate-console/internal/model"
	"paygate-console/internal/normalize"
	"paygate-console/internal/rbac"
	"paygate-console/internal/service"
	"paygate-console/internal/session"
)

// Services are the dependencies of the built-in procedures.
type Services struct {
	Auth          *service.AuthService
	Dashboard     *service.DashboardService
	Users         *service.UserService
	Disbursements *service.DisbursementService
	Sessions      *session.Manager
}

type pageInput struct {
	Page    int    `json:"page" validate:"gte=0"`
	PerPage int    `json:"per_page" validate:"gte=0,lte=100"`
	Search  string `json:"search" validate:"omitempty,max=100"`
}

func (p pageInput) request() normalize.PageRequest {
	req := normalize.PageRequest{Page: max(p.Page, 1), PerPage: p.PerPage}
	if req.PerPage == 0 {
		req.PerPage = normalize.DefaultPageSize
	}
	return req
}

type disbursementListInput struct {
	Filters model.DisbursementFilter `json:"filters"`
	Page    int                      `json:"page" validate:"gte=0"`
	PerPage int                      `json:"per_page" validate:"gte=0,lte=100"`
}

func (in *disbursementListInput) Normalize() {
	in.Filters.Normalize()
}

type retryInput struct {
	ID     string `json:"id" validate:"required,max=64"`
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

func Procedures(s Services) []Procedure {
	return []Procedure{
		{
			Name:   "auth.login",
			Kind:   Mutation,
			Public: true,
			Handle: func(c *Call) (any, error) {
				var in model.LoginRequest
				if err := c.Bind(&in); err != nil {
					return nil, err
				}
				sess, err := s.Auth.Login(c.Context, in)
				if err != nil {
					return nil, err
				}
				stored, err := s.Sessions.Create(c.Writer, sess)
				if err != nil {
					return nil, err
				}
				return s.Auth.User(stored), nil
			},
		},
		{
			Name:   "auth.logout",
			Kind:   Mutation,
			Public: true,
			Handle: func(c *Call) (any, error) {
				if c.Session != nil {
					s.Auth.Logout(c.Context, c.Session)
				}
				s.Sessions.Clear(c.Writer)
				return model.ActionResult{Success: true}, nil
			},
		},
		{
			Name: "auth.me",
			Kind: Query,
			Handle: func(c *Call) (any, error) {
				return s.Auth.User(*c.Session), nil
			},
		},
		{
			Name: "auth.changePassword",
			Kind: Mutation,
			Handle: func(c *Call) (any, error) {
				var in model.ChangePasswordRequest
				if err := c.Bind(&in); err != nil {
					return nil, err
				}
				updated, err := s.Auth.ChangePassword(c.Context, c.Session, in)
				if err != nil {
					return nil, err
				}
				stored, err := s.Sessions.Create(c.Writer, updated)
				if err != nil {
					return nil, err
				}
				return s.Auth.User(stored), nil
			},
		},
		{
			Name:        "dashboard.stats",
			Kind:        Query,
			Requirement: rbac.Any(rbac.PermissionDashboardRead),
			Handle: func(c *Call) (any, error) {
				return s.Dashboard.Stats(c.Context, c.Session)
			},
		},
		{
			Name:        "users.list",
			Kind:        Query,
			Requirement: rbac.Any(rbac.PermissionUsersRead),
			Handle: func(c *Call) (any, error) {
				var in pageInput
				if err := c.Bind(&in); err != nil {
					return nil, err
				}
				return s.Users.List(c.Context, c.Session, in.Search, in.request())
			},
		},
		{
			Name:        "users.create",
			Kind:        Mutation,
			Requirement: rbac.Any(rbac.PermissionUsersWrite),
			Handle: func(c *Call) (any, error) {
				var in model.CreateUserRequest
				if err := c.Bind(&in); err != nil {
					return nil, err
				}
				return s.Users.Create(c.Context, c.Session, in)
			},
		},
		{
			Name:        "disbursements.list",
			Kind:        Query,
			Requirement: rbac.Any(rbac.PermissionDisbursementsRead),
			Handle: func(c *Call) (any, error) {
				var in disbursementListInput
				if err := c.Bind(&in); err != nil {
					return nil, err
				}
				page := pageInput{Page: in.Page, PerPage: in.PerPage}
				return s.Disbursements.List(c.Context, c.Session, in.Filters, page.request())
			},
		},
		{
			Name:        "disbursements.retry",
			Kind:        Mutation,
			Requirement: rbac.Any(rbac.PermissionDisbursementsWrite),
			Handle: func(c *Call) (any, error) {
				var in retryInput
				if err := c.Bind(&in); err != nil {
					return nil, err
				}
				return s.Disbursements.Retry(c.Context, c.Session, in.ID, model.ActionRequest{Reason: in.Reason})
			},
		},
	}
}
