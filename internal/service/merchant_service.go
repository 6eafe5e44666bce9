package service

import (
	"context"
	"net/http"
	"net/url"

	"paygate-console/internal/event"
	"paygate-console/internal/model"
	"paygate-console/internal/normalize"
	"paygate-console/internal/rbac"
	"paygate-console/internal/upstream"
	"paygate-console/pkg/apierror"
)

const resourceMerchants = "merchants"

type MerchantService struct {
	proxy
	merchants    normalize.FieldMap
	lookups      normalize.FieldMap
	bankAccounts normalize.FieldMap
	apiKeys      normalize.FieldMap
	activities   normalize.FieldMap
}

func NewMerchantService(api upstream.Caller, bus event.Bus, currency string) *MerchantService {
	return &MerchantService{
		proxy:        newProxy(api, bus),
		merchants:    merchantFields(currency),
		lookups:      merchantLookupFields(),
		bankAccounts: bankAccountFields(currency),
		apiKeys:      apiKeyFields(),
		activities:   merchantActivityFields(),
	}
}

func (s *MerchantService) List(ctx context.Context, sess *model.Session, filter model.MerchantFilter, page normalize.PageRequest) (model.PaginatedResponse[model.Merchant], error) {
	query := page.Query(zeroBased)
	setIf(query, "search", filter.Search)
	setIf(query, "status", filter.Status)
	return fetchPage[model.Merchant](ctx, s.proxy, sess, s.merchants, http.MethodGet, upstream.PathMerchants, query, nil, page, zeroBased)
}

func (s *MerchantService) Create(ctx context.Context, sess *model.Session, req model.CreateMerchantRequest) (model.Merchant, error) {
	merchant, err := fetchObject[model.Merchant](ctx, s.proxy, sess, s.merchants, http.MethodPost, upstream.PathMerchants, req.Upstream())
	if err != nil {
		return model.Merchant{}, err
	}

	s.publish(mutationEvent(event.TypeMerchantCreated, resourceMerchants, merchant.UID, sess, rbac.PermissionMerchantsRead))
	return merchant, nil
}

// Lookup returns id/name pairs for merchant pickers.
func (s *MerchantService) Lookup(ctx context.Context, sess *model.Session, term string) (model.ListResponse[model.MerchantLookup], error) {
	query := url.Values{}
	setIf(query, "q", term)
	return fetchList[model.MerchantLookup](ctx, s.proxy, sess, s.lookups, upstream.PathMerchantLookup, query)
}

func (s *MerchantService) Get(ctx context.Context, sess *model.Session, uid string) (model.Merchant, error) {
	if err := requireID("uid", uid); err != nil {
		return model.Merchant{}, err
	}
	return fetchObject[model.Merchant](ctx, s.proxy, sess, s.merchants, http.MethodGet, upstream.Path(upstream.PathMerchant, uid), nil)
}

func (s *MerchantService) Update(ctx context.Context, sess *model.Session, uid string, req model.UpdateMerchantRequest) (model.Merchant, error) {
	if err := requireID("uid", uid); err != nil {
		return model.Merchant{}, err
	}

	merchant, err := fetchObject[model.Merchant](ctx, s.proxy, sess, s.merchants, http.MethodPatch, upstream.Path(upstream.PathMerchant, uid), req.Upstream())
	if err != nil {
		return model.Merchant{}, err
	}

	s.publish(mutationEvent(event.TypeMerchantUpdated, resourceMerchants, uid, sess, rbac.PermissionMerchantsRead))
	return merchant, nil
}

func (s *MerchantService) Delete(ctx context.Context, sess *model.Session, uid string) (model.ActionResult, error) {
	if err := requireID("uid", uid); err != nil {
		return model.ActionResult{}, err
	}

	result, err := action(ctx, s.proxy, sess, http.MethodDelete, upstream.Path(upstream.PathMerchant, uid), nil)
	if err != nil {
		return model.ActionResult{}, err
	}

	s.publish(mutationEvent(event.TypeMerchantDeleted, resourceMerchants, uid, sess, rbac.PermissionMerchantsRead))
	return result, nil
}

func (s *MerchantService) BankAccounts(ctx context.Context, sess *model.Session, uid string) (model.ListResponse[model.BankAccount], error) {
	if err := requireID("uid", uid); err != nil {
		return model.ListResponse[model.BankAccount]{}, err
	}
	return fetchList[model.BankAccount](ctx, s.proxy, sess, s.bankAccounts, upstream.Path(upstream.PathMerchantBankAccounts, uid), nil)
}

func (s *MerchantService) CreateBankAccount(ctx context.Context, sess *model.Session, uid string, req model.CreateBankAccountRequest) (model.BankAccount, error) {
	if err := requireID("uid", uid); err != nil {
		return model.BankAccount{}, err
	}

	account, err := fetchObject[model.BankAccount](ctx, s.proxy, sess, s.bankAccounts, http.MethodPost, upstream.Path(upstream.PathMerchantBankAccounts, uid), req.Upstream())
	if err != nil {
		return model.BankAccount{}, err
	}

	s.publish(mutationEvent(event.TypeBankAccountCreated, resourceMerchants, uid, sess, rbac.PermissionMerchantsRead).
		Invalidate(resourceMerchants, "bank-accounts", uid))
	return account, nil
}

func (s *MerchantService) APIKeys(ctx context.Context, sess *model.Session, uid string) (model.ListResponse[model.APIKey], error) {
	if err := requireID("uid", uid); err != nil {
		return model.ListResponse[model.APIKey]{}, err
	}
	return fetchList[model.APIKey](ctx, s.proxy, sess, s.apiKeys, upstream.Path(upstream.PathMerchantAPIKeys, uid), nil)
}

func (s *MerchantService) CreateAPIKey(ctx context.Context, sess *model.Session, uid string, req model.CreateAPIKeyRequest) (model.APIKey, error) {
	if err := requireID("uid", uid); err != nil {
		return model.APIKey{}, err
	}

	key, err := fetchObject[model.APIKey](ctx, s.proxy, sess, s.apiKeys, http.MethodPost, upstream.Path(upstream.PathMerchantAPIKeys, uid), req.Upstream())
	if err != nil {
		return model.APIKey{}, err
	}

	s.publish(event.New(event.TypeAPIKeyCreated, resourceMerchants, uid, actorID(sess)).
		Invalidate(resourceMerchants, "api-keys", uid).
		RequirePermission(string(rbac.PermissionMerchantsWrite)))
	return key, nil
}

func (s *MerchantService) RevokeAPIKey(ctx context.Context, sess *model.Session, uid string, key string) (model.ActionResult, error) {
	if err := requireID("uid", uid); err != nil {
		return model.ActionResult{}, err
	}
	if err := requireID("apiKey", key); err != nil {
		return model.ActionResult{}, err
	}

	result, err := action(ctx, s.proxy, sess, http.MethodDelete, upstream.Path(upstream.PathMerchantAPIKey, uid, key), nil)
	if err != nil {
		return model.ActionResult{}, err
	}

	s.publish(event.New(event.TypeAPIKeyRevoked, resourceMerchants, uid, actorID(sess)).
		Invalidate(resourceMerchants, "api-keys", uid).
		RequirePermission(string(rbac.PermissionMerchantsWrite)))
	return result, nil
}

func (s *MerchantService) SubMerchants(ctx context.Context, sess *model.Session, uid string, page normalize.PageRequest) (model.PaginatedResponse[model.Merchant], error) {
	if err := requireID("uid", uid); err != nil {
		return model.PaginatedResponse[model.Merchant]{}, err
	}
	return fetchPage[model.Merchant](ctx, s.proxy, sess, s.merchants, http.MethodGet, upstream.Path(upstream.PathMerchantSubMerchants, uid), page.Query(zeroBased), nil, page, zeroBased)
}

// UpdateParent attaches uid to a parent merchant, or detaches it when the
// request carries no parent.
func (s *MerchantService) UpdateParent(ctx context.Context, sess *model.Session, uid string, req model.UpdateParentRequest) (model.Merchant, error) {
	if err := requireID("uid", uid); err != nil {
		return model.Merchant{}, err
	}
	if req.ParentUID != nil && *req.ParentUID == uid {
		return model.Merchant{}, apierror.BadRequest("A merchant cannot be its own parent", "parent_uid")
	}

	merchant, err := fetchObject[model.Merchant](ctx, s.proxy, sess, s.merchants, http.MethodPatch, upstream.Path(upstream.PathMerchantParent, uid), req.Upstream())
	if err != nil {
		return model.Merchant{}, err
	}

	e := mutationEvent(event.TypeMerchantParentChanged, resourceMerchants, uid, sess, rbac.PermissionMerchantsRead).
		Invalidate(resourceMerchants, "sub-merchants")
	s.publish(e)
	return merchant, nil
}

func (s *MerchantService) Activity(ctx context.Context, sess *model.Session, uid string, page normalize.PageRequest) (model.PaginatedResponse[model.MerchantActivity], error) {
	if err := requireID("uid", uid); err != nil {
		return model.PaginatedResponse[model.MerchantActivity]{}, err
	}
	return fetchPage[model.MerchantActivity](ctx, s.proxy, sess, s.activities, http.MethodGet, upstream.Path(upstream.PathMerchantActivity, uid), page.Query(zeroBased), nil, page, zeroBased)
}
