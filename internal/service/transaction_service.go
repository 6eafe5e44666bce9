package service

import (
	"context"
	"net/http"

	"paygate-console/internal/event"
	"paygate-console/internal/model"
	"paygate-console/internal/normalize"
	"paygate-console/internal/rbac"
	"paygate-console/internal/upstream"
	"paygate-console/pkg/apierror"
)

const resourceTransactions = "transactions"

type TransactionService struct {
	proxy
	transactions normalize.FieldMap
	history      normalize.FieldMap
	canUpdate    normalize.FieldMap
}

func NewTransactionService(api upstream.Caller, bus event.Bus, currency string) *TransactionService {
	return &TransactionService{
		proxy:        newProxy(api, bus),
		transactions: transactionFields(currency),
		history:      processingHistoryFields(),
		canUpdate:    canUpdateFields(),
	}
}

// List uses the upstream list endpoint for zero or one filter dimension and
// the search endpoint for anything richer.
func (s *TransactionService) List(ctx context.Context, sess *model.Session, filter model.TransactionFilter, page normalize.PageRequest) (model.PaginatedResponse[model.Transaction], error) {
	filter.Normalize()
	if filter.Dimensions() >= 2 {
		return s.Search(ctx, sess, filter, page)
	}

	criteria, err := transactionCriteria(filter)
	if err != nil {
		return model.PaginatedResponse[model.Transaction]{}, err
	}

	query := page.Query(zeroBased)
	for key, value := range criteria {
		query.Set(key, value.(string))
	}

	return fetchPage[model.Transaction](ctx, s.proxy, sess, s.transactions, http.MethodGet, upstream.PathTransactions, query, nil, page, zeroBased)
}

func (s *TransactionService) Search(ctx context.Context, sess *model.Session, filter model.TransactionFilter, page normalize.PageRequest) (model.PaginatedResponse[model.Transaction], error) {
	filter.Normalize()

	criteria, err := transactionCriteria(filter)
	if err != nil {
		return model.PaginatedResponse[model.Transaction]{}, err
	}

	return fetchPage[model.Transaction](ctx, s.proxy, sess, s.transactions, http.MethodPost, upstream.PathTransactionSearch, page.Query(zeroBased), criteria, page, zeroBased)
}

func (s *TransactionService) Get(ctx context.Context, sess *model.Session, id string) (model.Transaction, error) {
	if err := requireID("id", id); err != nil {
		return model.Transaction{}, err
	}
	return fetchObject[model.Transaction](ctx, s.proxy, sess, s.transactions, http.MethodGet, upstream.Path(upstream.PathTransaction, id), nil)
}

func (s *TransactionService) Complete(ctx context.Context, sess *model.Session, id string, req model.ActionRequest) (model.ActionResult, error) {
	return s.act(ctx, sess, id, "complete", event.TypeTransactionCompleted, reasonBody(req.Reason))
}

func (s *TransactionService) Cancel(ctx context.Context, sess *model.Session, id string, req model.ActionRequest) (model.ActionResult, error) {
	return s.act(ctx, sess, id, "cancel", event.TypeTransactionCancelled, reasonBody(req.Reason))
}

// Refund issues a full refund unless an amount is given.
func (s *TransactionService) Refund(ctx context.Context, sess *model.Session, id string, req model.RefundRequest) (model.ActionResult, error) {
	body := reasonBody(req.Reason)
	if req.Amount != "" {
		amount, ok := normalize.FormatAmount(req.Amount)
		if !ok {
			return model.ActionResult{}, apierror.BadRequest("Refund amount must be a number", "amount")
		}
		body["amount"] = amount
	}
	return s.act(ctx, sess, id, "refund", event.TypeTransactionRefunded, body)
}

func (s *TransactionService) act(ctx context.Context, sess *model.Session, id string, verb string, t event.Type, body map[string]any) (model.ActionResult, error) {
	if err := requireID("id", id); err != nil {
		return model.ActionResult{}, err
	}

	result, err := action(ctx, s.proxy, sess, http.MethodPost, upstream.Path(upstream.PathTransactionAction, id, verb), body)
	if err != nil {
		return model.ActionResult{}, err
	}

	s.publish(mutationEvent(t, resourceTransactions, id, sess, rbac.PermissionTransactionsRead).
		Invalidate(resourceTransactions, "history", id).
		Invalidate(resourceTransactions, "can-update", id).
		Invalidate("dashboard"))
	return result, nil
}

// ProcessingHistory requires a numeric id; the upstream route does not
// accept references.
func (s *TransactionService) ProcessingHistory(ctx context.Context, sess *model.Session, id string) (model.ListResponse[model.ProcessingHistoryEntry], error) {
	if err := requireNumericID(id); err != nil {
		return model.ListResponse[model.ProcessingHistoryEntry]{}, err
	}
	return fetchList[model.ProcessingHistoryEntry](ctx, s.proxy, sess, s.history, upstream.Path(upstream.PathTransactionHistory, id), nil)
}

func (s *TransactionService) CanUpdate(ctx context.Context, sess *model.Session, id string) (model.CanUpdateResult, error) {
	if err := requireNumericID(id); err != nil {
		return model.CanUpdateResult{}, err
	}

	result, err := fetchObject[model.CanUpdateResult](ctx, s.proxy, sess, s.canUpdate, http.MethodGet, upstream.Path(upstream.PathTransactionCanUpdate, id), nil)
	if err != nil {
		return model.CanUpdateResult{}, err
	}
	if result.Actions == nil {
		result.Actions = []string{}
	}
	return result, nil
}

func (s *TransactionService) Export(ctx context.Context, sess *model.Session, req model.ExportRequest) (*ExportFile, error) {
	req.Filters.Normalize()

	criteria, err := transactionCriteria(req.Filters)
	if err != nil {
		return nil, err
	}

	return s.export(ctx, sess, resourceTransactions, upstream.PathTransactionExport, req.Format, criteria)
}

// transactionCriteria renames the browser filter to upstream parameters.
func transactionCriteria(f model.TransactionFilter) (map[string]any, error) {
	from, to, err := upstreamRange(f.StartDate, f.EndDate)
	if err != nil {
		return nil, err
	}

	criteria := map[string]any{}
	putIf(criteria, "status", f.Status)
	putIf(criteria, "merchantId", f.MerchantID)
	putIf(criteria, "reference", f.Reference)
	putIf(criteria, "gatewayCode", f.Gateway)
	putIf(criteria, "startDate", from)
	putIf(criteria, "endDate", to)
	return criteria, nil
}

func reasonBody(reason string) map[string]any {
	body := map[string]any{}
	putIf(body, "reason", reason)
	return body
}
