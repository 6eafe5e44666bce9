package service

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"paygate-console/internal/event"
	"paygate-console/internal/model"
	"paygate-console/internal/normalize"
	"paygate-console/internal/rbac"
	"paygate-console/internal/upstream"
	"paygate-console/pkg/apierror"
)

const resourceDisbursements = "disbursements"

var volumeIntervals = map[string]struct{}{"day": {}, "week": {}, "month": {}}

type DisbursementService struct {
	proxy
	currency      string
	disbursements normalize.FieldMap
	volume        normalize.FieldMap
}

func NewDisbursementService(api upstream.Caller, bus event.Bus, currency string) *DisbursementService {
	return &DisbursementService{
		proxy:         newProxy(api, bus),
		currency:      currency,
		disbursements: disbursementFields(currency),
		volume:        volumePointFields(),
	}
}

func (s *DisbursementService) List(ctx context.Context, sess *model.Session, filter model.DisbursementFilter, page normalize.PageRequest) (model.PaginatedResponse[model.Disbursement], error) {
	filter.Normalize()
	if filter.Dimensions() >= 2 {
		return s.Search(ctx, sess, filter, page)
	}

	criteria, err := disbursementCriteria(filter)
	if err != nil {
		return model.PaginatedResponse[model.Disbursement]{}, err
	}

	query := page.Query(zeroBased)
	for key, value := range criteria {
		query.Set(key, value.(string))
	}

	return fetchPage[model.Disbursement](ctx, s.proxy, sess, s.disbursements, http.MethodGet, upstream.PathDisbursements, query, nil, page, zeroBased)
}

func (s *DisbursementService) Search(ctx context.Context, sess *model.Session, filter model.DisbursementFilter, page normalize.PageRequest) (model.PaginatedResponse[model.Disbursement], error) {
	filter.Normalize()

	criteria, err := disbursementCriteria(filter)
	if err != nil {
		return model.PaginatedResponse[model.Disbursement]{}, err
	}

	return fetchPage[model.Disbursement](ctx, s.proxy, sess, s.disbursements, http.MethodPost, upstream.PathDisbursementSearch, page.Query(zeroBased), criteria, page, zeroBased)
}

func (s *DisbursementService) Get(ctx context.Context, sess *model.Session, id string) (model.Disbursement, error) {
	if err := requireID("id", id); err != nil {
		return model.Disbursement{}, err
	}
	return fetchObject[model.Disbursement](ctx, s.proxy, sess, s.disbursements, http.MethodGet, upstream.Path(upstream.PathDisbursement, id), nil)
}

func (s *DisbursementService) Retry(ctx context.Context, sess *model.Session, id string, req model.ActionRequest) (model.ActionResult, error) {
	return s.act(ctx, sess, id, "retry", event.TypeDisbursementRetried, reasonBody(req.Reason))
}

func (s *DisbursementService) Cancel(ctx context.Context, sess *model.Session, id string, req model.ActionRequest) (model.ActionResult, error) {
	return s.act(ctx, sess, id, "cancel", event.TypeDisbursementCancelled, reasonBody(req.Reason))
}

func (s *DisbursementService) Complete(ctx context.Context, sess *model.Session, id string, req model.ActionRequest) (model.ActionResult, error) {
	return s.act(ctx, sess, id, "complete", event.TypeDisbursementCompleted, reasonBody(req.Reason))
}

func (s *DisbursementService) act(ctx context.Context, sess *model.Session, id string, verb string, t event.Type, body map[string]any) (model.ActionResult, error) {
	if err := requireID("id", id); err != nil {
		return model.ActionResult{}, err
	}

	result, err := action(ctx, s.proxy, sess, http.MethodPost, upstream.Path(upstream.PathDisbursementAction, id, verb), body)
	if err != nil {
		return model.ActionResult{}, err
	}

	s.publish(mutationEvent(t, resourceDisbursements, id, sess, rbac.PermissionDisbursementsRead).
		Invalidate(resourceDisbursements, "volume").
		Invalidate("dashboard"))
	return result, nil
}

func (s *DisbursementService) Export(ctx context.Context, sess *model.Session, req model.DisbursementExportRequest) (*ExportFile, error) {
	req.Filters.Normalize()

	criteria, err := disbursementCriteria(req.Filters)
	if err != nil {
		return nil, err
	}

	return s.export(ctx, sess, resourceDisbursements, upstream.PathDisbursementExport, req.Format, criteria)
}

// Volume returns bucketed disbursement volume. Totals are summed locally so
// they always agree with the points shown.
func (s *DisbursementService) Volume(ctx context.Context, sess *model.Session, from string, to string, interval string) (model.VolumeStats, error) {
	interval = strings.ToLower(strings.TrimSpace(interval))
	if interval == "" {
		interval = "day"
	}
	if _, ok := volumeIntervals[interval]; !ok {
		return model.VolumeStats{}, apierror.BadRequest("Interval must be one of: day, week, month", "interval")
	}

	start, end, err := upstreamRange(from, to)
	if err != nil {
		return model.VolumeStats{}, err
	}

	query := url.Values{"interval": {strings.ToUpper(interval)}}
	setIf(query, "startDate", start)
	setIf(query, "endDate", end)

	raw, err := s.call(ctx, sess, http.MethodGet, upstream.PathDisbursementVolume, query, nil)
	if err != nil {
		return model.VolumeStats{}, err
	}

	list, err := normalize.ExtractList(s.volume.Resource, raw, normalize.ShapeArray, normalize.ShapeDataArray, normalize.ShapeNestedData)
	if err != nil {
		return model.VolumeStats{}, err
	}

	points, err := normalize.DecodeAll[model.VolumePoint](s.volume, list.Items)
	if err != nil {
		return model.VolumeStats{}, err
	}

	stats := model.VolumeStats{Currency: s.currency, Points: points}
	if obj, err := normalize.ExtractObject(s.volume.Resource, raw); err == nil {
		if currency, ok := obj["currency"].(string); ok && currency != "" {
			stats.Currency = currency
		}
	}

	total := decimal.Zero
	for _, p := range points {
		stats.TotalCount += p.Count
		if amount, ok := normalize.ParseAmount(p.Amount); ok {
			total = total.Add(amount)
		}
	}
	stats.TotalAmount = total.String()

	return stats, nil
}

func disbursementCriteria(f model.DisbursementFilter) (map[string]any, error) {
	from, to, err := upstreamRange(f.StartDate, f.EndDate)
	if err != nil {
		return nil, err
	}

	criteria := map[string]any{}
	putIf(criteria, "status", f.Status)
	putIf(criteria, "merchantId", f.MerchantID)
	putIf(criteria, "reference", f.Reference)
	putIf(criteria, "recipient", f.Recipient)
	putIf(criteria, "startDate", from)
	putIf(criteria, "endDate", to)
	return criteria, nil
}
