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

const resourceGateways = "payment-gateways"

type GatewayService struct {
	proxy
	gateways normalize.FieldMap
	channels normalize.FieldMap
}

func NewGatewayService(api upstream.Caller, bus event.Bus) *GatewayService {
	return &GatewayService{
		proxy:    newProxy(api, bus),
		gateways: gatewayFields(),
		channels: channelFields(),
	}
}

func (s *GatewayService) List(ctx context.Context, sess *model.Session) (model.ListResponse[model.PaymentGateway], error) {
	return fetchList[model.PaymentGateway](ctx, s.proxy, sess, s.gateways, upstream.PathGateways, nil)
}

func (s *GatewayService) Get(ctx context.Context, sess *model.Session, id string) (model.PaymentGateway, error) {
	if err := requireID("id", id); err != nil {
		return model.PaymentGateway{}, err
	}
	return fetchObject[model.PaymentGateway](ctx, s.proxy, sess, s.gateways, http.MethodGet, upstream.Path(upstream.PathGateway, id), nil)
}

func (s *GatewayService) Create(ctx context.Context, sess *model.Session, req model.CreateGatewayRequest) (model.PaymentGateway, error) {
	gateway, err := fetchObject[model.PaymentGateway](ctx, s.proxy, sess, s.gateways, http.MethodPost, upstream.PathGateways, req.Upstream())
	if err != nil {
		return model.PaymentGateway{}, err
	}

	s.publish(mutationEvent(event.TypeGatewayCreated, resourceGateways, gateway.ID, sess, rbac.PermissionGatewaysRead))
	return gateway, nil
}

func (s *GatewayService) Update(ctx context.Context, sess *model.Session, id string, req model.UpdateGatewayRequest) (model.PaymentGateway, error) {
	return s.mutate(ctx, sess, id, upstream.Path(upstream.PathGateway, id), req.Upstream(), event.TypeGatewayUpdated)
}

func (s *GatewayService) SetStatus(ctx context.Context, sess *model.Session, id string, req model.GatewayStatusRequest) (model.PaymentGateway, error) {
	body := map[string]any{"isActive": req.IsActive != nil && *req.IsActive}
	return s.mutate(ctx, sess, id, upstream.Path(upstream.PathGatewayStatus, id), body, event.TypeGatewayStatusChanged)
}

func (s *GatewayService) mutate(ctx context.Context, sess *model.Session, id string, path string, body map[string]any, t event.Type) (model.PaymentGateway, error) {
	if err := requireID("id", id); err != nil {
		return model.PaymentGateway{}, err
	}

	gateway, err := fetchObject[model.PaymentGateway](ctx, s.proxy, sess, s.gateways, http.MethodPatch, path, body)
	if err != nil {
		return model.PaymentGateway{}, err
	}

	s.publish(mutationEvent(t, resourceGateways, id, sess, rbac.PermissionGatewaysRead))
	return gateway, nil
}

func (s *GatewayService) Channels(ctx context.Context, sess *model.Session, id string) (model.ListResponse[model.PaymentChannel], error) {
	if err := requireID("id", id); err != nil {
		return model.ListResponse[model.PaymentChannel]{}, err
	}
	return fetchList[model.PaymentChannel](ctx, s.proxy, sess, s.channels, upstream.Path(upstream.PathGatewayChannels, id), nil)
}

func (s *GatewayService) CreateChannel(ctx context.Context, sess *model.Session, id string, req model.CreateChannelRequest) (model.PaymentChannel, error) {
	if err := requireID("id", id); err != nil {
		return model.PaymentChannel{}, err
	}

	channel, err := fetchObject[model.PaymentChannel](ctx, s.proxy, sess, s.channels, http.MethodPost, upstream.Path(upstream.PathGatewayChannels, id), req.Upstream())
	if err != nil {
		return model.PaymentChannel{}, err
	}

	s.publish(mutationEvent(event.TypeChannelCreated, resourceGateways, id, sess, rbac.PermissionGatewaysRead).
		Invalidate(resourceGateways, "channels", id))
	return channel, nil
}

func (s *GatewayService) UpdateChannel(ctx context.Context, sess *model.Session, id string, channelID string, req model.UpdateChannelRequest) (model.PaymentChannel, error) {
	if err := requireID("id", id); err != nil {
		return model.PaymentChannel{}, err
	}
	if err := requireID("channelId", channelID); err != nil {
		return model.PaymentChannel{}, err
	}

	channel, err := fetchObject[model.PaymentChannel](ctx, s.proxy, sess, s.channels, http.MethodPatch, upstream.Path(upstream.PathGatewayChannel, id, channelID), req.Upstream())
	if err != nil {
		return model.PaymentChannel{}, err
	}

	s.publish(mutationEvent(event.TypeChannelUpdated, resourceGateways, id, sess, rbac.PermissionGatewaysRead).
		Invalidate(resourceGateways, "channels", id))
	return channel, nil
}
