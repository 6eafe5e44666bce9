package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeMerchantCreated       Type = "merchant.created"
	TypeMerchantUpdated       Type = "merchant.updated"
	TypeMerchantDeleted       Type = "merchant.deleted"
	TypeMerchantParentChanged Type = "merchant.parent_changed"
	TypeBankAccountCreated    Type = "merchant.bank_account_created"
	TypeAPIKeyCreated         Type = "merchant.api_key_created"
	TypeAPIKeyRevoked         Type = "merchant.api_key_revoked"
	TypeTransactionCompleted  Type = "transaction.completed"
	TypeTransactionCancelled  Type = "transaction.cancelled"
	TypeTransactionRefunded   Type = "transaction.refunded"
	TypeDisbursementRetried   Type = "disbursement.retried"
	TypeDisbursementCancelled Type = "disbursement.cancelled"
	TypeDisbursementCompleted Type = "disbursement.completed"
	TypeGatewayCreated        Type = "gateway.created"
	TypeGatewayUpdated        Type = "gateway.updated"
	TypeGatewayStatusChanged  Type = "gateway.status_changed"
	TypeChannelCreated        Type = "gateway.channel_created"
	TypeChannelUpdated        Type = "gateway.channel_updated"
	TypeUserCreated           Type = "user.created"
	TypePasswordChanged       Type = "user.password_changed"
)

// Event announces a successful upstream mutation. Keys are the query-key
// prefixes consoles should invalidate; only sessions holding Permission
// receive it.
type Event struct {
	ID         string     `json:"id"`
	Type       Type       `json:"type"`
	Resource   string     `json:"resource"`
	ResourceID string     `json:"resource_id,omitempty"`
	Keys       [][]string `json:"keys"`
	Permission string     `json:"-"`
	Timestamp  string     `json:"timestamp"`
	ActorID    string     `json:"actor_id,omitempty"`
}

func New(t Type, resource string, resourceID string, actorID string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		Resource:   resource,
		ResourceID: resourceID,
		Keys:       [][]string{},
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		ActorID:    actorID,
	}
}

// Invalidate appends a query-key prefix to invalidate.
func (e Event) Invalidate(key ...string) Event {
	e.Keys = append(e.Keys, key)
	return e
}

// RequirePermission restricts delivery to sessions holding perm.
func (e Event) RequirePermission(perm string) Event {
	e.Permission = perm
	return e
}

type Bus interface {
	Publish(e Event)
	Subscribe(name string) (<-chan Event, func())
}
