package query

import (
	"net/url"
	"strconv"
	"strings"

	"paygate-console/internal/normalize"
)

// Key identifies one cache entry. Keys are hierarchical: invalidating
// ["transactions","list"] covers every transactions list regardless of its
// parameters.
type Key []string

func (k Key) String() string {
	return strings.Join(k, "\x1f")
}

func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i, part := range prefix {
		if k[i] != part {
			return false
		}
	}
	return true
}

// Params are list filters. Empty values are dropped and the rest encoded
// in key order, so equal filters always produce equal keys.
type Params map[string]string

func (p Params) canonical() string {
	values := url.Values{}
	for k, v := range p {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		values.Set(k, v)
	}
	return values.Encode()
}

func (p Params) withPage(page normalize.PageRequest) Params {
	out := make(Params, len(p)+2)
	for k, v := range p {
		out[k] = v
	}
	out["page"] = strconv.Itoa(max(page.Page, 1))
	if page.PerPage > 0 {
		out["per_page"] = strconv.Itoa(page.PerPage)
	}
	return out
}

func (p Params) values() url.Values {
	values := url.Values{}
	for k, v := range p {
		if v = strings.TrimSpace(v); v != "" {
			values.Set(k, v)
		}
	}
	return values
}

type ResourceKeys struct {
	Resource string
}

func (r ResourceKeys) All() Key {
	return Key{r.Resource}
}

func (r ResourceKeys) Lists() Key {
	return Key{r.Resource, "list"}
}

func (r ResourceKeys) List(params Params) Key {
	return Key{r.Resource, "list", params.canonical()}
}

func (r ResourceKeys) Detail(id string) Key {
	return Key{r.Resource, "detail", id}
}

// Sub keys hang off one record, e.g. ["transactions","history","17"].
func (r ResourceKeys) Sub(kind string, id string) Key {
	return Key{r.Resource, kind, id}
}

var Keys = struct {
	Dashboard     ResourceKeys
	Merchants     ResourceKeys
	Transactions  ResourceKeys
	Disbursements ResourceKeys
	Gateways      ResourceKeys
	Roles         ResourceKeys
	Logs          ResourceKeys
	Users         ResourceKeys
}{
	Dashboard:     ResourceKeys{"dashboard"},
	Merchants:     ResourceKeys{"merchants"},
	Transactions:  ResourceKeys{"transactions"},
	Disbursements: ResourceKeys{"disbursements"},
	Gateways:      ResourceKeys{"payment-gateways"},
	Roles:         ResourceKeys{"roles"},
	Logs:          ResourceKeys{"logs"},
	Users:         ResourceKeys{"users"},
}
