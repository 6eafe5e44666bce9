package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"paygate-console/internal/handler"
	"paygate-console/internal/middleware"
	"paygate-console/internal/model"
	"paygate-console/internal/rbac"
	"paygate-console/internal/session"
	"paygate-console/internal/validation"
	"paygate-console/pkg/apierror"
)

const maxBatchBody = 1 << 20

type Kind int

const (
	Query Kind = iota
	Mutation
)

func (k Kind) method() string {
	if k == Mutation {
		return http.MethodPost
	}
	return http.MethodGet
}

// Procedure is one named RPC. Public procedures run without a session;
// all others require one and must pass Requirement.
type Procedure struct {
	Name        string
	Kind        Kind
	Public      bool
	Requirement rbac.Requirement
	Handle      func(call *Call) (any, error)
}

// Call carries one procedure invocation.
type Call struct {
	Context context.Context
	Session *model.Session
	Writer  http.ResponseWriter
	Request *http.Request

	input    json.RawMessage
	validate *validation.Validator
}

type normalizer interface {
	Normalize()
}

// Bind decodes the call input into dst and validates it. A missing input
// decodes as an empty object.
func (c *Call) Bind(dst any) error {
	if len(c.input) > 0 && string(c.input) != "null" {
		if err := json.Unmarshal(c.input, dst); err != nil {
			return apierror.BadRequest("Invalid procedure input", nil)
		}
	}
	if n, ok := dst.(normalizer); ok {
		n.Normalize()
	}
	return c.validate.Check(dst)
}

type Router struct {
	procedures map[string]Procedure
	sessions   *session.Manager
	table      *rbac.Table
	validate   *validation.Validator
}

func NewRouter(sessions *session.Manager, table *rbac.Table, validate *validation.Validator) *Router {
	return &Router{
		procedures: map[string]Procedure{},
		sessions:   sessions,
		table:      table,
		validate:   validate,
	}
}

func (rt *Router) Register(procs ...Procedure) {
	for _, p := range procs {
		if _, exists := rt.procedures[p.Name]; exists {
			panic(fmt.Sprintf("rpc: procedure %q registered twice", p.Name))
		}
		rt.procedures[p.Name] = p
	}
}

// ServeHTTP handles /api/trpc/{a}[,{b}...]. The router must be mounted so
// that the procedure list is the last path segment.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	names := strings.Split(r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:], ",")
	batch := r.URL.Query().Get("batch") == "1"

	if !batch && len(names) > 1 {
		writeEnvelope(w, failure(strings.Join(names, ","), http.StatusBadRequest, "Multiple procedures require batch=1", nil))
		return
	}

	inputs, err := rt.readInputs(w, r, batch, len(names))
	if err != nil {
		status, body := handler.ErrorStatus(r.Context(), err)
		writeEnvelope(w, failure(strings.Join(names, ","), status, body.Error, nil))
		return
	}

	sess, _ := middleware.SessionFromContext(r.Context())
	if sess == nil {
		if s, ok := rt.sessions.Read(r); ok {
			sess = s
		}
	}

	results := make([]Envelope, len(names))
	for i, name := range names {
		results[i] = rt.invoke(w, r, name, sess, inputs[i])
	}

	if !batch {
		writeEnvelope(w, results[0])
		return
	}

	status := results[0].status()
	for _, res := range results[1:] {
		if res.status() != status {
			status = http.StatusMultiStatus
			break
		}
	}
	writeJSONStatus(w, status, results)
}

func (rt *Router) invoke(w http.ResponseWriter, r *http.Request, name string, sess *model.Session, input json.RawMessage) Envelope {
	proc, ok := rt.procedures[name]
	if !ok {
		return failure(name, http.StatusNotFound, fmt.Sprintf("No procedure found on path %q", name), nil)
	}
	if r.Method != proc.Kind.method() {
		return failure(name, http.StatusMethodNotAllowed, fmt.Sprintf("Unsupported %s for %q", r.Method, name), nil)
	}

	if !proc.Public {
		if sess == nil {
			return failure(name, http.StatusUnauthorized, "Unauthorized", nil)
		}
		if len(proc.Requirement.Permissions) > 0 && !rt.table.Check(sess.Roles, proc.Requirement) {
			slog.WarnContext(r.Context(), "procedure denied", "procedure", name, "user_id", sess.UserID, "roles", sess.Roles)
			return failure(name, http.StatusForbidden, "Forbidden", nil)
		}
	}

	call := &Call{
		Context:  r.Context(),
		Session:  sess,
		Writer:   w,
		Request:  r,
		input:    input,
		validate: rt.validate,
	}

	data, err := rt.run(proc, call)
	if err != nil {
		status, body := handler.ErrorStatus(r.Context(), err)
		return failure(name, status, body.Error, body.Details)
	}
	return success(data)
}

func (rt *Router) run(proc Procedure, call *Call) (data any, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("procedure %s panicked: %v", proc.Name, recovered)
		}
	}()
	return proc.Handle(call)
}

// readInputs returns one raw input per procedure. Batched inputs are keyed
// by position: {"0": ..., "1": ...}.
func (rt *Router) readInputs(w http.ResponseWriter, r *http.Request, batch bool, n int) ([]json.RawMessage, error) {
	var raw []byte
	if r.Method == http.MethodGet {
		raw = []byte(r.URL.Query().Get("input"))
	} else {
		defer r.Body.Close()
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBatchBody))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, apierror.New("PAYLOAD_TOO_LARGE", "Request body too large", nil, http.StatusRequestEntityTooLarge)
			}
			return nil, err
		}
		raw = body
	}

	inputs := make([]json.RawMessage, n)
	if len(raw) == 0 {
		return inputs, nil
	}

	if !batch {
		if !json.Valid(raw) {
			return nil, apierror.BadRequest("Input is not valid JSON", nil)
		}
		inputs[0] = raw
		return inputs, nil
	}

	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keyed); err != nil {
		return nil, apierror.BadRequest("Batch input must be an object keyed by index", nil)
	}
	for i := range inputs {
		inputs[i] = keyed[strconv.Itoa(i)]
	}
	return inputs, nil
}

func writeEnvelope(w http.ResponseWriter, e Envelope) {
	writeJSONStatus(w, e.status(), e)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
