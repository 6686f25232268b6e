package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrijs2005/biblio/internal/common"
	"github.com/dmitrijs2005/biblio/internal/logging"
)

var tracer = otel.Tracer("biblio/gateway")

// CredentialSource is the session as seen by the gateway. Credential is read
// once per request; Invalidate must clear both the in-memory and the
// persisted credential.
type CredentialSource interface {
	Credential() string
	Invalidate(ctx context.Context)
}

// Navigator receives navigation commands. Navigate must not block.
type Navigator interface {
	Navigate(ctx context.Context, route string)
}

// Doer is the dispatch surface consumed by typed API clients.
type Doer interface {
	Do(ctx context.Context, req Request) (json.RawMessage, error)
}

// Request describes one call. Path may carry its own query string; Query is
// merged on top. Route is the low-cardinality name used for metrics and
// spans and defaults to Path without the query.
type Request struct {
	Method string
	Path   string
	Route  string
	Query  url.Values
	Body   any
}

type Gateway struct {
	baseURL   *url.URL
	client    *http.Client
	session   CredentialSource
	navigator Navigator
	logger    logging.Logger
	timeout   time.Duration
	requestID func() string
}

type Option func(*Gateway)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.client = c }
}

func WithLogger(l logging.Logger) Option {
	return func(g *Gateway) { g.logger = l }
}

// WithTimeout bounds every call; zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.timeout = d }
}

// WithRequestIDFunc overrides X-Request-ID generation.
func WithRequestIDFunc(fn func() string) Option {
	return func(g *Gateway) { g.requestID = fn }
}

// New constructs a Gateway for baseURL. session and navigator are required.
func New(baseURL string, session CredentialSource, navigator Navigator, opts ...Option) (*Gateway, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	if session == nil || navigator == nil {
		return nil, fmt.Errorf("gateway requires a session and a navigator")
	}

	g := &Gateway{
		baseURL:   u,
		client:    &http.Client{},
		session:   session,
		navigator: navigator,
		logger:    logging.NewNopLogger(),
		requestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *Gateway) resolve(req Request) (string, string, error) {
	ref, err := url.Parse(req.Path)
	if err != nil {
		return "", "", fmt.Errorf("parse path %q: %w", req.Path, err)
	}

	u := *g.baseURL
	u.Path = g.baseURL.Path + "/" + strings.TrimLeft(ref.Path, "/")

	q := ref.Query()
	for k, vs := range req.Query {
		q.Del(k)
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()

	route := req.Route
	if route == "" {
		route = ref.Path
	}
	return u.String(), route, nil
}

// Do dispatches req and returns the response payload, or an *Error.
func (g *Gateway) Do(ctx context.Context, req Request) (json.RawMessage, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	target, route, err := g.resolve(req)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Method: method, Path: req.Path, Message: err.Error(), Err: err}
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	requestID := g.requestID()

	ctx, span := tracer.Start(ctx, "gateway.request",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("http.route", route),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	start := time.Now()
	payload, err := g.do(ctx, method, target, route, requestID, req.Body, span)
	recordRequest(method, route, err, time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return payload, nil
}

func (g *Gateway) do(ctx context.Context, method, target, route, requestID string, body any, span trace.Span) (json.RawMessage, error) {
	fail := func(kind Kind, status int, msg string, detail json.RawMessage, cause error) *Error {
		return &Error{Kind: kind, Status: status, Message: msg, Detail: detail, Method: method, Path: route, Err: cause}
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fail(KindNetwork, 0, "encode request body", nil, err)
		}
		reader = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fail(KindNetwork, 0, "build request", nil, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set(common.RequestIDHeaderName, requestID)

	credential := g.session.Credential()
	if credential != "" {
		httpReq.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+credential)
	}
	span.SetAttributes(attribute.Bool("auth.credential_attached", credential != ""))

	resp, err := g.client.Do(httpReq)
	if err != nil {
		g.logger.Warn(ctx, "request failed", "method", method, "route", route, "request_id", requestID, "error", err)
		return nil, fail(KindNetwork, 0, err.Error(), nil, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fail(KindNetwork, resp.StatusCode, "read response body", nil, err)
	}

	g.logger.Debug(ctx, "request finished",
		"method", method, "route", route, "status", resp.StatusCode, "request_id", requestID)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, nil
		}
		return json.RawMessage(data), nil
	}

	kind := classify(resp.StatusCode)
	detail, msg := parseDetail(resp.StatusCode, data)
	gwErr := fail(kind, resp.StatusCode, msg, detail, nil)

	if kind == KindAuthentication {
		g.expireSession(ctx, route, requestID)
	}
	return nil, gwErr
}

// expireSession clears the session and redirects to the anonymous entry
// point. It runs detached from ctx cancellation so a cancelled caller cannot
// leave a stale credential behind.
func (g *Gateway) expireSession(ctx context.Context, route, requestID string) {
	ctx = context.WithoutCancel(ctx)
	g.logger.Warn(ctx, "authentication failed, clearing session", "route", route, "request_id", requestID)
	SessionInvalidations.Inc()
	g.session.Invalidate(ctx)
	g.navigator.Navigate(ctx, common.AnonymousEntryRoute)
}

// Call dispatches req through d and decodes the payload into T. An empty
// payload yields the zero T.
func Call[T any](ctx context.Context, d Doer, req Request) (T, error) {
	var out T
	payload, err := d.Do(ctx, req)
	if err != nil {
		return out, err
	}
	if len(payload) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return out, &Error{
			Kind:    KindServer,
			Message: "malformed response payload",
			Method:  req.Method,
			Path:    req.Path,
			Err:     err,
		}
	}
	return out, nil
}
