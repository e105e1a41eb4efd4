// Package client is the HTTP layer between the terminal client and the
// webook backend. Every call goes through a Requester, which owns header
// construction and credential propagation for one resource group; Posts and
// Users map domain operations onto single Requester calls.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/naveenspark/webook/pkg/session"
)

// CredentialsMode selects how a request proves who is calling.
type CredentialsMode uint8

const (
	// CredentialsToken attaches "Authorization: Bearer <token>" when the
	// session holds a token.
	CredentialsToken CredentialsMode = 1 << iota
	// CredentialsCookie sends and records cookies set by the backend.
	CredentialsCookie

	CredentialsBoth = CredentialsToken | CredentialsCookie
)

func (m CredentialsMode) String() string {
	switch m {
	case CredentialsToken:
		return "token"
	case CredentialsCookie:
		return "cookie"
	case CredentialsBoth:
		return "both"
	default:
		return fmt.Sprintf("CredentialsMode(%d)", uint8(m))
	}
}

// ParseCredentialsMode parses "token", "cookie" or "both".
func ParseCredentialsMode(s string) (CredentialsMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "token":
		return CredentialsToken, nil
	case "cookie":
		return CredentialsCookie, nil
	case "both":
		return CredentialsBoth, nil
	default:
		return 0, fmt.Errorf("unknown credentials mode %q", s)
	}
}

// maxResponseBody bounds how much of a response is read.
const maxResponseBody = 10 << 20

// Request describes one outbound call. It is built per call and not retained.
type Request struct {
	Method string
	// Path is appended to the base address and may carry a query string.
	Path string
	// Body, when non-nil, is sent as JSON.
	Body any
	// Headers override the defaults, including Content-Type.
	Headers http.Header
	// Credentials overrides the group default when non-zero.
	Credentials CredentialsMode
}

// Response is the status and parsed JSON body of a completed call,
// whatever the status code.
type Response struct {
	Status int
	Header http.Header
	Body   json.RawMessage
}

// Decode unmarshals the body into out.
func (r *Response) Decode(out any) error {
	if err := json.Unmarshal(r.Body, out); err != nil {
		return &DecodeError{StatusCode: r.Status, Err: err}
	}
	return nil
}

// Config configures one resource group.
type Config struct {
	// BaseURL is an explicit scheme://host[:port]. Empty means same-origin:
	// paths resolve against Origin.
	BaseURL string
	// Origin is the address same-origin groups resolve against.
	Origin string
	// Credentials is the group's default mode. Zero means CredentialsToken.
	Credentials CredentialsMode
	// HTTPClient defaults to a client with a 30s timeout.
	HTTPClient *http.Client
	// Jar holds cookies for CredentialsCookie. One is created if nil.
	Jar http.CookieJar
	Logger *zap.Logger
}

// Requester is the single chokepoint for outbound HTTP calls of one
// resource group. It reads the session store but never writes it.
type Requester struct {
	base        string
	credentials CredentialsMode
	store       session.Store
	httpClient  *http.Client
	jar         http.CookieJar
	log         *zap.Logger
}

// NewRequester creates a Requester for a resource group.
func NewRequester(cfg Config, store session.Store) (*Requester, error) {
	base := cfg.BaseURL
	if base == "" {
		base = cfg.Origin
	}
	if base == "" {
		return nil, fmt.Errorf("client.NewRequester: same-origin group needs an origin")
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("client.NewRequester: invalid base address %q", base)
	}
	if store == nil {
		return nil, fmt.Errorf("client.NewRequester: nil session store")
	}

	mode := cfg.Credentials
	if mode == 0 {
		mode = CredentialsToken
	}
	var httpClient http.Client
	if cfg.HTTPClient != nil {
		httpClient = *cfg.HTTPClient
	} else {
		httpClient.Timeout = 30 * time.Second
	}
	jar := cfg.Jar
	if jar == nil {
		jar, err = cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("client.NewRequester: cookie jar: %w", err)
		}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := &Requester{
		base:        strings.TrimRight(base, "/"),
		credentials: mode,
		store:       store,
		jar:         jar,
		log:         log,
	}
	// The client is a copy so the redirect hook stays private to this group.
	next := httpClient.CheckRedirect
	httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		r.redirectCookies(req)
		if next != nil {
			return next(req, via)
		}
		if len(via) >= 10 {
			return errors.New("stopped after 10 redirects")
		}
		return nil
	}
	r.httpClient = &httpClient
	return r, nil
}

type credentialsKey struct{}

// redirectCookies keeps cookie mode intact across a redirect: cookies set
// by the hop that redirected are recorded, and the next hop gets the jar's
// cookies for its own URL.
func (r *Requester) redirectCookies(req *http.Request) {
	mode, _ := req.Context().Value(credentialsKey{}).(CredentialsMode)
	if mode&CredentialsCookie == 0 {
		return
	}
	if resp := req.Response; resp != nil && resp.Request != nil {
		if cookies := resp.Cookies(); len(cookies) > 0 {
			r.jar.SetCookies(resp.Request.URL, cookies)
		}
	}
	req.Header.Del("Cookie")
	for _, c := range r.jar.Cookies(req.URL) {
		req.AddCookie(c)
	}
}

// BaseURL returns the resolved base address.
func (r *Requester) BaseURL() string { return r.base }

// Credentials returns the group's default credentials mode.
func (r *Requester) Credentials() CredentialsMode { return r.credentials }

// Do issues req and returns the parsed JSON body. Non-2xx statuses are not
// errors; transport failures and non-JSON bodies are.
func (r *Requester) Do(ctx context.Context, req Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	mode := req.Credentials
	if mode == 0 {
		mode = r.credentials
	}

	var reqBody io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	ctx = context.WithValue(ctx, credentialsKey{}, mode)
	httpReq, err := http.NewRequestWithContext(ctx, method, r.base+req.Path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, vs := range req.Headers {
		httpReq.Header.Del(k)
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if mode&CredentialsToken != 0 {
		if tok := r.store.Get().Token; tok != "" {
			httpReq.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	if httpReq.Header.Get("Authorization") == "" {
		httpReq.Header.Del("Authorization")
	}
	if httpReq.Header.Get("X-Request-Id") == "" {
		httpReq.Header.Set("X-Request-Id", uuid.NewString())
	}
	if mode&CredentialsCookie != 0 {
		for _, c := range r.jar.Cookies(httpReq.URL) {
			httpReq.AddCookie(c)
		}
	}

	log := r.log.With(
		zap.String("requestId", httpReq.Header.Get("X-Request-Id")),
		zap.String("method", method),
		zap.String("path", req.Path),
	)
	start := time.Now()

	resp, err := r.httpClient.Do(httpReq)
	if err != nil {
		log.Warn("request failed", zap.Error(err))
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if mode&CredentialsCookie != 0 {
		if cookies := resp.Cookies(); len(cookies) > 0 {
			r.jar.SetCookies(resp.Request.URL, cookies)
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		log.Warn("read response failed", zap.Int("status", resp.StatusCode), zap.Error(err))
		return nil, fmt.Errorf("read response: %w", err)
	}
	log.Debug("request done",
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if !json.Valid(data) {
		return nil, &DecodeError{StatusCode: resp.StatusCode, Err: fmt.Errorf("body is not JSON (%d bytes)", len(data))}
	}
	return &Response{
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   json.RawMessage(data),
	}, nil
}
