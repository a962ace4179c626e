// Package transport is the request pipeline of the client: a base Client that
// performs one HTTP exchange with the headers every call needs, and Reauth, a
// decorator that recovers from an expired access token.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/jobportal/internal/common"
	"github.com/dmitrijs2005/jobportal/internal/logging"
	"github.com/google/uuid"
)

// Request is one logical API call.
type Request struct {
	Method string
	// Path is relative to the API base URL, already escaped.
	Path  string
	Query url.Values
	// Body is sent as JSON when non-nil.
	Body any
	// Form, when set, replaces Body and is sent as multipart/form-data.
	Form *Form
	// Public requests carry no credentials and are never re-authenticated.
	Public bool
}

// Form is a multipart payload.
type Form struct {
	Fields map[string]string
	Files  []File
}

type File struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Doer performs a Request. A status >= 400 is reported as a *Error together
// with the response.
type Doer interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// Credentials supplies the per-request auth headers.
type Credentials interface {
	AccessToken(ctx context.Context) string
	Fingerprint(ctx context.Context) string
}

// LanguageSource supplies the Accept-Language value.
type LanguageSource interface {
	Language(ctx context.Context) string
}

type Client struct {
	baseURL     *url.URL
	http        *http.Client
	credentials Credentials
	language    LanguageSource
	logger      logging.Logger
}

// NewClient returns a Client for the API at baseURL. A nil httpClient means
// http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client, credentials Credentials, language LanguageSource, logger logging.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q: must be absolute http(s)", baseURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")

	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:     u,
		http:        httpClient,
		credentials: credentials,
		language:    language,
		logger:      logger,
	}, nil
}

func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	requestID := httpReq.Header.Get(common.RequestIDHeaderName)

	start := time.Now()
	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Debug(ctx, "request failed", "method", req.Method, "path", req.Path, "request_id", requestID, "error", err)
		return nil, &Error{Kind: KindNetwork, Method: req.Method, Path: req.Path, Err: err}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Status: httpResp.StatusCode, Method: req.Method, Path: req.Path, Err: err}
	}

	c.logger.Debug(ctx, "request done",
		"method", req.Method,
		"path", req.Path,
		"status", httpResp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	resp := &Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: body}
	if httpResp.StatusCode >= http.StatusBadRequest {
		return resp, &Error{
			Kind:    KindHTTP,
			Status:  httpResp.StatusCode,
			Message: errorMessage(body),
			Method:  req.Method,
			Path:    req.Path,
		}
	}
	return resp, nil
}

func (c *Client) newHTTPRequest(ctx context.Context, req *Request) (*http.Request, error) {
	u := c.baseURL.JoinPath(req.Path)
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", req.Method, req.Path, err)
	}
	c.prepareHeaders(ctx, httpReq.Header, req, contentType)
	return httpReq, nil
}

func (c *Client) prepareHeaders(ctx context.Context, h http.Header, req *Request, contentType string) {
	if !req.Public && c.credentials != nil {
		if token := c.credentials.AccessToken(ctx); token != "" {
			h.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
		}
		if fp := c.credentials.Fingerprint(ctx); fp != "" {
			h.Set(common.FingerprintHeaderName, fp)
		}
	}

	lang := "en"
	if c.language != nil {
		lang = c.language.Language(ctx)
	}
	h.Set(common.AcceptLanguageHeaderName, lang)
	h.Set(common.ContentTypeHeaderName, contentType)
	h.Set(common.RequestIDHeaderName, uuid.NewString())
}

func encodeBody(req *Request) (io.Reader, string, error) {
	if req.Form != nil {
		return encodeForm(req.Form)
	}
	if req.Body == nil {
		return nil, "application/json", nil
	}
	b, err := json.Marshal(req.Body)
	if err != nil {
		return nil, "", fmt.Errorf("encode %s %s body: %w", req.Method, req.Path, err)
	}
	return bytes.NewReader(b), "application/json", nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func encodeForm(f *Form) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, file := range f.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, quoteEscaper.Replace(file.Field), quoteEscaper.Replace(file.Name)))
		ct := file.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, "", err
		}
	}
	for name, value := range f.Fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
