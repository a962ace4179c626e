package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/dmitrijs2005/jobportal/internal/common"
	"github.com/dmitrijs2005/jobportal/internal/logging"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCredentials struct {
	token       string
	fingerprint string
}

func (s staticCredentials) AccessToken(context.Context) string { return s.token }
func (s staticCredentials) Fingerprint(context.Context) string { return s.fingerprint }

type staticLanguage string

func (l staticLanguage) Language(context.Context) string { return string(l) }

func newTestClient(t *testing.T, h http.Handler, creds Credentials, lang LanguageSource) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL+"/api", srv.Client(), creds, lang, logging.Discard())
	require.NoError(t, err)
	return c
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8080", "ftp://example.com", "http://"} {
		_, err := NewClient(raw, nil, nil, nil, logging.Discard())
		assert.Error(t, err, raw)
	}
}

func TestClient_PreparesHeaders(t *testing.T) {
	var got http.Header
	r := mux.NewRouter()
	r.HandleFunc("/api/auth/current", func(w http.ResponseWriter, req *http.Request) {
		got = req.Header.Clone()
		_, _ = io.WriteString(w, `{"success":true,"data":{}}`)
	}).Methods(http.MethodGet)

	c := newTestClient(t, r, staticCredentials{token: "T1", fingerprint: "F1"}, staticLanguage("hy"))

	resp, err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/auth/current"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "Bearer T1", got.Get(common.AuthorizationHeaderName))
	assert.Equal(t, "hy", got.Get(common.AcceptLanguageHeaderName))
	assert.Equal(t, "F1", got.Get(common.FingerprintHeaderName))
	assert.Equal(t, "application/json", got.Get(common.ContentTypeHeaderName))
	_, err = uuid.Parse(got.Get(common.RequestIDHeaderName))
	assert.NoError(t, err)
}

func TestClient_OmitsAbsentCredentials(t *testing.T) {
	var got http.Header
	r := mux.NewRouter()
	r.HandleFunc("/api/vacancies", func(w http.ResponseWriter, req *http.Request) {
		got = req.Header.Clone()
	})

	c := newTestClient(t, r, staticCredentials{}, nil)

	_, err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/vacancies"})
	require.NoError(t, err)

	assert.Empty(t, got.Values(common.AuthorizationHeaderName))
	assert.Empty(t, got.Values(common.FingerprintHeaderName))
	assert.Equal(t, "en", got.Get(common.AcceptLanguageHeaderName))
}

func TestClient_PublicRequestCarriesNoCredentials(t *testing.T) {
	var got http.Header
	r := mux.NewRouter()
	r.HandleFunc("/api/public/vacancies", func(w http.ResponseWriter, req *http.Request) {
		got = req.Header.Clone()
	})

	c := newTestClient(t, r, staticCredentials{token: "T1", fingerprint: "F1"}, staticLanguage("ru"))

	_, err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/public/vacancies", Public: true})
	require.NoError(t, err)

	assert.Empty(t, got.Values(common.AuthorizationHeaderName))
	assert.Empty(t, got.Values(common.FingerprintHeaderName))
	assert.Equal(t, "ru", got.Get(common.AcceptLanguageHeaderName))
}

func TestClient_QueryAndJSONBody(t *testing.T) {
	var gotQuery url.Values
	var gotBody map[string]any
	r := mux.NewRouter()
	r.HandleFunc("/api/auth/login", func(w http.ResponseWriter, req *http.Request) {
		gotQuery = req.URL.Query()
		assert.NoError(t, json.NewDecoder(req.Body).Decode(&gotBody))
	}).Methods(http.MethodPost)

	c := newTestClient(t, r, nil, nil)

	_, err := c.Do(context.Background(), &Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Query:  url.Values{"q": {"go dev"}},
		Body:   map[string]any{"email": "a@b.com", "rememberUser": true},
	})
	require.NoError(t, err)

	assert.Equal(t, "go dev", gotQuery.Get("q"))
	assert.Equal(t, map[string]any{"email": "a@b.com", "rememberUser": true}, gotBody)
}

func TestClient_Multipart(t *testing.T) {
	var (
		contentType string
		fileName    string
		fileType    string
		fileData    []byte
		coverLetter string
	)
	r := mux.NewRouter()
	r.HandleFunc("/api/vacancies/{id}/apply", func(w http.ResponseWriter, req *http.Request) {
		contentType = req.Header.Get(common.ContentTypeHeaderName)
		if !assert.NoError(t, req.ParseMultipartForm(1<<20)) {
			return
		}

		f, h, err := req.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		fileName = h.Filename
		fileType = h.Header.Get("Content-Type")
		fileData, _ = io.ReadAll(f)
		coverLetter = req.FormValue("coverLetter")
	}).Methods(http.MethodPost)

	c := newTestClient(t, r, staticCredentials{token: "T1"}, nil)

	_, err := c.Do(context.Background(), &Request{
		Method: http.MethodPost,
		Path:   "/vacancies/v1/apply",
		Form: &Form{
			Fields: map[string]string{"coverLetter": "Hello"},
			Files:  []File{{Field: "file", Name: "cv.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")}},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, contentType, "multipart/form-data; boundary=")
	assert.Equal(t, "cv.pdf", fileName)
	assert.Equal(t, "application/pdf", fileType)
	assert.Equal(t, []byte("%PDF-1.4"), fileData)
	assert.Equal(t, "Hello", coverLetter)
}

func TestClient_HTTPError(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/api/vacancies/{id}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"success":false,"message":"Vacancy not found"}`)
	})

	c := newTestClient(t, r, nil, nil)

	resp, err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/vacancies/missing"})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var te *Error
	require.True(t, errors.As(err, &te))
	assert.Equal(t, KindHTTP, te.Kind)
	assert.Equal(t, "Vacancy not found", te.Message)
	assert.Equal(t, "/vacancies/missing", te.Path)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c, err := NewClient(srv.URL, srv.Client(), nil, nil, logging.Discard())
	require.NoError(t, err)
	srv.Close()

	resp, err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/auth/current"})
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Equal(t, 0, StatusOf(err))
}

func TestClient_ContextCanceled(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler(), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Do(ctx, &Request{Method: http.MethodGet, Path: "/auth/current"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
