package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/jobportal/internal/client/auth"
	"github.com/dmitrijs2005/jobportal/internal/client/credentials"
	"github.com/dmitrijs2005/jobportal/internal/client/fingerprint"
	"github.com/dmitrijs2005/jobportal/internal/client/locale"
	"github.com/dmitrijs2005/jobportal/internal/client/models"
	"github.com/dmitrijs2005/jobportal/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/jobportal/internal/client/session"
	"github.com/dmitrijs2005/jobportal/internal/client/storage"
	"github.com/dmitrijs2005/jobportal/internal/client/transport"
	"github.com/dmitrijs2005/jobportal/internal/logging"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// harness wires the real pipeline against a fake backend.
type harness struct {
	router *mux.Router

	state     *session.State
	store     *credentials.Store
	fp        *fingerprint.Cache
	locale    *locale.Store
	keeper    *auth.Keeper
	auth      *AuthAPI
	vacancies *VacanciesAPI
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()

	db, err := storage.InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	h := &harness{router: mux.NewRouter(), state: session.New()}
	srv := httptest.NewServer(h.router)
	t.Cleanup(srv.Close)

	logger := logging.Discard()
	h.store = credentials.NewStore(db, credentials.Options{}, logger)
	h.fp = fingerprint.NewCache(metadata.NewSQLiteRepository(db), logger)
	h.locale = locale.NewStore(h.store)
	h.keeper = auth.NewKeeper(h.state, h.store, h.fp, logger)

	base, err := transport.NewClient(srv.URL, srv.Client(), h.keeper, h.locale, logger)
	require.NoError(t, err)
	pipeline := transport.NewReauth(base, NewRefresher(base), h.keeper, logger)

	h.auth = NewAuthAPI(pipeline, h.keeper)
	h.vacancies = NewVacanciesAPI(pipeline)
	return h
}

func (h *harness) handle(path string, fn http.HandlerFunc, methods ...string) {
	route := h.router.HandleFunc(path, fn)
	if len(methods) > 0 {
		route.Methods(methods...)
	}
}

// assertConsistent checks that the durable copy mirrors the session.
func (h *harness) assertConsistent(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	snap := h.state.Snapshot()
	assert.Equal(t, snap.AccessToken, h.store.ReadAccess(ctx))
	assert.Equal(t, snap.RefreshToken, h.store.ReadRefresh(ctx))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func ok(data any) map[string]any {
	return map[string]any{"success": true, "data": data}
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

func authGrant(access, refresh, fp string) auth.Grant {
	return auth.Grant{AccessToken: access, RefreshToken: refresh, FingerprintHash: fp, User: &models.User{ID: "u1", Email: "a@b.com"}}
}
