package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/tazhibayda/task-manager/internal/avatar"
	api "github.com/tazhibayda/task-manager/internal/http"
	"github.com/tazhibayda/task-manager/internal/metrics"
	"github.com/tazhibayda/task-manager/internal/repo/memory"
	"github.com/tazhibayda/task-manager/internal/security"
	"github.com/tazhibayda/task-manager/internal/service"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	T      *testing.T
	Store  *memory.Store
	Router *gin.Engine
}

type envOpts struct {
	limiter api.Limiter
	keys    *security.KeyManager
}

func newTestEnv(t *testing.T, opts ...func(*envOpts)) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var o envOpts
	for _, fn := range opts {
		fn(&o)
	}

	st := memory.NewStore()
	var signer security.Signer = security.NewHMACSigner("test-secret")
	if o.keys != nil {
		signer = security.NewRSASigner(o.keys)
	}
	toks := service.NewTokens(st, signer, 0, nil)
	tasks := service.NewTasks(st)
	acc := service.NewAccounts(service.AccountsDeps{
		Users:   st,
		Tasks:   tasks,
		Tokens:  toks,
		Hasher:  security.NewHasher(bcrypt.MinCost),
		Avatars: avatar.New(1_000_000, 100),
	})
	h := &api.Handler{
		Accounts:       acc,
		Tokens:         toks,
		Tasks:          tasks,
		Store:          st,
		Keys:           o.keys,
		AvatarMaxBytes: 1_000_000,
	}
	reg := prometheus.NewRegistry()
	metrics.MustRegister(reg)
	r := api.NewRouter(h, api.RouterOptions{Limiter: o.limiter, Gatherer: reg})
	return &testEnv{T: t, Store: st, Router: r}
}

func (e *testEnv) do(method, path, body, token string) *httptest.ResponseRecorder {
	e.T.Helper()
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) upload(path, token, filename string, content []byte) *httptest.ResponseRecorder {
	e.T.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("avatar", filename)
	require.NoError(e.T, err)
	_, err = fw.Write(content)
	require.NoError(e.T, err)
	require.NoError(e.T, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

type authBody struct {
	User  map[string]any `json:"user"`
	Token string         `json:"token"`
}

func (e *testEnv) register(email, pw string) authBody {
	e.T.Helper()
	w := e.do(http.MethodPost, "/users", `{"name":"U","email":"`+email+`","password":"`+pw+`"}`, "")
	require.Equal(e.T, http.StatusCreated, w.Code, w.Body.String())
	var out authBody
	require.NoError(e.T, json.Unmarshal(w.Body.Bytes(), &out))
	require.NotEmpty(e.T, out.Token)
	return out
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func newRecorder() *httptest.ResponseRecorder { return httptest.NewRecorder() }

func mustOID(t *testing.T, hex string) primitive.ObjectID {
	t.Helper()
	id, err := primitive.ObjectIDFromHex(hex)
	require.NoError(t, err)
	return id
}
