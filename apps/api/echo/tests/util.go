package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	. "github.com/trezcool/personal/apps/api/echo"
	"github.com/trezcool/personal/core"
	"github.com/trezcool/personal/core/identity"
	"github.com/trezcool/personal/core/training"
	"github.com/trezcool/personal/storage/database/inmem"
	"github.com/trezcool/personal/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	Server
	conf     *core.Config
	db       *inmemdb.DB
	repo     training.Repository
	profiles identity.ProfileRepository
	provider *testutil.FakeProvider
	sessions *identity.SessionStore
	idSvc    *identity.Service
}

func setup(t *testing.T) *testApp {
	conf := &core.Config{
		Env:       "TEST",
		TestMode:  true,
		AppName:   "App Personal",
		SecretKey: "test-secret",
	}
	conf.Server.JWTExpirationDelta = time.Hour

	// set up DB & repos
	db := inmemdb.Open()
	repo := inmemdb.NewTrainingRepository(db)
	profiles := inmemdb.NewProfileRepository(db)

	// set up services
	validate, translator := testutil.NewValidator()
	logger := testutil.NewLogger()
	provider := testutil.NewFakeProvider()
	sessions := identity.NewSessionStore()
	idSvc := identity.NewService(provider, sessions, validate, logger)
	trSvc := training.NewService(repo, validate)

	// set up server
	srv := NewServer(ServerDeps{
		Conf:        conf,
		Logger:      logger,
		IdentitySvc: idSvc,
		TrainingSvc: trSvc,
		Validate:    validate,
		Translator:  translator,
	})
	return &testApp{
		Server:   srv,
		conf:     conf,
		db:       db,
		repo:     repo,
		profiles: profiles,
		provider: provider,
		sessions: sessions,
		idSvc:    idSvc,
	}
}

// addUser registers an account with the fake provider and, when role is set, its profile row.
func (app *testApp) addUser(t *testing.T, userID, email string, role identity.Role, name string) identity.Identity {
	acc := testutil.ProviderAccount{UserID: userID, Password: "pwd", Token: identity.AccessToken("tok-" + userID)}
	if role != "" {
		prof := testutil.CreateProfile(t, app.profiles, userID, role, name)
		acc.Profile = &prof
	}
	app.provider.AddAccount(email, acc)
	return identity.Identity{UserID: userID, Email: email, Role: role, DisplayName: name}
}

// login opens a session for email and returns its token.
func (app *testApp) login(t *testing.T, email string) string {
	sess, err := app.idSvc.Login(context.Background(), identity.Credentials{Email: email, Password: "pwd"})
	if err != nil {
		t.Fatalf("login() failed: %v", err)
	}
	token, err := GenerateToken(app.conf, NewClaims(app.conf, sess))
	if err != nil {
		t.Fatalf("login() failed: %v", err)
	}
	return token
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app *testApp, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode() failed: %v; body %s", err, rec.Body.String())
	}
}
