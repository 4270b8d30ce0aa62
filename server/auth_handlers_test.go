package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/bakeshop/pkg/auth"
	"github.com/example/bakeshop/pkg/config"
	"github.com/example/bakeshop/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type fakeUserStore struct {
	createErr error
	byEmail   map[string]*models.User
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	user.ID = primitive.NewObjectID()
	return nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeUserStore) FindByID(_ context.Context, _ primitive.ObjectID) (*models.User, error) {
	return nil, mongo.ErrNoDocuments
}

func newAuthTestServer(users UserStore) *Server {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	manager := auth.NewManager(&config.AuthConfig{
		JWTSecret:  "test-secret",
		TokenTTL:   time.Hour,
		CookieName: "auth-token",
	})
	s := New(cfg, zap.NewNop(), manager, nil, nil, users, nil, nil)
	s.SetupRoutes()
	return s
}

func postRegister(s *Server, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	s.Router().ServeHTTP(w, req)
	return w
}

func TestRegisterCreatesCustomer(t *testing.T) {
	s := newAuthTestServer(&fakeUserStore{})

	w := postRegister(s, `{"name":"Asha Rao","email":"asha@example.com","password":"hunter22"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"token"`)
}

func TestRegisterRejectsKnownEmail(t *testing.T) {
	s := newAuthTestServer(&fakeUserStore{byEmail: map[string]*models.User{
		"asha@example.com": {Email: "asha@example.com"},
	}})

	w := postRegister(s, `{"name":"Asha Rao","email":"asha@example.com","password":"hunter22"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "email already registered")
}

func TestRegisterDuplicateKeyRaceIsBadRequest(t *testing.T) {
	// A concurrent duplicate slips past the lookup and fails on the
	// unique email index; it must still read as a duplicate, not a 500.
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	s := newAuthTestServer(&fakeUserStore{createErr: dup})

	w := postRegister(s, `{"name":"Asha Rao","email":"asha@example.com","password":"hunter22"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "email already registered")
}
