package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/permauto/backend/models"
	"github.com/permauto/backend/store"
	"github.com/permauto/backend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// In-memory store fakes. They mirror the Mongo implementations' contract:
// sentinel errors, newest-first ordering, normalized company keys.

type memUsers struct {
	items map[string]models.User
}

func newMemUsers() *memUsers {
	return &memUsers{items: map[string]models.User{}}
}

func (m *memUsers) Insert(_ context.Context, u *models.User) error {
	for _, existing := range m.items {
		if existing.Email == u.Email {
			return store.ErrDuplicateEmail
		}
	}
	if u.ID.IsZero() {
		u.ID = bson.NewObjectID()
	}
	m.items[u.ID.Hex()] = *u
	return nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.items {
		if u.Email == utils.NormalizeEmail(email) {
			u := u
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	if _, err := bson.ObjectIDFromHex(id); err != nil {
		return nil, store.ErrInvalidID
	}
	u, ok := m.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	u.PasswordHash = ""
	return &u, nil
}

func (m *memUsers) List(_ context.Context) ([]models.User, error) {
	users := make([]models.User, 0, len(m.items))
	for _, u := range m.items {
		u.PasswordHash = ""
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (m *memUsers) UpdateRole(_ context.Context, id string, role models.Role) (*models.User, error) {
	if _, err := bson.ObjectIDFromHex(id); err != nil {
		return nil, store.ErrInvalidID
	}
	u, ok := m.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	u.Role = role
	u.UpdatedAt = time.Now().UTC()
	m.items[id] = u
	u.PasswordHash = ""
	return &u, nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	if _, err := bson.ObjectIDFromHex(id); err != nil {
		return store.ErrInvalidID
	}
	if _, ok := m.items[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type memAuths struct {
	items map[string]models.Authorization
}

func newMemAuths() *memAuths {
	return &memAuths{items: map[string]models.Authorization{}}
}

func (m *memAuths) Insert(_ context.Context, a *models.Authorization) error {
	if a.ID.IsZero() {
		a.ID = bson.NewObjectID()
	}
	m.items[a.ID.Hex()] = *a
	return nil
}

func (m *memAuths) List(_ context.Context, f store.AuthorizationFilter) ([]models.Authorization, error) {
	out := make([]models.Authorization, 0, len(m.items))
	for _, a := range m.items {
		if f.Status != "" && string(a.Status) != f.Status {
			continue
		}
		if f.UserID != "" && a.UserID != f.UserID {
			continue
		}
		if f.Company != "" &&
			!strings.Contains(utils.NormalizeCompanyKey(a.CompanyName), utils.NormalizeCompanyKey(f.Company)) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (m *memAuths) FindByID(_ context.Context, id string) (*models.Authorization, error) {
	if _, err := bson.ObjectIDFromHex(id); err != nil {
		return nil, store.ErrInvalidID
	}
	a, ok := m.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &a, nil
}

func (m *memAuths) Update(_ context.Context, id string, upd store.AuthorizationUpdate) (*models.Authorization, error) {
	if _, err := bson.ObjectIDFromHex(id); err != nil {
		return nil, store.ErrInvalidID
	}
	a, ok := m.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	a.CompanyName = upd.CompanyName
	a.RUC = upd.RUC
	a.Reason = upd.Reason
	a.UserID = upd.UserID
	a.Status = upd.Status
	a.StartDate = upd.StartDate
	a.EndDate = upd.EndDate
	if upd.ApprovedBy != nil {
		a.ApprovedBy = *upd.ApprovedBy
	}
	m.items[id] = a
	return &a, nil
}

func (m *memAuths) Delete(_ context.Context, id string) error {
	if _, err := bson.ObjectIDFromHex(id); err != nil {
		return store.ErrInvalidID
	}
	if _, ok := m.items[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type memLogs struct {
	items []models.SecurityLog
}

func (m *memLogs) List(_ context.Context) ([]models.SecurityLog, error) {
	out := append([]models.SecurityLog(nil), m.items...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

// addUser seeds a user directly into the fake store and returns it with a
// valid session cookie value.
func addUser(t *testing.T, users *memUsers, role models.Role, email string) (models.User, string) {
	t.Helper()

	hash, err := utils.HashPassword("secret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := models.User{
		ID:           bson.NewObjectID(),
		Name:         "Test " + string(role),
		Email:        utils.NormalizeEmail(email),
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := users.Insert(context.Background(), &u); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	token, err := utils.GenerateSessionToken(u.ID.Hex(), u.Email, string(u.Role), false)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return u, token
}

func doJSON(r *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: utils.SessionCookieName, Value: token})
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}
