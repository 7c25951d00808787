package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
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

type fakeUsers struct {
	byID map[string]models.User
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	if _, err := bson.ObjectIDFromHex(id); err != nil {
		return nil, store.ErrInvalidID
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUsers) Insert(context.Context, *models.User) error { return nil }
func (f *fakeUsers) FindByEmail(context.Context, string) (*models.User, error) {
	return nil, store.ErrNotFound
}
func (f *fakeUsers) List(context.Context) ([]models.User, error) { return nil, nil }
func (f *fakeUsers) UpdateRole(context.Context, string, models.Role) (*models.User, error) {
	return nil, store.ErrNotFound
}
func (f *fakeUsers) Delete(context.Context, string) error { return nil }

func guardRouter(users store.Users, roles ...models.Role) *gin.Engine {
	r := gin.New()
	r.GET("/protected", RequireRoles(users, roles...), func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "role": user.Role})
	})
	return r
}

func seedUser(role models.Role) (*fakeUsers, models.User) {
	u := models.User{
		ID:        bson.NewObjectID(),
		Name:      "Test User",
		Email:     "test@permauto.pe",
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	return &fakeUsers{byID: map[string]models.User{u.ID.Hex(): u}}, u
}

func doGuarded(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: utils.SessionCookieName, Value: token})
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestGuardMissingCookie(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	users, _ := seedUser(models.RoleAdmin)

	rr := doGuarded(guardRouter(users, models.RoleAdmin), "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestGuardInvalidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	users, _ := seedUser(models.RoleAdmin)

	rr := doGuarded(guardRouter(users, models.RoleAdmin), "garbage")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestGuardDeletedUserIs404(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	// Token is structurally valid but the account is gone.
	goneID := bson.NewObjectID().Hex()
	token, err := utils.GenerateSessionToken(goneID, "gone@permauto.pe", "admin", false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	rr := doGuarded(guardRouter(&fakeUsers{byID: map[string]models.User{}}, models.RoleAdmin), token)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for deleted user, got %d", rr.Code)
	}
}

func TestGuardInsufficientRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	users, u := seedUser(models.RoleUser)

	token, err := utils.GenerateSessionToken(u.ID.Hex(), u.Email, string(u.Role), false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	rr := doGuarded(guardRouter(users, models.RoleAdmin), token)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestGuardStoredRoleWinsOverTokenClaim(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	// Token claims admin, but the stored role was demoted to user after
	// issuance. The store is the source of truth.
	users, u := seedUser(models.RoleUser)
	token, err := utils.GenerateSessionToken(u.ID.Hex(), u.Email, "admin", false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	rr := doGuarded(guardRouter(users, models.RoleAdmin), token)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 from stored role, got %d", rr.Code)
	}
}

func TestGuardRoleSet(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cases := []struct {
		name    string
		role    models.Role
		allowed []models.Role
		want    int
	}{
		{"admin on staff endpoint", models.RoleAdmin, []models.Role{models.RoleAdmin, models.RoleSubadmin}, http.StatusOK},
		{"subadmin on staff endpoint", models.RoleSubadmin, []models.Role{models.RoleAdmin, models.RoleSubadmin}, http.StatusOK},
		{"security on staff endpoint", models.RoleSecurity, []models.Role{models.RoleAdmin, models.RoleSubadmin}, http.StatusForbidden},
		{"security on security endpoint", models.RoleSecurity, []models.Role{models.RoleAdmin, models.RoleSubadmin, models.RoleSecurity}, http.StatusOK},
		{"subadmin on admin-only endpoint", models.RoleSubadmin, []models.Role{models.RoleAdmin}, http.StatusForbidden},
		{"user on open authenticated endpoint", models.RoleUser, nil, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users, u := seedUser(tc.role)
			token, err := utils.GenerateSessionToken(u.ID.Hex(), u.Email, string(u.Role), false)
			if err != nil {
				t.Fatalf("generate: %v", err)
			}
			rr := doGuarded(guardRouter(users, tc.allowed...), token)
			if rr.Code != tc.want {
				t.Fatalf("got %d, want %d", rr.Code, tc.want)
			}
		})
	}
}
