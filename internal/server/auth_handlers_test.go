package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"yatube/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func authCookieFromResponse(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == authCookie {
			return c
		}
	}
	return nil
}

func TestLoginPage(t *testing.T) {
	_, app := newTestServer(t, new(MockPostRepository), new(MockGroupRepository), new(MockUserRepository))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/auth/login/?next=%2Fcreate%2F", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Next string `json:"next"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "/create/", body.Next)
}

func TestSignup(t *testing.T) {
	t.Run("Successful signup sets the auth cookie", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		_, app := newTestServer(t, new(MockPostRepository), new(MockGroupRepository), userRepo)

		userRepo.On("GetByEmail", mock.Anything, "auth@example.com").Return(nil, nil)
		userRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*models.User).ID = 1
			}).Return(nil)

		form := url.Values{
			"username": {"auth"},
			"email":    {"auth@example.com"},
			"password": {"password123"},
		}
		resp, err := app.Test(formRequest("/auth/signup/", form))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		cookie := authCookieFromResponse(resp)
		require.NotNil(t, cookie)
		assert.NotEmpty(t, cookie.Value)
		assert.True(t, cookie.HttpOnly)

		var body struct {
			Token string `json:"token"`
			User  struct {
				Username string `json:"username"`
				Password string `json:"password"`
			} `json:"user"`
		}
		decodeBody(t, resp, &body)
		assert.NotEmpty(t, body.Token)
		assert.Equal(t, "auth", body.User.Username)
		assert.Empty(t, body.User.Password)

		userRepo.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.Username == "auth" &&
				bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("password123")) == nil
		}))
	})

	t.Run("Validation failures", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		_, app := newTestServer(t, new(MockPostRepository), new(MockGroupRepository), userRepo)

		tests := []struct {
			name string
			form url.Values
		}{
			{"Missing fields", url.Values{"username": {"auth"}}},
			{"Reserved username", url.Values{"username": {"admin"}, "email": {"a@b.co"}, "password": {"password123"}}},
			{"Bad email", url.Values{"username": {"someone"}, "email": {"not-an-email"}, "password": {"password123"}}},
			{"Short password", url.Values{"username": {"someone"}, "email": {"a@b.co"}, "password": {"short1"}}},
			{"Password without digits", url.Values{"username": {"someone"}, "email": {"a@b.co"}, "password": {"passwords"}}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				resp, err := app.Test(formRequest("/auth/signup/", tt.form))
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()
				assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			})
		}
		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Duplicate email is a conflict", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		_, app := newTestServer(t, new(MockPostRepository), new(MockGroupRepository), userRepo)

		userRepo.On("GetByEmail", mock.Anything, "taken@example.com").
			Return(&models.User{ID: 2, Username: "earlier", Email: "taken@example.com"}, nil)

		form := url.Values{
			"username": {"latecomer"},
			"email":    {"taken@example.com"},
			"password": {"password123"},
		}
		resp, err := app.Test(formRequest("/auth/signup/", form))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestLogin(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	storedUser := &models.User{ID: 1, Username: "auth", Email: "auth@example.com", Password: string(hashed)}

	t.Run("Valid credentials log in", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		_, app := newTestServer(t, new(MockPostRepository), new(MockGroupRepository), userRepo)

		userRepo.On("GetByEmail", mock.Anything, "auth@example.com").Return(storedUser, nil)

		form := url.Values{"email": {"auth@example.com"}, "password": {"password123"}}
		resp, err := app.Test(formRequest("/auth/login/", form))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		require.NotNil(t, authCookieFromResponse(resp))
	})

	t.Run("Wrong password is unauthorized", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		_, app := newTestServer(t, new(MockPostRepository), new(MockGroupRepository), userRepo)

		userRepo.On("GetByEmail", mock.Anything, "auth@example.com").Return(storedUser, nil)

		form := url.Values{"email": {"auth@example.com"}, "password": {"wrong-password"}}
		resp, err := app.Test(formRequest("/auth/login/", form))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Unknown email is unauthorized", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		_, app := newTestServer(t, new(MockPostRepository), new(MockGroupRepository), userRepo)

		userRepo.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)

		form := url.Values{"email": {"nobody@example.com"}, "password": {"password123"}}
		resp, err := app.Test(formRequest("/auth/login/", form))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestLogout(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	s, app := newTestServer(t, new(MockPostRepository), new(MockGroupRepository), new(MockUserRepository))
	s.redis = rdb

	token, err := s.generateToken(1, "auth")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout/", nil)
	req.AddCookie(&http.Cookie{Name: authCookie, Value: token})

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cookie := authCookieFromResponse(resp)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.True(t, cookie.Expires.Before(time.Now()))

	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) {
		return []byte(s.config.JWTSecret), nil
	})
	require.NoError(t, err)
	jti := parsed.Claims.(jwt.MapClaims)["jti"].(string)

	val, err := rdb.Get(context.Background(), "blacklist:"+jti).Result()
	require.NoError(t, err)
	assert.Equal(t, "1", val)

	// The blacklisted token no longer authenticates.
	req = httptest.NewRequest(http.MethodGet, "/create/", nil)
	req.AddCookie(&http.Cookie{Name: authCookie, Value: token})
	resp, err = app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login/?next="+url.QueryEscape("/create/"), resp.Header.Get("Location"))
}
