package router

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/anonto42/warbler/internal/models"
	"github.com/anonto42/warbler/internal/security"
	"github.com/anonto42/warbler/internal/session"
	"github.com/anonto42/warbler/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	store  *session.MemoryStore
	hasher *security.BcryptHasher
	srv    *httptest.Server
	client *http.Client
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testutil.NewDB(t)
	store := session.NewMemoryStore()
	hasher := security.NewBcryptHasher(4)

	e, err := NewServer(Dependencies{DB: db, Sessions: store, Hasher: hasher})
	require.NoError(t, err)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testServer{
		t:      t,
		db:     db,
		store:  store,
		hasher: hasher,
		srv:    srv,
		client: &http.Client{Jar: jar},
	}
}

// signup stores a user directly, the way fixtures do
func (s *testServer) signup(username, password string) *models.User {
	s.t.Helper()
	digest, err := s.hasher.Hash(password)
	require.NoError(s.t, err)

	user := &models.User{
		Username: username,
		Email:    username + "@test.com",
		Password: digest,
		ImageURL: models.DefaultImageURL,
	}
	require.NoError(s.t, s.db.Create(user).Error)
	return user
}

// loginAs seeds a session for user and hands its cookie to the client
func (s *testServer) loginAs(user *models.User) {
	s.t.Helper()
	sid := s.store.Seed(map[string]interface{}{session.CurrUserKey: user.ID})
	u, err := url.Parse(s.srv.URL)
	require.NoError(s.t, err)
	s.client.Jar.SetCookies(u, []*http.Cookie{s.store.Cookie(sid)})
}

func (s *testServer) noRedirects() func() {
	s.client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return func() { s.client.CheckRedirect = nil }
}

func (s *testServer) get(path string) (*http.Response, string) {
	s.t.Helper()
	resp, err := s.client.Get(s.srv.URL + path)
	require.NoError(s.t, err)
	return resp, readBody(s.t, resp)
}

func (s *testServer) post(path string, form url.Values) (*http.Response, string) {
	s.t.Helper()
	resp, err := s.client.PostForm(s.srv.URL+path, form)
	require.NoError(s.t, err)
	return resp, readBody(s.t, resp)
}

func (s *testServer) count(model interface{}) int64 {
	s.t.Helper()
	var n int64
	require.NoError(s.t, s.db.Model(model).Count(&n).Error)
	return n
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func userURL(id uint) string {
	return "/users/" + strconv.FormatUint(uint64(id), 10)
}

func TestSignup(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.post("/signup", url.Values{
		"username":  {"newuser"},
		"email":     {"new@test.com"},
		"password":  {"password"},
		"image_url": {""},
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "newuser")

	var user models.User
	require.NoError(t, s.db.Where("username = ?", "newuser").First(&user).Error)
	assert.Equal(t, "new@test.com", user.Email)
	assert.Equal(t, models.DefaultImageURL, user.ImageURL)
	assert.NotEqual(t, "password", user.Password)
}

func TestSignupDuplicateRerendersForm(t *testing.T) {
	s := newTestServer(t)
	s.signup("testuser", "testuser")
	defer s.noRedirects()()

	resp, body := s.post("/signup", url.Values{
		"username": {"testuser"},
		"email":    {"other@test.com"},
		"password": {"password"},
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Username or email already taken.")
	assert.Equal(t, int64(1), s.count(&models.User{}))

	// still anonymous
	resp, body = s.get("/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "New to Warbler?")
}

func TestSignupInvalidForm(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.post("/signup", url.Values{
		"username": {"newuser"},
		"email":    {"not-an-email"},
		"password": {"123"},
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Invalid email address.")
	assert.Zero(t, s.count(&models.User{}))
}

func TestSignupBlankUsername(t *testing.T) {
	s := newTestServer(t)
	defer s.noRedirects()()

	resp, body := s.post("/signup", url.Values{
		"username": {"   "},
		"email":    {"blank@test.com"},
		"password": {"password"},
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Username must not be blank.")
	assert.Zero(t, s.count(&models.User{}))

	// still anonymous
	_, body = s.get("/")
	assert.Contains(t, body, "New to Warbler?")
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	s.signup("testuser", "testuser")

	resp, body := s.post("/login", url.Values{"username": {"testuser"}, "password": {"testuser"}})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "testuser")
	assert.Contains(t, body, "Hello, testuser!")
}

func TestLoginInvalidCredentials(t *testing.T) {
	s := newTestServer(t)
	s.signup("testuser", "testuser")
	defer s.noRedirects()()

	for _, form := range []url.Values{
		{"username": {"testuser"}, "password": {"wrong"}},
		{"username": {"nobody"}, "password": {"testuser"}},
	} {
		resp, body := s.post("/login", form)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "Invalid credentials.")
	}

	resp, _ := s.get("/users/1/following")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestLogout(t *testing.T) {
	s := newTestServer(t)
	user := s.signup("testuser", "testuser")
	s.loginAs(user)

	resp, body := s.get("/logout")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, "testuser")
	assert.Contains(t, body, "You have successfully logged out.")

	resp, _ = s.get(userURL(user.ID) + "/following")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/", resp.Request.URL.Path)
}

func TestLogoutAfterLoginDropsGreeting(t *testing.T) {
	s := newTestServer(t)
	s.signup("testuser", "testuser")
	restore := s.noRedirects()
	resp, _ := s.post("/login", url.Values{"username": {"testuser"}, "password": {"testuser"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	restore()

	_, body := s.get("/logout")
	assert.NotContains(t, body, "testuser")
}

func TestViewFollowingLoggedIn(t *testing.T) {
	s := newTestServer(t)
	user := s.signup("testuser", "testuser")
	other := s.signup("otheruser", "password")
	require.NoError(t, s.db.Create(&models.Follow{FollowerID: user.ID, FollowedID: other.ID}).Error)
	s.loginAs(user)

	resp, body := s.get(userURL(user.ID) + "/following")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Following")
	assert.Contains(t, body, "@otheruser")
}

func TestViewFollowingLoggedOut(t *testing.T) {
	s := newTestServer(t)
	user := s.signup("testuser", "testuser")

	_, body := s.get(userURL(user.ID) + "/following")

	assert.NotContains(t, body, "Following")
	assert.Contains(t, body, "Access unauthorized")
}

func TestViewFollowingLoggedOutRedirects(t *testing.T) {
	s := newTestServer(t)
	user := s.signup("testuser", "testuser")
	defer s.noRedirects()()

	resp, _ := s.get(userURL(user.ID) + "/following")

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestViewFollowers(t *testing.T) {
	s := newTestServer(t)
	user := s.signup("testuser", "testuser")
	fan := s.signup("fan", "password")
	require.NoError(t, s.db.Create(&models.Follow{FollowerID: fan.ID, FollowedID: user.ID}).Error)

	_, body := s.get(userURL(user.ID) + "/followers")
	assert.Contains(t, body, "Access unauthorized")
	assert.NotContains(t, body, "@fan")

	s.loginAs(user)
	resp, body := s.get(userURL(user.ID) + "/followers")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Followers")
	assert.Contains(t, body, "@fan")
}

func TestAddMessage(t *testing.T) {
	s := newTestServer(t)
	user := s.signup("testuser", "testuser")
	s.loginAs(user)
	defer s.noRedirects()()

	resp, _ := s.post("/messages/new", url.Values{"text": {"Hello"}})

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, userURL(user.ID), resp.Header.Get("Location"))

	var messages []models.Message
	require.NoError(t, s.db.Find(&messages).Error)
	require.Len(t, messages, 1)
	assert.Equal(t, "Hello", messages[0].Text)
	assert.Equal(t, user.ID, messages[0].UserID)
}

func TestAddMessageFollowRedirects(t *testing.T) {
	s := newTestServer(t)
	user := s.signup("testuser", "testuser")
	s.loginAs(user)

	resp, body := s.post("/messages/new", url.Values{"text": {"Hello"}})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Hello")
}

func TestAddMessageAnonymous(t *testing.T) {
	s := newTestServer(t)
	s.signup("testuser", "testuser")

	_, body := s.post("/messages/new", url.Values{"text": {"Hello"}})

	assert.Contains(t, body, "Access unauthorized")
	assert.Zero(t, s.count(&models.Message{}))
}

func TestAddMessageTooLong(t *testing.T) {
	s := newTestServer(t)
	user := s.signup("testuser", "testuser")
	s.loginAs(user)

	resp, body := s.post("/messages/new", url.Values{"text": {strings.Repeat("a", 141)}})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "at most 140 characters")
	assert.Zero(t, s.count(&models.Message{}))
}

func TestDeleteMessage(t *testing.T) {
	s := newTestServer(t)
	owner := s.signup("testuser", "testuser")
	other := s.signup("otheruser", "password")
	msg := &models.Message{Text: "to be deleted", UserID: owner.ID}
	require.NoError(t, s.db.Create(msg).Error)
	deleteURL := "/messages/" + strconv.FormatUint(uint64(msg.ID), 10) + "/delete"

	// anonymous
	_, body := s.post(deleteURL, nil)
	assert.Contains(t, body, "Access unauthorized")
	assert.Equal(t, int64(1), s.count(&models.Message{}))

	// someone else, by either method
	s.loginAs(other)
	_, body = s.post(deleteURL, nil)
	assert.Contains(t, body, "Access unauthorized")
	assert.Equal(t, int64(1), s.count(&models.Message{}))

	resp, body := s.get(deleteURL)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/", resp.Request.URL.Path)
	assert.Contains(t, body, "Access unauthorized")
	assert.Equal(t, int64(1), s.count(&models.Message{}))

	// the owner
	s.loginAs(owner)
	restore := s.noRedirects()
	resp, _ = s.post(deleteURL, nil)
	restore()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, userURL(owner.ID), resp.Header.Get("Location"))
	assert.Zero(t, s.count(&models.Message{}))

	// already gone
	resp, _ = s.get(deleteURL)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestShowMessageAndUser(t *testing.T) {
	s := newTestServer(t)
	user := s.signup("testuser", "testuser")
	msg := &models.Message{Text: "public words", UserID: user.ID}
	require.NoError(t, s.db.Create(msg).Error)

	resp, body := s.get("/messages/" + strconv.FormatUint(uint64(msg.ID), 10))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "public words")

	resp, body = s.get(userURL(user.ID))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "public words")

	resp, _ = s.get("/messages/9999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = s.get("/users/9999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = s.get("/users/not-a-number")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFollowAndUnfollow(t *testing.T) {
	s := newTestServer(t)
	user := s.signup("testuser", "testuser")
	other := s.signup("otheruser", "password")
	s.loginAs(user)

	resp, body := s.post("/users/follow/"+strconv.FormatUint(uint64(other.ID), 10), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, userURL(user.ID)+"/following", resp.Request.URL.Path)
	assert.Contains(t, body, "@otheruser")
	assert.Equal(t, int64(1), s.count(&models.Follow{}))

	_, body = s.post("/users/follow/"+strconv.FormatUint(uint64(user.ID), 10), nil)
	assert.Contains(t, body, "You cannot follow yourself.")
	assert.Equal(t, int64(1), s.count(&models.Follow{}))

	_, body = s.post("/users/stop-following/"+strconv.FormatUint(uint64(other.ID), 10), nil)
	assert.NotContains(t, body, "@otheruser")
	assert.Zero(t, s.count(&models.Follow{}))
}

func TestToggleLike(t *testing.T) {
	s := newTestServer(t)
	user := s.signup("testuser", "testuser")
	other := s.signup("otheruser", "password")
	msg := &models.Message{Text: "likeable", UserID: other.ID}
	require.NoError(t, s.db.Create(msg).Error)
	likeURL := "/users/add_like/" + strconv.FormatUint(uint64(msg.ID), 10)
	s.loginAs(user)

	resp, _ := s.post(likeURL, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(1), s.count(&models.Like{}))

	_, body := s.get(userURL(user.ID) + "/likes")
	assert.Contains(t, body, "likeable")

	s.post(likeURL, nil)
	assert.Zero(t, s.count(&models.Like{}))

	s.loginAs(other)
	_, body = s.post(likeURL, nil)
	assert.Contains(t, body, "You cannot like your own message.")
	assert.Zero(t, s.count(&models.Like{}))
}

func TestUpdateProfile(t *testing.T) {
	s := newTestServer(t)
	user := s.signup("testuser", "testuser")
	s.loginAs(user)

	_, body := s.post("/users/profile", url.Values{
		"username": {"renamed"},
		"email":    {"testuser@test.com"},
		"password": {"wrong"},
	})
	assert.Contains(t, body, "Invalid password, please try again.")

	_, body = s.post("/users/profile", url.Values{
		"username": {"   "},
		"email":    {"testuser@test.com"},
		"password": {"testuser"},
	})
	assert.Contains(t, body, "Username must not be blank.")
	var stored models.User
	require.NoError(t, s.db.First(&stored, user.ID).Error)
	assert.Equal(t, "testuser", stored.Username)

	resp, body := s.post("/users/profile", url.Values{
		"username": {"renamed"},
		"email":    {"testuser@test.com"},
		"bio":      {"I like birds"},
		"password": {"testuser"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "@renamed")
	assert.Contains(t, body, "I like birds")
}

func TestDeleteUser(t *testing.T) {
	s := newTestServer(t)
	user := s.signup("testuser", "testuser")
	other := s.signup("otheruser", "password")
	require.NoError(t, s.db.Create(&models.Message{Text: "bye", UserID: user.ID}).Error)
	require.NoError(t, s.db.Create(&models.Follow{FollowerID: other.ID, FollowedID: user.ID}).Error)
	s.loginAs(user)

	resp, body := s.post("/users/delete", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/signup", resp.Request.URL.Path)
	assert.Contains(t, body, "Your account has been deleted.")
	assert.Equal(t, int64(1), s.count(&models.User{}))
	assert.Zero(t, s.count(&models.Message{}))
	assert.Zero(t, s.count(&models.Follow{}))
}

func TestSearchUsers(t *testing.T) {
	s := newTestServer(t)
	s.signup("alice", "password")
	s.signup("bob", "password")

	_, body := s.get("/users?q=ali")
	assert.Contains(t, body, "@alice")
	assert.NotContains(t, body, "@bob")
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.get("/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"database":"up"`)

	resp, body = s.get("/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "warbler_http_request_duration_seconds")
}

func TestUnknownPathRendersNotFound(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.get("/no/such/page")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "404")
}
