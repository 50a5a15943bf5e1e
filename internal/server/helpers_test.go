package server

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/auth"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/cache"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/config"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/group"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/middleware"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/migrate"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/post"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/storage"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/testutil"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/user"
)

// smallGIF is a 1x1 transparent GIF.
var smallGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00,
	0x01, 0x00, 0x00, 0x00, 0x00, 0x21, 0xf9, 0x04,
	0x01, 0x0a, 0x00, 0x01, 0x00, 0x2c, 0x00, 0x00,
	0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x02,
	0x02, 0x4c, 0x01, 0x00, 0x3b,
}

type testApp struct {
	t        *testing.T
	cfg      *config.Config
	router   *gin.Engine
	cache    *cache.Memory
	mediaDir string
	now      time.Time
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SQLite(t)
	require.NoError(t, migrate.Run(db))

	cfg := config.Default()
	cfg.Media.Dir = t.TempDir()
	cfg.Media.BaseURL = "/media/"
	auth.Configure(cfg.Auth)

	app := &testApp{
		t:        t,
		cfg:      cfg,
		cache:    cache.NewMemory(),
		mediaDir: cfg.Media.Dir,
		now:      time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	app.cache.Now = func() time.Time { return app.now }

	media, err := storage.NewLocalStore(cfg.Media.Dir, cfg.Media.BaseURL)
	require.NoError(t, err)

	limiter := middleware.NewRateLimiter(1000, time.Minute)
	t.Cleanup(limiter.Stop)

	app.router = NewRouter(cfg, app.cache, media, limiter)
	return app
}

// expireCache moves the cache clock past the fragment TTL.
func (a *testApp) expireCache() {
	a.now = a.now.Add(time.Duration(a.cfg.Cache.TTLSeconds+1) * time.Second)
}

func (a *testApp) createUser(username string) *user.User {
	a.t.Helper()
	u := &user.User{Username: username, Email: username + "@example.com"}
	require.NoError(a.t, user.Create(u, "password123", 4))
	return u
}

func (a *testApp) createGroup(title, slug string) *group.Group {
	a.t.Helper()
	g := &group.Group{Title: title, Slug: slug, Description: "About " + title}
	require.NoError(a.t, group.Create(g))
	return g
}

func (a *testApp) createPost(author *user.User, text string) *post.Post {
	a.t.Helper()
	p := &post.Post{Text: text, AuthorID: author.ID}
	require.NoError(a.t, post.Create(p))
	return p
}

func (a *testApp) do(req *http.Request, as *user.User) *httptest.ResponseRecorder {
	a.t.Helper()
	if as != nil {
		token, err := auth.IssueToken(as.ID)
		require.NoError(a.t, err)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) get(path string, as *user.User) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, path, nil), as)
}

func (a *testApp) postForm(path string, as *user.User, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req, as)
}

// postMultipart sends fields and, when fileName is set, file as "image".
func (a *testApp) postMultipart(path string, as *user.User, fields map[string]string, fileName string, file []byte) *httptest.ResponseRecorder {
	a.t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(a.t, mw.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("image", fileName)
		require.NoError(a.t, err)
		_, err = fw.Write(file)
		require.NoError(a.t, err)
	}
	require.NoError(a.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return a.do(req, as)
}

func (a *testApp) reload(p *post.Post) *post.Post {
	a.t.Helper()
	got, err := post.FindByAuthorAndID(p.AuthorID, p.ID)
	require.NoError(a.t, err)
	return got
}
