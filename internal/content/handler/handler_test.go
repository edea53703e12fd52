package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-cms/portfolio-api/internal/content/repository"
	"github.com/portfolio-cms/portfolio-api/internal/content/service"
	"github.com/portfolio-cms/portfolio-api/internal/models"
	"github.com/portfolio-cms/portfolio-api/internal/storage"
	"github.com/portfolio-cms/portfolio-api/internal/tokens"
	"github.com/portfolio-cms/portfolio-api/pkg/middleware"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "handler-test-secret"

type fixture struct {
	router *gin.Engine
	store  *repository.Store
	dir    string
	token  string
}

func setup(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	local, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)

	store := repository.NewMemoryStore()
	h := New(service.New(store, nil), local)
	mgr := tokens.NewManager(testSecret, time.Hour)

	r := gin.New()
	RegisterContentRoutes(r.Group("/api"), h, middleware.AdminAuth(mgr))

	token, err := mgr.Issue(&models.Admin{ID: primitive.NewObjectID()})
	require.NoError(t, err)
	return &fixture{router: r, store: store, dir: dir, token: token}
}

func (f *fixture) do(t *testing.T, method, path string, body []byte, contentType string, auth bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) doJSON(t *testing.T, method, path string, v interface{}) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return f.do(t, method, path, b, "application/json", true)
}

func (f *fixture) content(t *testing.T) models.Content {
	t.Helper()
	w := f.do(t, http.MethodGet, "/api/content", nil, "", false)
	require.Equal(t, http.StatusOK, w.Code)
	var c models.Content
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &c))
	return c
}

func multipartBody(t *testing.T, fields map[string]string, fileName string, file []byte) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("image", fileName)
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf.Bytes(), mw.FormDataContentType()
}

func TestGetContent_EmptyStore(t *testing.T) {
	f := setup(t)
	c := f.content(t)
	require.Equal(t, models.DefaultAboutTitle, c.About.Title)
	require.Empty(t, c.Projects)
	require.Empty(t, c.Experience)
	require.Empty(t, c.Skills)

	w := f.do(t, http.MethodGet, "/api/content", nil, "", false)
	require.NotContains(t, w.Body.String(), "updatedAt")
}

func TestReplaceSkills_RoundTrip(t *testing.T) {
	f := setup(t)

	w := f.doJSON(t, http.MethodPut, "/api/skills", []string{"Python", "JS"})
	require.Equal(t, http.StatusOK, w.Code)
	w = f.doJSON(t, http.MethodPut, "/api/skills", []string{"Go", "Rust"})
	require.Equal(t, http.StatusOK, w.Code)

	require.ElementsMatch(t, []string{"Go", "Rust"}, f.content(t).Skills)
}

func TestReplaceSkills_RejectsNonArray(t *testing.T) {
	f := setup(t)
	w := f.do(t, http.MethodPut, "/api/skills", []byte(`{"skills":"Go"}`), "application/json", true)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReplaceSkills_NullKeepsExistingSet(t *testing.T) {
	f := setup(t)
	w := f.doJSON(t, http.MethodPut, "/api/skills", []string{"Go"})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPut, "/api/skills", []byte(`null`), "application/json", true)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, []string{"Go"}, f.content(t).Skills)

	w = f.do(t, http.MethodPut, "/api/skills", []byte(`[]`), "application/json", true)
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, f.content(t).Skills)
}

func TestReplaceSkills_DuplicateIsServerError(t *testing.T) {
	f := setup(t)
	w := f.doJSON(t, http.MethodPut, "/api/skills", []string{"Go", "Go"})
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "error")
}

func TestUpdateAbout_Singleton(t *testing.T) {
	f := setup(t)

	w := f.doJSON(t, http.MethodPut, "/api/about", map[string]string{"title": "Hi", "text": "one"})
	require.Equal(t, http.StatusOK, w.Code)
	w = f.doJSON(t, http.MethodPut, "/api/about", map[string]string{"title": "Hello", "text": "two"})
	require.Equal(t, http.StatusOK, w.Code)

	c := f.content(t)
	require.Equal(t, "Hello", c.About.Title)
	require.Equal(t, "two", c.About.Text)
	require.Equal(t, 1, f.store.About.(*repository.MemoryAboutRepo).Count())
}

func TestCreateProject_WithoutFile(t *testing.T) {
	f := setup(t)

	body, ct := multipartBody(t, map[string]string{"title": "CLI", "tech": "Go"}, "", nil)
	w := f.do(t, http.MethodPost, "/api/projects", body, ct, true)
	require.Equal(t, http.StatusCreated, w.Code)

	var p models.Project
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	require.False(t, p.ID.IsZero())
	require.Equal(t, "CLI", p.Title)
	require.Empty(t, p.Image)
}

func TestCreateProject_WithFile(t *testing.T) {
	f := setup(t)

	body, ct := multipartBody(t, map[string]string{"title": "Site"}, "shot.png", []byte("png-bytes"))
	w := f.do(t, http.MethodPost, "/api/projects", body, ct, true)
	require.Equal(t, http.StatusCreated, w.Code)

	var p models.Project
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	require.True(t, strings.HasPrefix(p.Image, storage.URLPrefix))
	require.True(t, strings.HasSuffix(p.Image, "-shot.png"))

	data, err := os.ReadFile(filepath.Join(f.dir, strings.TrimPrefix(p.Image, storage.URLPrefix)))
	require.NoError(t, err)
	require.Equal(t, "png-bytes", string(data))
}

func TestCreateProject_JSONBody(t *testing.T) {
	f := setup(t)
	w := f.doJSON(t, http.MethodPost, "/api/projects", map[string]string{"title": "API", "link": "https://example.com"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "API", f.content(t).Projects[0].Title)
}

func TestUpdateProject_KeepsImageWithoutFile(t *testing.T) {
	f := setup(t)

	body, ct := multipartBody(t, map[string]string{"title": "Old"}, "a.png", []byte("a"))
	w := f.do(t, http.MethodPost, "/api/projects", body, ct, true)
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Project
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	body, ct = multipartBody(t, map[string]string{"title": "New"}, "", nil)
	w = f.do(t, http.MethodPut, "/api/projects/"+created.ID.Hex(), body, ct, true)
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Project
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.Equal(t, "New", updated.Title)
	require.Equal(t, created.Image, updated.Image)
}

func TestUpdateProject_UnknownIDIsServerError(t *testing.T) {
	f := setup(t)
	w := f.doJSON(t, http.MethodPut, "/api/projects/"+primitive.NewObjectID().Hex(), map[string]string{"title": "x"})
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestDeleteProject_UnknownIDSucceeds(t *testing.T) {
	f := setup(t)
	w := f.do(t, http.MethodDelete, "/api/projects/"+primitive.NewObjectID().Hex(), nil, "", true)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "project deleted")
}

func TestDeleteProject_MalformedIDIsServerError(t *testing.T) {
	f := setup(t)
	w := f.do(t, http.MethodDelete, "/api/projects/not-an-id", nil, "", true)
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestExperienceLifecycle(t *testing.T) {
	f := setup(t)

	w := f.doJSON(t, http.MethodPost, "/api/experience", map[string]string{"role": "Engineer", "company": "Acme"})
	require.Equal(t, http.StatusCreated, w.Code)
	var e models.Experience
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))

	w = f.doJSON(t, http.MethodPut, "/api/experience/"+e.ID.Hex(), map[string]string{"duration": "2020-2024"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	require.Equal(t, "Engineer", e.Role)
	require.Equal(t, "2020-2024", e.Duration)

	w = f.do(t, http.MethodDelete, "/api/experience/"+e.ID.Hex(), nil, "", true)
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, f.content(t).Experience)
}

func TestContact_SubmitAndList(t *testing.T) {
	f := setup(t)

	b, _ := json.Marshal(map[string]string{"name": "Ann", "email": "ann@example.com", "message": "hello"})
	w := f.do(t, http.MethodPost, "/api/contact/submit", b, "application/json", false)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), "message received")

	w = f.do(t, http.MethodGet, "/api/contact/submissions", nil, "", true)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Submission
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	require.Equal(t, "Ann", list[0].Name)
	require.False(t, list[0].Date.IsZero())
}

func TestContact_MissingFields(t *testing.T) {
	f := setup(t)
	b, _ := json.Marshal(map[string]string{"name": "Ann"})
	w := f.do(t, http.MethodPost, "/api/contact/submit", b, "application/json", false)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	f := setup(t)
	id := primitive.NewObjectID().Hex()

	cases := []struct{ method, path string }{
		{http.MethodPut, "/api/about"},
		{http.MethodPut, "/api/skills"},
		{http.MethodPost, "/api/projects"},
		{http.MethodPut, "/api/projects/" + id},
		{http.MethodDelete, "/api/projects/" + id},
		{http.MethodPost, "/api/experience"},
		{http.MethodPut, "/api/experience/" + id},
		{http.MethodDelete, "/api/experience/" + id},
		{http.MethodGet, "/api/contact/submissions"},
	}
	for _, tc := range cases {
		w := f.do(t, tc.method, tc.path, []byte(`["Go"]`), "application/json", false)
		require.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}

	// no mutation reached the store
	c := f.content(t)
	require.Empty(t, c.Skills)
	require.Zero(t, f.store.About.(*repository.MemoryAboutRepo).Writes)
}

func TestAdminRoutesRejectForeignToken(t *testing.T) {
	f := setup(t)
	other, err := tokens.GenerateAccessToken("another-secret", primitive.NewObjectID().Hex(), time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/skills", strings.NewReader(`["Go"]`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+other)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Empty(t, f.content(t).Skills)
}

type stubPresigner struct {
	url string
	err error
}

func (s stubPresigner) PresignedURL(ctx context.Context, name string, expires time.Duration) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.url + name, nil
}

func TestUploadRedirect(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/uploads/:name", UploadRedirect(stubPresigner{url: "https://objects.example.com/portfolio/"}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/1-a.png", nil))
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "https://objects.example.com/portfolio/1-a.png", w.Header().Get("Location"))

	r2 := gin.New()
	r2.GET("/uploads/:name", UploadRedirect(stubPresigner{err: errors.New("no such key")}))
	w = httptest.NewRecorder()
	r2.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/missing.png", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}
