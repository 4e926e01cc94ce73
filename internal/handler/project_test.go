package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portapro/portapro-api/internal/model"
	"github.com/portapro/portapro-api/internal/repository"
)

// memProjects is an in-memory project store for handler tests.
type memProjects struct {
	mu       sync.Mutex
	seq      uint64
	projects []*model.Project
}

func copyProject(p *model.Project) *model.Project {
	cp := *p
	cp.ToolsUsed = append([]string(nil), p.ToolsUsed...)
	cp.Media = append([]model.MediaItem(nil), p.Media...)
	cp.URLs = append([]string(nil), p.URLs...)
	return &cp
}

func (m *memProjects) Create(_ context.Context, p *model.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	p.ID = m.seq
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	m.projects = append(m.projects, copyProject(p))
	return nil
}

func (m *memProjects) ListByUser(_ context.Context, userID uint64) ([]*model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Project
	for _, p := range m.projects {
		if p.UserID == userID {
			out = append(out, copyProject(p))
		}
	}
	return out, nil
}

func (m *memProjects) find(userID uint64, uid string) *model.Project {
	for _, p := range m.projects {
		if p.UserID == userID && p.UID == uid {
			return p
		}
	}
	return nil
}

func (m *memProjects) GetByUID(_ context.Context, userID uint64, uid string) (*model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.find(userID, uid)
	if p == nil {
		return nil, repository.ErrProjectNotFound
	}
	return copyProject(p), nil
}

func (m *memProjects) Update(_ context.Context, userID uint64, uid string, upd repository.ProjectUpdate) (*model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.find(userID, uid)
	if p == nil {
		return nil, repository.ErrProjectNotFound
	}
	if upd.ProjectName != nil {
		p.ProjectName = *upd.ProjectName
	}
	if upd.Category != nil {
		p.Category = *upd.Category
	}
	if upd.DateAdded != nil {
		p.DateAdded = *upd.DateAdded
	}
	if upd.ToolsUsed != nil {
		p.ToolsUsed = append([]string(nil), (*upd.ToolsUsed)...)
	}
	if upd.ProjectStatus != nil {
		p.ProjectStatus = *upd.ProjectStatus
	}
	p.URLs = append(p.URLs, upd.URLs...)
	p.UpdatedAt = time.Now().UTC()
	return copyProject(p), nil
}

func (m *memProjects) AppendMedia(_ context.Context, userID uint64, uid string, items []model.MediaItem) (*model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.find(userID, uid)
	if p == nil {
		return nil, repository.ErrProjectNotFound
	}
	p.Media = append(p.Media, items...)
	p.UpdatedAt = time.Now().UTC()
	return copyProject(p), nil
}

func (m *memProjects) Delete(_ context.Context, userID uint64, uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.projects {
		if p.UserID == userID && p.UID == uid {
			m.projects = append(m.projects[:i], m.projects[i+1:]...)
			return nil
		}
	}
	return repository.ErrProjectNotFound
}

// fakeUploader records object keys and hands back deterministic URLs.
type fakeUploader struct {
	mu   sync.Mutex
	keys []string
}

func (f *fakeUploader) Upload(_ context.Context, key, _ string, body io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	return "https://cdn.test/" + key, nil
}

func doProject(t *testing.T, h echo.HandlerFunc, userID uint64, method, uid string, body io.Reader, contentType string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/v1/projects", body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(userID))
	if uid != "" {
		c.SetParamNames("uid")
		c.SetParamValues(uid)
	}
	require.NoError(t, h(c))

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, rec.Code, env.Code)
	return rec, env
}

const createBody = `{"projectName":"Deck Remodel","category":"Carpentry","dateAdded":"2024-03-15","toolsUsed":["saw","drill"],"projectStatus":"In Progress","urls":["https://example.com/a"]}`

func createProject(t *testing.T, h *ProjectHandler, userID uint64) string {
	t.Helper()
	rec, env := doProject(t, h.Create, userID, http.MethodPost, "", strings.NewReader(createBody), echo.MIMEApplicationJSON)
	require.Equal(t, http.StatusCreated, rec.Code)

	var view struct {
		UID string `json:"uid"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	require.Len(t, view.UID, 22)
	return view.UID
}

func TestProjectCreate(t *testing.T) {
	store := &memProjects{}
	h := NewProjectHandler(store, nil)

	rec, env := doProject(t, h.Create, 1, http.MethodPost, "", strings.NewReader(createBody), echo.MIMEApplicationJSON)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Project created successfully", env.Message)

	var view projectView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Len(t, view.UID, 22)
	assert.Equal(t, "Deck Remodel", view.ProjectName)
	assert.Equal(t, "2024-03-15", view.DateAdded)
	assert.Equal(t, []string{"saw", "drill"}, view.ToolsUsed)
	assert.Equal(t, "In Progress", view.ProjectStatus)
	assert.NotContains(t, string(env.Data), "userId")
}

func TestProjectCreateValidation(t *testing.T) {
	h := NewProjectHandler(&memProjects{}, nil)

	tests := []struct {
		name string
		body string
	}{
		{"bad status", `{"projectName":"X","category":"Y","dateAdded":"2024-03-15","projectStatus":"Done"}`},
		{"bad date", `{"projectName":"X","category":"Y","dateAdded":"15/03/2024","projectStatus":"Completed"}`},
		{"missing name", `{"category":"Y","dateAdded":"2024-03-15","projectStatus":"Completed"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := doProject(t, h.Create, 1, http.MethodPost, "", strings.NewReader(tt.body), echo.MIMEApplicationJSON)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestProjectListScopedToOwner(t *testing.T) {
	store := &memProjects{}
	h := NewProjectHandler(store, nil)
	createProject(t, h, 1)
	createProject(t, h, 1)
	createProject(t, h, 2)

	rec, env := doProject(t, h.List, 1, http.MethodGet, "", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Projects retrieved successfully", env.Message)
	var views []projectView
	require.NoError(t, json.Unmarshal(env.Data, &views))
	assert.Len(t, views, 2)

	_, env = doProject(t, h.List, 3, http.MethodGet, "", nil, "")
	require.NoError(t, json.Unmarshal(env.Data, &views))
	assert.Empty(t, views)
}

func TestProjectGet(t *testing.T) {
	store := &memProjects{}
	h := NewProjectHandler(store, nil)
	uid := createProject(t, h, 1)

	rec, env := doProject(t, h.Get, 1, http.MethodGet, uid, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Project retrieved successfully", env.Message)

	// Another user's handle does not resolve, even with a valid uid.
	rec, env = doProject(t, h.Get, 2, http.MethodGet, uid, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Project not found", env.Message)

	rec, _ = doProject(t, h.Get, 1, http.MethodGet, "does-not-exist", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProjectUpdate(t *testing.T) {
	store := &memProjects{}
	h := NewProjectHandler(store, nil)
	uid := createProject(t, h, 1)

	body := `{"projectStatus":"Completed","urls":["https://example.com/b"]}`
	rec, env := doProject(t, h.Update, 1, http.MethodPut, uid, strings.NewReader(body), echo.MIMEApplicationJSON)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Project updated successfully", env.Message)

	var view projectView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "Completed", view.ProjectStatus)
	// urls accumulate instead of being replaced.
	assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, view.URLs)
	assert.Equal(t, "Deck Remodel", view.ProjectName)

	rec, _ = doProject(t, h.Update, 1, http.MethodPut, uid, strings.NewReader(`{"projectStatus":"Paused"}`), echo.MIMEApplicationJSON)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doProject(t, h.Update, 1, http.MethodPut, "missing", strings.NewReader(body), echo.MIMEApplicationJSON)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProjectDelete(t *testing.T) {
	store := &memProjects{}
	h := NewProjectHandler(store, nil)
	uid := createProject(t, h, 1)

	rec, env := doProject(t, h.Delete, 1, http.MethodDelete, uid, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Project deleted successfully", env.Message)

	rec, _ = doProject(t, h.Delete, 1, http.MethodDelete, uid, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func multipartBody(t *testing.T, files map[string][]byte, descriptions []string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, content := range files {
		fw, err := w.CreateFormFile("media", name)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	for _, d := range descriptions {
		require.NoError(t, w.WriteField("descriptions", d))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestProjectUploadMedia(t *testing.T) {
	store := &memProjects{}
	uploader := &fakeUploader{}
	h := NewProjectHandler(store, uploader)
	uid := createProject(t, h, 1)

	body, contentType := multipartBody(t,
		map[string][]byte{"site.jpg": []byte("jpeg-bytes")},
		[]string{"Front of the house"})
	rec, env := doProject(t, h.UploadMedia, 1, http.MethodPost, uid, body, contentType)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Media uploaded successfully", env.Message)

	var view projectView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	require.Len(t, view.Media, 1)
	assert.Equal(t, "Front of the house", view.Media[0].Description)
	assert.True(t, strings.HasPrefix(view.Media[0].URL, "https://cdn.test/projects/"+uid+"/"))

	require.Len(t, uploader.keys, 1)
	assert.True(t, strings.HasPrefix(uploader.keys[0], "projects/"+uid+"/"))
}

func TestProjectUploadMediaFailures(t *testing.T) {
	store := &memProjects{}
	h := NewProjectHandler(store, &fakeUploader{})
	uid := createProject(t, h, 1)

	// No files in the form.
	body, contentType := multipartBody(t, nil, []string{"orphan caption"})
	rec, env := doProject(t, h.UploadMedia, 1, http.MethodPost, uid, body, contentType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No files uploaded", env.Message)

	// Someone else's project.
	body, contentType = multipartBody(t, map[string][]byte{"a.png": []byte("x")}, nil)
	rec, env = doProject(t, h.UploadMedia, 2, http.MethodPost, uid, body, contentType)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Project not found", env.Message)

	// Media store not configured.
	unconfigured := NewProjectHandler(store, nil)
	body, contentType = multipartBody(t, map[string][]byte{"a.png": []byte("x")}, nil)
	rec, env = doProject(t, unconfigured.UploadMedia, 1, http.MethodPost, uid, body, contentType)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Media uploads are not configured", env.Message)
}
