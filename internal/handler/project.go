package handler

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/portapro/portapro-api/internal/media"
	"github.com/portapro/portapro-api/internal/model"
	"github.com/portapro/portapro-api/internal/repository"
	"github.com/portapro/portapro-api/internal/response"
	"github.com/portapro/portapro-api/internal/utils"
)

// maxMediaFiles caps one upload request.
const maxMediaFiles = 10

const dateLayout = "2006-01-02"

// ProjectStore is the persistence contract for user-owned projects,
// implemented by repository.ProjectRepo and by in-memory fakes in tests.
type ProjectStore interface {
	Create(ctx context.Context, p *model.Project) error
	ListByUser(ctx context.Context, userID uint64) ([]*model.Project, error)
	GetByUID(ctx context.Context, userID uint64, uid string) (*model.Project, error)
	Update(ctx context.Context, userID uint64, uid string, upd repository.ProjectUpdate) (*model.Project, error)
	AppendMedia(ctx context.Context, userID uint64, uid string, items []model.MediaItem) (*model.Project, error)
	Delete(ctx context.Context, userID uint64, uid string) error
}

// MediaUploader stores one attachment and returns its public URL. The
// production implementation is media.Store; a nil uploader means media
// storage is not configured.
type MediaUploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// ProjectHandler bundles the project store and the media uploader.
type ProjectHandler struct {
	Projects ProjectStore
	Uploads  MediaUploader
}

func NewProjectHandler(projects ProjectStore, uploads MediaUploader) *ProjectHandler {
	return &ProjectHandler{Projects: projects, Uploads: uploads}
}

// ----- DTOs -----

type createProjectReq struct {
	ProjectName   string   `json:"projectName"`
	Category      string   `json:"category"`
	DateAdded     string   `json:"dateAdded"`
	ToolsUsed     []string `json:"toolsUsed"`
	ProjectStatus string   `json:"projectStatus"`
	URLs          []string `json:"urls"`
}

type updateProjectReq struct {
	ProjectName   *string   `json:"projectName"`
	Category      *string   `json:"category"`
	DateAdded     *string   `json:"dateAdded"`
	ToolsUsed     *[]string `json:"toolsUsed"`
	ProjectStatus *string   `json:"projectStatus"`
	URLs          []string  `json:"urls"`
}

// projectView is the externally observable project shape. Internal ids and
// the owner reference stay out of it; uid is the public handle.
type projectView struct {
	UID           string            `json:"uid"`
	ProjectName   string            `json:"projectName"`
	Category      string            `json:"category"`
	DateAdded     string            `json:"dateAdded"`
	ToolsUsed     []string          `json:"toolsUsed"`
	ProjectStatus string            `json:"projectStatus"`
	Media         []model.MediaItem `json:"media"`
	URLs          []string          `json:"urls"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

func newProjectView(p *model.Project) projectView {
	return projectView{
		UID:           p.UID,
		ProjectName:   p.ProjectName,
		Category:      p.Category,
		DateAdded:     p.DateAdded.Format(dateLayout),
		ToolsUsed:     p.ToolsUsed,
		ProjectStatus: p.ProjectStatus,
		Media:         p.Media,
		URLs:          p.URLs,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func validStatus(s string) bool {
	return s == "Completed" || s == "In Progress"
}

// Create handles POST /v1/projects.
func (h *ProjectHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, response.Unauthorized("Unauthorized"))
	}
	var req createProjectReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.ProjectName = strings.TrimSpace(req.ProjectName)
	req.Category = strings.TrimSpace(req.Category)
	if req.ProjectName == "" || req.Category == "" {
		return badRequest(c, "projectName and category are required")
	}
	if !validStatus(req.ProjectStatus) {
		return badRequest(c, `projectStatus must be "Completed" or "In Progress"`)
	}
	dateAdded, err := time.Parse(dateLayout, req.DateAdded)
	if err != nil {
		return badRequest(c, "dateAdded must be a date in YYYY-MM-DD format")
	}

	p := &model.Project{
		UID:           utils.NewProjectUID(),
		UserID:        userID,
		ProjectName:   req.ProjectName,
		Category:      req.Category,
		DateAdded:     dateAdded,
		ToolsUsed:     req.ToolsUsed,
		ProjectStatus: req.ProjectStatus,
		URLs:          req.URLs,
	}
	if err := h.Projects.Create(c.Request().Context(), p); err != nil {
		return respondError(c, err)
	}
	return respond(c, response.New("Project created successfully", http.StatusCreated, newProjectView(p)))
}

// List handles GET /v1/projects.
func (h *ProjectHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, response.Unauthorized("Unauthorized"))
	}
	projects, err := h.Projects.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	views := make([]projectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, newProjectView(p))
	}
	return respond(c, response.New("Projects retrieved successfully", http.StatusOK, views))
}

// Get handles GET /v1/projects/:uid.
func (h *ProjectHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, response.Unauthorized("Unauthorized"))
	}
	p, err := h.Projects.GetByUID(c.Request().Context(), userID, c.Param("uid"))
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return respondError(c, response.NotFound("Project not found"))
		}
		return respondError(c, err)
	}
	return respond(c, response.New("Project retrieved successfully", http.StatusOK, newProjectView(p)))
}

// Update handles PUT /v1/projects/:uid. Provided fields replace existing
// values except urls, which are appended.
func (h *ProjectHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, response.Unauthorized("Unauthorized"))
	}
	var req updateProjectReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	upd := repository.ProjectUpdate{
		ProjectName:   req.ProjectName,
		Category:      req.Category,
		ToolsUsed:     req.ToolsUsed,
		ProjectStatus: req.ProjectStatus,
		URLs:          req.URLs,
	}
	if req.ProjectStatus != nil && !validStatus(*req.ProjectStatus) {
		return badRequest(c, `projectStatus must be "Completed" or "In Progress"`)
	}
	if req.DateAdded != nil {
		d, err := time.Parse(dateLayout, *req.DateAdded)
		if err != nil {
			return badRequest(c, "dateAdded must be a date in YYYY-MM-DD format")
		}
		upd.DateAdded = &d
	}

	p, err := h.Projects.Update(c.Request().Context(), userID, c.Param("uid"), upd)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return respondError(c, response.NotFound("Project not found"))
		}
		return respondError(c, err)
	}
	return respond(c, response.New("Project updated successfully", http.StatusOK, newProjectView(p)))
}

// Delete handles DELETE /v1/projects/:uid.
func (h *ProjectHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, response.Unauthorized("Unauthorized"))
	}
	if err := h.Projects.Delete(c.Request().Context(), userID, c.Param("uid")); err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return respondError(c, response.NotFound("Project not found"))
		}
		return respondError(c, err)
	}
	return respond(c, response.New("Project deleted successfully", http.StatusOK, nil))
}

// UploadMedia handles POST /v1/projects/:uid/media. Each multipart file
// under the "media" field is uploaded to the hosted media store; the i-th
// "descriptions" form value, when present, captions the i-th file.
func (h *ProjectHandler) UploadMedia(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, response.Unauthorized("Unauthorized"))
	}
	if h.Uploads == nil {
		return respondError(c, response.NewError("Media uploads are not configured", http.StatusServiceUnavailable))
	}

	uid := c.Param("uid")
	// Ownership check before any bytes land in the media store.
	if _, err := h.Projects.GetByUID(c.Request().Context(), userID, uid); err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return respondError(c, response.NotFound("Project not found"))
		}
		return respondError(c, err)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(c, "Invalid multipart form")
	}
	files := form.File["media"]
	if len(files) == 0 {
		return badRequest(c, "No files uploaded")
	}
	if len(files) > maxMediaFiles {
		return badRequest(c, "Too many files in one upload")
	}
	descriptions := form.Value["descriptions"]

	items := make([]model.MediaItem, 0, len(files))
	for i, fh := range files {
		url, err := h.uploadOne(c.Request().Context(), uid, fh)
		if err != nil {
			return respondError(c, err)
		}
		var desc string
		if i < len(descriptions) {
			desc = descriptions[i]
		}
		items = append(items, model.MediaItem{URL: url, Description: desc})
	}

	p, err := h.Projects.AppendMedia(c.Request().Context(), userID, uid, items)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return respondError(c, response.NotFound("Project not found"))
		}
		return respondError(c, err)
	}
	return respond(c, response.New("Media uploaded successfully", http.StatusOK, newProjectView(p)))
}

func (h *ProjectHandler) uploadOne(ctx context.Context, projectUID string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", response.BadRequest("Could not read uploaded file")
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	url, err := h.Uploads.Upload(ctx, media.ObjectKey(projectUID, fh.Filename), contentType, f)
	if err != nil {
		return "", response.Internal("Media upload failed")
	}
	return url, nil
}
