package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-cms/portfolio-api/internal/content/service"
	"github.com/portfolio-cms/portfolio-api/internal/models"
	"github.com/portfolio-cms/portfolio-api/internal/storage"
	"github.com/portfolio-cms/portfolio-api/pkg/logger"
)

// Handler serves the content and contact endpoints.
type Handler struct {
	svc     *service.Service
	uploads storage.Store
}

func New(svc *service.Service, uploads storage.Store) *Handler {
	return &Handler{svc: svc, uploads: uploads}
}

// RegisterContentRoutes mounts the public and admin-only routes on rg. auth
// guards every mutating route and the submissions listing.
func RegisterContentRoutes(rg *gin.RouterGroup, h *Handler, auth gin.HandlerFunc) {
	rg.GET("/content", h.GetContent)
	rg.POST("/contact/submit", h.SubmitContact)

	admin := rg.Group("", auth)
	admin.PUT("/about", h.UpdateAbout)
	admin.PUT("/skills", h.ReplaceSkills)
	admin.POST("/projects", h.CreateProject)
	admin.PUT("/projects/:id", h.UpdateProject)
	admin.DELETE("/projects/:id", h.DeleteProject)
	admin.POST("/experience", h.CreateExperience)
	admin.PUT("/experience/:id", h.UpdateExperience)
	admin.DELETE("/experience/:id", h.DeleteExperience)
	admin.GET("/contact/submissions", h.ListSubmissions)
}

// fail answers with a 500 carrying the underlying message.
func fail(c *gin.Context, err error) {
	logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func (h *Handler) GetContent(c *gin.Context) {
	content, err := h.svc.GetContent(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, content)
}

func (h *Handler) UpdateAbout(c *gin.Context) {
	var req struct {
		Title string `json:"title"`
		Text  string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	a, err := h.svc.UpdateAbout(c.Request.Context(), req.Title, req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// ReplaceSkills accepts a JSON array of names. An empty array clears the set;
// null is rejected.
func (h *Handler) ReplaceSkills(c *gin.Context) {
	var names []string
	if err := c.ShouldBindJSON(&names); err != nil {
		badRequest(c, err)
		return
	}
	if names == nil {
		badRequest(c, errors.New("skills must be a JSON array"))
		return
	}
	out, err := h.svc.ReplaceSkills(c.Request.Context(), names)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// projectRequest binds multipart, urlencoded or JSON bodies. Absent fields stay nil.
type projectRequest struct {
	Title       *string `form:"title" json:"title"`
	Description *string `form:"description" json:"description"`
	Tech        *string `form:"tech" json:"tech"`
	Link        *string `form:"link" json:"link"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// storeImage saves the optional "image" file and returns its path, or nil when
// the request carries no file.
func (h *Handler) storeImage(c *gin.Context) (*string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, nil
	}
	path, err := storage.SaveUpload(c.Request.Context(), h.uploads, fh)
	if err != nil {
		return nil, err
	}
	return &path, nil
}

func (h *Handler) CreateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}
	image, err := h.storeImage(c)
	if err != nil {
		fail(c, err)
		return
	}
	p := &models.Project{
		Title:       deref(req.Title),
		Description: deref(req.Description),
		Tech:        deref(req.Tech),
		Link:        deref(req.Link),
		Image:       deref(image),
	}
	if err := h.svc.CreateProject(c.Request.Context(), p); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// UpdateProject replaces the image only when a new file is uploaded.
// The previous file is left in storage.
func (h *Handler) UpdateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}
	image, err := h.storeImage(c)
	if err != nil {
		fail(c, err)
		return
	}
	upd := models.ProjectUpdate{
		Title:       req.Title,
		Description: req.Description,
		Tech:        req.Tech,
		Link:        req.Link,
		Image:       image,
	}
	p, err := h.svc.UpdateProject(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) DeleteProject(c *gin.Context) {
	if err := h.svc.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}

type experienceRequest struct {
	Role        *string `json:"role"`
	Company     *string `json:"company"`
	Duration    *string `json:"duration"`
	Description *string `json:"description"`
}

func (h *Handler) CreateExperience(c *gin.Context) {
	var req experienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	e := &models.Experience{
		Role:        deref(req.Role),
		Company:     deref(req.Company),
		Duration:    deref(req.Duration),
		Description: deref(req.Description),
	}
	if err := h.svc.CreateExperience(c.Request.Context(), e); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *Handler) UpdateExperience(c *gin.Context) {
	var req experienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	upd := models.ExperienceUpdate{
		Role:        req.Role,
		Company:     req.Company,
		Duration:    req.Duration,
		Description: req.Description,
	}
	e, err := h.svc.UpdateExperience(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) DeleteExperience(c *gin.Context) {
	if err := h.svc.DeleteExperience(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "experience deleted"})
}

func (h *Handler) SubmitContact(c *gin.Context) {
	var req struct {
		Name    string     `json:"name" binding:"required"`
		Email   string     `json:"email" binding:"required"`
		Message string     `json:"message" binding:"required"`
		Date    *time.Time `json:"date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	sub := &models.Submission{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Message: req.Message,
	}
	if req.Date != nil {
		sub.Date = req.Date.UTC()
	}
	if err := h.svc.SubmitContact(c.Request.Context(), sub); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "message received", "submission": sub})
}

func (h *Handler) ListSubmissions(c *gin.Context) {
	list, err := h.svc.ListSubmissions(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Presigner hands out temporary direct links to stored uploads.
type Presigner interface {
	PresignedURL(ctx context.Context, name string, expires time.Duration) (string, error)
}

// UploadRedirect serves /uploads/:name from object storage by redirecting to a
// short-lived presigned URL.
func UploadRedirect(p Presigner) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := p.PresignedURL(c.Request.Context(), c.Param("name"), 15*time.Minute)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.Redirect(http.StatusFound, u)
	}
}
