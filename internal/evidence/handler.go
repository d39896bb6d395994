package evidence

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"progresslog-api/internal/shared/server/respond"
	"progresslog-api/internal/shared/telemetry"
	"progresslog-api/internal/shared/upload"
)

// UploadField is the multipart field evidence files are sent under.
const UploadField = "files"

// Handler wires HTTP handlers to the service. Path parameters and the query
// string are validated by middleware mounted in front of each handler.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// Create records the files accepted by the upload intake.
func (h *Handler) Create(c *gin.Context) {
	milestoneID := c.Param("milestoneId")
	files := upload.FilesFromContext(c)

	items, err := h.Svc.Record(c.Request.Context(), milestoneID, files, c.PostForm("note"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	telemetry.FromContext(c).Info("evidence.recorded", map[string]any{
		"milestone_id": milestoneID,
		"count":        len(items),
	})
	respond.JSON(c, http.StatusCreated, toResponses(items), "Evidence uploaded successfully")
}

func (h *Handler) List(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", defaultPageSize)

	items, total, err := h.Svc.List(c.Request.Context(), c.Param("milestoneId"), page, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	respond.Page(c, toResponses(items), respond.NewPagination(page, limit, total), "Evidence retrieved successfully")
}

func (h *Handler) Get(c *gin.Context) {
	ev, err := h.Svc.Get(c.Request.Context(), c.Param("evidenceId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond.OK(c, toResponse(ev), "Evidence retrieved successfully")
}

// Download streams the stored file with its recorded type and original name.
func (h *Handler) Download(c *gin.Context) {
	ev, rc, err := h.Svc.Open(c.Request.Context(), c.Param("evidenceId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer rc.Close()

	c.Header("Content-Type", ev.MimeType)
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": ev.OriginalName}))
	http.ServeContent(c.Writer, c.Request, ev.OriginalName, ev.CreatedAt, rc)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("evidenceId")); err != nil {
		_ = c.Error(err)
		return
	}
	respond.OK(c, nil, "Evidence deleted successfully")
}

// queryInt reads an already validated integer query parameter. Base prefixes
// are honored to match the weakly typed schema decoding.
func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 0, 0)
	if err != nil || v <= 0 {
		return def
	}
	return int(v)
}
