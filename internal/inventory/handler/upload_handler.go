package handler

import (
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/service"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/sse"
)

const maxUploadFiles = 10

// UploadHandler serves upload.php.
type UploadHandler struct {
	uploads *service.UploadService
	tools   *service.ToolService
}

func NewUploadHandler(uploads *service.UploadService, tools *service.ToolService) *UploadHandler {
	return &UploadHandler{uploads: uploads, tools: tools}
}

// Upload POST /upload.php (multipart: files[] or file, kind, toolId)
// When toolId is set the stored URLs are attached to that tool, images as photos.
func (h *UploadHandler) Upload(c *gin.Context) {
	if !h.uploads.Enabled() {
		handleError(c, service.ErrStorageUnavailable)
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		BadRequest(c, "Please select a file")
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		files = form.File["file"]
	}
	if len(files) == 0 {
		BadRequest(c, "Please select a file")
		return
	}
	if len(files) > maxUploadFiles {
		BadRequest(c, fmt.Sprintf("At most %d files per upload", maxUploadFiles))
		return
	}

	kind := c.PostForm("kind")
	toolID := c.PostForm("toolId")
	if toolID != "" && kind == "" {
		kind = "tools"
	}

	uploaded := make([]service.UploadedFile, 0, len(files))
	var documents, photos []string
	for _, fh := range files {
		result, err := h.store(c, kind, fh)
		if err != nil {
			handleError(c, err)
			return
		}
		uploaded = append(uploaded, *result)
		if strings.HasPrefix(result.ContentType, "image/") {
			photos = append(photos, result.URL)
		} else {
			documents = append(documents, result.URL)
		}
	}

	if toolID != "" {
		if err := h.tools.AttachFiles(c.Request.Context(), toolID, documents, photos); err != nil {
			handleError(c, err)
			return
		}
	}
	Created(c, uploaded)
}

func (h *UploadHandler) store(c *gin.Context, kind string, fh *multipart.FileHeader) (*service.UploadedFile, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	return h.uploads.Upload(c.Request.Context(), kind, fh.Filename, fh.Header.Get("Content-Type"), fh.Size, f)
}

// SSEHandler streams dashboard events.
type SSEHandler struct {
	hub *sse.Hub
}

func NewSSEHandler(hub *sse.Hub) *SSEHandler {
	return &SSEHandler{hub: hub}
}

// Stream GET /events.php?token=xxx
func (h *SSEHandler) Stream(c *gin.Context) {
	userID := actor(c).ID
	clientID := fmt.Sprintf("%s_%d", userID, time.Now().UnixNano())

	client := &sse.Client{
		ID:     clientID,
		UserID: userID,
		Events: make(chan sse.Event, 64),
	}
	h.hub.Register(client)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	c.Writer.WriteString("event: connected\ndata: {\"client_id\":\"" + clientID + "\"}\n\n")
	c.Writer.Flush()

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	clientGone := c.Request.Context().Done()
	for {
		select {
		case <-clientGone:
			h.hub.Unregister(clientID)
			return
		case event, ok := <-client.Events:
			if !ok {
				return
			}
			c.Writer.WriteString(fmt.Sprintf("event: %s\ndata: %s\n\n", event.EventType, event.Data))
			c.Writer.Flush()
		case <-heartbeat.C:
			c.Writer.WriteString(": keepalive\n\n")
			c.Writer.Flush()
		}
	}
}
