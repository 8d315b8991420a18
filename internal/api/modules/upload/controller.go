package upload

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Hemachandaranzz/students-wesite/pkg/extract"
)

// maxUploadBytes caps the accepted attachment size
const maxUploadBytes = 16 << 20

// imageExtensions are returned to the client as base64 data URIs instead of
// going through text extraction
var imageExtensions = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// PostUpload handles POST requests carrying one multipart file. Images come
// back as data URIs for the client to attach to a chat turn; documents come
// back as extracted text.
func PostUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No file provided"})
		return
	}
	if fileHeader.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No file selected"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "File too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "File upload failed"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "File upload failed"})
		return
	}

	filename := filepath.Base(fileHeader.Filename)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))

	if mime, ok := imageExtensions[ext]; ok {
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"type":     "image",
			"data":     fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data)),
			"filename": filename,
		})
		return
	}

	if !registry.Supported(filename) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Unsupported file type"})
		return
	}

	content, err := registry.Extract(filename, data)
	if err != nil {
		// Extraction failures ride along as the document content so the
		// client can still show what went wrong next to the attachment
		var extractErr *extract.Error
		if errors.As(err, &extractErr) {
			content = fmt.Sprintf("Error reading %s: %s", filename, extractErr.Reason)
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "File upload failed"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"type":     "document",
		"content":  content,
		"filename": filename,
	})
}
