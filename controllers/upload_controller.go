package controllers

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"orbita/backend/config"
	"orbita/backend/database"
)

const maxUploadBytes = 5 << 20 // 5MB

var allowedImageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".webp": true,
}

// saveUpload stores a multipart file under dir with a random name and returns
// the stored relative path.
func saveUpload(c *gin.Context, dir string) (string, int, string) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		return "", http.StatusBadRequest, "missing file (field 'file')"
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		return "", http.StatusBadRequest, "file too large (max 5MB)"
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		return "", http.StatusBadRequest, "unsupported image type; use png, jpeg or webp"
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", http.StatusInternalServerError, "storage error"
	}
	name := uuid.NewString() + ext
	dst := filepath.Join(dir, name)
	if err := c.SaveUploadedFile(header, dst); err != nil {
		return "", http.StatusInternalServerError, "storage error"
	}
	return dst, 0, ""
}

// UploadUserImage handles POST /users/me/upload-image, step (a) of the
// combined onboarding submission.
func UploadUserImage(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("user_id")
		path, status, msg := saveUpload(c, filepath.Join(cfg.UploadDir, "avatars"))
		if msg != "" {
			c.JSON(status, gin.H{"error": msg})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		if _, err := database.Pool.Exec(ctx, `UPDATE users SET image_path=$1, updated_at=now() WHERE id=$2`, path, uid); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "image_path": path})
	}
}

// UploadOrgLogo handles POST /organizations/:id/upload-logo, step (c) of the
// combined submission: it runs after save-all because it needs the new
// organization id.
func UploadOrgLogo(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("user_id")
		orgID, _ := strconv.ParseInt(c.Param("id"), 10, 64)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		var role string
		err := database.Pool.QueryRow(ctx, `SELECT role FROM organization_members WHERE org_id=$1 AND user_id=$2`, orgID, uid).Scan(&role)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "organization not found"})
			return
		}

		path, status, msg := saveUpload(c, filepath.Join(cfg.UploadDir, "logos"))
		if msg != "" {
			c.JSON(status, gin.H{"error": msg})
			return
		}
		if _, err := database.Pool.Exec(ctx, `UPDATE organizations SET logo_path=$1, updated_at=now() WHERE id=$2`, path, orgID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "logo_path": path})
	}
}
