package http

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func (a *API) listPublicFiles(c *gin.Context) {
	files, err := a.Files.ListPublic(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("listing public files")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Server error while fetching public files",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(files),
		"data":    files,
	})
}

func (a *API) listAllFiles(c *gin.Context) {
	files, err := a.Files.ListAll(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("listing files")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Server error while fetching files",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(files),
		"data":    files,
	})
}

// uploadFile stages the multipart payload on local disk, pushes it to
// blob storage, drops the staged copy and persists the metadata.
func (a *API) uploadFile(isPublic bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		hdr, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "No file uploaded",
			})
			return
		}

		visibility := "private"
		if isPublic {
			visibility = "public"
		}
		dir := filepath.Join(a.cfg.UploadDir, visibility)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("creating staging dir")
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Server error while uploading file",
			})
			return
		}

		// Timestamp prefix keeps repeated names from clobbering each
		// other in the staging dir.
		staged := filepath.Join(dir, fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(hdr.Filename)))
		if err := c.SaveUploadedFile(hdr, staged); err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("staging upload")
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Server error while uploading file",
			})
			return
		}
		defer func() {
			if err := os.Remove(staged); err != nil {
				log.Warn().Err(err).Str("module", "adapters.http").Str("path", staged).Msg("removing staged file")
			}
		}()

		ctx := c.Request.Context()
		fi, err := a.Blobs.Upload(ctx, staged, hdr.Filename, hdr.Header.Get("Content-Type"), hdr.Size, isPublic)
		if err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("uploading blob")
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Server error while uploading file",
			})
			return
		}

		if err := a.Files.Save(ctx, fi); err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("saving file metadata")
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Server error while uploading file",
			})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"data":    fi,
		})
	}
}

// deleteFile removes the blob and its metadata. The public id is a
// catch-all parameter because Cloudinary ids contain slashes.
func (a *API) deleteFile(c *gin.Context) {
	publicID := strings.TrimPrefix(c.Param("publicId"), "/")
	ctx := c.Request.Context()

	ok, err := a.Blobs.Destroy(ctx, publicID)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("deleting blob")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Server error while deleting file",
		})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "File not found or could not be deleted",
		})
		return
	}

	if _, err := a.Files.Delete(ctx, publicID); err != nil {
		log.Warn().Err(err).Str("module", "adapters.http").Str("public_id", publicID).Msg("deleting file metadata")
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "File deleted successfully",
	})
}
