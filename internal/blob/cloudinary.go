// Package blob uploads file payloads to remote object storage. The
// signaling core never calls this; only the REST layer does.
package blob

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog/log"

	"github.com/airforshare/backend/internal/config"
	"github.com/airforshare/backend/internal/domain"
)

// Store is what the file handlers depend on; keeps them testable
// without Cloudinary credentials.
type Store interface {
	Upload(ctx context.Context, localPath, originalName, mimetype string, size int64, isPublic bool) (domain.FileInfo, error)
	Destroy(ctx context.Context, publicID string) (bool, error)
}

type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStore(cfg config.CloudinaryConfig) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	cld.Config.URL.Secure = true
	return &CloudinaryStore{cld: cld, folder: cfg.Folder}, nil
}

// Upload pushes a staged local file to Cloudinary, split into a
// public or private folder. The public id embeds the upload time so
// repeated names never collide.
func (s *CloudinaryStore) Upload(ctx context.Context, localPath, originalName, mimetype string, size int64, isPublic bool) (domain.FileInfo, error) {
	folder := s.folder + "/private"
	if isPublic {
		folder = s.folder + "/public"
	}
	base := strings.TrimSuffix(originalName, filepath.Ext(originalName))
	publicID := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), base)

	resp, err := s.cld.Upload.Upload(ctx, localPath, uploader.UploadParams{
		Folder:       folder,
		PublicID:     publicID,
		ResourceType: "auto",
	})
	if err != nil {
		return domain.FileInfo{}, fmt.Errorf("cloudinary upload: %w", err)
	}

	log.Info().Str("module", "blob").Str("public_id", resp.PublicID).Bool("public", isPublic).Msg("blob uploaded")
	return domain.FileInfo{
		Name:       originalName,
		Size:       size,
		Mimetype:   mimetype,
		URL:        resp.SecureURL,
		PublicID:   resp.PublicID,
		IsPublic:   isPublic,
		UploadedAt: time.Now(),
	}, nil
}

// Destroy removes a blob. Reports whether Cloudinary actually deleted
// something.
func (s *CloudinaryStore) Destroy(ctx context.Context, publicID string) (bool, error) {
	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return false, fmt.Errorf("cloudinary destroy: %w", err)
	}
	return resp.Result == "ok", nil
}
