package imaging

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/andckadir/AnimalMarketplace/internal/model"
	"go.uber.org/zap"
)

// StoredImage is the result of a successful upload to the image host.
type StoredImage struct {
	URL       string
	StorageID string
}

// ImageStore is the external image-hosting collaborator.
type ImageStore interface {
	Upload(ctx context.Context, filename string, content io.Reader, contentType string) (StoredImage, error)
	Delete(ctx context.Context, storageID string) error
}

// Uploader pushes validated files to the image store and turns the results
// into advert image rows.
type Uploader struct {
	store ImageStore
	log   *zap.Logger
}

// NewUploader creates an uploader over the given image store.
func NewUploader(store ImageStore, log *zap.Logger) *Uploader {
	return &Uploader{store: store, log: log}
}

// UploadBatch uploads each file in input order. A per-file failure is
// recorded and does not abort the remaining uploads; callers decide what to
// do when nothing succeeds. Order numbers continue from startOrder, and when
// needPrimary is set the first successfully uploaded file becomes the
// primary image.
func (u *Uploader) UploadBatch(ctx context.Context, files []File, startOrder int, needPrimary bool) ([]model.AdvertImage, []string) {
	var uploaded []model.AdvertImage
	var uploadErrors []string

	for _, file := range files {
		stored, err := u.uploadOne(ctx, file)
		if err != nil {
			u.log.Error("image upload failed",
				zap.String("filename", file.Name),
				zap.Error(err))
			uploadErrors = append(uploadErrors, fmt.Sprintf("'%s' failed to upload", file.Name))
			continue
		}

		uploaded = append(uploaded, model.AdvertImage{
			URL:        stored.URL,
			StorageID:  stored.StorageID,
			Order:      startOrder + len(uploaded) + 1,
			IsPrimary:  needPrimary && len(uploaded) == 0,
			UploadedAt: time.Now().UTC(),
		})
	}

	return uploaded, uploadErrors
}

func (u *Uploader) uploadOne(ctx context.Context, file File) (StoredImage, error) {
	reader, err := file.Open()
	if err != nil {
		return StoredImage{}, err
	}
	defer reader.Close()
	return u.store.Upload(ctx, file.Name, reader, file.ContentType)
}

// Remove deletes a stored asset best-effort. The local metadata row is the
// source of truth, so a host-side failure is logged and swallowed; an
// orphaned remote asset is an accepted inconsistency.
func (u *Uploader) Remove(ctx context.Context, storageID string) {
	if storageID == "" {
		return
	}
	if err := u.store.Delete(ctx, storageID); err != nil {
		u.log.Warn("failed to delete stored image",
			zap.String("storage_id", storageID),
			zap.Error(err))
	}
}
