package imaging

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStore fails uploads for filenames listed in failing and records every
// delete it receives.
type fakeStore struct {
	failing map[string]bool
	deleted []string
}

func (f *fakeStore) Upload(ctx context.Context, filename string, content io.Reader, contentType string) (StoredImage, error) {
	if f.failing[filename] {
		return StoredImage{}, errors.New("host unavailable")
	}
	return StoredImage{
		URL:       "https://img.example.com/" + filename,
		StorageID: "store/" + filename,
	}, nil
}

func (f *fakeStore) Delete(ctx context.Context, storageID string) error {
	f.deleted = append(f.deleted, storageID)
	if storageID == "store/poison" {
		return errors.New("host unavailable")
	}
	return nil
}

func TestUploadBatchAssignsOrderAndPrimary(t *testing.T) {
	store := &fakeStore{}
	uploader := NewUploader(store, zap.NewNop())

	files := []File{
		memFile("a.jpg", "image/jpeg", jpegBytes()),
		memFile("b.jpg", "image/jpeg", jpegBytes()),
		memFile("c.jpg", "image/jpeg", jpegBytes()),
	}

	uploaded, uploadErrors := uploader.UploadBatch(context.Background(), files, 0, true)

	require.Len(t, uploaded, 3)
	assert.Empty(t, uploadErrors)
	assert.Equal(t, 1, uploaded[0].Order)
	assert.Equal(t, 2, uploaded[1].Order)
	assert.Equal(t, 3, uploaded[2].Order)
	assert.True(t, uploaded[0].IsPrimary)
	assert.False(t, uploaded[1].IsPrimary)
	assert.False(t, uploaded[2].IsPrimary)
	assert.Equal(t, "https://img.example.com/a.jpg", uploaded[0].URL)
	assert.Equal(t, "store/a.jpg", uploaded[0].StorageID)
}

func TestUploadBatchContinuesPastFailures(t *testing.T) {
	store := &fakeStore{failing: map[string]bool{"b.jpg": true}}
	uploader := NewUploader(store, zap.NewNop())

	files := []File{
		memFile("a.jpg", "image/jpeg", jpegBytes()),
		memFile("b.jpg", "image/jpeg", jpegBytes()),
		memFile("c.jpg", "image/jpeg", jpegBytes()),
	}

	uploaded, uploadErrors := uploader.UploadBatch(context.Background(), files, 0, true)

	require.Len(t, uploaded, 2)
	require.Len(t, uploadErrors, 1)
	assert.Equal(t, "'b.jpg' failed to upload", uploadErrors[0])

	// Order numbers stay contiguous over the survivors.
	assert.Equal(t, 1, uploaded[0].Order)
	assert.Equal(t, 2, uploaded[1].Order)
}

func TestUploadBatchPrimaryGoesToFirstSuccess(t *testing.T) {
	store := &fakeStore{failing: map[string]bool{"a.jpg": true}}
	uploader := NewUploader(store, zap.NewNop())

	files := []File{
		memFile("a.jpg", "image/jpeg", jpegBytes()),
		memFile("b.jpg", "image/jpeg", jpegBytes()),
	}

	uploaded, _ := uploader.UploadBatch(context.Background(), files, 0, true)

	require.Len(t, uploaded, 1)
	assert.Equal(t, "https://img.example.com/b.jpg", uploaded[0].URL)
	assert.True(t, uploaded[0].IsPrimary)
}

func TestUploadBatchWithoutPrimaryNeed(t *testing.T) {
	store := &fakeStore{}
	uploader := NewUploader(store, zap.NewNop())

	files := []File{memFile("a.jpg", "image/jpeg", jpegBytes())}

	uploaded, _ := uploader.UploadBatch(context.Background(), files, 4, false)

	require.Len(t, uploaded, 1)
	assert.False(t, uploaded[0].IsPrimary)
	assert.Equal(t, 5, uploaded[0].Order)
}

func TestUploadBatchAllFail(t *testing.T) {
	store := &fakeStore{failing: map[string]bool{"a.jpg": true, "b.jpg": true}}
	uploader := NewUploader(store, zap.NewNop())

	files := []File{
		memFile("a.jpg", "image/jpeg", jpegBytes()),
		memFile("b.jpg", "image/jpeg", jpegBytes()),
	}

	uploaded, uploadErrors := uploader.UploadBatch(context.Background(), files, 0, true)

	assert.Empty(t, uploaded)
	assert.Len(t, uploadErrors, 2)
}

func TestRemoveSwallowsHostErrors(t *testing.T) {
	store := &fakeStore{}
	uploader := NewUploader(store, zap.NewNop())

	uploader.Remove(context.Background(), "store/poison")
	uploader.Remove(context.Background(), "store/ok")
	uploader.Remove(context.Background(), "")

	// Empty storage ids are skipped, failures are logged and swallowed.
	assert.Equal(t, []string{"store/poison", "store/ok"}, store.deleted)
}
