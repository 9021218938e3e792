package services_test

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tabilog/tabilog/backend/internal/application/services"
)

func TestUploadService_Save_DecodesBase64(t *testing.T) {
	store := newStubFileStore()
	service := services.NewUploadService(store, 1024)

	stored, err := service.Save(context.Background(), services.UploadFile{
		Name: "photo.jpg",
		Data: base64.StdEncoding.EncodeToString([]byte("jpeg bytes")),
	})

	require.NoError(t, err)
	assert.Equal(t, "photo.jpg", stored.FileName)
	assert.Equal(t, len("jpeg bytes"), stored.Size)
	assert.Equal(t, []byte("jpeg bytes"), store.saved["photo.jpg"])
}

func TestUploadService_Save_StripsDataURIPrefix(t *testing.T) {
	store := newStubFileStore()
	service := services.NewUploadService(store, 1024)

	encoded := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte{0x89, 'P', 'N', 'G'})
	stored, err := service.Save(context.Background(), services.UploadFile{Name: "p.png", Data: encoded})

	require.NoError(t, err)
	assert.Equal(t, 4, stored.Size)
}

func TestUploadService_Save_RejectsOversizedFile(t *testing.T) {
	service := services.NewUploadService(newStubFileStore(), 4)

	_, err := service.Save(context.Background(), services.UploadFile{
		Name: "big.bin",
		Data: base64.StdEncoding.EncodeToString([]byte("too large")),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum size")
}

func TestUploadService_Save_RejectsInvalidBase64(t *testing.T) {
	service := services.NewUploadService(newStubFileStore(), 1024)

	_, err := service.Save(context.Background(), services.UploadFile{Name: "x.jpg", Data: "!!not-base64!!"})
	require.Error(t, err)
}

func TestUploadService_SaveAll_ReportsPerFileOutcomes(t *testing.T) {
	service := services.NewUploadService(newStubFileStore(), 1024)

	results := service.SaveAll(context.Background(), []services.UploadFile{
		{Name: "ok.jpg", Data: base64.StdEncoding.EncodeToString([]byte("fine"))},
		{Name: "bad.jpg", Data: "%%%"},
	})

	require.Len(t, results, 2)
	assert.Empty(t, results[0].Error)
	assert.Equal(t, "ok.jpg", results[0].FileName)
	assert.NotEmpty(t, results[1].Error)
	assert.Equal(t, "bad.jpg", results[1].FileName)
}

func TestUploadService_SaveAll_FailureCarriesPlainMessage(t *testing.T) {
	service := services.NewUploadService(newStubFileStore(), 1024)

	results := service.SaveAll(context.Background(), []services.UploadFile{
		{Name: "bad.jpg", Data: "%%%"},
	})

	require.Len(t, results, 1)
	assert.Equal(t, "file data is not valid base64", results[0].Error)
}
