package userplants

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakePhotoStore struct {
	uploads  map[string]string
	deleted  []string
	presignE error
}

func newFakePhotoStore() *fakePhotoStore {
	return &fakePhotoStore{uploads: map[string]string{}}
}

func (f *fakePhotoStore) Upload(ctx context.Context, key, contentType string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.uploads[key] = string(data)
	return nil
}

func (f *fakePhotoStore) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	delete(f.uploads, key)
	return nil
}

func (f *fakePhotoStore) PresignedURL(ctx context.Context, key string) (string, error) {
	if f.presignE != nil {
		return "", f.presignE
	}
	return "https://photos.test/" + key, nil
}

func newTestService(t *testing.T, photos PhotoStore) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&UserPlant{}))
	return NewService(db, photos)
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, CreateUserPlantRequest{
		Name:  "Monstera deliciosa",
		Notes: "East window",
	}, "")
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, userID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Monstera deliciosa", got.Name)
	assert.Equal(t, "East window", got.Notes)
	assert.Empty(t, got.S3ID)
}

func TestUploadedKeyOverridesRequestS3ID(t *testing.T) {
	svc := newTestService(t, newFakePhotoStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, uuid.New(), CreateUserPlantRequest{
		S3ID: "stale-client-key",
		Name: "Ficus",
	}, "plants/fresh-upload-key")
	require.NoError(t, err)
	assert.Equal(t, "plants/fresh-upload-key", created.S3ID)
}

func TestUploadPhotoWithoutStoreIsRejected(t *testing.T) {
	svc := newTestService(t, nil)

	err := svc.UploadPhoto(context.Background(), "k", "image/png", strings.NewReader("png"))
	assert.ErrorIs(t, err, ErrNoPhotoStore)
}

func TestCrossUserAccessIsForbidden(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()

	created, err := svc.Create(ctx, owner, CreateUserPlantRequest{Name: "Ficus"}, "")
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, stranger, created.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	newName := "hijacked"
	_, err = svc.Update(ctx, stranger, created.ID, UpdateUserPlantRequest{Name: &newName})
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.Delete(ctx, stranger, created.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateAppliesOnlySuppliedFields(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, CreateUserPlantRequest{
		Name:  "Ficus",
		Notes: "needs repotting",
	}, "")
	require.NoError(t, err)

	notes := "repotted in spring"
	got, err := svc.Update(ctx, userID, created.ID, UpdateUserPlantRequest{Notes: &notes})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "repotted in spring", got.Notes)
	assert.Equal(t, "Ficus", got.Name)
}

func TestUpdateWithNoFieldsIsNoOp(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, CreateUserPlantRequest{Name: "Ficus"}, "")
	require.NoError(t, err)

	got, err := svc.Update(ctx, userID, created.ID, UpdateUserPlantRequest{})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeleteThenGetIsForbidden(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, CreateUserPlantRequest{Name: "Ficus"}, "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, userID, created.ID))

	_, err = svc.GetByID(ctx, userID, created.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestWithPhotoURLPresignsStoredKey(t *testing.T) {
	photos := newFakePhotoStore()
	svc := newTestService(t, photos)

	p := UserPlant{ID: uuid.New(), S3ID: "plants/u/2026/08/abc"}
	resp := svc.WithPhotoURL(context.Background(), p)
	assert.Equal(t, "https://photos.test/plants/u/2026/08/abc", resp.PhotoURL)
}

func TestWithPhotoURLOmitsURLWhenUnavailable(t *testing.T) {
	t.Run("no store", func(t *testing.T) {
		svc := newTestService(t, nil)
		resp := svc.WithPhotoURL(context.Background(), UserPlant{ID: uuid.New(), S3ID: "k"})
		assert.Empty(t, resp.PhotoURL)
	})

	t.Run("no key", func(t *testing.T) {
		svc := newTestService(t, newFakePhotoStore())
		resp := svc.WithPhotoURL(context.Background(), UserPlant{ID: uuid.New()})
		assert.Empty(t, resp.PhotoURL)
	})

	t.Run("presign failure", func(t *testing.T) {
		photos := newFakePhotoStore()
		photos.presignE = errors.New("signer unavailable")
		svc := newTestService(t, photos)
		resp := svc.WithPhotoURL(context.Background(), UserPlant{ID: uuid.New(), S3ID: "k"})
		assert.Empty(t, resp.PhotoURL)
	})
}
