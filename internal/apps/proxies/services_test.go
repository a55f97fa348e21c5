package proxies

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&ProxyContact{}))
	return NewService(db)
}

func validCreate() CreateProxyRequest {
	return CreateProxyRequest{
		Name:        "Dana from next door",
		PhoneNumber: "+12025550147",
		Relation:    "neighbour",
		Notes:       "Has a spare key",
	}
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, validCreate())
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, userID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dana from next door", got.Name)
	assert.Equal(t, "+12025550147", got.PhoneNumber)
	assert.Equal(t, "neighbour", got.Relation)
	assert.Equal(t, "Has a spare key", got.Notes)
}

func TestCrossUserAccessIsForbidden(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()

	created, err := svc.Create(ctx, owner, validCreate())
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, stranger, created.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	newName := "hijacked"
	_, err = svc.Update(ctx, stranger, created.ID, UpdateProxyRequest{Name: &newName})
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.Delete(ctx, stranger, created.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdatePhoneNumberOnly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, validCreate())
	require.NoError(t, err)

	newNumber := "+4915123456789"
	got, err := svc.Update(ctx, userID, created.ID, UpdateProxyRequest{PhoneNumber: &newNumber})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "+4915123456789", got.PhoneNumber)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, created.Relation, got.Relation)
}

func TestUpdateWithNoFieldsIsNoOp(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, validCreate())
	require.NoError(t, err)

	got, err := svc.Update(ctx, userID, created.ID, UpdateProxyRequest{})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeleteThenGetIsForbidden(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, validCreate())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, userID, created.ID))

	_, err = svc.GetByID(ctx, userID, created.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateRequestValidate(t *testing.T) {
	t.Run("requires name", func(t *testing.T) {
		req := validCreate()
		req.Name = ""
		assert.Error(t, req.Validate())
	})

	t.Run("normalizes phone number", func(t *testing.T) {
		req := validCreate()
		req.PhoneNumber = "+1 202 555-0147"
		require.NoError(t, req.Validate())
		assert.Equal(t, "+12025550147", req.PhoneNumber)
	})

	t.Run("rejects invalid phone number", func(t *testing.T) {
		req := validCreate()
		req.PhoneNumber = "12"
		assert.Error(t, req.Validate())
	})
}
