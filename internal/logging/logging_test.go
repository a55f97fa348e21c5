package logging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/verdantapp/verdant-backend/internal/models"
)

func TestJSONHandlerTagsService(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(newJSONHandler(&buf, "scheduler"))

	l.Info("tick complete", "due", 3)

	assert.Contains(t, buf.String(), `"service":"scheduler"`)
	assert.Contains(t, buf.String(), `"msg":"tick complete"`)
}

// recordingHandler captures everything it is handed.
type recordingHandler struct {
	records []slog.Record
	err     error
}

func (r *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (r *recordingHandler) Handle(_ context.Context, rec slog.Record) error {
	r.records = append(r.records, rec)
	return r.err
}

func (r *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return r }
func (r *recordingHandler) WithGroup(string) slog.Handler      { return r }

func TestMultiHandlerFansOutToAllChildren(t *testing.T) {
	a := &recordingHandler{}
	b := &recordingHandler{}
	m := NewMultiHandler(a, b)

	rec := slog.NewRecord(time.Now(), slog.LevelError, "boom", 0)
	require.NoError(t, m.Handle(context.Background(), rec))

	require.Len(t, a.records, 1)
	require.Len(t, b.records, 1)
	assert.Equal(t, "boom", a.records[0].Message)
	assert.Equal(t, "boom", b.records[0].Message)
}

func TestMultiHandlerFailingChildDoesNotSilenceOthers(t *testing.T) {
	failing := &recordingHandler{err: errors.New("sink down")}
	healthy := &recordingHandler{}
	m := NewMultiHandler(failing, healthy)

	rec := slog.NewRecord(time.Now(), slog.LevelError, "boom", 0)
	err := m.Handle(context.Background(), rec)

	assert.Error(t, err)
	assert.Len(t, healthy.records, 1)
}

func newLogDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.SystemLog{}))
	return db
}

func TestPGHandlerPersistsErrorRecords(t *testing.T) {
	db := newLogDB(t)
	h := NewPGHandler(db, "server")
	defer h.Stop()

	rec := slog.NewRecord(time.Now(), slog.LevelError, "delivery failed", 0)
	rec.AddAttrs(slog.String("error", "gateway timeout"), slog.String("plant", "fern"))
	require.NoError(t, h.Handle(context.Background(), rec))
	h.flush()

	var rows []models.SystemLog
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "delivery failed", rows[0].Message)
	assert.Equal(t, "server", rows[0].Service)
	assert.Equal(t, "gateway timeout", rows[0].Error)
}

func TestPGHandlerIgnoresBelowError(t *testing.T) {
	h := &PGHandler{service: "server"}
	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, h.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestPGHandlerDropsWhenBufferFull(t *testing.T) {
	h := &PGHandler{
		service: "server",
		buffer:  make([]models.SystemLog, maxBuffered),
	}

	rec := slog.NewRecord(time.Now(), slog.LevelError, "boom", 0)
	require.NoError(t, h.Handle(context.Background(), rec))

	assert.Len(t, h.buffer, maxBuffered)
	assert.Equal(t, 1, h.dropped)
}
