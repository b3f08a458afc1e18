package event

import (
	"fmt"
	"testing"
	"time"

	"github.com/agorahq/core/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func upcomingEvent(capacity int) EventDTO {
	published := true
	return EventDTO{
		Title:       "Lakossági fórum",
		Slug:        "lakossagi-forum",
		Location:    "Budapest",
		StartsAt:    time.Now().Add(48 * time.Hour),
		Capacity:    capacity,
		IsPublished: &published,
	}
}

func TestRegister(t *testing.T) {
	svc := NewService(newTestDB(t))
	event, err := svc.Create(upcomingEvent(0))
	require.NoError(t, err)

	reg, err := svc.Register(event.ID, RegisterDTO{Name: "Kiss Anna", Email: "anna@example.com"})
	require.NoError(t, err)
	assert.Equal(t, event.ID, reg.EventID)

	count, err := svc.RegistrationCount(event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(newTestDB(t))
	event, err := svc.Create(upcomingEvent(0))
	require.NoError(t, err)

	_, err = svc.Register(event.ID, RegisterDTO{Name: "Kiss Anna", Email: "anna@example.com"})
	require.NoError(t, err)

	_, err = svc.Register(event.ID, RegisterDTO{Name: "Kiss Anna", Email: "anna@example.com"})
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestRegisterCapacity(t *testing.T) {
	svc := NewService(newTestDB(t))
	event, err := svc.Create(upcomingEvent(2))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = svc.Register(event.ID, RegisterDTO{
			Name:  "Teszt Elek",
			Email: fmt.Sprintf("user%d@example.com", i),
		})
		require.NoError(t, err)
	}

	_, err = svc.Register(event.ID, RegisterDTO{Name: "Kiss Anna", Email: "late@example.com"})
	assert.ErrorIs(t, err, ErrFull)
}

func TestRegisterAfterStartFails(t *testing.T) {
	svc := NewService(newTestDB(t))
	dto := upcomingEvent(0)
	dto.StartsAt = time.Now().Add(-time.Hour)
	event, err := svc.Create(dto)
	require.NoError(t, err)

	_, err = svc.Register(event.ID, RegisterDTO{Name: "Kiss Anna", Email: "anna@example.com"})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestCreateDuplicateSlug(t *testing.T) {
	svc := NewService(newTestDB(t))
	_, err := svc.Create(upcomingEvent(0))
	require.NoError(t, err)

	_, err = svc.Create(upcomingEvent(0))
	assert.ErrorIs(t, err, ErrDuplicateSlug)
}

func TestPublicListingHidesDrafts(t *testing.T) {
	svc := NewService(newTestDB(t))
	dto := upcomingEvent(0)
	dto.IsPublished = nil // draft
	_, err := svc.Create(dto)
	require.NoError(t, err)

	public, err := svc.List(false)
	require.NoError(t, err)
	assert.Empty(t, public)

	all, err := svc.List(true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDeleteRemovesRegistrations(t *testing.T) {
	svc := NewService(newTestDB(t))
	event, err := svc.Create(upcomingEvent(0))
	require.NoError(t, err)
	_, err = svc.Register(event.ID, RegisterDTO{Name: "Kiss Anna", Email: "anna@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(event.ID))
	_, err = svc.Get(event.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
