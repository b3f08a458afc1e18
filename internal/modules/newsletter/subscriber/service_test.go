package subscriber

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/agorahq/core/internal/database"
	"github.com/agorahq/core/internal/models"
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

func subscribeOne(t *testing.T, svc *Service, email string, categories ...string) *models.SubscriberModel {
	t.Helper()
	dto := SubscribeDTO{
		Name:       "Kiss Anna",
		Email:      email,
		Categories: categories,
		Source:     models.SourceContactForm,
	}
	sub, err := svc.Subscribe(dto)
	require.NoError(t, err)
	return sub
}

func TestSubscribeCreatesRecord(t *testing.T) {
	svc := NewService(newTestDB(t))

	sub := subscribeOne(t, svc, "anna@example.com", models.CategoryPolicy)

	assert.NotEmpty(t, sub.ID)
	assert.True(t, sub.Active)
	assert.Equal(t, "anna@example.com", sub.Email)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{64}$`), sub.Token)
}

func TestSubscribeTokensAreUnique(t *testing.T) {
	svc := NewService(newTestDB(t))

	a := subscribeOne(t, svc, "a@example.com", models.CategoryPolicy)
	b := subscribeOne(t, svc, "b@example.com", models.CategoryPolicy)
	assert.NotEqual(t, a.Token, b.Token)
}

func TestSubscribeDuplicateEmailConflicts(t *testing.T) {
	svc := NewService(newTestDB(t))
	subscribeOne(t, svc, "anna@example.com", models.CategoryPolicy)

	_, err := svc.Subscribe(SubscribeDTO{
		Name:       "Masik Anna",
		Email:      "anna@example.com",
		Categories: []string{models.CategoryEUAffairs},
		Source:     models.SourcePopup,
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestSubscribeInactiveRecordStillConflicts(t *testing.T) {
	svc := NewService(newTestDB(t))
	subscribeOne(t, svc, "anna@example.com", models.CategoryPolicy)
	require.NoError(t, svc.Unsubscribe("anna@example.com"))

	_, err := svc.Subscribe(SubscribeDTO{
		Name:       "Kiss Anna",
		Email:      "anna@example.com",
		Categories: []string{models.CategoryPolicy},
		Source:     models.SourceContactForm,
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail,
		"deactivated records keep their email reserved; reactivation goes through preferences")
}

func TestSubscribeDeletedRecordStillConflicts(t *testing.T) {
	svc := NewService(newTestDB(t))
	sub := subscribeOne(t, svc, "anna@example.com", models.CategoryPolicy)
	require.NoError(t, svc.Delete(sub.ID))

	_, err := svc.Subscribe(SubscribeDTO{
		Name:       "Kiss Anna",
		Email:      "anna@example.com",
		Categories: []string{models.CategoryPolicy},
		Source:     models.SourceContactForm,
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail,
		"soft-deleted rows keep the unique email reserved")
}

func TestSeededInactiveRecordStaysInactive(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	seed := models.SubscriberModel{
		Email:      "migrated@example.com",
		Name:       "Régi Rekord",
		Categories: models.StringArray{models.CategoryPolicy},
		Active:     false,
		Source:     models.SourceOther,
		Token:      "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
	}
	require.NoError(t, db.Create(&seed).Error)

	got, err := svc.Get(seed.ID)
	require.NoError(t, err)
	assert.False(t, got.Active, "a record inserted inactive must read back inactive")
}

func TestUnsubscribeDeactivates(t *testing.T) {
	svc := NewService(newTestDB(t))
	sub := subscribeOne(t, svc, "anna@example.com", models.CategoryPolicy)

	require.NoError(t, svc.Unsubscribe("anna@example.com"))

	got, err := svc.Get(sub.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Equal(t, []string{models.CategoryPolicy}, []string(got.Categories),
		"categories survive deactivation")
}

func TestUnsubscribeUnknownEmailIsBenign(t *testing.T) {
	svc := NewService(newTestDB(t))
	assert.NoError(t, svc.Unsubscribe("nobody@example.com"))
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	svc := NewService(newTestDB(t))
	subscribeOne(t, svc, "anna@example.com", models.CategoryPolicy)

	require.NoError(t, svc.Unsubscribe("anna@example.com"))
	require.NoError(t, svc.Unsubscribe("anna@example.com"))
}

func TestUnsubscribeByToken(t *testing.T) {
	svc := NewService(newTestDB(t))
	sub := subscribeOne(t, svc, "anna@example.com", models.CategoryPolicy)

	require.NoError(t, svc.UnsubscribeByToken(sub.Token))

	got, err := svc.Get(sub.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
}

func TestUnsubscribeByUnknownTokenFails(t *testing.T) {
	svc := NewService(newTestDB(t))
	err := svc.UnsubscribeByToken("deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePreferences(t *testing.T) {
	svc := NewService(newTestDB(t))
	sub := subscribeOne(t, svc, "anna@example.com", models.CategoryPolicy)

	updated, err := svc.UpdatePreferences(sub.ID, UpdatePreferencesDTO{
		Categories: []string{models.CategoryEUAffairs, models.CategoryGames},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{models.CategoryEUAffairs, models.CategoryGames}, []string(updated.Categories))
	assert.True(t, updated.Active)
}

func TestUpdatePreferencesReactivates(t *testing.T) {
	svc := NewService(newTestDB(t))
	sub := subscribeOne(t, svc, "anna@example.com", models.CategoryPolicy)
	require.NoError(t, svc.Unsubscribe("anna@example.com"))

	active := true
	updated, err := svc.UpdatePreferences(sub.ID, UpdatePreferencesDTO{
		Categories: []string{models.CategoryDistrict},
		Active:     &active,
	})
	require.NoError(t, err)
	assert.True(t, updated.Active)
	assert.Equal(t, []string{models.CategoryDistrict}, []string(updated.Categories))
}

func TestUpdatePreferencesUnknownID(t *testing.T) {
	svc := NewService(newTestDB(t))
	_, err := svc.UpdatePreferences("missing", UpdatePreferencesDTO{
		Categories: []string{models.CategoryPolicy},
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListFiltersByCategoryAndActive(t *testing.T) {
	svc := NewService(newTestDB(t))
	subscribeOne(t, svc, "policy@example.com", models.CategoryPolicy)
	subscribeOne(t, svc, "both@example.com", models.CategoryPolicy, models.CategoryEUAffairs)
	subscribeOne(t, svc, "eu@example.com", models.CategoryEUAffairs)
	require.NoError(t, svc.Unsubscribe("eu@example.com"))

	policy, err := svc.List(ListFilter{Category: models.CategoryPolicy})
	require.NoError(t, err)
	assert.Len(t, policy, 2)

	active := true
	activeEU, err := svc.List(ListFilter{Category: models.CategoryEUAffairs, Active: &active})
	require.NoError(t, err)
	require.Len(t, activeEU, 1)
	assert.Equal(t, "both@example.com", activeEU[0].Email)
}

func TestStats(t *testing.T) {
	svc := NewService(newTestDB(t))
	subscribeOne(t, svc, "a@example.com", models.CategoryPolicy)
	subscribeOne(t, svc, "b@example.com", models.CategoryPolicy, models.CategoryGames)
	subscribeOne(t, svc, "c@example.com", models.CategoryEUAffairs)
	require.NoError(t, svc.Unsubscribe("c@example.com"))

	stats, err := svc.Stats()
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.Active)
	assert.Equal(t, int64(2), stats.ByCategory[models.CategoryPolicy])
	assert.Equal(t, int64(1), stats.ByCategory[models.CategoryGames])
	assert.Equal(t, int64(0), stats.ByCategory[models.CategoryEUAffairs],
		"inactive subscribers do not count toward category totals")
	assert.Equal(t, int64(3), stats.BySource[models.SourceContactForm])
}

func TestDelete(t *testing.T) {
	svc := NewService(newTestDB(t))
	sub := subscribeOne(t, svc, "anna@example.com", models.CategoryPolicy)

	require.NoError(t, svc.Delete(sub.ID))
	_, err := svc.Get(sub.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(sub.ID), ErrNotFound)
}
