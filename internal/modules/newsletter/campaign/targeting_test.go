package campaign

import (
	"fmt"
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

func seedSubscriber(t *testing.T, db *gorm.DB, email string, active bool, categories ...string) *models.SubscriberModel {
	t.Helper()
	sub := models.SubscriberModel{
		Email:      email,
		Name:       "Teszt Elek",
		Categories: categories,
		Active:     active,
		Source:     models.SourceContactForm,
		Token:      fmt.Sprintf("%064d", len(email)*7919+hashish(email)),
	}
	require.NoError(t, db.Create(&sub).Error)
	return &sub
}

// hashish keeps seeded tokens unique without pulling in crypto.
func hashish(s string) int {
	h := 0
	for _, r := range s {
		h = h*31 + int(r)
	}
	if h < 0 {
		h = -h
	}
	return h
}

func emailsOf(recipients []Recipient) []string {
	emails := make([]string, 0, len(recipients))
	for _, r := range recipients {
		emails = append(emails, r.Email)
	}
	return emails
}

func TestResolveTestModeBypassesStore(t *testing.T) {
	db := newTestDB(t)
	seedSubscriber(t, db, "real@example.com", true, models.CategoryPolicy)

	recipients, err := resolveRecipients(db, &models.CampaignModel{
		Recipients: models.RecipientsTest,
		TestEmail:  "admin@example.com",
	})
	require.NoError(t, err)
	require.Len(t, recipients, 1)
	assert.Equal(t, "admin@example.com", recipients[0].Email)
	assert.Empty(t, recipients[0].Token, "synthetic test recipient has no unsubscribe token")
}

func TestResolveAllSkipsInactive(t *testing.T) {
	db := newTestDB(t)
	seedSubscriber(t, db, "a@example.com", true, models.CategoryPolicy)
	seedSubscriber(t, db, "b@example.com", true, models.CategoryEUAffairs)
	seedSubscriber(t, db, "gone@example.com", false, models.CategoryPolicy)

	recipients, err := resolveRecipients(db, &models.CampaignModel{
		Recipients: models.RecipientsAll,
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a@example.com", "b@example.com"}, emailsOf(recipients))
}

func TestResolveCategoryMatchesMembership(t *testing.T) {
	db := newTestDB(t)
	seedSubscriber(t, db, "policy@example.com", true, models.CategoryPolicy)
	seedSubscriber(t, db, "multi@example.com", true, models.CategoryPolicy, models.CategoryGames)
	seedSubscriber(t, db, "eu@example.com", true, models.CategoryEUAffairs)
	seedSubscriber(t, db, "inactive@example.com", false, models.CategoryPolicy)

	recipients, err := resolveRecipients(db, &models.CampaignModel{
		Recipients:       models.RecipientsCategory,
		SelectedCategory: models.CategoryPolicy,
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"policy@example.com", "multi@example.com"}, emailsOf(recipients))
}

func TestResolveListDropsStaleAndInactive(t *testing.T) {
	db := newTestDB(t)
	a := seedSubscriber(t, db, "a@example.com", true, models.CategoryPolicy)
	inactive := seedSubscriber(t, db, "b@example.com", false, models.CategoryPolicy)

	recipients, err := resolveRecipients(db, &models.CampaignModel{
		Recipients:  models.RecipientsList,
		SelectedIDs: []string{a.ID, inactive.ID, "no-such-id"},
	})
	require.NoError(t, err)
	require.Len(t, recipients, 1)
	assert.Equal(t, "a@example.com", recipients[0].Email)
	assert.Equal(t, a.Token, recipients[0].Token)
}

func TestResolveListEmptySelection(t *testing.T) {
	db := newTestDB(t)
	seedSubscriber(t, db, "a@example.com", true, models.CategoryPolicy)

	recipients, err := resolveRecipients(db, &models.CampaignModel{
		Recipients: models.RecipientsList,
	})
	require.NoError(t, err)
	assert.Empty(t, recipients)
}
