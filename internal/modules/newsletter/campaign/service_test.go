package campaign

import (
	"errors"
	"testing"

	"github.com/agorahq/core/internal/config"
	"github.com/agorahq/core/internal/models"
	"github.com/agorahq/core/internal/pkg/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// fakeMailer records sends and can fail selected addresses.
type fakeMailer struct {
	sent    []string
	data    map[string]mail.CampaignData
	failFor map[string]bool
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{
		data:    make(map[string]mail.CampaignData),
		failFor: make(map[string]bool),
	}
}

func (f *fakeMailer) SendCampaign(to string, data mail.CampaignData) error {
	if f.failFor[to] {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, to)
	f.data[to] = data
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeMailer, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	mailer := newFakeMailer()
	cfg := &config.AppConfig{SiteName: "Agora", ServerURL: "https://agora.example"}
	return NewService(db, mailer, cfg, zap.NewNop()), mailer, db
}

func createDraft(t *testing.T, svc *Service, dto CampaignDTO) *models.CampaignModel {
	t.Helper()
	dto.Normalize()
	require.True(t, dto.Validate().OK())
	campaign, err := svc.Create(dto)
	require.NoError(t, err)
	require.Equal(t, models.CampaignDraft, campaign.Status)
	return campaign
}

func TestSendToAll(t *testing.T) {
	svc, mailer, db := newTestService(t)
	seedSubscriber(t, db, "a@example.com", true, models.CategoryPolicy)
	seedSubscriber(t, db, "b@example.com", true, models.CategoryEUAffairs)
	seedSubscriber(t, db, "inactive@example.com", false, models.CategoryPolicy)

	draft := createDraft(t, svc, validCampaign())

	sent, err := svc.Send(draft.ID)
	require.NoError(t, err)

	assert.Equal(t, models.CampaignSent, sent.Status)
	assert.Equal(t, 2, sent.SentCount)
	assert.Equal(t, 0, sent.FailedCount)
	assert.NotNil(t, sent.SentAt)
	assert.ElementsMatch(t, []string{"a@example.com", "b@example.com"}, mailer.sent)
}

func TestSendRendersMarkdownAndUnsubscribeLink(t *testing.T) {
	svc, mailer, db := newTestService(t)
	sub := seedSubscriber(t, db, "a@example.com", true, models.CategoryPolicy)

	dto := validCampaign()
	dto.Content = "# Címsor\n\nEz a **törzs**."
	draft := createDraft(t, svc, dto)

	_, err := svc.Send(draft.ID)
	require.NoError(t, err)

	data := mailer.data["a@example.com"]
	assert.Contains(t, string(data.Body), "<h1")
	assert.Contains(t, string(data.Body), "<strong>törzs</strong>")
	assert.Equal(t, "https://agora.example/api/v1/subscribers/unsubscribe?token="+sub.Token, data.UnsubscribeURL)
	assert.Equal(t, "Agora", data.SiteName)
}

func TestSendTestModeIgnoresStore(t *testing.T) {
	svc, mailer, db := newTestService(t)
	seedSubscriber(t, db, "real@example.com", true, models.CategoryPolicy)

	dto := validCampaign()
	dto.Recipients = models.RecipientsTest
	dto.TestEmail = "admin@example.com"
	draft := createDraft(t, svc, dto)

	sent, err := svc.Send(draft.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"admin@example.com"}, mailer.sent)
	assert.Equal(t, 1, sent.SentCount)
	assert.Empty(t, mailer.data["admin@example.com"].UnsubscribeURL)
}

func TestSendCategoryMode(t *testing.T) {
	svc, mailer, db := newTestService(t)
	seedSubscriber(t, db, "policy@example.com", true, models.CategoryPolicy)
	seedSubscriber(t, db, "eu@example.com", true, models.CategoryEUAffairs)

	dto := validCampaign()
	dto.Recipients = models.RecipientsCategory
	dto.SelectedCategory = models.CategoryPolicy
	draft := createDraft(t, svc, dto)

	_, err := svc.Send(draft.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"policy@example.com"}, mailer.sent)
}

func TestSendCountsFailures(t *testing.T) {
	svc, mailer, db := newTestService(t)
	seedSubscriber(t, db, "ok@example.com", true, models.CategoryPolicy)
	seedSubscriber(t, db, "broken@example.com", true, models.CategoryPolicy)
	mailer.failFor["broken@example.com"] = true

	draft := createDraft(t, svc, validCampaign())

	sent, err := svc.Send(draft.ID)
	require.NoError(t, err)

	assert.Equal(t, models.CampaignSent, sent.Status, "partial failure still counts as sent")
	assert.Equal(t, 1, sent.SentCount)
	assert.Equal(t, 1, sent.FailedCount)
}

func TestSendAllFailuresMarksFailed(t *testing.T) {
	svc, mailer, db := newTestService(t)
	seedSubscriber(t, db, "broken@example.com", true, models.CategoryPolicy)
	mailer.failFor["broken@example.com"] = true

	draft := createDraft(t, svc, validCampaign())

	sent, err := svc.Send(draft.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CampaignFailed, sent.Status)
	assert.Equal(t, 0, sent.SentCount)
	assert.Equal(t, 1, sent.FailedCount)
}

func TestSendTwiceConflicts(t *testing.T) {
	svc, _, db := newTestService(t)
	seedSubscriber(t, db, "a@example.com", true, models.CategoryPolicy)

	draft := createDraft(t, svc, validCampaign())
	_, err := svc.Send(draft.ID)
	require.NoError(t, err)

	_, err = svc.Send(draft.ID)
	assert.ErrorIs(t, err, ErrAlreadySent)
}

func TestSendFailedCampaignCanRetry(t *testing.T) {
	svc, mailer, db := newTestService(t)
	seedSubscriber(t, db, "a@example.com", true, models.CategoryPolicy)
	mailer.failFor["a@example.com"] = true

	draft := createDraft(t, svc, validCampaign())
	sent, err := svc.Send(draft.ID)
	require.NoError(t, err)
	require.Equal(t, models.CampaignFailed, sent.Status)

	mailer.failFor["a@example.com"] = false
	retried, err := svc.Send(draft.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CampaignSent, retried.Status)
	assert.Equal(t, 1, retried.SentCount)
	assert.Equal(t, 0, retried.FailedCount)
}

func TestSendWithoutRecipients(t *testing.T) {
	svc, _, _ := newTestService(t)
	draft := createDraft(t, svc, validCampaign())

	_, err := svc.Send(draft.ID)
	assert.ErrorIs(t, err, ErrNoRecipients)

	got, errGet := svc.Get(draft.ID)
	require.NoError(t, errGet)
	assert.Equal(t, models.CampaignDraft, got.Status, "a send with nobody to reach leaves the draft untouched")
}

func TestSendUnknownCampaign(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Send("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateOnlyDrafts(t *testing.T) {
	svc, _, db := newTestService(t)
	seedSubscriber(t, db, "a@example.com", true, models.CategoryPolicy)

	draft := createDraft(t, svc, validCampaign())

	dto := validCampaign()
	dto.Subject = "Friss tárgy"
	updated, err := svc.Update(draft.ID, dto)
	require.NoError(t, err)
	assert.Equal(t, "Friss tárgy", updated.Subject)

	_, err = svc.Send(draft.ID)
	require.NoError(t, err)

	_, err = svc.Update(draft.ID, dto)
	assert.ErrorIs(t, err, ErrNotDraft)
}

func TestDeleteOnlyDrafts(t *testing.T) {
	svc, _, db := newTestService(t)
	seedSubscriber(t, db, "a@example.com", true, models.CategoryPolicy)

	draft := createDraft(t, svc, validCampaign())
	_, err := svc.Send(draft.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(draft.ID), ErrNotDraft)

	second := createDraft(t, svc, validCampaign())
	require.NoError(t, svc.Delete(second.ID))
	_, err = svc.Get(second.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
