package campaign

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validCampaign() CampaignDTO {
	return CampaignDTO{
		Subject:    "Heti hírlevél",
		Content:    "# Kedves Olvasó\n\nEz a heti összefoglaló.",
		Recipients: "all",
	}
}

func TestCampaignDTOValid(t *testing.T) {
	dto := validCampaign()
	dto.Normalize()
	assert.True(t, dto.Validate().OK())
}

func TestCampaignDTOSubjectBounds(t *testing.T) {
	for name, subject := range map[string]string{
		"too short": "Hey",
		"too long":  strings.Repeat("a", 201),
	} {
		t.Run(name, func(t *testing.T) {
			dto := validCampaign()
			dto.Subject = subject
			dto.Normalize()
			assert.Contains(t, dto.Validate(), "subject")
		})
	}
}

func TestCampaignDTOContentBounds(t *testing.T) {
	for name, content := range map[string]string{
		"too short": "short",
		"too long":  strings.Repeat("a", 50001),
	} {
		t.Run(name, func(t *testing.T) {
			dto := validCampaign()
			dto.Content = content
			dto.Normalize()
			assert.Contains(t, dto.Validate(), "content")
		})
	}
}

func TestCampaignDTORecipientModes(t *testing.T) {
	t.Run("unknown mode", func(t *testing.T) {
		dto := validCampaign()
		dto.Recipients = "everyone"
		dto.Normalize()
		assert.Contains(t, dto.Validate(), "recipients")
	})

	t.Run("test mode requires test email", func(t *testing.T) {
		dto := validCampaign()
		dto.Recipients = "test"
		dto.Normalize()
		assert.Contains(t, dto.Validate(), "test_email")

		dto.TestEmail = "admin@example.com"
		assert.True(t, dto.Validate().OK())
	})

	t.Run("category mode requires a valid category", func(t *testing.T) {
		dto := validCampaign()
		dto.Recipients = "category"
		dto.Normalize()
		assert.Contains(t, dto.Validate(), "selected_category")

		dto.SelectedCategory = "SPORT"
		assert.Contains(t, dto.Validate(), "selected_category")

		dto.SelectedCategory = "SZAKPOLITIKA"
		assert.True(t, dto.Validate().OK())
	})

	t.Run("list mode requires ids", func(t *testing.T) {
		dto := validCampaign()
		dto.Recipients = "list"
		dto.SelectedIDs = []string{"  ", ""}
		dto.Normalize()
		assert.Contains(t, dto.Validate(), "selected_ids")

		dto.SelectedIDs = []string{"some-id"}
		assert.True(t, dto.Validate().OK())
	})

	t.Run("all mode needs no companion", func(t *testing.T) {
		dto := validCampaign()
		dto.Normalize()
		assert.True(t, dto.Validate().OK())
	})
}

func TestCampaignDTONormalize(t *testing.T) {
	dto := CampaignDTO{
		Subject:          "  Heti hírlevél  ",
		Content:          "Tartalom, ami elég hosszú.",
		Recipients:       " Category ",
		SelectedCategory: " euugyek ",
		TestEmail:        " Admin@Example.COM ",
	}
	dto.Normalize()

	assert.Equal(t, "Heti hírlevél", dto.Subject)
	assert.Equal(t, "category", dto.Recipients)
	assert.Equal(t, "EUUGYEK", dto.SelectedCategory)
	assert.Equal(t, "admin@example.com", dto.TestEmail)
}
