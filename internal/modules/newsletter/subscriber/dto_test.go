package subscriber

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validSubscribe() SubscribeDTO {
	return SubscribeDTO{
		Name:       "Kiss Anna",
		Email:      "anna@example.com",
		Categories: []string{"SZAKPOLITIKA"},
		Source:     "footer",
	}
}

func TestSubscribeDTOValid(t *testing.T) {
	dto := validSubscribe()
	dto.Normalize()
	assert.True(t, dto.Validate().OK())
}

func TestSubscribeDTONormalize(t *testing.T) {
	dto := SubscribeDTO{
		Name:       "  Kiss Anna  ",
		Email:      "  Anna@Example.COM ",
		Categories: []string{" szakpolitika "},
	}
	dto.Normalize()

	assert.Equal(t, "Kiss Anna", dto.Name)
	assert.Equal(t, "anna@example.com", dto.Email)
	assert.Equal(t, []string{"SZAKPOLITIKA"}, dto.Categories)
	assert.Equal(t, "contact-form", dto.Source, "missing source falls back to the default")
}

func TestSubscribeDTONameBounds(t *testing.T) {
	for name, value := range map[string]string{
		"too short": "A",
		"too long":  strings.Repeat("a", 101),
		"blank":     "   ",
	} {
		t.Run(name, func(t *testing.T) {
			dto := validSubscribe()
			dto.Name = value
			dto.Normalize()
			errs := dto.Validate()
			assert.Contains(t, errs, "name")
		})
	}

	dto := validSubscribe()
	dto.Name = strings.Repeat("á", 100) // rune length counts, not bytes
	dto.Normalize()
	assert.True(t, dto.Validate().OK())
}

func TestSubscribeDTOEmail(t *testing.T) {
	for name, value := range map[string]string{
		"no at sign": "not-an-email",
		"empty":      "",
		"spaces":     "a b@example.com",
	} {
		t.Run(name, func(t *testing.T) {
			dto := validSubscribe()
			dto.Email = value
			dto.Normalize()
			assert.Contains(t, dto.Validate(), "email")
		})
	}

	t.Run("over 254 chars", func(t *testing.T) {
		dto := validSubscribe()
		dto.Email = strings.Repeat("a", 250) + "@example.com"
		dto.Normalize()
		errs := dto.Validate()
		assert.Equal(t, "must not exceed 254 characters", errs["email"])
	})
}

func TestSubscribeDTOCategories(t *testing.T) {
	cases := map[string]struct {
		categories []string
		message    string
	}{
		"empty":     {nil, "at least one category is required"},
		"too many":  {[]string{"SZAKPOLITIKA", "VALASZTOKERULET", "JATEKOSITAS", "EUUGYEK", "SZAKPOLITIKA"}, "at most 4 categories are allowed"},
		"unknown":   {[]string{"SPORT"}, "unknown category: SPORT"},
		"duplicate": {[]string{"EUUGYEK", "EUUGYEK"}, "categories must be distinct"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			dto := validSubscribe()
			dto.Categories = tc.categories
			dto.Normalize()
			errs := dto.Validate()
			assert.Equal(t, tc.message, errs["categories"])
		})
	}

	t.Run("all four", func(t *testing.T) {
		dto := validSubscribe()
		dto.Categories = []string{"SZAKPOLITIKA", "VALASZTOKERULET", "JATEKOSITAS", "EUUGYEK"}
		dto.Normalize()
		assert.True(t, dto.Validate().OK())
	})
}

func TestSubscribeDTOSource(t *testing.T) {
	dto := validSubscribe()
	dto.Source = "billboard"
	dto.Normalize()
	assert.Contains(t, dto.Validate(), "source")
}

func TestSubscribeDTOReportsAllFields(t *testing.T) {
	dto := SubscribeDTO{Name: "x", Email: "nope", Categories: nil}
	dto.Normalize()
	errs := dto.Validate()

	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "categories")
}

func TestUnsubscribeDTO(t *testing.T) {
	t.Run("requires email or token", func(t *testing.T) {
		dto := UnsubscribeDTO{}
		dto.Normalize()
		assert.False(t, dto.Validate().OK())
	})

	t.Run("token must be 64 chars", func(t *testing.T) {
		dto := UnsubscribeDTO{Token: "short"}
		dto.Normalize()
		assert.Contains(t, dto.Validate(), "token")
	})

	t.Run("valid token", func(t *testing.T) {
		dto := UnsubscribeDTO{Token: strings.Repeat("f", 64)}
		dto.Normalize()
		assert.True(t, dto.Validate().OK())
	})

	t.Run("valid email", func(t *testing.T) {
		dto := UnsubscribeDTO{Email: "Anna@Example.com"}
		dto.Normalize()
		assert.True(t, dto.Validate().OK())
		assert.Equal(t, "anna@example.com", dto.Email)
	})
}

func TestUpdatePreferencesDTO(t *testing.T) {
	dto := UpdatePreferencesDTO{Categories: []string{"jatekositas"}}
	dto.Normalize()
	assert.True(t, dto.Validate().OK())
	assert.Equal(t, []string{"JATEKOSITAS"}, dto.Categories)

	empty := UpdatePreferencesDTO{}
	empty.Normalize()
	assert.Contains(t, empty.Validate(), "categories")
}
