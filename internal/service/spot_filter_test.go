package service

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/odyssey-backend/internal/lens"
	"github.com/ignatzorin/odyssey-backend/internal/models"
)

func TestFilterSpotImages(t *testing.T) {
	var matches []lens.VisualMatch
	for i, src := range prioritizedSources {
		matches = append(matches, lens.VisualMatch{Position: i + 1, Title: src, Source: "www." + src})
	}
	matches = append(matches,
		lens.VisualMatch{Position: 100, Title: "denied", Source: "SkyscraperCity.com"},
		lens.VisualMatch{Position: 101, Title: "other", Source: "example.org"},
		lens.VisualMatch{Position: 102, Title: "upper", Source: "WWW.KLOOK.COM"},
	)

	got := FilterSpotImages(matches)

	titles := lo.Map(got, func(img models.SpotImage, _ int) string { return img.Title })
	assert.Equal(t, append(append([]string{}, prioritizedSources...), "upper"), titles)
	assert.Equal(t, "www.agoda.com", got[0].MetaData.SrcDomain)
	assert.Equal(t, 1, got[0].MetaData.Position)
}

func TestFilterSpotImages_Empty(t *testing.T) {
	assert.Empty(t, FilterSpotImages(nil))
	assert.Empty(t, FilterSpotImages([]lens.VisualMatch{{Source: "example.org"}}))
}
