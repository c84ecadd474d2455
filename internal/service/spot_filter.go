package service

import (
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/odyssey-backend/internal/lens"
	"github.com/ignatzorin/odyssey-backend/internal/logger"
	"github.com/ignatzorin/odyssey-backend/internal/models"
)

// Источники, которым доверяем: фото реальных мест с туристических и фотостоковых сайтов.
var prioritizedSources = []string{
	"agoda.com",
	"dreamstime.com",
	"expedia.com",
	"istockphoto.com",
	"kiwicollection.comtrip.com",
	"kkday.com",
	"klook.com",
	"tripadvisor.com",
}

var deniedSources = []string{
	"skyscrapercity.com",
}

func sourceMatches(source string, fragments []string) bool {
	source = strings.ToLower(source)
	return lo.SomeBy(fragments, func(f string) bool {
		return strings.Contains(source, f)
	})
}

// FilterSpotImages оставляет только совпадения с доверенных источников в исходном порядке.
// Остальные совпадения только логируются.
func FilterSpotImages(matches []lens.VisualMatch) []models.SpotImage {
	denied, rest := lo.FilterReject(matches, func(m lens.VisualMatch, _ int) bool {
		return sourceMatches(m.Source, deniedSources)
	})
	prioritized, other := lo.FilterReject(rest, func(m lens.VisualMatch, _ int) bool {
		return sourceMatches(m.Source, prioritizedSources)
	})

	logger.Log.WithFields(logrus.Fields{
		"prioritized": len(prioritized),
		"other":       len(other),
		"denied":      len(denied),
	}).Debug("spot: совпадения обратного поиска разобраны")

	return lo.Map(prioritized, func(m lens.VisualMatch, _ int) models.SpotImage {
		return models.SpotImage{
			Title:     m.Title,
			Thumbnail: m.Thumbnail,
			MetaData: models.SpotImageMeta{
				Position:  m.Position,
				SrcDomain: m.Source,
				SrcURL:    m.Link,
			},
		}
	})
}
