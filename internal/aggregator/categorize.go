package aggregator

import (
	"strings"

	"saasradar/internal/model"
)

var (
	fundraisingWords   = []string{"funding", "raised", "series", "ipo", "bond", "valuation"}
	earningsWords      = []string{"earnings", "revenue", "quarterly", "profit", "margin"}
	productLaunchWords = []string{"launch", "release", "announce", "new feature", "product"}
)

// Categorize assigns a category from fixed keyword rules over the title.
func Categorize(title string) string {
	t := strings.ToLower(title)
	for _, w := range fundraisingWords {
		if strings.Contains(t, w) {
			return model.CategoryFundraising
		}
	}
	for _, w := range earningsWords {
		if strings.Contains(t, w) {
			return model.CategoryEarnings
		}
	}
	for _, w := range productLaunchWords {
		if strings.Contains(t, w) {
			return model.CategoryProductLaunch
		}
	}
	return model.CategoryAIDisruption
}

var shortFormSources = map[string]bool{
	model.SourceTwitter:    true,
	model.SourceReddit:     true,
	model.SourceHackerNews: true,
	model.SourcePodcast:    true,
}

// ClassifyContentType is a source-based lookup; unknown sources default to
// long-form.
func ClassifyContentType(source string) string {
	if shortFormSources[source] {
		return model.ContentTypeShortForm
	}
	return model.ContentTypeLongForm
}
