package generate

import (
	"embed"
	"strings"
)

//go:embed templates
var templateFS embed.FS

// staticFiles maps output paths to the embedded template they start from.
var staticFiles = []struct {
	out      string
	template string
}{
	{"__components/SystemView.qml", "templates/SystemView.qml"},
	{"__components/DetailsView.qml", "templates/DetailsView.qml"},
	{"__components/Carousel.qml", "templates/Carousel.qml"},
	{"__components/RatingBar.qml", "templates/RatingBar.qml"},
	{"__components/helpers.js", "templates/helpers.js"},
	{"theme.qml", "templates/theme.qml"},
}

// Placeholders substituted into the templates.
const (
	FontListPlaceholder            = "$$FONTLIST$$"
	PlatformLogosPlaceholder       = "$$PLATFORM_LOGOS$$"
	PlatformsWithSystemPlaceholder = "$$PLATFORMS_WITH_SYSTEMS$$"
	PlatformsWithDetailPlaceholder = "$$PLATFORMS_WITH_DETAILS$$"
	SystemCarouselPlaceholder      = "$$SYSTEM_CAROUSEL$$"
	SystemInfoPlaceholder          = "$$SYSTEM_INFO$$"
)

func loadTemplate(name string) (string, error) {
	data, err := templateFS.ReadFile(name)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
