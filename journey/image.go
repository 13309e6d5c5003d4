package journey

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
)

const (
	imageServiceBase = "https://picsum.photos/seed/"
	defaultImageSeed = "saudidesert"
)

// BackgroundImageURL builds the placeholder-image URL for a stage image keyword.
// Whitespace is removed from the keyword; an empty keyword uses the default seed.
// The URL is never fetched here.
func BackgroundImageURL(keyword string) string {
	seed := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, keyword)
	if seed == "" {
		seed = defaultImageSeed
	}
	return fmt.Sprintf("%s%s/1920/1080", imageServiceBase, url.PathEscape(seed))
}
