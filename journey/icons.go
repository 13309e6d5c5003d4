package journey

import "strings"

// IconKey is a closed set of icon names the page knows how to draw.
type IconKey string

const (
	IconPlane      IconKey = "plane"
	IconMap        IconKey = "map"
	IconCamera     IconKey = "camera"
	IconCoffee     IconKey = "coffee"
	IconBed        IconKey = "bed"
	IconStar       IconKey = "star"
	IconSun        IconKey = "sun"
	IconCreditCard IconKey = "creditcard"
	IconUser       IconKey = "user"
	IconHeart      IconKey = "heart"
	IconAlert      IconKey = "alert"
	IconCheck      IconKey = "check"
	IconLuggage    IconKey = "luggage"
	IconUtensils   IconKey = "utensils"
	IconMountain   IconKey = "mountain"
	IconLandmark   IconKey = "landmark"
	IconBuilding   IconKey = "building"

	// DefaultIcon is used for any keyword that is neither a key nor an alias.
	DefaultIcon = IconStar
)

var iconGlyphs = map[IconKey]string{
	IconPlane:      "✈",
	IconMap:        "🗺",
	IconCamera:     "📷",
	IconCoffee:     "☕",
	IconBed:        "🛏",
	IconStar:       "★",
	IconSun:        "☀",
	IconCreditCard: "💳",
	IconUser:       "👤",
	IconHeart:      "♥",
	IconAlert:      "⚠",
	IconCheck:      "✔",
	IconLuggage:    "🧳",
	IconUtensils:   "🍴",
	IconMountain:   "⛰",
	IconLandmark:   "🏛",
	IconBuilding:   "🏢",
}

// iconAliases maps normalized keywords the model tends to produce onto keys.
// Lookups are exact; there is no partial matching.
var iconAliases = map[string]IconKey{
	"airplane":    IconPlane,
	"flight":      IconPlane,
	"airport":     IconPlane,
	"mapmarker":   IconMap,
	"mappin":      IconMap,
	"compass":     IconMap,
	"photo":       IconCamera,
	"cafe":        IconCoffee,
	"tea":         IconCoffee,
	"hotel":       IconBed,
	"sleep":       IconBed,
	"payment":     IconCreditCard,
	"card":        IconCreditCard,
	"person":      IconUser,
	"guide":       IconUser,
	"love":        IconHeart,
	"warning":     IconAlert,
	"alertcircle": IconAlert,
	"checkcircle": IconCheck,
	"success":     IconCheck,
	"baggage":     IconLuggage,
	"suitcase":    IconLuggage,
	"food":        IconUtensils,
	"restaurant":  IconUtensils,
	"dining":      IconUtensils,
	"desert":      IconMountain,
	"hiking":      IconMountain,
	"museum":      IconLandmark,
	"heritage":    IconLandmark,
	"mosque":      IconLandmark,
	"city":        IconBuilding,
	"office":      IconBuilding,
}

// ResolveIcon maps a free-form icon keyword to an IconKey. The keyword is lowercased
// and stripped of everything but ASCII letters before lookup.
func ResolveIcon(keyword string) IconKey {
	norm := normalizeIconKeyword(keyword)
	if _, ok := iconGlyphs[IconKey(norm)]; ok {
		return IconKey(norm)
	}
	if k, ok := iconAliases[norm]; ok {
		return k
	}
	return DefaultIcon
}

// Glyph returns the drawable glyph for k, or the default icon's glyph.
func (k IconKey) Glyph() string {
	if g, ok := iconGlyphs[k]; ok {
		return g
	}
	return iconGlyphs[DefaultIcon]
}

func normalizeIconKeyword(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
