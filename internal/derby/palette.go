package derby

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/vovakirdan/tui-derby/internal/core"
)

const goldenRatioConjugate = 0.618033988749895

// Palette returns count visually distinct "#rrggbb" colors.
// Hues walk the circle by the golden ratio so neighbours stay far apart.
func Palette(count int, seed int64) []string {
	rng := core.NewRandom(seed)
	colors := make([]string, 0, count)

	hue := rng.Next()
	for i := 0; i < count; i++ {
		hue = math.Mod(hue+goldenRatioConjugate, 1)
		saturation := 0.60 + rng.Next()*0.20
		lightness := 0.45 + rng.Next()*0.15

		colors = append(colors, colorful.Hsl(hue*360, saturation, lightness).Hex())
	}
	return colors
}
