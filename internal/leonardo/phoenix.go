package leonardo

import "math"

// PhoenixModelID is the platform id of the Leonardo Phoenix model
const PhoenixModelID = "6b645e3a-d64f-4341-a6d8-7a3690fbf042"

// DefaultPhoenixContrast is used when the caller does not pick one
const DefaultPhoenixContrast = 3.5

// MinAlchemyContrast is the lowest contrast Phoenix accepts with alchemy
const MinAlchemyContrast = 2.5

// phoenixContrasts are the only contrast values the Phoenix model accepts
var phoenixContrasts = []float64{1.0, 1.3, 1.8, 2.5, 3.0, 3.5, 4.0, 4.5}

// NormalizePhoenixContrast maps a requested contrast to one Phoenix
// accepts: zero picks the default, alchemy raises the floor to 2.5, and
// anything else snaps to the nearest valid value. The second return
// reports whether an explicit request was adjusted.
func NormalizePhoenixContrast(contrast float64, alchemy bool) (float64, bool) {
	if contrast == 0 {
		contrast = DefaultPhoenixContrast
	}

	adjusted := false
	if alchemy && contrast < MinAlchemyContrast {
		contrast = MinAlchemyContrast
		adjusted = true
	}

	nearest := phoenixContrasts[0]
	for _, v := range phoenixContrasts[1:] {
		if math.Abs(v-contrast) < math.Abs(nearest-contrast) {
			nearest = v
		}
	}
	if nearest != contrast {
		contrast = nearest
		adjusted = true
	}

	return contrast, adjusted
}
