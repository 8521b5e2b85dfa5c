package code

import (
	"strings"

	"github.com/bodgit/levelpreview/effect"
)

// Hue normalizes a raw hue token into a hue shift. Tokens in scientific
// notation, or "Infinity", overflowed when the level was saved and force
// grayscale. A 'c' stands in for a minus sign as '-' is not safe to use in
// level codes. The second return value is false if the token is not a
// number, in which case the shift is Invalid.
func Hue(token string) (int, bool) {
	switch {
	case token == "Infinity":
		return effect.Grayscale, true
	case token == "" || token == " ":
		return 0, true
	case strings.ContainsAny(token, "eE"):
		return effect.Grayscale, true
	case strings.ContainsAny(token, "cC"):
		return parseInteger(strings.NewReplacer("c", "-", "C", "-").Replace(token))
	default:
		return parseInteger(token)
	}
}
