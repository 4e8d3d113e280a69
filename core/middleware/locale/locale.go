package locale

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/language"
)

// LocalKey is the fiber locals key holding the negotiated locale.
const LocalKey = "locale"

// New returns a middleware that picks the response locale from the lang query
// parameter or Accept-Language, falling back to def, and sets Content-Language.
func New(def string) fiber.Handler {
	if def == "" {
		def = "en"
	}
	return func(c *fiber.Ctx) error {
		loc := c.Query("lang")
		if loc == "" {
			loc = primaryLanguage(c.Get(fiber.HeaderAcceptLanguage))
		}
		if loc == "" || loc == "*" {
			loc = def
		}
		c.Locals(LocalKey, loc)
		c.Set(fiber.HeaderContentLanguage, loc)
		return c.Next()
	}
}

// Get returns the locale stored on c, or "".
func Get(c *fiber.Ctx) string {
	loc, _ := c.Locals(LocalKey).(string)
	return loc
}

// primaryLanguage returns the highest-weighted tag of an Accept-Language
// value, or "" when the header is empty or malformed.
func primaryLanguage(header string) string {
	if header == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 || tags[0] == language.Und {
		return ""
	}
	return tags[0].String()
}
