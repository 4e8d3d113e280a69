package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Header is the response (and accepted request) header carrying the ray id.
const Header = "X-Ray-ID"

// LocalKey is the fiber locals key holding the ray id.
const LocalKey = "ray_id"

// New returns a middleware that assigns every request a ray id, reusing a
// well-formed incoming X-Ray-ID.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(Header)
		if _, err := uuid.Parse(rid); err != nil {
			rid = uuid.NewString()
		}
		c.Locals(LocalKey, rid)
		c.Set(Header, rid)
		return c.Next()
	}
}

// Get returns the ray id stored on c, or "".
func Get(c *fiber.Ctx) string {
	rid, _ := c.Locals(LocalKey).(string)
	return rid
}
