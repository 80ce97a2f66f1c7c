package apperr

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
)

// BindJSON decodes the request body into v with the app's JSON decoder. An
// empty body leaves v at its zero value so required-field validation can
// report every missing field; an undecodable body is a 400.
func BindJSON(c *fiber.Ctx, v any) error {
	body := bytes.TrimSpace(c.Body())
	if len(body) == 0 {
		return nil
	}
	if err := c.App().Config().JSONDecoder(body, v); err != nil {
		return &Error{Kind: KindInvalid, Messages: []string{MsgInvalidJSON}, Err: err}
	}
	return nil
}
