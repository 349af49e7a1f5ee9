package server

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/rtplus/rtplus/internal/currency"
)

// ListResponse wraps a list result. Data is never null.
type ListResponse[T any] struct {
	Data []T `json:"data"`
}

// DataResponse wraps a single record.
type DataResponse[T any] struct {
	Data T `json:"data"`
}

func sendList[T any](c *fiber.Ctx, items []T) error {
	if items == nil {
		items = []T{}
	}
	return c.JSON(ListResponse[T]{Data: items})
}

func sendData[T any](c *fiber.Ctx, status int, v T) error {
	return c.Status(status).JSON(DataResponse[T]{Data: v})
}

// newValidator reports fields by their JSON names and knows the
// "isoduration" tag used for skill frequencies.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("isoduration", func(fl validator.FieldLevel) bool {
		_, err := currency.ParsePeriod(fl.Field().String())
		return err == nil
	})
	return v
}

// bind decodes the JSON body into dst and validates it.
func (s *Server) bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return badRequest("invalid request body: %v", err)
	}
	return s.validate.Struct(dst)
}
