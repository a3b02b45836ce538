package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
)

// HeaderIdempotencyKey clave opcional de las creaciones.
const HeaderIdempotencyKey = "Idempotency-Key"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// parseBody decodifica el JSON y aplica las reglas `validate`.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return domain.NewValidationError("body", "cuerpo inválido")
	}
	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			field := strings.TrimPrefix(fe.Namespace(), reflect.Indirect(reflect.ValueOf(out)).Type().Name()+".")
			return domain.NewValidationError(field, "no cumple la regla "+fe.Tag())
		}
		return domain.NewValidationError("body", err.Error())
	}
	return nil
}

// pageFrom limit/offset de la query con límites por defecto.
func pageFrom(c *fiber.Ctx) dto.PageRequest {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return dto.PageRequest{Limit: limit, Offset: offset}
}

func documentQuery(c *fiber.Ctx) dto.DocumentQuery {
	return dto.DocumentQuery{
		WarehouseID: c.Query("warehouse_id"),
		Status:      c.Query("status"),
		PageRequest: pageFrom(c),
	}
}

// reasonBody motivo obligatorio de cancelaciones y rechazos.
func reasonBody(c *fiber.Ctx) (string, error) {
	var in dto.ReasonRequest
	if err := parseBody(c, &in); err != nil {
		return "", err
	}
	return in.Reason, nil
}
