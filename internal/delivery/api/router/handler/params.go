package handler

import (
	"strconv"

	deliverycontext "medistore/internal/delivery/context"
	"medistore/internal/domain/entity"
	domainerrors "medistore/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// pathID parses a UUID path parameter.
func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domainerrors.ErrValidationFailed.WithDetails("invalid " + name)
	}

	return id, nil
}

// currentSession returns the session attached by the auth middleware.
func currentSession(c echo.Context) (*entity.Session, error) {
	session := deliverycontext.GetSession(c)
	if session == nil {
		return nil, domainerrors.ErrUnauthorized
	}

	return session, nil
}

// queryInt reads an integer query parameter; malformed values read as zero.
func queryInt(c echo.Context, name string) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}

	return v
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("malformed request body")
	}

	return errors.WithStack(c.Validate(req))
}
