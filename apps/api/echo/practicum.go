package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/pivotpoint/platform/core/practicum"
)

type practicumApi struct {
	svc      *practicum.Service
	validate *validator.Validate
}

func registerPracticumAPI(g *echo.Group, svc *practicum.Service, validate *validator.Validate) {
	api := practicumApi{svc: svc, validate: validate}

	pg := g.Group("/practicum-log")
	pg.GET("", api.list)
	pg.POST("", api.create)
}

func (api *practicumApi) list(ctx echo.Context) error {
	entries, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying practicum entries")
	}
	if entries == nil {
		entries = []practicum.Entry{}
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *practicumApi) create(ctx echo.Context) error {
	var data practicum.NewEntry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEntry")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	entry, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating practicum entry")
	}
	return ctx.JSON(http.StatusCreated, entry)
}
