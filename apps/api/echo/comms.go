package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/pivotpoint/platform/core/comms"
)

type commsApi struct {
	svc      *comms.Service
	validate *validator.Validate
}

func registerCommsAPI(g *echo.Group, svc *comms.Service, validate *validator.Validate) {
	api := commsApi{svc: svc, validate: validate}

	cg := g.Group("/communications")
	cg.POST("/schedule", api.schedule)
}

func (api *commsApi) schedule(ctx echo.Context) error {
	var data comms.NewScheduledEmail
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewScheduledEmail")
	}
	if err := data.Validate(api.validate, time.Now()); err != nil {
		return err
	}

	se, err := api.svc.Schedule(data)
	if err != nil {
		return errors.Wrap(err, "scheduling email")
	}
	return ctx.JSON(http.StatusCreated, se)
}
