package echoapi

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/pivotpoint/platform/core"
	"github.com/pivotpoint/platform/core/evaluation"
	excelsvc "github.com/pivotpoint/platform/services/excel"
)

const maxUploadSize = 10 << 20 // 10MB

var (
	errDeleteActionRequired = `body must be {"action": "delete"}`
	errExcelFileRequired    = "please upload an Excel file (.xlsx or .xls)"
	errFileTooLarge         = "file size must be less than 10MB"
)

type evaluationApi struct {
	svc        *evaluation.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerEvaluationAPI(
	g *echo.Group,
	svc *evaluation.Service,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := evaluationApi{
		svc:        svc,
		validate:   validate,
		translator: translator,
	}

	eg := g.Group("/evaluations")
	eg.GET("", api.list)
	eg.POST("", api.create)
	eg.DELETE("", api.destroyMultiple)
	eg.POST("/upload-excel", api.uploadExcel)

	// detail endpoints
	dg := eg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PATCH("", api.update)
	// delete-via-POST: kept for clients whose dev proxies swallow DELETE
	dg.POST("/delete", api.destroy)
	dg.POST("/notes", api.addNote)
	dg.GET("/report-sections", api.reportSections)
	dg.GET("/documents", api.listDocuments)
	dg.POST("/documents", api.uploadDocument)
	dg.GET("/documents/:docId", api.downloadDocument)
	dg.DELETE("/documents/:docId", api.destroyDocument)
}

func evaluationID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, errHttpNotFound
	}
	return id, nil
}

// Handlers

type listResponse struct {
	Evaluations []evaluation.Evaluation `json:"evaluations"`
	Total       int                     `json:"total"`
}

func (api *evaluationApi) list(ctx echo.Context) error {
	filter := new(evaluation.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()

	ordering := new(Ordering)
	ordering.Bind(ctx)
	pagination := new(Pagination)
	pagination.Bind(ctx)

	evals, total, err := api.svc.Filter(*filter, ordering.Orderings, pagination.Offset(), pagination.Limit)
	if err != nil {
		return errors.Wrap(err, "querying evaluations")
	}
	if evals == nil {
		evals = []evaluation.Evaluation{}
	}
	return ctx.JSON(http.StatusOK, listResponse{Evaluations: evals, Total: total})
}

func (api *evaluationApi) create(ctx echo.Context) error {
	var data evaluation.NewEvaluation
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvaluation")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	ev, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating evaluation")
	}
	return ctx.JSON(http.StatusCreated, ev)
}

func (api *evaluationApi) retrieve(ctx echo.Context) error {
	id, err := evaluationID(ctx)
	if err != nil {
		return err
	}
	ev, err := api.svc.GetByID(id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ev)
}

func (api *evaluationApi) update(ctx echo.Context) error {
	id, err := evaluationID(ctx)
	if err != nil {
		return err
	}

	var data evaluation.UpdateEvaluation
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEvaluation")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	ev, err := api.svc.Update(id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ev)
}

type deleteRequest struct {
	Action string `json:"action"`
}

func (api *evaluationApi) destroy(ctx echo.Context) error {
	id, err := evaluationID(ctx)
	if err != nil {
		return err
	}

	var data deleteRequest
	if err = ctx.Bind(&data); err != nil || data.Action != "delete" {
		return core.NewValidationError(nil, core.FieldError{Field: "action", Error: errDeleteActionRequired})
	}

	if _, err = api.svc.GetByID(id); err != nil {
		return err
	}
	if err = api.svc.Delete(id); err != nil {
		return errors.Wrap(err, "deleting evaluation")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"deleted": 1})
}

func (api *evaluationApi) destroyMultiple(ctx echo.Context) error {
	rawIDs, ok := ctx.QueryParams()["id"]
	if !ok || len(rawIDs) == 0 {
		return ctx.NoContent(http.StatusNoContent)
	}

	ids := make([]int, 0, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "id", Error: "invalid evaluation ID: " + raw})
		}
		ids = append(ids, id)
	}

	if err := api.svc.Delete(ids...); err != nil {
		return errors.Wrap(err, "deleting evaluations")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *evaluationApi) addNote(ctx echo.Context) error {
	id, err := evaluationID(ctx)
	if err != nil {
		return err
	}

	var data evaluation.QuickCapture
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to QuickCapture")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	ev, err := api.svc.AddNote(id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ev)
}

func (api *evaluationApi) reportSections(ctx echo.Context) error {
	id, err := evaluationID(ctx)
	if err != nil {
		return err
	}
	sections, err := api.svc.ExtractReportSections(id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sections)
}

// Documents

func (api *evaluationApi) listDocuments(ctx echo.Context) error {
	id, err := evaluationID(ctx)
	if err != nil {
		return err
	}
	if _, err = api.svc.GetByID(id); err != nil {
		return err
	}

	docs, err := api.svc.QueryDocuments(id)
	if err != nil {
		return errors.Wrap(err, "querying documents")
	}
	if docs == nil {
		docs = []evaluation.Document{}
	}
	return ctx.JSON(http.StatusOK, docs)
}

func (api *evaluationApi) uploadDocument(ctx echo.Context) error {
	id, err := evaluationID(ctx)
	if err != nil {
		return err
	}

	fh, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "please attach a file"})
	}
	if fh.Size > maxUploadSize {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: errFileTooLarge})
	}

	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxUploadSize))
	if err != nil {
		return errors.Wrap(err, "reading uploaded file")
	}

	doc, err := api.svc.AddDocument(id, evaluation.Document{
		Name:        filepath.Base(fh.Filename),
		ContentType: fh.Header.Get("Content-Type"),
		Size:        int64(len(content)),
		Content:     content,
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, doc)
}

func (api *evaluationApi) downloadDocument(ctx echo.Context) error {
	id, err := evaluationID(ctx)
	if err != nil {
		return err
	}
	doc, err := api.svc.GetDocument(id, ctx.Param("docId"))
	if err != nil {
		return err
	}

	contentType := doc.ContentType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+doc.Name+`"`)
	return ctx.Blob(http.StatusOK, contentType, doc.Content)
}

func (api *evaluationApi) destroyDocument(ctx echo.Context) error {
	id, err := evaluationID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.DeleteDocument(id, ctx.Param("docId")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Roster import

func (api *evaluationApi) uploadExcel(ctx echo.Context) error {
	fh, err := ctx.FormFile("excel")
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "excel", Error: errExcelFileRequired})
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext != ".xlsx" && ext != ".xls" {
		return core.NewValidationError(nil, core.FieldError{Field: "excel", Error: errExcelFileRequired})
	}
	if fh.Size > maxUploadSize {
		return core.NewValidationError(nil, core.FieldError{Field: "excel", Error: errFileTooLarge})
	}

	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening workbook")
	}
	defer f.Close()

	rows, err := excelsvc.ParseRoster(f)
	if err != nil {
		return core.NewValidationError(errors.Wrap(err, "failed to process Excel file"))
	}

	res, err := api.svc.Import(rows)
	if err != nil {
		return errors.Wrap(err, "importing roster")
	}
	return ctx.JSON(http.StatusOK, res)
}
