package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gestionschool/gestionecole/core"
	"github.com/gestionschool/gestionecole/core/record"
	"github.com/gestionschool/gestionecole/core/school"
)

// recordAPI serves the CRUD endpoints of one record kind under /api/<collection>.
// Bodies are not validated beyond decoding into T.
type recordAPI[T any] struct {
	svc *record.Service[T]
}

func registerRecordAPI[T any](g *echo.Group, svc *record.Service[T]) *echo.Group {
	api := recordAPI[T]{svc: svc}

	rg := g.Group("/" + svc.Schema().Collection)
	rg.GET("", api.query)
	rg.POST("", api.create)
	rg.GET("/:id", api.retrieve)
	rg.PUT("/:id", api.update)
	rg.DELETE("/:id", api.destroy)
	return rg
}

func registerSchoolAPI(g *echo.Group, svcs *school.Services) {
	registerRecordAPI(g, svcs.Classes)
	cg := registerRecordAPI(g, svcs.Courses.Service)
	registerRecordAPI(g, svcs.Students)
	registerRecordAPI(g, svcs.Teachers)
	registerRecordAPI(g, svcs.AttendanceMarks)
	registerRecordAPI(g, svcs.TimetableSlots)
	registerRecordAPI(g, svcs.Grades)
	registerRecordAPI(g, svcs.TuitionRecords)

	courses := courseAPI{svc: svcs.Courses}
	cg.GET("/classe/:classe", courses.queryByClass)

	stats := statsAPI{svcs: svcs}
	g.GET("/statistiques", stats.retrieve)
}

// Handlers

// bind accepts numbers and booleans sent as strings, blank meaning null.
func (api recordAPI[T]) bind(ctx echo.Context) (T, error) {
	schema := api.svc.Schema()
	values := make(map[string]interface{})
	if err := (&echo.DefaultBinder{}).BindBody(ctx, &values); err != nil {
		var zero T
		return zero, errors.Wrapf(err, "binding to %s", schema.Collection)
	}
	rec, err := schema.Decode(values)
	if err != nil {
		if _, ok := errors.Cause(err).(*core.ValidationError); ok {
			return rec, err
		}
		return rec, echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return rec, nil
}

func (api recordAPI[T]) query(ctx echo.Context) error {
	recs, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return err
	}
	if recs == nil {
		recs = []T{}
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api recordAPI[T]) retrieve(ctx echo.Context) error {
	rec, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if rec == nil {
		// absent is not an error
		return ctx.NoContent(http.StatusOK)
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api recordAPI[T]) create(ctx echo.Context) error {
	data, err := api.bind(ctx)
	if err != nil {
		return err
	}
	rec, err := api.svc.Save(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}

// update replaces the whole stored document: fields missing from the body are cleared.
func (api recordAPI[T]) update(ctx echo.Context) error {
	data, err := api.bind(ctx)
	if err != nil {
		return err
	}
	rec, err := api.svc.Replace(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api recordAPI[T]) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusOK)
}

type courseAPI struct {
	svc *school.CourseService
}

func (api courseAPI) queryByClass(ctx echo.Context) error {
	courses, err := api.svc.QueryByClass(ctx.Request().Context(), ctx.Param("classe"))
	if err != nil {
		return err
	}
	if courses == nil {
		courses = []school.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

type statsAPI struct {
	svcs *school.Services
}

func (api statsAPI) retrieve(ctx echo.Context) error {
	stats, err := api.svcs.Stats(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, stats)
}
