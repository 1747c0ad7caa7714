package patient

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Home)
	e.GET("/about", h.About)
	e.GET("/view", h.List)
	e.GET("/patient/:id", h.Get)
	e.GET("/sort", h.Sort)
	e.POST("/create", h.Create)
	e.PUT("/edit/:id", h.Update)
	e.DELETE("/delete/:id", h.Delete)
}

func (h *Handler) Home(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Patient Management System API"})
}

func (h *Handler) About(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "A fully functional Patient Management System API"})
}

func (h *Handler) List(c echo.Context) error {
	col, err := h.svc.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, col)
}

func (h *Handler) Get(c echo.Context) error {
	rec, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) Sort(c echo.Context) error {
	order := c.QueryParam("order")
	if order == "" {
		order = "asc"
	}
	recs, err := h.svc.Sort(c.Request().Context(), c.QueryParam("sort_by"), order)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, recs)
}

func (h *Handler) Create(c echo.Context) error {
	var rec Record
	if err := c.Bind(&rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &rec); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Patient created successfully",
		"patient": rec,
	})
}

func (h *Handler) Update(c echo.Context) error {
	var patch Update
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rec, err := h.svc.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Patient updated successfully",
		"patient": rec,
	})
}

func (h *Handler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":    "Patient deleted successfully",
		"patient_id": id,
	})
}

// httpError maps store errors onto transport statuses. Mirror-path errors
// never surface here; the service swallows them off the request path.
func httpError(err error) *echo.HTTPError {
	var (
		validation *ValidationError
		notFound   *NotFoundError
		conflict   *ConflictError
	)
	switch {
	case errors.As(err, &validation):
		return echo.NewHTTPError(http.StatusBadRequest, validation.Error())
	case errors.As(err, &conflict):
		return echo.NewHTTPError(http.StatusBadRequest, conflict.Error())
	case errors.As(err, &notFound):
		return echo.NewHTTPError(http.StatusNotFound, notFound.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
