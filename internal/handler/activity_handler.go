package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cristobalGA/api-restful/internal/errors"
	"github.com/cristobalGA/api-restful/internal/service"
)

// ActivityHandler handles activity endpoints.
type ActivityHandler struct {
	activityService service.ActivityService
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(activityService service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// CreateActivityRequest represents an activity creation request.
type CreateActivityRequest struct {
	UserID      string    `json:"userId" validate:"required,uuid"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	DueDate     time.Time `json:"dueDate" validate:"required"`
}

// UpdateActivityRequest represents a partial activity update. Only these
// fields are mutable; ownership and deletion state cannot be changed here.
type UpdateActivityRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1"`
	Description *string    `json:"description" validate:"omitempty,min=1"`
	DueDate     *time.Time `json:"dueDate"`
	Completed   *bool      `json:"completed"`
	Version     *uint      `json:"version"`
}

// CreateActivity godoc
// @Summary Create an activity
// @Tags activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateActivityRequest true "Activity payload"
// @Success 201 {object} model.Activity
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /activity [post]
func (h *ActivityHandler) CreateActivity(c echo.Context) error {
	var req CreateActivityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Message: "invalid request body",
			Code:    "INVALID_BODY",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Message: err.Error(),
			Code:    "VALIDATION_FAILED",
		})
	}

	ownerID, err := uuid.Parse(req.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Message: "invalid user id",
			Code:    "INVALID_UUID",
		})
	}

	activity, err := h.activityService.CreateActivity(c.Request().Context(), service.CreateActivityInput{
		UserID:      ownerID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, activity)
}

// ListActivities godoc
// @Summary List active activities
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Activity
// @Failure 500 {object} errors.ErrorResponse
// @Router /activity [get]
func (h *ActivityHandler) ListActivities(c echo.Context) error {
	activities, err := h.activityService.ListActivities(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, activities)
}

// GetActivity godoc
// @Summary Get activity by id
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Success 200 {object} model.Activity
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /activity/{id} [get]
func (h *ActivityHandler) GetActivity(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Message: "invalid activity id",
			Code:    "INVALID_UUID",
		})
	}

	activity, err := h.activityService.GetActivity(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, activity)
}

// UpdateActivity godoc
// @Summary Update an activity
// @Tags activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Param request body UpdateActivityRequest true "Fields to change"
// @Success 200 {object} model.Activity
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /activity/{id} [put]
func (h *ActivityHandler) UpdateActivity(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Message: "invalid activity id",
			Code:    "INVALID_UUID",
		})
	}

	var req UpdateActivityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Message: "invalid request body",
			Code:    "INVALID_BODY",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Message: err.Error(),
			Code:    "VALIDATION_FAILED",
		})
	}

	activity, err := h.activityService.UpdateActivity(c.Request().Context(), id, service.UpdateActivityInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Completed:   req.Completed,
		Version:     req.Version,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, activity)
}

// DeleteActivity godoc
// @Summary Soft-delete an activity
// @Tags activities
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /activity/{id} [delete]
func (h *ActivityHandler) DeleteActivity(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Message: "invalid activity id",
			Code:    "INVALID_UUID",
		})
	}

	if err := h.activityService.SoftDeleteActivity(c.Request().Context(), id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}

// RestoreActivity godoc
// @Summary Restore a soft-deleted activity
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Success 200 {object} model.Activity
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /activity/restore/{id} [put]
func (h *ActivityHandler) RestoreActivity(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Message: "invalid activity id",
			Code:    "INVALID_UUID",
		})
	}

	activity, err := h.activityService.RestoreActivity(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, activity)
}
