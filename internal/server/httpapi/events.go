package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"eventhub/internal/common"
	"eventhub/internal/server/models"
	"eventhub/internal/server/repositories/events"
	"eventhub/internal/server/services"
)

// EventsService covers the event operations exposed over HTTP.
type EventsService interface {
	List(ctx context.Context, f events.Filter, limit, offset int) ([]*models.Event, int64, error)
	ListWithStatus(ctx context.Context, userID int64, f events.Filter, limit, offset int) ([]*models.EventWithStatus, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	GetByIDWithStatus(ctx context.Context, userID, id int64) (*models.EventWithStatus, error)
	Create(ctx context.Context, organizerID int64, in *services.EventInput) (*models.Event, error)
	Update(ctx context.Context, userID, eventID int64, in *services.EventInput) (*models.Event, error)
	Delete(ctx context.Context, userID, eventID int64) error
	ToggleLike(ctx context.Context, userID, eventID int64) (bool, error)
	Register(ctx context.Context, userID, eventID int64) error
	Unregister(ctx context.Context, userID, eventID int64) error
	Stats(ctx context.Context, userID int64) (*models.EventStats, error)
	CreateImageUploadURL(ctx context.Context, userID, eventID int64) (string, string, error)
	GetImageURL(ctx context.Context, eventID int64) (string, error)
}

type EventHandler struct {
	events EventsService
}

func NewEventHandler(events EventsService) *EventHandler {
	return &EventHandler{events: events}
}

func eventID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, common.ErrorNotFound
	}
	return id, nil
}

// listFilter reads the shared listing query parameters. Public listings show
// future events only.
func listFilter(c echo.Context) events.Filter {
	f := events.Filter{
		City:        c.QueryParam("city"),
		Search:      c.QueryParam("search"),
		SortByLikes: c.QueryParam("sort_by_likes"),
	}
	if raw := c.QueryParam("category_id"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			f.CategoryID = v
		}
	}
	return f
}

func (h *EventHandler) List(c echo.Context) error {
	p, err := parsePageParams(c)
	if err != nil {
		return httpError(err)
	}

	f := listFilter(c)
	f.FutureOnly = true

	items, total, err := h.events.List(c.Request().Context(), f, p.limit(), p.offset())
	if err != nil {
		return httpError(err)
	}

	resp := make([]eventResponse, 0, len(items))
	for _, e := range items {
		resp = append(resp, toEventResponse(e))
	}
	return c.JSON(http.StatusOK, newPageResponse(resp, total, p))
}

func (h *EventHandler) ListWithStatus(c echo.Context) error {
	p, err := parsePageParams(c)
	if err != nil {
		return httpError(err)
	}

	f := listFilter(c)
	f.FutureOnly = true

	items, total, err := h.events.ListWithStatus(c.Request().Context(), CurrentUser(c).ID, f, p.limit(), p.offset())
	if err != nil {
		return httpError(err)
	}

	resp := make([]eventWithStatusResponse, 0, len(items))
	for _, e := range items {
		resp = append(resp, toEventWithStatusResponse(e))
	}
	return c.JSON(http.StatusOK, newPageResponse(resp, total, p))
}

func (h *EventHandler) Get(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return httpError(err)
	}

	event, err := h.events.GetByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, toEventResponse(event))
}

func (h *EventHandler) GetWithStatus(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return httpError(err)
	}

	event, err := h.events.GetByIDWithStatus(c.Request().Context(), CurrentUser(c).ID, id)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, toEventWithStatusResponse(event))
}

func bindEventInput(c echo.Context) (*services.EventInput, error) {
	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return nil, common.ErrorValidation
	}
	date, err := req.parse()
	if err != nil {
		return nil, err
	}
	return &services.EventInput{
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		FullDescription:  req.FullDescription,
		Date:             date,
		StartTime:        req.StartTime,
		LocationID:       req.LocationID,
		CategoryIDs:      req.CategoryIDs,
	}, nil
}

func (h *EventHandler) Create(c echo.Context) error {
	in, err := bindEventInput(c)
	if err != nil {
		return httpError(err)
	}

	event, err := h.events.Create(c.Request().Context(), CurrentUser(c).ID, in)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, toEventResponse(event))
}

func (h *EventHandler) Update(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return httpError(err)
	}

	in, err := bindEventInput(c)
	if err != nil {
		return httpError(err)
	}

	event, err := h.events.Update(c.Request().Context(), CurrentUser(c).ID, id, in)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, toEventResponse(event))
}

func (h *EventHandler) Delete(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return httpError(err)
	}

	if err := h.events.Delete(c.Request().Context(), CurrentUser(c).ID, id); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Event deleted"})
}

// ToggleLike flips the caller's like and returns the refreshed event.
func (h *EventHandler) ToggleLike(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return httpError(err)
	}

	if _, err := h.events.ToggleLike(c.Request().Context(), CurrentUser(c).ID, id); err != nil {
		return httpError(err)
	}

	event, err := h.events.GetByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, toEventResponse(event))
}

func (h *EventHandler) Register(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return httpError(err)
	}

	if err := h.events.Register(c.Request().Context(), CurrentUser(c).ID, id); err != nil {
		return httpError(err)
	}

	event, err := h.events.GetByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, toEventResponse(event))
}

func (h *EventHandler) Unregister(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return httpError(err)
	}

	if err := h.events.Unregister(c.Request().Context(), CurrentUser(c).ID, id); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Successfully unregistered from event"})
}

// myFilter builds the filter for the caller's own listings.
type myFilter func(userID int64) events.Filter

func (h *EventHandler) listMine(c echo.Context, mf myFilter) error {
	p, err := parsePageParams(c)
	if err != nil {
		return httpError(err)
	}

	items, total, err := h.events.List(c.Request().Context(), mf(CurrentUser(c).ID), p.limit(), p.offset())
	if err != nil {
		return httpError(err)
	}

	resp := make([]eventResponse, 0, len(items))
	for _, e := range items {
		resp = append(resp, toEventResponse(e))
	}
	return c.JSON(http.StatusOK, newPageResponse(resp, total, p))
}

func (h *EventHandler) listMineWithStatus(c echo.Context, mf myFilter) error {
	p, err := parsePageParams(c)
	if err != nil {
		return httpError(err)
	}

	userID := CurrentUser(c).ID
	items, total, err := h.events.ListWithStatus(c.Request().Context(), userID, mf(userID), p.limit(), p.offset())
	if err != nil {
		return httpError(err)
	}

	resp := make([]eventWithStatusResponse, 0, len(items))
	for _, e := range items {
		resp = append(resp, toEventWithStatusResponse(e))
	}
	return c.JSON(http.StatusOK, newPageResponse(resp, total, p))
}

func (h *EventHandler) MyCreated(c echo.Context) error {
	return h.listMine(c, func(userID int64) events.Filter { return events.Filter{OrganizerID: userID} })
}

func (h *EventHandler) MyLiked(c echo.Context) error {
	return h.listMine(c, func(userID int64) events.Filter { return events.Filter{LikedByID: userID} })
}

func (h *EventHandler) MyRegistered(c echo.Context) error {
	return h.listMine(c, func(userID int64) events.Filter { return events.Filter{RegisteredByID: userID} })
}

func (h *EventHandler) MyCreatedWithStatus(c echo.Context) error {
	return h.listMineWithStatus(c, func(userID int64) events.Filter { return events.Filter{OrganizerID: userID} })
}

func (h *EventHandler) MyLikedWithStatus(c echo.Context) error {
	return h.listMineWithStatus(c, func(userID int64) events.Filter { return events.Filter{LikedByID: userID} })
}

func (h *EventHandler) MyRegisteredWithStatus(c echo.Context) error {
	return h.listMineWithStatus(c, func(userID int64) events.Filter { return events.Filter{RegisteredByID: userID} })
}

func (h *EventHandler) MyStats(c echo.Context) error {
	stats, err := h.events.Stats(c.Request().Context(), CurrentUser(c).ID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, statsResponse{
		CreatedEvents:    stats.CreatedEvents,
		LikedEvents:      stats.LikedEvents,
		RegisteredEvents: stats.RegisteredEvents,
	})
}

// CreateImageUpload issues a presigned upload URL for the event poster.
func (h *EventHandler) CreateImageUpload(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return httpError(err)
	}

	key, url, err := h.events.CreateImageUploadURL(c.Request().Context(), CurrentUser(c).ID, id)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, imageUploadResponse{Key: key, UploadURL: url})
}

// GetImage issues a presigned download URL for the event poster.
func (h *EventHandler) GetImage(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return httpError(err)
	}

	url, err := h.events.GetImageURL(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, imageURLResponse{URL: url})
}
