package controllers

import (
	"log/slog"
	"net/http"

	"eventbooking/internal/delivery/http/helpers"
	"eventbooking/internal/domain"
)

// ListEventsData is the data of GET /api/events.
type ListEventsData struct {
	Items      []EventResponse        `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListEventsSuccessResponse is the success response envelope for GET /api/events (200).
type ListEventsSuccessResponse struct {
	Data  ListEventsData    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventOccurrencesSuccessResponse is the success response envelope for GET /api/events/{eventID}/occurrences (200).
type EventOccurrencesSuccessResponse struct {
	Data  EventOccurrencesResponse `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// AvailabilitySuccessResponse is the success response envelope for GET /api/occurrences/{occurrenceID}/availability (200).
type AvailabilitySuccessResponse struct {
	Data  AvailabilityResponse `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

type CatalogController struct {
	Logger  *slog.Logger
	Service domain.CatalogService
}

func NewCatalogController(logger *slog.Logger, svc domain.CatalogService) *CatalogController {
	return &CatalogController{
		Logger:  logger,
		Service: svc,
	}
}

// ListEvents godoc
// @Summary List events
// @Description Returns a page of events with venue name and every occurrence with its available seats. Available seats may be negative when an occurrence is overbooked.
// @Tags catalog
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListEventsSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/events [get]
func (c *CatalogController) ListEvents(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	events, total, err := c.Service.ListEvents(r.Context(), params)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListEventsData{
		Items:      newEventResponses(events),
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// GetEventOccurrences godoc
// @Summary List the occurrences of an event
// @Tags catalog
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.EventOccurrencesSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/events/{eventID}/occurrences [get]
func (c *CatalogController) GetEventOccurrences(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(r, "eventID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	out, err := c.Service.GetEventOccurrences(r.Context(), eventID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, newEventOccurrencesResponse(out))
}

// GetAvailability godoc
// @Summary Get the available seats of an occurrence
// @Description Available seats are venue capacity minus the sum of reserved quantities, computed at read time.
// @Tags catalog
// @Produce json
// @Param occurrenceID path int true "Occurrence ID"
// @Success 200 {object} controllers.AvailabilitySuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/occurrences/{occurrenceID}/availability [get]
func (c *CatalogController) GetAvailability(w http.ResponseWriter, r *http.Request) {
	occurrenceID, ok := pathID(r, "occurrenceID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid occurrenceID")
		return
	}
	a, err := c.Service.AvailableSeats(r.Context(), occurrenceID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, AvailabilityResponse{
		OccurrenceID:   a.Occurrence.ID,
		Capacity:       a.Capacity,
		Reserved:       a.Reserved,
		AvailableSeats: a.AvailableSeats(),
	})
}
