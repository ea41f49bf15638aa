package controllers

import (
	"log/slog"
	"net/http"

	"eventbooking/internal/delivery/http/helpers"
	"eventbooking/internal/delivery/http/middleware"
	"eventbooking/internal/domain"
)

// Reservation actions accepted by POST /api/reservations.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// defaultQuantity is used by the create paths when quantity is omitted.
const defaultQuantity = 1

// ReservationActionRequest is the body of POST /api/reservations. Action selects
// which of the other fields are read.
type ReservationActionRequest struct {
	Action        string `json:"action" validate:"required,oneof=create update delete"`
	OccurrenceID  int64  `json:"occurrence_id" validate:"required_if=Action create"`
	ReservationID int64  `json:"reservation_id" validate:"required_unless=Action create"`
	Quantity      *int   `json:"quantity" validate:"required_if=Action update"`
}

// reservationCommand is one of createReservation, updateReservation or deleteReservation.
type reservationCommand interface {
	reservationCommand()
}

type createReservation struct {
	OccurrenceID int64
	Quantity     int
}

type updateReservation struct {
	ReservationID int64
	Quantity      int
}

type deleteReservation struct {
	ReservationID int64
}

func (createReservation) reservationCommand() {}
func (updateReservation) reservationCommand() {}
func (deleteReservation) reservationCommand() {}

// command converts a validated request into its command. It returns nil for an
// unknown action.
func (req ReservationActionRequest) command() reservationCommand {
	switch req.Action {
	case ActionCreate:
		return createReservation{OccurrenceID: req.OccurrenceID, Quantity: quantityOrDefault(req.Quantity)}
	case ActionUpdate:
		return updateReservation{ReservationID: req.ReservationID, Quantity: *req.Quantity}
	case ActionDelete:
		return deleteReservation{ReservationID: req.ReservationID}
	default:
		return nil
	}
}

func quantityOrDefault(q *int) int {
	if q == nil {
		return defaultQuantity
	}
	return *q
}

// QuickReserveRequest is the body of POST /reserve.
type QuickReserveRequest struct {
	OccurrenceID int64 `json:"occurrence_id" validate:"required"`
	Quantity     *int  `json:"quantity"`
}

// UpdateReservationRequest is the body of PATCH /api/reservations/{reservationID}.
type UpdateReservationRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// ListReservationsSuccessResponse is the success response envelope for GET /api/reservations (200).
type ListReservationsSuccessResponse struct {
	Data  []ReservationResponse `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// ReservationCommandSuccessResponse is the success response envelope for reservation commands.
type ReservationCommandSuccessResponse struct {
	Data  ReservationCommandResponse `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

type ReservationController struct {
	Logger  *slog.Logger
	Service domain.ReservationService
}

func NewReservationController(logger *slog.Logger, svc domain.ReservationService) *ReservationController {
	return &ReservationController{
		Logger:  logger,
		Service: svc,
	}
}

// ListReservations godoc
// @Summary List my reservations
// @Description Every reservation of the caller, including those on cancelled occurrences.
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListReservationsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/reservations [get]
func (c *ReservationController) ListReservations(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	list, err := c.Service.ListMine(r.Context(), userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, newReservationResponses(list))
}

// HandleAction godoc
// @Summary Create, update or delete a reservation
// @Description action "create" needs occurrence_id and an optional quantity (default 1); a second reservation for the same occurrence is rejected with 409. action "update" needs reservation_id and quantity. action "delete" needs reservation_id.
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ReservationActionRequest true "Reservation command"
// @Success 200 {object} controllers.ReservationCommandSuccessResponse "update or delete"
// @Success 201 {object} controllers.ReservationCommandSuccessResponse "create"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (invalid action, cancelled occurrence)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/reservations [post]
func (c *ReservationController) HandleAction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req ReservationActionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	switch cmd := req.command().(type) {
	case createReservation:
		res, err := c.Service.Create(r.Context(), userID, cmd.OccurrenceID, cmd.Quantity)
		if err != nil {
			writeServiceError(c.Logger, w, r, err)
			return
		}
		helpers.WriteJSONSuccess(w, http.StatusCreated, ReservationCommandResponse{Message: "reservation created", Reservation: res})
	case updateReservation:
		c.update(w, r, userID, cmd.ReservationID, cmd.Quantity)
	case deleteReservation:
		c.delete(w, r, userID, cmd.ReservationID)
	default:
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid action")
	}
}

// UpdateReservation godoc
// @Summary Change the quantity of a reservation
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reservationID path int true "Reservation ID"
// @Param body body UpdateReservationRequest true "New quantity"
// @Success 200 {object} controllers.ReservationCommandSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/reservations/{reservationID} [patch]
func (c *ReservationController) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	reservationID, ok := pathID(r, "reservationID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid reservationID")
		return
	}
	var req UpdateReservationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	c.update(w, r, userID, reservationID, *req.Quantity)
}

// DeleteReservation godoc
// @Summary Delete a reservation
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param reservationID path int true "Reservation ID"
// @Success 200 {object} controllers.ReservationCommandSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/reservations/{reservationID} [delete]
func (c *ReservationController) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	reservationID, ok := pathID(r, "reservationID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid reservationID")
		return
	}
	c.delete(w, r, userID, reservationID)
}

// QuickReserve godoc
// @Summary Reserve seats for an occurrence
// @Description Simple booking flow used by the event page. Quantity defaults to 1. Unlike the create action it does not reject a second reservation for the same occurrence.
// @Tags reservations
// @Accept json
// @Produce json
// @Param body body QuickReserveRequest true "Occurrence and quantity"
// @Success 201 {object} controllers.ReservationCommandSuccessResponse
// @Failure 303 "redirect to /login when not logged in"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /reserve [post]
func (c *ReservationController) QuickReserve(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req QuickReserveRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	res, err := c.Service.QuickCreate(r.Context(), userID, req.OccurrenceID, quantityOrDefault(req.Quantity))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, ReservationCommandResponse{Message: "reservation confirmed", Reservation: res})
}

func (c *ReservationController) update(w http.ResponseWriter, r *http.Request, userID, reservationID int64, quantity int) {
	res, err := c.Service.Update(r.Context(), userID, reservationID, quantity)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ReservationCommandResponse{Message: "reservation updated", Reservation: res})
}

func (c *ReservationController) delete(w http.ResponseWriter, r *http.Request, userID, reservationID int64) {
	if err := c.Service.Delete(r.Context(), userID, reservationID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ReservationCommandResponse{Message: "reservation deleted"})
}
