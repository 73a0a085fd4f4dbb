package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"driveschool-service/internal/domain/entity"
	"driveschool-service/internal/usecase"
	"driveschool-service/pkg/logger"
	"driveschool-service/pkg/utils"
)

// Handler exposes the scheduling engine over HTTP. Authentication and
// input sanitization run in middleware outside this package.
type Handler struct {
	scheduler *usecase.LessonScheduler
	resolver  *usecase.AvailabilityResolver
	tracker   *usecase.MaintenanceTracker
	registry  *usecase.Registry
	logger    logger.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	scheduler *usecase.LessonScheduler,
	resolver *usecase.AvailabilityResolver,
	tracker *usecase.MaintenanceTracker,
	registry *usecase.Registry,
	logger logger.Logger,
) *Handler {
	return &Handler{
		scheduler: scheduler,
		resolver:  resolver,
		tracker:   tracker,
		registry:  registry,
		logger:    logger,
	}
}

// Register mounts all routes on the router
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/students", h.RegisterStudent).Methods(http.MethodPost)
	r.HandleFunc("/students", h.ListStudents).Methods(http.MethodGet)
	r.HandleFunc("/vehicles", h.RegisterVehicle).Methods(http.MethodPost)
	r.HandleFunc("/vehicles", h.ListVehicles).Methods(http.MethodGet)
	r.HandleFunc("/lessons", h.ScheduleLesson).Methods(http.MethodPost)
	r.HandleFunc("/lessons/{id}", h.UpdateLesson).Methods(http.MethodPatch)
	r.HandleFunc("/lessons/{id}", h.CancelLesson).Methods(http.MethodDelete)
	r.HandleFunc("/lessons/{id}/complete", h.CompleteLesson).Methods(http.MethodPost)
	r.HandleFunc("/vehicles/available", h.FindAvailable).Methods(http.MethodGet)
	r.HandleFunc("/vehicles/maintenance/alerts", h.MaintenanceAlerts).Methods(http.MethodGet)
	r.HandleFunc("/vehicles/{id}/maintenance", h.RecordMaintenance).Methods(http.MethodPost)
	r.HandleFunc("/vehicles/{id}/maintenance", h.MaintenanceHistory).Methods(http.MethodGet)
	r.HandleFunc("/vehicles/{id}/instructor", h.ReassignVehicle).Methods(http.MethodPut)
	r.HandleFunc("/vehicles/{id}/status", h.SetVehicleStatus).Methods(http.MethodPut)
	r.HandleFunc("/vehicles/{id}", h.DeleteVehicle).Methods(http.MethodDelete)
}

type scheduleLessonRequest struct {
	StudentID    string `json:"studentId"`
	InstructorID uint   `json:"instructorId"`
	VehicleID    string `json:"vehicleId"`
	Date         string `json:"date"`
	Start        string `json:"start"`
	End          string `json:"end"`
	Location     string `json:"location"`
}

type updateLessonRequest struct {
	Date     string `json:"date"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Location string `json:"location"`
}

type recordMaintenanceRequest struct {
	Date        string `json:"date"`
	Mileage     int    `json:"mileage"`
	Description string `json:"description"`
}

type reassignVehicleRequest struct {
	InstructorID *uint `json:"instructorId"` // null clears the assignment
}

type vehicleStatusRequest struct {
	Status string `json:"status"`
}

type registerStudentRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type registerVehicleRequest struct {
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	Plate        string `json:"plate"`
	Transmission string `json:"transmission"`
	FuelType     string `json:"fuelType"`
	Mileage      int    `json:"mileage"`
	Status       string `json:"status"`
}

type errorResponse struct {
	Error string   `json:"error"`
	Kinds []string `json:"kinds,omitempty"`
}

// RegisterStudent handles POST /students
func (h *Handler) RegisterStudent(w http.ResponseWriter, r *http.Request) {
	var req registerStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeBadRequest(w, "invalid request body")
		return
	}

	student := &entity.Student{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
	}
	if err := h.registry.RegisterStudent(r.Context(), student); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, student)
}

// ListStudents handles GET /students
func (h *Handler) ListStudents(w http.ResponseWriter, r *http.Request) {
	limit := intQuery(r.URL.Query().Get("limit"), 100)

	students, err := h.registry.ListStudents(r.Context(), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, students)
}

// RegisterVehicle handles POST /vehicles
func (h *Handler) RegisterVehicle(w http.ResponseWriter, r *http.Request) {
	var req registerVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeBadRequest(w, "invalid request body")
		return
	}

	vehicle := &entity.Vehicle{
		Make:         req.Make,
		Model:        req.Model,
		Year:         req.Year,
		Plate:        req.Plate,
		Transmission: req.Transmission,
		FuelType:     req.FuelType,
		Mileage:      req.Mileage,
		Status:       req.Status,
	}
	if err := h.registry.RegisterVehicle(r.Context(), vehicle); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, vehicle)
}

// ListVehicles handles GET /vehicles
func (h *Handler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.registry.ListVehicles(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, vehicles)
}

// ScheduleLesson handles POST /lessons
func (h *Handler) ScheduleLesson(w http.ResponseWriter, r *http.Request) {
	var req scheduleLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeBadRequest(w, "invalid request body")
		return
	}
	start, end, ok := h.parseWindow(w, req.Start, req.End)
	if !ok {
		return
	}

	lesson, err := h.scheduler.ScheduleLesson(r.Context(), usecase.BookingInput{
		StudentID:    req.StudentID,
		InstructorID: req.InstructorID,
		VehicleID:    req.VehicleID,
		Date:         req.Date,
		StartMinute:  start,
		EndMinute:    end,
		Location:     req.Location,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, lesson)
}

// UpdateLesson handles PATCH /lessons/{id}
func (h *Handler) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req updateLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeBadRequest(w, "invalid request body")
		return
	}
	start, end, ok := h.parseWindow(w, req.Start, req.End)
	if !ok {
		return
	}

	lesson, err := h.scheduler.UpdateLesson(r.Context(), id, req.Date, start, end, req.Location)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, lesson)
}

// CancelLesson handles DELETE /lessons/{id}
func (h *Handler) CancelLesson(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	lesson, err := h.scheduler.CancelLesson(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, lesson)
}

// CompleteLesson handles POST /lessons/{id}/complete
func (h *Handler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	lesson, err := h.scheduler.CompleteLesson(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, lesson)
}

// FindAvailable handles GET /vehicles/available
func (h *Handler) FindAvailable(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, end, ok := h.parseWindow(w, q.Get("start"), q.Get("end"))
	if !ok {
		return
	}

	filters := usecase.AvailabilityFilters{
		Transmission: q.Get("transmission"),
	}
	if raw := q.Get("instructorId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			h.writeBadRequest(w, "invalid instructorId")
			return
		}
		u := uint(id)
		filters.InstructorID = &u
	}

	availability, err := h.resolver.FindAvailable(r.Context(), q.Get("date"), start, end, filters)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, availability)
}

// MaintenanceAlerts handles GET /vehicles/maintenance/alerts
func (h *Handler) MaintenanceAlerts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	thresholdDays := intQuery(q.Get("thresholdDays"), 14)
	thresholdKm := intQuery(q.Get("thresholdKm"), 1000)

	alerts, err := h.tracker.GetAlerts(r.Context(), thresholdDays, thresholdKm)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, alerts)
}

// RecordMaintenance handles POST /vehicles/{id}/maintenance
func (h *Handler) RecordMaintenance(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req recordMaintenanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeBadRequest(w, "invalid request body")
		return
	}
	date, err := utils.ParseDate(req.Date)
	if err != nil {
		h.writeBadRequest(w, "invalid date, expected YYYY-MM-DD")
		return
	}

	vehicle, err := h.tracker.RecordMaintenance(r.Context(), id, usecase.MaintenanceInput{
		Date:        date,
		Mileage:     req.Mileage,
		Description: req.Description,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, vehicle)
}

// MaintenanceHistory handles GET /vehicles/{id}/maintenance
func (h *Handler) MaintenanceHistory(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	records, err := h.tracker.History(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, records)
}

// ReassignVehicle handles PUT /vehicles/{id}/instructor
func (h *Handler) ReassignVehicle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req reassignVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeBadRequest(w, "invalid request body")
		return
	}

	if err := h.scheduler.ReassignVehicle(r.Context(), id, req.InstructorID); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetVehicleStatus handles PUT /vehicles/{id}/status
func (h *Handler) SetVehicleStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req vehicleStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeBadRequest(w, "invalid request body")
		return
	}
	if !entity.ValidVehicleStatus(req.Status) {
		h.writeBadRequest(w, "unknown vehicle status")
		return
	}

	if err := h.scheduler.SetVehicleStatus(r.Context(), id, req.Status); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteVehicle handles DELETE /vehicles/{id}
func (h *Handler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.scheduler.DeleteVehicle(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) parseWindow(w http.ResponseWriter, start, end string) (int, int, bool) {
	startMin, err := utils.ParseClockMinute(start)
	if err != nil {
		h.writeBadRequest(w, "invalid start time, expected HH:MM")
		return 0, 0, false
	}
	endMin, err := utils.ParseClockMinute(end)
	if err != nil {
		h.writeBadRequest(w, "invalid end time, expected HH:MM")
		return 0, 0, false
	}
	return startMin, endMin, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeBadRequest(w http.ResponseWriter, msg string) {
	h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var se *usecase.SchedulingError
	if !errors.As(err, &se) {
		h.logger.Error("Unhandled error", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	kinds := []string{string(se.Kind)}
	for _, k := range se.Related {
		kinds = append(kinds, string(k))
	}
	resp := errorResponse{Error: se.Message, Kinds: kinds}

	switch se.Kind {
	case usecase.KindNotFound:
		h.writeJSON(w, http.StatusNotFound, resp)
	case usecase.KindInvalidWindow, usecase.KindInvalidInput:
		h.writeJSON(w, http.StatusBadRequest, resp)
	case usecase.KindOutOfOrderRecord:
		h.writeJSON(w, http.StatusUnprocessableEntity, resp)
	case usecase.KindInstructorConflict, usecase.KindVehicleConflict,
		usecase.KindVehicleUnavailable, usecase.KindConcurrentModification,
		usecase.KindAlreadyExists:
		h.writeJSON(w, http.StatusConflict, resp)
	case usecase.KindStoreUnavailable:
		h.writeJSON(w, http.StatusServiceUnavailable, resp)
	default:
		h.writeJSON(w, http.StatusInternalServerError, resp)
	}
}

func intQuery(raw string, def int) int {
	if raw == "" {
		return def
	}
	if v, err := strconv.Atoi(raw); err == nil {
		return v
	}
	return def
}
