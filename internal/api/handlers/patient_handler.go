package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"hearing-clinic-service/internal/domain/dtos"
	"hearing-clinic-service/internal/domain/shared"
	"hearing-clinic-service/internal/services"
)

// PatientHandler exposes the patient service over HTTP.
type PatientHandler struct {
	patientService services.PatientServiceContract
	logger         *zap.Logger
}

func NewPatientHandler(ps services.PatientServiceContract, logger *zap.Logger) *PatientHandler {
	return &PatientHandler{
		patientService: ps,
		logger:         logger,
	}
}

// statusForError maps a domain error to an HTTP status code.
func statusForError(err error) int {
	switch {
	case errors.Is(err, shared.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, shared.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, shared.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, shared.ErrStorage):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *PatientHandler) respondError(c *fiber.Ctx, err error) error {
	status := statusForError(err)
	if status >= fiber.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func parsePatientID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, shared.NewDomainError("patient", "ParseID", shared.ErrValidation, "patient id must be a valid uuid")
	}
	return id, nil
}

func (h *PatientHandler) CreatePatient(c *fiber.Ctx) error {
	var req dtos.CreatePatientRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not parse request body: " + err.Error()})
	}

	patient, err := h.patientService.CreatePatient(c.Context(), req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(patient)
}

func (h *PatientHandler) GetPatient(c *fiber.Ctx) error {
	id, err := parsePatientID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	patient, err := h.patientService.GetPatient(c.Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(patient)
}

func (h *PatientHandler) GetAllPatients(c *fiber.Ctx) error {
	// ?name= switches to a name search.
	if name := c.Query("name"); name != "" {
		patients, err := h.patientService.SearchPatientsByName(c.Context(), name)
		if err != nil {
			return h.respondError(c, err)
		}
		return c.JSON(patients)
	}

	patients, err := h.patientService.GetAllPatients(c.Context())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(patients)
}

func (h *PatientHandler) UpdatePatient(c *fiber.Ctx) error {
	id, err := parsePatientID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	var req dtos.UpdatePatientRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not parse request body: " + err.Error()})
	}

	patient, err := h.patientService.UpdatePatient(c.Context(), id, req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(patient)
}

func (h *PatientHandler) RecordHearingTest(c *fiber.Ctx) error {
	id, err := parsePatientID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	var req dtos.RecordHearingTestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not parse request body: " + err.Error()})
	}

	patient, err := h.patientService.RecordHearingTest(c.Context(), id, req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(patient)
}

func (h *PatientHandler) AssignDevice(c *fiber.Ctx) error {
	id, err := parsePatientID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	var req dtos.AssignDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not parse request body: " + err.Error()})
	}

	patient, err := h.patientService.AssignDevice(c.Context(), id, req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(patient)
}

func (h *PatientHandler) DeletePatient(c *fiber.Ctx) error {
	id, err := parsePatientID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	if err := h.patientService.DeletePatient(c.Context(), id); err != nil {
		return h.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PatientHandler) GetCompletePatientData(c *fiber.Ctx) error {
	id, err := parsePatientID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	data, err := h.patientService.GetCompletePatientData(c.Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(data)
}

func RegisterPatientRoutes(app *fiber.App, ph *PatientHandler) {
	patients := app.Group("/patients")
	patients.Post("/", ph.CreatePatient)
	patients.Get("/", ph.GetAllPatients)
	patients.Get("/:id", ph.GetPatient)
	patients.Put("/:id", ph.UpdatePatient)
	patients.Delete("/:id", ph.DeletePatient)
	patients.Post("/:id/hearing-tests", ph.RecordHearingTest)
	patients.Post("/:id/devices", ph.AssignDevice)
	patients.Get("/:id/complete", ph.GetCompletePatientData)
}
