package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"hearing-clinic-service/internal/domain/dtos"
	"hearing-clinic-service/internal/services"
)

// ReferralHandler exposes the fitting referral pipeline over HTTP.
type ReferralHandler struct {
	referralService services.ReferralServiceContract
	logger          *zap.Logger
}

func NewReferralHandler(rs services.ReferralServiceContract, logger *zap.Logger) *ReferralHandler {
	return &ReferralHandler{
		referralService: rs,
		logger:          logger,
	}
}

func (h *ReferralHandler) InitiateReferral(c *fiber.Ctx) error {
	id, err := parsePatientID(c)
	if err != nil {
		return respondReferralError(h, c, err)
	}

	var req dtos.InitiateReferralRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not parse request body: " + err.Error()})
	}
	if req.FHIRVersion != "STU3" && req.FHIRVersion != "DSTU2" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "fhirVersion must be STU3 or DSTU2"})
	}

	referralID, err := h.referralService.InitiateReferral(c.Context(), id, req)
	if err != nil {
		return respondReferralError(h, c, err)
	}

	h.logger.Info("referral accepted",
		zap.String("referral_id", referralID),
		zap.String("patient_id", id.String()))

	// Processing is asynchronous; the job has only been enqueued.
	return c.Status(fiber.StatusAccepted).JSON(dtos.ReferralStatusResponse{
		ReferralProgress: dtos.ReferralProgress{
			ReferralID: referralID,
			Status:     "PENDING",
			Message:    "Fitting referral enqueued for processing.",
		},
	})
}

func respondReferralError(h *ReferralHandler, c *fiber.Ctx, err error) error {
	status := statusForError(err)
	if status >= fiber.StatusInternalServerError {
		h.logger.Error("referral request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func RegisterReferralRoutes(app *fiber.App, rh *ReferralHandler) {
	app.Post("/patients/:id/referrals", rh.InitiateReferral)
}
