package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"go-subscout/export"
	"go-subscout/models"
	"go-subscout/plugin"
)

// Handler defines an HTTP handler.
type Handler struct {
	pm *plugin.Manager // pm defines the *plugin.Manager used in operations.
}

// StartScanHandler defines the handler for POST /scan.
func (h *Handler) StartScanHandler(ctx fiber.Ctx) error {
	var data models.Settings

	if err := ctx.Bind().Body(&data); err != nil {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(errorResponse("Invalid data provided."))
	}

	// The scan outlives the request.
	s, err := h.pm.Start(context.Background(), data)
	if errors.Is(err, plugin.ErrInvalidDomain) {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(errorResponse(plugin.InvalidDomainMessage))
	}
	if err != nil {
		logrus.Errorf("failed to start scan: %v", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(errorResponse("Unexpected internal error occurred."))
	}

	return ctx.Status(fiber.StatusAccepted).JSON(s.Snapshot())
}

// ScanStatusHandler defines the handler for GET /scan.
func (h *Handler) ScanStatusHandler(ctx fiber.Ctx) error {
	s := h.pm.Current()
	if s == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(errorResponse(plugin.ErrNoSession.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(s.Snapshot())
}

// StopHandler defines the handler for POST /stop.
func (h *Handler) StopHandler(ctx fiber.Ctx) error {
	s := h.pm.Stop()
	if s == nil {
		return ctx.Status(fiber.StatusConflict).JSON(errorResponse("No scan is running."))
	}
	return ctx.Status(fiber.StatusOK).JSON(s.Snapshot())
}

// SettingsHandler defines the handler for GET /settings.
func (h *Handler) SettingsHandler(ctx fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(h.pm.Settings())
}

// ExportHandler defines the handler for GET /export/:format.
func (h *Handler) ExportHandler(ctx fiber.Ctx) error {
	format, err := export.ParseFormat(ctx.Params("format"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(errorResponse(err.Error()))
	}

	s := h.pm.Current()
	if s == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(errorResponse(plugin.ErrNoSession.Error()))
	}
	snap := s.Snapshot()
	if snap.State == models.StateRunning {
		return ctx.Status(fiber.StatusConflict).JSON(errorResponse(plugin.ErrScanRunning.Error()))
	}

	data, err := export.Render(format, snap.Domain, snap.Records, time.Now())
	if err != nil {
		logrus.Errorf("failed to export %s: %v", format, err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(errorResponse("Unexpected internal error occurred."))
	}

	ctx.Attachment(format.Filename())
	ctx.Set(fiber.HeaderContentType, format.ContentType())
	return ctx.Status(fiber.StatusOK).Send(data)
}
