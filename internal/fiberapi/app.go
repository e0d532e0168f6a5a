// Package fiberapi serves the same routes as package api on Fiber.
package fiberapi

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"cv-match/internal/api"
	"cv-match/pkg/apierror"
	"cv-match/pkg/logger"
)

// multipartSlack covers the multipart framing and the optional catalog field.
const multipartSlack = 1 << 20

type handler struct {
	service *api.Service
}

// NewApp builds the Fiber application around the shared upload service.
func NewApp(service *api.Service) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "CV Match API",
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		BodyLimit:             int(service.MaxUploadBytes() + multipartSlack),
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: func() string { return uuid.New().String() },
	}))
	app.Use(withRequestContext)
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path} ${respHeader:X-Request-ID}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	h := &handler{service: service}

	app.Get("/", h.index)
	app.Get("/health", h.health)
	app.Post("/api/cv/upload", h.upload)
	app.Get("/api/skills", h.skills)
	app.Get("/api/jobs", h.jobs)

	return app
}

// withRequestContext copies the request id into the user context so slog
// calls further down print it.
func withRequestContext(c *fiber.Ctx) error {
	requestID := c.GetRespHeader(fiber.HeaderXRequestID)
	c.SetUserContext(logger.WithRequestID(c.UserContext(), requestID))
	return c.Next()
}

func (h *handler) index(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	return c.Send(api.IndexHTML)
}

func (h *handler) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy"})
}

func (h *handler) skills(c *fiber.Ctx) error {
	return c.JSON(h.service.Skills())
}

func (h *handler) jobs(c *fiber.Ctx) error {
	return c.JSON(h.service.Jobs())
}

func (h *handler) upload(c *fiber.Ctx) error {
	start := time.Now()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return api.ErrMissingFile
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	result, err := h.service.AnalyzeUpload(c.UserContext(), file, fileHeader.Filename, c.FormValue("catalog"))
	if err != nil {
		return err
	}

	slog.InfoContext(c.UserContext(), "cv analyzed",
		"filename", fileHeader.Filename,
		"bytes", fileHeader.Size,
		"score", result.Profile.Score,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return c.JSON(result)
}

func errorHandler(c *fiber.Ctx, err error) error {
	var apiErr *apierror.ApiError

	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr) && fiberErr.Code >= fiber.StatusInternalServerError:
		apiErr = apierror.ErrInternalServer()
		apiErr.Code = fiberErr.Code
	case fiberErr != nil:
		apiErr = apierror.New(fiberErr.Code, fiberErr.Message)
	default:
		apiErr = api.MapError(err)
	}
	apiErr.WithRequestID(logger.GetRequestID(c.UserContext()))

	if apiErr.Code >= fiber.StatusInternalServerError {
		slog.ErrorContext(c.UserContext(), "request failed", "error", err, "status", apiErr.Code)
	} else {
		slog.WarnContext(c.UserContext(), "request rejected", "error", err, "status", apiErr.Code)
	}

	return c.Status(apiErr.Code).JSON(apiErr)
}
