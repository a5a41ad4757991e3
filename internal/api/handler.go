// Package api exposes the settlement optimizer over HTTP.
package api

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/shopspring/decimal"
	"github.com/tirasundara/settlement-optimizer/internal/domain"
	"github.com/tirasundara/settlement-optimizer/internal/fixedpoint"
	"github.com/tirasundara/settlement-optimizer/internal/optimizer"
	"github.com/tirasundara/settlement-optimizer/internal/repository"
	"github.com/tirasundara/settlement-optimizer/internal/service"
	"go.uber.org/zap"
)

// SettlementRequest is the JSON body of POST /v1/settlements.
// Amounts may be JSON numbers or strings.
type SettlementRequest struct {
	Pay           []decimal.Decimal `json:"pay"`
	Get           []decimal.Decimal `json:"get"`
	DecimalPlaces *int32            `json:"decimal_places,omitempty"`
}

// Handler serves settlement requests
type Handler struct {
	optimizer     domain.TransactionOptimizer
	decimalPlaces int32
	logger        *zap.Logger
}

// NewHandler creates a Handler. decimalPlaces applies when a request omits it.
func NewHandler(opt domain.TransactionOptimizer, decimalPlaces int32, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		optimizer:     opt,
		decimalPlaces: decimalPlaces,
		logger:        logger,
	}
}

// RegisterRoutes mounts the handler on app
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/health", h.Health)

	v1 := app.Group("/v1")
	v1.Post("/settlements", h.CreateSettlement)
	v1.Post("/settlements/csv", h.CreateSettlementFromCSV)
}

// NewApp builds a fiber app with panic recovery, request ids and the handler's routes
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "settle-api",
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	h.RegisterRoutes(app)
	return app
}

// Health reports that the server is up
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}

// CreateSettlement settles the pay and get lists of a JSON body
func (h *Handler) CreateSettlement(c *fiber.Ctx) error {
	var input SettlementRequest
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	places := h.decimalPlaces
	if input.DecimalPlaces != nil {
		places = *input.DecimalPlaces
	}

	repo := repository.NewStaticBalanceRepository("http", input.Pay, input.Get)
	return h.settle(c, repo, places)
}

// CreateSettlementFromCSV accepts a participant,amount,role CSV body.
// The decimal_places query parameter overrides the default precision.
func (h *Handler) CreateSettlementFromCSV(c *fiber.Ctx) error {
	places := h.decimalPlaces
	if c.Query("decimal_places") != "" {
		p, err := fixedpoint.PlacesFromInt(c.QueryInt("decimal_places", -1))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("decimal_places must be an integer in 0..%d", fixedpoint.MaxPlaces),
			})
		}
		places = p
	}

	body := bytes.Clone(c.Body())
	repo := repository.NewCSVBalanceRepositoryFrom("http-csv", bytes.NewReader(body), h.logger)
	return h.settle(c, repo, places)
}

func (h *Handler) settle(c *fiber.Ctx, repo domain.BalanceRepository, places int32) error {
	svc := service.NewSettlementService(repo, h.optimizer, places, h.logger)

	result, err := svc.Settle()
	if err != nil {
		return h.writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *Handler) writeError(c *fiber.Ctx, err error) error {
	var solveErr *optimizer.SolveError

	switch {
	case errors.Is(err, optimizer.ErrInvalidInput), errors.Is(err, service.ErrLoadBalances):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.As(err, &solveErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  err.Error(),
			"status": solveErr.Status.String(),
		})
	default:
		h.logger.Error("settlement request failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute settlement",
		})
	}
}
