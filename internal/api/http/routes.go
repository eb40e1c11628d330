package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/i474232898/daily-adventure/internal/store"
)

var validate = validator.New()

const (
	defaultListLimit  = 5
	displayDateLayout = "January 2, 2006"
)

// AdventureReader is the read side of the adventure store.
type AdventureReader interface {
	FindByID(ctx context.Context, id int64) (store.Adventure, error)
	FindMany(ctx context.Context, order store.Order, limit int) ([]store.Adventure, error)
}

// Generator runs the adventure pipeline on demand.
type Generator interface {
	Run(ctx context.Context, location string) (store.Adventure, error)
}

// Options configures the adventure routes.
type Options struct {
	DefaultLocation string
	// Timezone decides which stored date counts as today.
	Timezone   *time.Location
	RunTimeout time.Duration
	Now        func() time.Time
	Logger     *zap.Logger
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, adventures AdventureReader, generator Generator, opts Options) {
	if opts.Timezone == nil {
		opts.Timezone = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	log := opts.Logger

	v1 := app.Group("/api/v1")

	v1.Get("/adventures", func(c *fiber.Ctx) error {
		q := listQuery{Limit: c.QueryInt("limit", defaultListLimit)}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "limit must be between 1 and 100")
		}

		list, err := adventures.FindMany(c.UserContext(), store.NewestFirst, q.Limit)
		if err != nil {
			log.Error("listing adventures", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "failed to list adventures")
		}

		today := store.TruncateDate(opts.Now().In(opts.Timezone))
		views := make([]adventureView, len(list))
		for i, a := range list {
			views[i] = newAdventureView(a, today)
		}
		return c.JSON(fiber.Map{"adventures": views})
	})

	v1.Get("/adventures/:id", func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id must be a positive integer")
		}

		a, err := adventures.FindByID(c.UserContext(), int64(id))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "adventure not found")
			}
			log.Error("fetching adventure", zap.Int("id", id), zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch adventure")
		}

		return c.JSON(newAdventureView(a, store.TruncateDate(opts.Now().In(opts.Timezone))))
	})

	v1.Post("/adventures/generate", func(c *fiber.Ctx) error {
		var req generateRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
			}
		}
		if req.Location == "" {
			req.Location = opts.DefaultLocation
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "location is required")
		}

		ctx := c.UserContext()
		if opts.RunTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, opts.RunTimeout)
			defer cancel()
		}

		a, err := generator.Run(ctx, req.Location)
		if err != nil {
			log.Error("on-demand generation failed", zap.String("location", req.Location), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to generate adventure",
				"error":   err.Error(),
			})
		}

		now := opts.Now()
		return c.JSON(fiber.Map{
			"success":   true,
			"message":   "Adventure generated successfully",
			"adventure": newAdventureView(a, store.TruncateDate(now.In(opts.Timezone))),
			"timestamp": now.UTC().Format(time.RFC3339),
		})
	})
}

type listQuery struct {
	Limit int `validate:"min=1,max=100"`
}

type generateRequest struct {
	Location string `json:"location" validate:"required"`
}

// adventureView is an adventure as served to the front-end.
type adventureView struct {
	store.Adventure
	DisplayDate string `json:"displayDate"`
	IsToday     bool   `json:"isToday"`
	IsYesterday bool   `json:"isYesterday"`
}

func newAdventureView(a store.Adventure, today time.Time) adventureView {
	return adventureView{
		Adventure:   a,
		DisplayDate: a.Date.Format(displayDateLayout),
		IsToday:     a.Date.Equal(today),
		IsYesterday: a.Date.Equal(today.AddDate(0, 0, -1)),
	}
}
