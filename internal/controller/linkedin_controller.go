package controller

import (
	"github.com/gofiber/fiber/v2"

	"smart-hire-be/internal/pkg/serverutils"
	"smart-hire-be/pkg/linkedin"
)

type ILinkedInController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Callback(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
}

type linkedInController struct {
	client *linkedin.Client
}

func NewLinkedInController(client *linkedin.Client) ILinkedInController {
	return &linkedInController{
		client: client,
	}
}

func (c *linkedInController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/linkedin/v1")
	h.Get("login", c.Login)
	h.Get("callback", c.Callback)
	h.Get("status", c.Status)
}

// Login redirects the browser into the LinkedIn consent flow.
func (c *linkedInController) Login(ctx *fiber.Ctx) error {
	url, err := c.client.AuthURL()
	if err != nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	}
	return ctx.Redirect(url, fiber.StatusTemporaryRedirect)
}

// Callback receives the OAuth code and stores the token for the publisher.
func (c *linkedInController) Callback(ctx *fiber.Ctx) error {
	code := ctx.Query("code")
	if code == "" {
		errMsg := ctx.Query("error_description", "missing authorization code")
		return fiber.NewError(fiber.StatusBadRequest, errMsg)
	}

	if err := c.client.Exchange(ctx.Context(), code); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("LinkedIn account connected", nil))
}

func (c *linkedInController) Status(ctx *fiber.Ctx) error {
	res := fiber.Map{
		"configured":    c.client.IsConfigured(),
		"authenticated": c.client.IsAuthenticated(),
	}
	return ctx.JSON(serverutils.SuccessResponse("LinkedIn status", res))
}
