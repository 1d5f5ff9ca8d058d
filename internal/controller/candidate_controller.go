package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"smart-hire-be/internal/dto"
	"smart-hire-be/internal/pkg/serverutils"
	"smart-hire-be/internal/service"
)

type ICandidateController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	SemanticSearch(ctx *fiber.Ctx) error
}

type candidateController struct {
	candidateService service.ICandidateService
}

func NewCandidateController(candidateService service.ICandidateService) ICandidateController {
	return &candidateController{
		candidateService: candidateService,
	}
}

func (c *candidateController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/candidate/v1")
	h.Get("semantic-search", c.SemanticSearch)
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
}

func (c *candidateController) List(ctx *fiber.Ctx) error {
	query := ctx.Query("q")
	minExperience := ctx.QueryInt("min_experience", 0)
	limit := ctx.QueryInt("limit", 50)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.candidateService.List(ctx.Context(), query, minExperience, limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list candidates", res))
}

func (c *candidateController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid candidate id")
	}

	res, err := c.candidateService.Show(ctx.Context(), id)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "candidate not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show candidate", res))
}

func (c *candidateController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateCandidateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.candidateService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create candidate", res))
}

func (c *candidateController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid candidate id")
	}

	if err := c.candidateService.Delete(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete candidate", nil))
}

func (c *candidateController) SemanticSearch(ctx *fiber.Ctx) error {
	query := ctx.Query("q")
	if query == "" {
		return fiber.NewError(fiber.StatusBadRequest, "query parameter 'q' is required")
	}
	limit := ctx.QueryInt("limit", 10)

	res, err := c.candidateService.SemanticSearch(ctx.Context(), query, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success semantic search", res))
}
