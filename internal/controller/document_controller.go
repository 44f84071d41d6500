package controller

import (
	"io"

	"campus-assistant-be/internal/dto"
	"campus-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	UploadPDF(ctx *fiber.Ctx) error
	ListCategories(ctx *fiber.Ctx) error
}

type documentController struct {
	documentService service.IDocumentService
}

func NewDocumentController(documentService service.IDocumentService) IDocumentController {
	return &documentController{documentService: documentService}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/document/v1")
	h.Post("upload-pdf", c.UploadPDF)
	h.Get("categories", c.ListCategories)
}

func (c *documentController) UploadPDF(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "missing 'file' form field")
	}

	category := ctx.FormValue("category")
	if category == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing 'category' form field")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "unreadable upload")
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "unreadable upload")
	}

	req := dto.UploadDocumentRequest{
		FileName: fileHeader.Filename,
		Category: category,
		Content:  content,
	}

	res, err := c.documentService.UploadPDF(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *documentController) ListCategories(ctx *fiber.Ctx) error {
	res, err := c.documentService.ListCategories(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
