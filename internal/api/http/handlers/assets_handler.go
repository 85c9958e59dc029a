package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ops-kit/netops-service/internal/api/dto"
	"github.com/ops-kit/netops-service/internal/domain"
	"github.com/ops-kit/netops-service/internal/service"
	"github.com/ops-kit/netops-service/pkg/util/errorutil"
)

// AssetsHandler manages asset and category endpoints.
type AssetsHandler struct {
	service *service.AssetService
}

// NewAssetsHandler constructs handler.
func NewAssetsHandler(assetService *service.AssetService) *AssetsHandler {
	return &AssetsHandler{service: assetService}
}

// Create POST /assets.
func (h *AssetsHandler) Create(c *fiber.Ctx) error {
	req, err := parseAssetRequest(c)
	if err != nil {
		return err
	}
	asset, err := h.service.CreateAsset(c.UserContext(), req)
	if err != nil {
		return err
	}
	return created(c, dto.NewAssetResponse(asset))
}

// Update PATCH /assets/:id.
func (h *AssetsHandler) Update(c *fiber.Ctx) error {
	req, err := parseAssetUpdateRequest(c)
	if err != nil {
		return err
	}
	asset, err := h.service.UpdateAsset(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return ok(c, dto.NewAssetResponse(asset))
}

// Delete DELETE /assets/:id.
func (h *AssetsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteAsset(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return ok(c, fiber.Map{"deleted": true})
}

// Get GET /assets/:id.
func (h *AssetsHandler) Get(c *fiber.Ctx) error {
	asset, err := h.service.GetAsset(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, dto.NewAssetResponse(asset))
}

// List GET /assets.
func (h *AssetsHandler) List(c *fiber.Ctx) error {
	filter := service.AssetListFilter{
		CategoryID: optionalQuery(c, "category_id"),
		Subtree:    parseBool(c.Query("subtree")),
		SearchTerm: optionalQuery(c, "keyword"),
		Location:   optionalQuery(c, "location"),
	}
	for _, part := range splitCSV(c.Query("status")) {
		filter.Statuses = append(filter.Statuses, domain.AssetStatus(strings.ToUpper(part)))
	}
	page, pageSize, limit, offset := pagination(c)
	filter.Limit = limit
	filter.Offset = offset

	assets, total, err := h.service.ListAssets(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.AssetResponse, 0, len(assets))
	for i := range assets {
		items = append(items, dto.NewAssetResponse(&assets[i]))
	}
	return ok(c, dto.Page[dto.AssetResponse]{Items: items, Total: total, Page: page, PageSize: pageSize})
}

// CreateCategory POST /assets/categories.
func (h *AssetsHandler) CreateCategory(c *fiber.Ctx) error {
	req, err := parseCategoryRequest(c)
	if err != nil {
		return err
	}
	category, err := h.service.CreateCategory(c.UserContext(), req)
	if err != nil {
		return err
	}
	return created(c, dto.NewCategoryResponse(category))
}

// UpdateCategory PATCH /assets/categories/:id.
func (h *AssetsHandler) UpdateCategory(c *fiber.Ctx) error {
	req, err := parseCategoryUpdateRequest(c)
	if err != nil {
		return err
	}
	category, err := h.service.UpdateCategory(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return ok(c, dto.NewCategoryResponse(category))
}

// DeleteCategory DELETE /assets/categories/:id.
func (h *AssetsHandler) DeleteCategory(c *fiber.Ctx) error {
	if err := h.service.DeleteCategory(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return ok(c, fiber.Map{"deleted": true})
}

// Tree GET /assets/categories/tree.
func (h *AssetsHandler) Tree(c *fiber.Ctx) error {
	nodes, err := h.service.CategoryTree(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, dto.NewCategoryTree(nodes))
}

func parseAssetRequest(c *fiber.Ctx) (service.AssetInput, error) {
	var req dto.AssetRequest
	if err := c.BodyParser(&req); err != nil {
		return service.AssetInput{}, errorutil.NewValidationError("invalid payload", nil)
	}
	return service.AssetInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Status:      req.Status,
		CPUUsage:    req.CPUUsage,
		MemoryUsage: req.MemoryUsage,
		DiskUsage:   req.DiskUsage,
		NetworkMbps: req.NetworkMbps,
		Location:    req.Location,
	}, nil
}

func parseAssetUpdateRequest(c *fiber.Ctx) (service.AssetUpdateInput, error) {
	var req dto.UpdateAssetRequest
	if err := c.BodyParser(&req); err != nil {
		return service.AssetUpdateInput{}, errorutil.NewValidationError("invalid payload", nil)
	}
	return service.AssetUpdateInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Status:      req.Status,
		CPUUsage:    req.CPUUsage,
		MemoryUsage: req.MemoryUsage,
		DiskUsage:   req.DiskUsage,
		NetworkMbps: req.NetworkMbps,
		Location:    req.Location,
	}, nil
}

func parseCategoryRequest(c *fiber.Ctx) (service.CategoryInput, error) {
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return service.CategoryInput{}, errorutil.NewValidationError("invalid payload", nil)
	}
	return service.CategoryInput{
		ParentID:  req.ParentID,
		Name:      req.Name,
		Code:      req.Code,
		SortOrder: req.SortOrder,
	}, nil
}

func parseCategoryUpdateRequest(c *fiber.Ctx) (service.CategoryUpdateInput, error) {
	var req dto.UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return service.CategoryUpdateInput{}, errorutil.NewValidationError("invalid payload", nil)
	}
	return service.CategoryUpdateInput{
		ParentID:  req.ParentID,
		Name:      req.Name,
		Code:      req.Code,
		SortOrder: req.SortOrder,
	}, nil
}
