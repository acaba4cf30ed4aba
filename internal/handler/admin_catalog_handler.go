package handler

import (
	"io"
	"net/http"

	"shop/internal/domain/model"
	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 管理画面: カテゴリ・商品・在庫・画像
type AdminCatalogHandler struct {
	categories *usecase.CategoryUsecase
	products   *usecase.ProductUsecase
	images     *usecase.ProductImageUsecase
	maxBytes   int64
}

func NewAdminCatalogHandler(
	categories *usecase.CategoryUsecase,
	products *usecase.ProductUsecase,
	images *usecase.ProductImageUsecase,
	maxBytes int64,
) *AdminCatalogHandler {
	return &AdminCatalogHandler{
		categories: categories,
		products:   products,
		images:     images,
		maxBytes:   maxBytes,
	}
}

type categoryRequest struct {
	ParentID  int64  `json:"parent_id" validate:"gte=0"`
	Name      string `json:"name" validate:"required,max=50"`
	ImageURL  string `json:"image" validate:"max=500"`
	SortOrder int    `json:"sort_order"`
	IsShow    *bool  `json:"is_show"`
}

func (r categoryRequest) toInput() usecase.CategoryInput {
	isShow := true
	if r.IsShow != nil {
		isShow = *r.IsShow
	}
	return usecase.CategoryInput{
		ParentID:  r.ParentID,
		Name:      r.Name,
		ImageURL:  r.ImageURL,
		SortOrder: r.SortOrder,
		IsShow:    isShow,
	}
}

type productRequest struct {
	CategoryID    int64            `json:"category_id" validate:"required"`
	Name          string           `json:"name" validate:"required,max=200"`
	Subtitle      string           `json:"subtitle" validate:"max=200"`
	Detail        string           `json:"detail"`
	Price         model.Money      `json:"price"`
	OriginalPrice *model.Money     `json:"original_price"`
	Stock         int64            `json:"stock" validate:"gte=0"`
	Status        *int             `json:"status" validate:"omitempty,oneof=0 1"`
	SortOrder     int              `json:"sort_order"`
}

func (r productRequest) toInput() usecase.ProductInput {
	status := model.ProductStatusOnShelf
	if r.Status != nil {
		status = model.ProductStatus(*r.Status)
	}
	return usecase.ProductInput{
		CategoryID:    r.CategoryID,
		Name:          r.Name,
		Subtitle:      r.Subtitle,
		Detail:        r.Detail,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		Stock:         r.Stock,
		Status:        status,
		SortOrder:     r.SortOrder,
	}
}

type updateStockRequest struct {
	Stock  *int64 `json:"stock" validate:"required"`
	Reason string `json:"reason" validate:"max=200"`
}

type setMainImageRequest struct {
	ImageID int64 `json:"image_id" validate:"required"`
}

func (h *AdminCatalogHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/categories", h.listCategories)
	g.POST("/categories", h.createCategory)
	g.GET("/categories/:id", h.getCategory)
	g.PUT("/categories/:id", h.updateCategory)
	g.DELETE("/categories/:id", h.deleteCategory)

	g.GET("/products", h.listProducts)
	g.POST("/products", h.createProduct)
	g.GET("/products/:id", h.getProduct)
	g.PUT("/products/:id", h.updateProduct)
	g.DELETE("/products/:id", h.deleteProduct)
	g.PUT("/products/:id/stock", h.updateStock)

	g.GET("/products/:id/images", h.listImages)
	g.POST("/products/:id/upload_image", h.uploadImage)
	g.PUT("/products/:id/set_main_image", h.setMainImage)
	g.PATCH("/products/:id/set_main_image", h.setMainImage)
	g.DELETE("/products/:id/images/:image_id", h.deleteImage)
}

func (h *AdminCatalogHandler) listCategories(c echo.Context) error {
	list, err := h.categories.AdminList(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, list)
}

func (h *AdminCatalogHandler) getCategory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	cat, err := h.categories.AdminGet(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, cat)
}

func (h *AdminCatalogHandler) createCategory(c echo.Context) error {
	adminID, err := actorAdminID(c)
	if err != nil {
		return writeError(c, err)
	}
	var req categoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	cat, err := h.categories.AdminCreate(c.Request().Context(), adminID, req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return created(c, "category created", cat)
}

func (h *AdminCatalogHandler) updateCategory(c echo.Context) error {
	adminID, err := actorAdminID(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req categoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	cat, err := h.categories.AdminUpdate(c.Request().Context(), adminID, id, req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return okWithMessage(c, "category updated", cat)
}

func (h *AdminCatalogHandler) deleteCategory(c echo.Context) error {
	adminID, err := actorAdminID(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.categories.AdminDelete(c.Request().Context(), adminID, id); err != nil {
		return writeError(c, err)
	}
	return respond(c, http.StatusOK, "category deleted", nil)
}

func (h *AdminCatalogHandler) listProducts(c echo.Context) error {
	in, err := productListInput(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.products.AdminList(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

func (h *AdminCatalogHandler) getProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	p, err := h.products.AdminGet(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, p)
}

func (h *AdminCatalogHandler) createProduct(c echo.Context) error {
	adminID, err := actorAdminID(c)
	if err != nil {
		return writeError(c, err)
	}
	var req productRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	p, err := h.products.AdminCreate(c.Request().Context(), adminID, req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return created(c, "product created", p)
}

// stockは無視される（在庫は /stock で変更）
func (h *AdminCatalogHandler) updateProduct(c echo.Context) error {
	adminID, err := actorAdminID(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req productRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	p, err := h.products.AdminUpdate(c.Request().Context(), adminID, id, req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return okWithMessage(c, "product updated", p)
}

func (h *AdminCatalogHandler) deleteProduct(c echo.Context) error {
	adminID, err := actorAdminID(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.products.AdminDelete(c.Request().Context(), adminID, id); err != nil {
		return writeError(c, err)
	}
	return respond(c, http.StatusOK, "product deleted", nil)
}

func (h *AdminCatalogHandler) updateStock(c echo.Context) error {
	adminID, err := actorAdminID(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req updateStockRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	if err := h.products.AdminUpdateStock(c.Request().Context(), adminID, id, *req.Stock, req.Reason); err != nil {
		return writeError(c, err)
	}
	return respond(c, http.StatusOK, "stock updated", nil)
}

func (h *AdminCatalogHandler) listImages(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.images.ListImages(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, list)
}

// multipartの "file"
func (h *AdminCatalogHandler) uploadImage(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, usecase.NewHTTPError(http.StatusBadRequest, "file is required"))
	}
	src, err := fh.Open()
	if err != nil {
		return writeError(c, usecase.NewHTTPError(http.StatusBadRequest, "file is unreadable"))
	}
	defer src.Close()

	// 上限+1まで読めばサイズ超過は判定できる
	data, err := io.ReadAll(io.LimitReader(src, h.maxBytes+1))
	if err != nil {
		return writeError(c, usecase.NewHTTPError(http.StatusBadRequest, "file is unreadable"))
	}

	img, err := h.images.UploadImage(c.Request().Context(), id, fh.Filename, data)
	if err != nil {
		return writeError(c, err)
	}
	return created(c, "image uploaded successfully", img)
}

func (h *AdminCatalogHandler) setMainImage(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req setMainImageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	p, err := h.images.SetMainImage(c.Request().Context(), id, req.ImageID)
	if err != nil {
		return writeError(c, err)
	}
	return okWithMessage(c, "main image set successfully", p)
}

func (h *AdminCatalogHandler) deleteImage(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	imageID, err := pathID(c, "image_id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.images.DeleteImage(c.Request().Context(), id, imageID); err != nil {
		return writeError(c, err)
	}
	return respond(c, http.StatusOK, "image deleted", nil)
}
