package handler

import (
	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /categories と /products の公開API
type CatalogHandler struct {
	categories *usecase.CategoryUsecase
	products   *usecase.ProductUsecase
}

func NewCatalogHandler(categories *usecase.CategoryUsecase, products *usecase.ProductUsecase) *CatalogHandler {
	return &CatalogHandler{categories: categories, products: products}
}

func (h *CatalogHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/categories", h.listCategories)
	g.GET("/categories/tree", h.categoryTree)
	g.GET("/categories/:id", h.getCategory)

	g.GET("/products", h.listProducts)
	g.GET("/products/search", h.searchProducts)
	g.GET("/products/:id", h.getProduct)
}

func (h *CatalogHandler) listCategories(c echo.Context) error {
	list, err := h.categories.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, list)
}

func (h *CatalogHandler) categoryTree(c echo.Context) error {
	tree, err := h.categories.Tree(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, tree)
}

func (h *CatalogHandler) getCategory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	cat, err := h.categories.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, cat)
}

// ?page=&page_size=&category_id=&search=&price_order=
func (h *CatalogHandler) listProducts(c echo.Context) error {
	in, err := productListInput(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.products.List(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

func (h *CatalogHandler) searchProducts(c echo.Context) error {
	items, err := h.products.Search(c.Request().Context(), c.QueryParam("keyword"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, items)
}

func (h *CatalogHandler) getProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	p, err := h.products.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, p)
}

// 公開・管理画面共通のクエリ
func productListInput(c echo.Context) (usecase.ListProductsInput, error) {
	page, err := queryInt(c, "page")
	if err != nil {
		return usecase.ListProductsInput{}, err
	}
	pageSize, err := queryInt(c, "page_size")
	if err != nil {
		return usecase.ListProductsInput{}, err
	}
	categoryID, err := queryInt64Ptr(c, "category_id")
	if err != nil {
		return usecase.ListProductsInput{}, err
	}
	return usecase.ListProductsInput{
		Page:       page,
		PageSize:   pageSize,
		CategoryID: categoryID,
		Search:     c.QueryParam("search"),
		PriceOrder: c.QueryParam("price_order"),
	}, nil
}
