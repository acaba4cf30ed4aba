package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"shop/internal/domain/model"
	"shop/internal/logger"
	repo "shop/internal/repository"

	"go.uber.org/zap"
)

type CategoryUsecase struct {
	categories repo.CategoryRepository
	products   repo.ProductRepository
	auditRepo  repo.AuditLogRepository
	cache      repo.CategoryTreeCache
	clock      Clock
}

func NewCategoryUsecase(
	categories repo.CategoryRepository,
	products repo.ProductRepository,
	auditRepo repo.AuditLogRepository,
	cache repo.CategoryTreeCache,
	clock Clock,
) *CategoryUsecase {
	return &CategoryUsecase{
		categories: categories,
		products:   products,
		auditRepo:  auditRepo,
		cache:      cache,
		clock:      clock,
	}
}

type CategoryInput struct {
	ParentID  int64
	Name      string
	ImageURL  string
	SortOrder int
	IsShow    bool
}

var errCategoryNotFound = NewHTTPError(http.StatusNotFound, "category not found")

// 表示中のカテゴリ（sort_order順）
func (u *CategoryUsecase) List(ctx context.Context) ([]model.Category, error) {
	list, err := u.categories.ListVisible(ctx)
	if err != nil {
		return nil, internalError(ctx, "list categories", err)
	}
	return list, nil
}

// トップ＋子の2階層。キャッシュがあればそれを返す
func (u *CategoryUsecase) Tree(ctx context.Context) ([]model.CategoryNode, error) {
	log := logger.FromContext(ctx)

	if tree, ok, err := u.cache.Get(ctx); err != nil {
		log.Warn("category cache get failed", zap.Error(err))
	} else if ok {
		return tree, nil
	}

	list, err := u.categories.ListVisible(ctx)
	if err != nil {
		return nil, internalError(ctx, "list categories", err)
	}
	tree := BuildCategoryTree(list)

	if err := u.cache.Set(ctx, tree); err != nil {
		log.Warn("category cache set failed", zap.Error(err))
	}
	return tree, nil
}

// 並び順はlistの順を保つ。親が無い子は捨てる
func BuildCategoryTree(list []model.Category) []model.CategoryNode {
	children := make(map[int64][]model.CategoryNode)
	for _, c := range list {
		if !c.IsTopLevel() {
			children[c.ParentID] = append(children[c.ParentID], model.CategoryNode{Category: c, Children: []model.CategoryNode{}})
		}
	}

	tree := make([]model.CategoryNode, 0)
	for _, c := range list {
		if !c.IsTopLevel() {
			continue
		}
		node := model.CategoryNode{Category: c, Children: children[c.ID]}
		if node.Children == nil {
			node.Children = []model.CategoryNode{}
		}
		tree = append(tree, node)
	}
	return tree
}

// 非表示は存在しない扱い
func (u *CategoryUsecase) Get(ctx context.Context, id int64) (model.Category, error) {
	c, err := u.categories.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, errCategoryNotFound
	}
	if err != nil {
		return model.Category{}, internalError(ctx, "find category", err)
	}
	if !c.IsShow {
		return model.Category{}, errCategoryNotFound
	}
	return c, nil
}

// 管理画面用（非表示も含む）
func (u *CategoryUsecase) AdminList(ctx context.Context) ([]model.Category, error) {
	list, err := u.categories.ListAll(ctx)
	if err != nil {
		return nil, internalError(ctx, "list categories", err)
	}
	return list, nil
}

func (u *CategoryUsecase) AdminGet(ctx context.Context, id int64) (model.Category, error) {
	c, err := u.categories.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, errCategoryNotFound
	}
	if err != nil {
		return model.Category{}, internalError(ctx, "find category", err)
	}
	return c, nil
}

func (u *CategoryUsecase) AdminCreate(ctx context.Context, adminID int64, in CategoryInput) (model.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := u.validate(ctx, 0, in); err != nil {
		return model.Category{}, err
	}

	created, err := u.categories.Create(ctx, model.Category{
		ParentID:  in.ParentID,
		Name:      in.Name,
		ImageURL:  strings.TrimSpace(in.ImageURL),
		SortOrder: in.SortOrder,
		IsShow:    in.IsShow,
	})
	if err != nil {
		return model.Category{}, internalError(ctx, "create category", err)
	}

	u.audit(ctx, adminID, model.AuditActionCreateCategory, created.ID, nil, created)
	u.invalidate(ctx)
	return created, nil
}

func (u *CategoryUsecase) AdminUpdate(ctx context.Context, adminID int64, id int64, in CategoryInput) (model.Category, error) {
	before, err := u.categories.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, errCategoryNotFound
	}
	if err != nil {
		return model.Category{}, internalError(ctx, "find category", err)
	}

	in.Name = strings.TrimSpace(in.Name)
	if err := u.validate(ctx, id, in); err != nil {
		return model.Category{}, err
	}

	after := before
	after.ParentID = in.ParentID
	after.Name = in.Name
	after.ImageURL = strings.TrimSpace(in.ImageURL)
	after.SortOrder = in.SortOrder
	after.IsShow = in.IsShow

	err = u.categories.Update(ctx, after)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, errCategoryNotFound
	}
	if err != nil {
		return model.Category{}, internalError(ctx, "update category", err)
	}

	u.audit(ctx, adminID, model.AuditActionUpdateCategory, id, before, after)
	u.invalidate(ctx)
	return after, nil
}

// 子カテゴリや商品が残っていれば消せない
func (u *CategoryUsecase) AdminDelete(ctx context.Context, adminID int64, id int64) error {
	before, err := u.categories.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return errCategoryNotFound
	}
	if err != nil {
		return internalError(ctx, "find category", err)
	}

	n, err := u.categories.CountChildren(ctx, id)
	if err != nil {
		return internalError(ctx, "count child categories", err)
	}
	if n > 0 {
		return NewHTTPError(http.StatusBadRequest, "category has child categories")
	}
	n, err = u.products.CountByCategoryID(ctx, id)
	if err != nil {
		return internalError(ctx, "count products", err)
	}
	if n > 0 {
		return NewHTTPError(http.StatusBadRequest, "category has products")
	}

	err = u.categories.Delete(ctx, id)
	if errors.Is(err, repo.ErrReferenced) {
		return NewHTTPError(http.StatusBadRequest, "category has products")
	}
	if errors.Is(err, repo.ErrNotFound) {
		return errCategoryNotFound
	}
	if err != nil {
		return internalError(ctx, "delete category", err)
	}

	u.audit(ctx, adminID, model.AuditActionDeleteCategory, id, before, nil)
	u.invalidate(ctx)
	return nil
}

// 最大2階層。親はトップレベルのみ
func (u *CategoryUsecase) validate(ctx context.Context, selfID int64, in CategoryInput) error {
	if in.Name == "" || utf8.RuneCountInString(in.Name) > 50 {
		return NewHTTPError(http.StatusBadRequest, "name must be 1-50 characters")
	}
	if in.ParentID < 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid parent_id")
	}
	if in.ParentID == 0 {
		return nil
	}
	if selfID != 0 && in.ParentID == selfID {
		return NewHTTPError(http.StatusBadRequest, "category cannot be its own parent")
	}

	parent, err := u.categories.FindByID(ctx, in.ParentID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusBadRequest, "parent category does not exist")
	}
	if err != nil {
		return internalError(ctx, "find parent category", err)
	}
	if !parent.IsTopLevel() {
		return NewHTTPError(http.StatusBadRequest, "parent must be a top-level category")
	}
	if selfID != 0 {
		n, err := u.categories.CountChildren(ctx, selfID)
		if err != nil {
			return internalError(ctx, "count child categories", err)
		}
		if n > 0 {
			return NewHTTPError(http.StatusBadRequest, "category with children cannot have a parent")
		}
	}
	return nil
}

// 監査ログの失敗は操作自体を失敗にしない
func (u *CategoryUsecase) audit(ctx context.Context, adminID int64, action model.AuditAction, id int64, before, after interface{}) {
	entry := model.AuditLog{
		ActorAdminID: adminID,
		Action:       action,
		ResourceType: model.AuditResourceCategory,
		ResourceID:   id,
		CreatedAt:    u.clock.Now(),
	}
	if before != nil {
		entry.BeforeJSON = toAuditJSON(before)
	}
	if after != nil {
		entry.AfterJSON = toAuditJSON(after)
	}
	if err := u.auditRepo.Create(ctx, entry); err != nil {
		logger.FromContext(ctx).Error("create audit log", zap.Error(err))
	}
}

func (u *CategoryUsecase) invalidate(ctx context.Context) {
	if err := u.cache.Invalidate(ctx); err != nil {
		logger.FromContext(ctx).Warn("category cache invalidate failed", zap.Error(err))
	}
}
