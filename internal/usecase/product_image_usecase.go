package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"shop/internal/domain/model"
	"shop/internal/logger"
	"shop/internal/metrics"
	repo "shop/internal/repository"
	"shop/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var allowedImageExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// 商品画像の取り込み。保存はImageStoreに任せ、ここではURLだけ扱う
type ProductImageUsecase struct {
	products repo.ProductRepository
	images   repo.ProductImageRepository
	store    storage.ImageStore
	maxBytes int64
	metrics  *metrics.ShopMetrics
	clock    Clock
}

func NewProductImageUsecase(
	products repo.ProductRepository,
	images repo.ProductImageRepository,
	store storage.ImageStore,
	maxBytes int64,
	m *metrics.ShopMetrics,
	clock Clock,
) *ProductImageUsecase {
	return &ProductImageUsecase{
		products: products,
		images:   images,
		store:    store,
		maxBytes: maxBytes,
		metrics:  m,
		clock:    clock,
	}
}

var errImageNotFound = NewHTTPError(http.StatusNotFound, "image not found")

func (u *ProductImageUsecase) ListImages(ctx context.Context, productID int64) ([]model.ProductImage, error) {
	if _, err := u.findProduct(ctx, productID); err != nil {
		return nil, err
	}
	list, err := u.images.ListByProductID(ctx, productID)
	if err != nil {
		return nil, internalError(ctx, "list product images", err)
	}
	return list, nil
}

// 画像を保存して商品画像に追加する。メイン画像が未設定なら最初の画像をメインにする
func (u *ProductImageUsecase) UploadImage(ctx context.Context, productID int64, filename string, data []byte) (model.ProductImage, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedImageExts[ext]; !ok {
		u.metrics.ImageUploaded(false)
		return model.ProductImage{}, NewHTTPError(http.StatusBadRequest, "unsupported image type, allowed: jpg, jpeg, png, gif, webp")
	}
	if len(data) == 0 {
		u.metrics.ImageUploaded(false)
		return model.ProductImage{}, NewHTTPError(http.StatusBadRequest, "image is empty")
	}
	if int64(len(data)) > u.maxBytes {
		u.metrics.ImageUploaded(false)
		return model.ProductImage{}, NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("image must be at most %d MB", u.maxBytes/(1024*1024)))
	}

	p, err := u.findProduct(ctx, productID)
	if err != nil {
		return model.ProductImage{}, err
	}

	count, err := u.images.CountByProductID(ctx, productID)
	if err != nil {
		return model.ProductImage{}, internalError(ctx, "count product images", err)
	}

	key := fmt.Sprintf("products/%d/%s_%s%s",
		productID, u.clock.Now().Format("20060102150405"), uuid.NewString()[:8], ext)
	url, err := u.store.Save(ctx, key, data)
	if err != nil {
		return model.ProductImage{}, internalError(ctx, "save image", err)
	}

	img, err := u.images.Create(ctx, model.ProductImage{
		ProductID: productID,
		ImageURL:  url,
		SortOrder: int(count),
	})
	if err != nil {
		// 行が作れなければファイルも残さない
		if derr := u.store.Delete(ctx, url); derr != nil {
			logger.FromContext(ctx).Warn("cleanup image file failed", zap.String("url", url), zap.Error(derr))
		}
		return model.ProductImage{}, internalError(ctx, "create product image", err)
	}

	if p.MainImageURL == "" {
		if err := u.products.UpdateMainImage(ctx, productID, url); err != nil {
			return model.ProductImage{}, internalError(ctx, "update main image", err)
		}
	}

	u.metrics.ImageUploaded(true)
	return img, nil
}

// 商品に属する画像だけメインにできる
func (u *ProductImageUsecase) SetMainImage(ctx context.Context, productID int64, imageID int64) (model.Product, error) {
	p, err := u.findProduct(ctx, productID)
	if err != nil {
		return model.Product{}, err
	}
	img, err := u.findImage(ctx, productID, imageID)
	if err != nil {
		return model.Product{}, err
	}

	if err := u.products.UpdateMainImage(ctx, productID, img.ImageURL); err != nil {
		return model.Product{}, internalError(ctx, "update main image", err)
	}
	p.MainImageURL = img.ImageURL
	return p, nil
}

// 行とファイルを消す。メイン画像だった場合は外す
func (u *ProductImageUsecase) DeleteImage(ctx context.Context, productID int64, imageID int64) error {
	p, err := u.findProduct(ctx, productID)
	if err != nil {
		return err
	}
	img, err := u.findImage(ctx, productID, imageID)
	if err != nil {
		return err
	}

	err = u.images.Delete(ctx, imageID)
	if errors.Is(err, repo.ErrNotFound) {
		return errImageNotFound
	}
	if err != nil {
		return internalError(ctx, "delete product image", err)
	}

	if p.MainImageURL == img.ImageURL {
		if err := u.products.UpdateMainImage(ctx, productID, ""); err != nil {
			return internalError(ctx, "clear main image", err)
		}
	}
	if err := u.store.Delete(ctx, img.ImageURL); err != nil {
		logger.FromContext(ctx).Warn("delete image file failed", zap.String("url", img.ImageURL), zap.Error(err))
	}
	return nil
}

func (u *ProductImageUsecase) findProduct(ctx context.Context, productID int64) (model.Product, error) {
	p, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, errProductNotFound
	}
	if err != nil {
		return model.Product{}, internalError(ctx, "find product", err)
	}
	return p, nil
}

func (u *ProductImageUsecase) findImage(ctx context.Context, productID int64, imageID int64) (model.ProductImage, error) {
	img, err := u.images.FindByID(ctx, imageID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.ProductImage{}, errImageNotFound
	}
	if err != nil {
		return model.ProductImage{}, internalError(ctx, "find product image", err)
	}
	if img.ProductID != productID {
		return model.ProductImage{}, errImageNotFound
	}
	return img, nil
}
