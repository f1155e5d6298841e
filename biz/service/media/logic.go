package media

import (
	"context"
	"errors"

	"github.com/oakline/media_bridge/biz/dal/db"
	"github.com/oakline/media_bridge/biz/dal/model"

	"gorm.io/gorm"
)

// ErrAssetNotFound is returned when no asset record matches the lookup.
var ErrAssetNotFound = errors.New("asset not found")

// Logic wraps asset persistence for the service layer.
type Logic struct {
	db       *gorm.DB
	assetDAO *db.AssetDAO
}

func NewLogic(gdb *gorm.DB) *Logic {
	return &Logic{db: gdb, assetDAO: db.NewAssetDAO()}
}

func (l *Logic) CreateAsset(ctx context.Context, asset *model.Asset) error {
	return l.assetDAO.Create(ctx, l.db, asset)
}

func (l *Logic) GetAsset(ctx context.Context, fileID string) (*model.Asset, error) {
	asset, err := l.assetDAO.GetByFileID(ctx, l.db, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, err
	}
	return asset, nil
}

func (l *Logic) GetAssetByURL(ctx context.Context, url string) (*model.Asset, error) {
	asset, err := l.assetDAO.GetByURL(ctx, l.db, url)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, err
	}
	return asset, nil
}

func (l *Logic) GetAssetByPath(ctx context.Context, path string) (*model.Asset, error) {
	asset, err := l.assetDAO.GetByPath(ctx, l.db, path)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, err
	}
	return asset, nil
}

func (l *Logic) DeleteAsset(ctx context.Context, fileID string) error {
	return l.assetDAO.DeleteByFileID(ctx, l.db, fileID)
}

func (l *Logic) UpdateAsset(ctx context.Context, asset *model.Asset) error {
	return l.assetDAO.Update(ctx, l.db, asset)
}

func (l *Logic) ListAssetsByCategory(ctx context.Context, category string) ([]model.Asset, error) {
	return l.assetDAO.ListByCategory(ctx, l.db, category)
}

func (l *Logic) ListLegacyAssets(ctx context.Context, marker string) ([]model.Asset, error) {
	return l.assetDAO.ListLegacy(ctx, l.db, marker)
}
