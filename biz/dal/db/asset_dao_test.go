package db

import (
	"context"
	"errors"
	"testing"

	"github.com/oakline/media_bridge/biz/dal/model"
	"gorm.io/gorm"
)

func seedAsset(t *testing.T, gdb *gorm.DB, dao *AssetDAO, fileID, category, name, url string) *model.Asset {
	t.Helper()
	asset := &model.Asset{
		FileID:      fileID,
		Category:    category,
		FileName:    name,
		ContentType: "image/jpeg",
		FileSize:    1024,
		Path:        category + "/" + name,
		URL:         url,
	}
	if err := dao.Create(context.Background(), gdb, asset); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return asset
}

func TestAssetDAOCreateAndGet(t *testing.T) {
	gdb := SetupTestDB(t)
	defer CleanupTestDB(t, gdb)
	dao := NewAssetDAO()
	ctx := context.Background()

	seedAsset(t, gdb, dao, "f1", "colors", "a.jpg", "uploads/colors/a.jpg")

	got, err := dao.GetByFileID(ctx, gdb, "f1")
	if err != nil {
		t.Fatalf("GetByFileID: %v", err)
	}
	if got.Category != "colors" || got.FileName != "a.jpg" {
		t.Errorf("unexpected record: %+v", got)
	}

	if got, err = dao.GetByURL(ctx, gdb, "uploads/colors/a.jpg"); err != nil || got.FileID != "f1" {
		t.Errorf("GetByURL: %+v, %v", got, err)
	}
	if got, err = dao.GetByPath(ctx, gdb, "colors/a.jpg"); err != nil || got.FileID != "f1" {
		t.Errorf("GetByPath: %+v, %v", got, err)
	}

	if _, err := dao.GetByFileID(ctx, gdb, "missing"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestAssetDAOCreateAssignsFileID(t *testing.T) {
	gdb := SetupTestDB(t)
	defer CleanupTestDB(t, gdb)
	dao := NewAssetDAO()

	asset := &model.Asset{Category: "logos", FileName: "m.png", Path: "logos/m.png", URL: "uploads/logos/m.png"}
	if err := dao.Create(context.Background(), gdb, asset); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if asset.FileID == "" {
		t.Errorf("expected generated file id")
	}
}

func TestAssetDAOUpdate(t *testing.T) {
	gdb := SetupTestDB(t)
	defer CleanupTestDB(t, gdb)
	dao := NewAssetDAO()
	ctx := context.Background()

	asset := seedAsset(t, gdb, dao, "f1", "colors", "a.jpg", "uploads/colors/a.jpg")
	asset.URL = "uploads/colors/renamed.jpg"
	if err := dao.Update(ctx, gdb, asset); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := dao.GetByFileID(ctx, gdb, "f1")
	if err != nil {
		t.Fatalf("GetByFileID: %v", err)
	}
	if got.URL != "uploads/colors/renamed.jpg" {
		t.Errorf("url = %q", got.URL)
	}

	missing := &model.Asset{FileID: "nope", URL: "x"}
	if err := dao.Update(ctx, gdb, missing); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound for missing update, got %v", err)
	}
}

func TestAssetDAODelete(t *testing.T) {
	gdb := SetupTestDB(t)
	defer CleanupTestDB(t, gdb)
	dao := NewAssetDAO()
	ctx := context.Background()

	seedAsset(t, gdb, dao, "f1", "colors", "a.jpg", "uploads/colors/a.jpg")
	if err := dao.DeleteByFileID(ctx, gdb, "f1"); err != nil {
		t.Fatalf("DeleteByFileID: %v", err)
	}
	if _, err := dao.GetByFileID(ctx, gdb, "f1"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("record should be gone, got %v", err)
	}

	// Deleting an absent record is not an error.
	if err := dao.DeleteByFileID(ctx, gdb, "f1"); err != nil {
		t.Errorf("repeat delete: %v", err)
	}
}

func TestAssetDAOListByCategory(t *testing.T) {
	gdb := SetupTestDB(t)
	defer CleanupTestDB(t, gdb)
	dao := NewAssetDAO()
	ctx := context.Background()

	seedAsset(t, gdb, dao, "f1", "colors", "a.jpg", "uploads/colors/a.jpg")
	seedAsset(t, gdb, dao, "f2", "colors", "b.jpg", "uploads/colors/b.jpg")
	seedAsset(t, gdb, dao, "f3", "laminates", "c.jpg", "uploads/laminates/c.jpg")

	assets, err := dao.ListByCategory(ctx, gdb, "colors")
	if err != nil {
		t.Fatalf("ListByCategory: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("expected 2 assets, got %d", len(assets))
	}
	for _, a := range assets {
		if a.Category != "colors" {
			t.Errorf("wrong category in result: %q", a.Category)
		}
	}

	if assets, err = dao.ListByCategory(ctx, gdb, "empty"); err != nil || len(assets) != 0 {
		t.Errorf("empty category: %d assets, %v", len(assets), err)
	}
}

func TestAssetDAOListLegacy(t *testing.T) {
	gdb := SetupTestDB(t)
	defer CleanupTestDB(t, gdb)
	dao := NewAssetDAO()
	ctx := context.Background()

	seedAsset(t, gdb, dao, "f1", "products", "old.jpg", "http://old.example/wp-content/uploads/old.jpg")
	seedAsset(t, gdb, dao, "f2", "products", "new.jpg", "uploads/products/new.jpg")

	assets, err := dao.ListLegacy(ctx, gdb, "wp-content/uploads")
	if err != nil {
		t.Fatalf("ListLegacy: %v", err)
	}
	if len(assets) != 1 || assets[0].FileID != "f1" {
		t.Fatalf("unexpected legacy set: %+v", assets)
	}
}
