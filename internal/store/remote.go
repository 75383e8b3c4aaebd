package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fintrack-backend/internal/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotDocument is the remote document: one row per user, one JSON column
// per top-level snapshot array. Merge-writes replace whole columns, never
// diff inside them.
type SnapshotDocument struct {
	UserID       string         `gorm:"column:user_id;primaryKey"`
	Accounts     datatypes.JSON `gorm:"column:accounts"`
	Transactions datatypes.JSON `gorm:"column:transactions"`
	Investments  datatypes.JSON `gorm:"column:investments"`
	UpdatedAt    time.Time
}

func (SnapshotDocument) TableName() string {
	return "snapshots"
}

// RemoteStore is the authoritative document store collaborator. Load returns
// ErrNotFound when no document exists for the user.
type RemoteStore interface {
	Load(ctx context.Context, userID string) (*domain.Snapshot, error)
	Save(ctx context.Context, userID string, snap *domain.Snapshot) error
}

// GormRemote implements RemoteStore on a GORM handle (Postgres in production,
// in-memory SQLite in tests).
type GormRemote struct {
	DB *gorm.DB
}

func (g *GormRemote) Load(ctx context.Context, userID string) (*domain.Snapshot, error) {
	var doc SnapshotDocument
	err := g.DB.WithContext(ctx).Where("user_id = ?", userID).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	snap := &domain.Snapshot{}
	for _, col := range []struct {
		raw  datatypes.JSON
		dest interface{}
	}{
		{doc.Accounts, &snap.Accounts},
		{doc.Transactions, &snap.Transactions},
		{doc.Investments, &snap.Investments},
	} {
		if len(col.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(col.raw, col.dest); err != nil {
			return nil, fmt.Errorf("decode snapshot document: %w", err)
		}
	}
	return snap, nil
}

// Save upserts the document, replacing only the arrays present in snap.
// A nil array in a partial snapshot leaves the stored column as is.
func (g *GormRemote) Save(ctx context.Context, userID string, snap *domain.Snapshot) error {
	doc := SnapshotDocument{UserID: userID, UpdatedAt: time.Now()}
	assignments := map[string]interface{}{"updated_at": doc.UpdatedAt}

	if snap.Accounts != nil {
		b, err := json.Marshal(snap.Accounts)
		if err != nil {
			return fmt.Errorf("encode accounts: %w", err)
		}
		doc.Accounts = b
		assignments["accounts"] = datatypes.JSON(b)
	}
	if snap.Transactions != nil {
		b, err := json.Marshal(snap.Transactions)
		if err != nil {
			return fmt.Errorf("encode transactions: %w", err)
		}
		doc.Transactions = b
		assignments["transactions"] = datatypes.JSON(b)
	}
	if snap.Investments != nil {
		b, err := json.Marshal(snap.Investments)
		if err != nil {
			return fmt.Errorf("encode investments: %w", err)
		}
		doc.Investments = b
		assignments["investments"] = datatypes.JSON(b)
	}

	return g.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(&doc).Error
}
