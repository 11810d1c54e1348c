// Package directoryrepo answers who works where: the managers of the market and the
// seller behind each pavilion.
package directoryrepo

import (
	"context"
	"strings"

	"market/internal/core/domain/model/kernel"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserDTO struct {
	ID             string  `gorm:"type:varchar(64);primaryKey"`
	Name           string  `gorm:"type:text"`
	Role           string  `gorm:"type:varchar(16);not null;index"`
	PavilionNumber *string `gorm:"type:varchar(32);index"`
	Active         bool    `gorm:"not null"`
}

func (UserDTO) TableName() string {
	return "users"
}

// GormUserDirectory implements ports.UserDirectory on the users table.
type GormUserDirectory struct {
	db *gorm.DB
}

func NewGormUserDirectory(db *gorm.DB) *GormUserDirectory {
	return &GormUserDirectory{db: db}
}

// ManagerIDs lists active managers ordered by id.
func (d *GormUserDirectory) ManagerIDs(ctx context.Context) ([]kernel.UserID, error) {
	var ids []string
	err := d.db.WithContext(ctx).
		Model(&UserDTO{}).
		Where("role = ? AND active", kernel.Manager.String()).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}

	managers := make([]kernel.UserID, 0, len(ids))
	for _, id := range ids {
		managers = append(managers, kernel.UserID(id))
	}
	return managers, nil
}

// SellerForPavilion returns the active seller of the pavilion. When several sellers
// share a pavilion the lowest id wins.
func (d *GormUserDirectory) SellerForPavilion(ctx context.Context, pavilionNumber string) (kernel.UserID, bool, error) {
	pavilionNumber = strings.TrimSpace(pavilionNumber)
	if pavilionNumber == "" {
		return "", false, nil
	}

	var dtos []UserDTO
	err := d.db.WithContext(ctx).
		Where("role = ? AND pavilion_number = ? AND active", kernel.Seller.String(), pavilionNumber).
		Order("id").
		Limit(1).
		Find(&dtos).Error
	if err != nil {
		return "", false, err
	}
	if len(dtos) == 0 {
		return "", false, nil
	}

	return kernel.UserID(dtos[0].ID), true, nil
}

// Upsert inserts users or overwrites the stored ones with the same id.
func (d *GormUserDirectory) Upsert(ctx context.Context, users ...UserDTO) error {
	if len(users) == 0 {
		return nil
	}
	return d.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&users).Error
}
