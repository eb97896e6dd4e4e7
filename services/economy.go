package services

import (
	"errors"

	"github.com/bingoroyale/bingo-royale-backend/models"
	"github.com/bingoroyale/bingo-royale-backend/utils/logger"

	"gorm.io/gorm"
)

// ErrInsufficientGems is returned when a debit exceeds the balance.
var ErrInsufficientGems = errors.New("insufficient gems")

// DebitGems removes gems from a user inside one DB transaction and
// records a ledger row.
func DebitGems(db *gorm.DB, userID uint, amount int64, txType models.TransactionType) error {
	if amount <= 0 {
		return nil
	}
	return db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}
		if user.Gems < amount {
			return ErrInsufficientGems
		}
		user.Gems -= amount
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		return tx.Create(&models.Transaction{
			UserID:       userID,
			Type:         txType,
			Amount:       -amount,
			BalanceAfter: user.Gems,
		}).Error
	})
}

// CreditGems adds gems to a user and records a ledger row.
func CreditGems(db *gorm.DB, userID uint, amount int64, txType models.TransactionType) error {
	if amount <= 0 {
		return nil
	}
	return db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}
		user.Gems += amount
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		return tx.Create(&models.Transaction{
			UserID:       userID,
			Type:         txType,
			Amount:       amount,
			BalanceAfter: user.Gems,
		}).Error
	})
}

// PenalizeGems deducts up to amount, flooring the balance at zero, and
// returns how much was actually taken.
func PenalizeGems(db *gorm.DB, userID uint, amount int64) int64 {
	var taken int64
	err := db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}
		taken = amount
		if user.Gems < amount {
			taken = user.Gems
		}
		user.Gems -= taken
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		return tx.Create(&models.Transaction{
			UserID:       userID,
			Type:         models.PenaltyTransaction,
			Amount:       -taken,
			BalanceAfter: user.Gems,
		}).Error
	})
	if err != nil {
		logger.Errorf("penalize user %d: %v", userID, err)
		return 0
	}
	return taken
}

// AwardXP grants XP and recomputes the level.
func AwardXP(db *gorm.DB, userID uint, xp int64) {
	err := db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}
		user.XP += xp
		user.Level = LevelForXP(user.XP)
		return tx.Save(&user).Error
	})
	if err != nil {
		logger.Errorf("award xp to user %d: %v", userID, err)
	}
}

// LevelForXP derives a level from cumulative XP. Advancing from level
// n to n+1 costs 100*n XP, so level L needs 50*L*(L-1) total.
func LevelForXP(xp int64) int {
	level := 1
	for int64(50*(level+1)*level) <= xp {
		level++
	}
	return level
}
