package utils

import (
	"time"

	"github.com/bingoroyale/bingo-royale-backend/game"
	"github.com/bingoroyale/bingo-royale-backend/models"
	"github.com/bingoroyale/bingo-royale-backend/utils/logger"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// CronCleaner starts the background maintenance jobs: sweeping rooms
// that finished long ago and boss votes that never reached consensus.
func CronCleaner(db *gorm.DB) *cron.Cron {
	c := cron.New()

	// Finished rooms idle for a day are deleted with their seats.
	c.AddFunc("@hourly", func() {
		cutoff := time.Now().Add(-24 * time.Hour)
		staleIDs := []uint{}
		db.Model(&models.Room{}).
			Where("status = ? AND updated_at <= ?", game.RoomFinished, cutoff).
			Pluck("id", &staleIDs)

		if len(staleIDs) == 0 {
			return
		}
		db.Where("room_id IN ?", staleIDs).Delete(&models.RoomPlayer{})
		db.Where("room_id IN ?", staleIDs).Delete(&models.ChatMessage{})
		result := db.Where("id IN ?", staleIDs).Delete(&models.Room{})
		logger.Infof("cron: removed %d stale rooms", result.RowsAffected)
	})

	// Boss votes that expired without consensus are marked lost so
	// the room can start a fresh vote.
	c.AddFunc("@every 5m", func() {
		result := db.Model(&models.BossBattle{}).
			Where("state = ? AND expires_at <= ?", models.BossVoting, time.Now()).
			Update("state", models.BossLost)
		if result.RowsAffected > 0 {
			logger.Infof("cron: expired %d stale boss votes", result.RowsAffected)
		}
	})

	c.Start()
	return c
}
