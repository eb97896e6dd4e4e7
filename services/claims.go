package services

import (
	"fmt"
	"time"

	"github.com/bingoroyale/bingo-royale-backend/config"
	"github.com/bingoroyale/bingo-royale-backend/game"
	"github.com/bingoroyale/bingo-royale-backend/models"
	"github.com/bingoroyale/bingo-royale-backend/utils/logger"
)

const (
	falseClaimPenalty = 25
	winXP             = 100
)

// DaubNumber marks a called number on the acting player's own card.
// Daubing an uncalled number is rejected; daubing a cell that is
// already daubed succeeds without change.
func DaubNumber(code string, userID uint, number int) Result {
	room, err := findRoom(code)
	if err != nil {
		return fail("room not found")
	}

	h := handleFor(room.ID)
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := config.DB.First(room, room.ID).Error; err != nil || room.Status != game.RoomPlaying {
		return fail("the room is not playing")
	}

	round, err := activeRound(room.ID)
	if err != nil || round.Over() {
		return fail("the game has already ended")
	}

	calledMatch := false
	for _, n := range round.Called() {
		if n == number {
			calledMatch = true
			break
		}
	}
	if !calledMatch {
		return fail("%d has not been called", number)
	}

	var seat models.RoomPlayer
	if err := config.DB.Where("room_id = ? AND user_id = ? AND is_bot = ?", room.ID, userID, false).
		First(&seat).Error; err != nil {
		return fail("you are not in this room")
	}

	card, err := seat.GetCard()
	if err != nil {
		return fail("card unavailable")
	}
	if card.Daub(number) {
		if err := seat.SetCard(card); err != nil {
			return fail("failed to save card")
		}
		seat.DistanceToWin = game.DistanceToWin(&card, round.Pattern)
		config.DB.Save(&seat)
		go broadcastRoom(room.ID)
	}
	return ok()
}

type ClaimResult struct {
	Result
	Winnings int64 `json:"winnings,omitempty"`
	Penalty  int64 `json:"penalty,omitempty"`
	Damage   int   `json:"damage,omitempty"`
}

// ClaimBingo checks the claimant's card against the round pattern. A
// false claim costs a fixed gem penalty, floored at zero. During an
// active boss battle a valid claim damages the boss instead of ending
// the round with a prize.
func ClaimBingo(code string, userID uint) ClaimResult {
	room, err := findRoom(code)
	if err != nil {
		return ClaimResult{Result: fail("room not found")}
	}

	h := handleFor(room.ID)
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := config.DB.First(room, room.ID).Error; err != nil || room.Status != game.RoomPlaying {
		return ClaimResult{Result: fail("the room is not playing")}
	}

	round, err := activeRound(room.ID)
	if err != nil || round.Over() {
		return ClaimResult{Result: fail("the game has already ended")}
	}

	var seat models.RoomPlayer
	if err := config.DB.Where("room_id = ? AND user_id = ? AND is_bot = ?", room.ID, userID, false).
		First(&seat).Error; err != nil {
		return ClaimResult{Result: fail("you are not in this room")}
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		return ClaimResult{Result: fail("user not found")}
	}

	card, err := seat.GetCard()
	if err != nil {
		return ClaimResult{Result: fail("card unavailable")}
	}

	if !game.CheckWin(&card, round.Pattern) {
		taken := PenalizeGems(config.DB, userID, falseClaimPenalty)
		systemMessage(room.ID, fmt.Sprintf("%s claimed bingo... but it wasn't one (-%d gems)", user.Name, taken))
		go broadcastRoom(room.ID)
		return ClaimResult{
			Result:  fail("that is not a bingo (%d gem penalty)", falseClaimPenalty),
			Penalty: taken,
		}
	}

	// Valid bingo during an active boss battle damages the boss and
	// the round carries on.
	if battle, err := currentBattle(room.ID); err == nil && battle.State == models.BossActive {
		damage, handled := applyBossDamage(h, room, round, &seat, &user, battle)
		if handled {
			go broadcastRoom(room.ID)
			return ClaimResult{Result: ok(), Damage: damage}
		}
	}

	winnings := finishRoundLocked(h, room, round, &seat, &user)
	go broadcastRoom(room.ID)
	return ClaimResult{Result: ok(), Winnings: winnings}
}

// finishRoundLocked ends the round with a winner, pays the prize pool
// and awards XP. The caller must hold the room mutex. A bot winner
// gets the glory but no gems.
func finishRoundLocked(h *roomHandle, room *models.Room, round *models.GameRound, seat *models.RoomPlayer, user *models.User) int64 {
	if !round.State.CanTransition(game.GameFinished) {
		return 0
	}

	now := time.Now()
	round.State = game.GameFinished
	round.WinnerPlayerID = seat.ID
	round.WinnerUserID = seat.UserID
	round.EndedAt = &now
	config.DB.Save(round)

	if room.Status.CanTransition(game.RoomFinished) {
		room.Status = game.RoomFinished
		config.DB.Save(room)
	}

	cancelCall(round.ID)
	h.stopTimers()

	// A battle round that ends with the boss still alive resolves the
	// battle as lost: the wagers stay with the house. Won battles are
	// already resolved before this runs.
	if battle, err := currentBattle(room.ID); err == nil && battle.State == models.BossActive {
		battle.State = models.BossLost
		config.DB.Save(battle)
		if tierDef, tierOK := bossTierFor(battle.Tier); tierOK {
			systemMessage(room.ID, fmt.Sprintf("%s escapes with %d HP left, the wagers are lost", tierDef.Name, battle.Health))
		}
	}

	seat.ClaimedBingo = true
	config.DB.Save(seat)

	var winnings int64
	name := seat.BotName
	if !seat.IsBot && user != nil {
		name = user.Name
		winnings = room.PrizePool
		if err := CreditGems(config.DB, user.ID, winnings, models.PrizeTransaction); err != nil {
			logger.Errorf("pay prize to user %d: %v", user.ID, err)
			winnings = 0
		}

		xp := int64(winXP)
		if usedDoubleXP(round.ID, user.ID) {
			xp *= 2
		}
		AwardXP(config.DB, user.ID, xp)
	}

	if winnings > 0 {
		systemMessage(room.ID, fmt.Sprintf("🎉 %s got BINGO and wins %d gems!", name, winnings))
	} else {
		systemMessage(room.ID, fmt.Sprintf("🎉 %s got BINGO!", name))
	}
	logger.Infof("room %s round %d won by player %d", room.Code, round.ID, seat.ID)
	return winnings
}

// usedDoubleXP reports whether the user activated doublexp this round.
func usedDoubleXP(roundID, userID uint) bool {
	var count int64
	config.DB.Model(&models.PowerupUsage{}).
		Where("game_round_id = ? AND user_id = ? AND type = ?", roundID, userID, "doublexp").
		Count(&count)
	return count > 0
}
