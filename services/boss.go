package services

import (
	"fmt"
	"time"

	"github.com/bingoroyale/bingo-royale-backend/config"
	"github.com/bingoroyale/bingo-royale-backend/game"
	"github.com/bingoroyale/bingo-royale-backend/models"
	"github.com/bingoroyale/bingo-royale-backend/utils/logger"
)

// BossTier is one selectable encounter.
type BossTier struct {
	Tier             int           `json:"tier"`
	Name             string        `json:"name"`
	Wager            int64         `json:"wager"`
	MaxHealth        int           `json:"max_health"`
	TimeLimit        time.Duration `json:"-"`
	DamagePerBingo   int           `json:"damage_per_bingo"`
	RewardMultiplier float64       `json:"reward_multiplier"`
}

var bossTiers = []BossTier{
	{Tier: 1, Name: "Gloom Goblin", Wager: 100, MaxHealth: 300, TimeLimit: 3 * time.Minute, DamagePerBingo: 100, RewardMultiplier: 1.5},
	{Tier: 2, Name: "Cackling Croupier", Wager: 250, MaxHealth: 600, TimeLimit: 4 * time.Minute, DamagePerBingo: 150, RewardMultiplier: 2.0},
	{Tier: 3, Name: "Patternweaver", Wager: 500, MaxHealth: 1200, TimeLimit: 5 * time.Minute, DamagePerBingo: 200, RewardMultiplier: 2.5},
	{Tier: 4, Name: "The Caller King", Wager: 1000, MaxHealth: 2000, TimeLimit: 6 * time.Minute, DamagePerBingo: 250, RewardMultiplier: 3.0},
}

const bossVoteWindow = 30 * time.Second

func bossTierFor(tier int) (BossTier, bool) {
	for _, t := range bossTiers {
		if t.Tier == tier {
			return t, true
		}
	}
	return BossTier{}, false
}

// currentBattle finds the room's live encounter, voting or active.
func currentBattle(roomID uint) (*models.BossBattle, error) {
	var battle models.BossBattle
	err := config.DB.Where("room_id = ? AND state IN ?", roomID,
		[]models.BossBattleState{models.BossVoting, models.BossActive}).
		Order("id DESC").First(&battle).Error
	if err != nil {
		return nil, err
	}
	return &battle, nil
}

type BossVoteResult struct {
	Result
	BattleID uint                   `json:"battle_id,omitempty"`
	State    models.BossBattleState `json:"state,omitempty"`
}

// VoteBoss records the user's tier pick for a cooperative encounter in
// a finished room, opening the vote if none is running. When every
// seated human has voted for the same tier the battle activates:
// wagers are charged, the health pool is set and the room replays.
func VoteBoss(code string, userID uint, tier int) BossVoteResult {
	tierDef, validTier := bossTierFor(tier)
	if !validTier {
		return BossVoteResult{Result: fail("unknown boss tier %d", tier)}
	}

	room, err := findRoom(code)
	if err != nil {
		return BossVoteResult{Result: fail("room not found")}
	}

	h := handleFor(room.ID)
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := config.DB.First(room, room.ID).Error; err != nil {
		return BossVoteResult{Result: fail("room not found")}
	}

	var seat models.RoomPlayer
	if err := config.DB.Where("room_id = ? AND user_id = ? AND is_bot = ?", room.ID, userID, false).
		First(&seat).Error; err != nil {
		return BossVoteResult{Result: fail("you are not in this room")}
	}

	battle, err := currentBattle(room.ID)
	if err != nil {
		if room.Status != game.RoomFinished {
			return BossVoteResult{Result: fail("boss battles start after a finished game")}
		}
		battle = &models.BossBattle{
			RoomID:    room.ID,
			State:     models.BossVoting,
			ExpiresAt: time.Now().Add(bossVoteWindow),
		}
		battle.SetVoteMap(map[uint]int{})
		if err := config.DB.Create(battle).Error; err != nil {
			return BossVoteResult{Result: fail("failed to open the vote")}
		}
		battleID := battle.ID
		h.addTimer(time.AfterFunc(bossVoteWindow, func() {
			expireBossVote(room.ID, battleID)
		}))
		systemMessage(room.ID, "Boss vote opened! Pick your encounter")
	}

	if battle.State == models.BossActive {
		return BossVoteResult{Result: fail("the battle has already started")}
	}
	if time.Now().After(battle.ExpiresAt) {
		return BossVoteResult{Result: fail("the vote window has closed")}
	}

	votes := battle.VoteMap()
	votes[userID] = tier
	battle.SetVoteMap(votes)
	config.DB.Save(battle)

	var user models.User
	if err := config.DB.First(&user, userID).Error; err == nil {
		systemMessage(room.ID, fmt.Sprintf("%s voted for %s", user.Name, tierDef.Name))
	}

	// Consensus: every seated human voted, all for the same tier.
	var humans []models.RoomPlayer
	config.DB.Where("room_id = ? AND is_bot = ?", room.ID, false).Find(&humans)
	if consensus(votes, humans, tier) {
		activateBattle(h, room, battle, tierDef, humans)
	}

	go broadcastRoom(room.ID)
	return BossVoteResult{Result: ok(), BattleID: battle.ID, State: battle.State}
}

func consensus(votes map[uint]int, humans []models.RoomPlayer, tier int) bool {
	if len(humans) == 0 {
		return false
	}
	for _, seat := range humans {
		v, voted := votes[seat.UserID]
		if !voted || v != tier {
			return false
		}
	}
	return true
}

// activateBattle charges wagers and starts the shared fight. Voters
// who can no longer afford the wager are left out; the battle needs at
// least one funded participant.
func activateBattle(h *roomHandle, room *models.Room, battle *models.BossBattle, tierDef BossTier, humans []models.RoomPlayer) {
	var participants []models.BossParticipant
	for _, seat := range humans {
		if err := DebitGems(config.DB, seat.UserID, tierDef.Wager, models.BossWagerTransaction); err != nil {
			logger.Warnf("boss wager for user %d skipped: %v", seat.UserID, err)
			continue
		}
		participants = append(participants, models.BossParticipant{
			BossBattleID: battle.ID,
			UserID:       seat.UserID,
			Wager:        tierDef.Wager,
		})
	}
	if len(participants) == 0 {
		battle.State = models.BossLost
		config.DB.Save(battle)
		systemMessage(room.ID, "Nobody could afford the wager, the boss wanders off")
		return
	}
	for i := range participants {
		config.DB.Create(&participants[i])
	}

	battle.Tier = tierDef.Tier
	battle.MaxHealth = tierDef.MaxHealth
	battle.Health = tierDef.MaxHealth
	battle.WagerTotal = tierDef.Wager * int64(len(participants))
	battle.State = models.BossActive
	battle.ExpiresAt = time.Now().Add(tierDef.TimeLimit)
	config.DB.Save(battle)

	battleID := battle.ID
	h.addTimer(time.AfterFunc(tierDef.TimeLimit, func() {
		expireBossBattle(room.ID, battleID)
	}))

	systemMessage(room.ID, fmt.Sprintf("⚔️ The battle against %s begins! %d HP, %s on the clock",
		tierDef.Name, tierDef.MaxHealth, tierDef.TimeLimit))
	logger.Infof("room %s boss battle %d activated (tier=%d)", room.Code, battle.ID, tierDef.Tier)

	// The fight plays out as a fresh round in the room's mode.
	if _, res := startRoundLocked(room); !res.Success {
		logger.Errorf("boss battle %d could not start a round: %s", battle.ID, res.Error)
	}
}

// applyBossDamage converts a valid bingo into damage while a battle is
// active. Returns handled=false when the claimant is not a funded
// participant, in which case the claim falls through to the normal win
// path. The claimant gets a fresh card, caught up on called numbers,
// so the fight continues.
func applyBossDamage(h *roomHandle, room *models.Room, round *models.GameRound, seat *models.RoomPlayer, user *models.User, battle *models.BossBattle) (int, bool) {
	tierDef, okTier := bossTierFor(battle.Tier)
	if !okTier {
		return 0, false
	}

	var participant models.BossParticipant
	if err := config.DB.Where("boss_battle_id = ? AND user_id = ?", battle.ID, user.ID).
		First(&participant).Error; err != nil {
		return 0, false
	}

	battle.Health -= tierDef.DamagePerBingo
	if battle.Health < 0 {
		battle.Health = 0
	}
	config.DB.Save(battle)

	participant.Bingos++
	config.DB.Save(&participant)

	systemMessage(room.ID, fmt.Sprintf("💥 %s hit %s for %d damage (%d HP left)",
		user.Name, tierDef.Name, tierDef.DamagePerBingo, battle.Health))

	// Re-arm the claimant for the rest of the fight.
	card := game.NewCard()
	for _, n := range round.Called() {
		card.Daub(n)
	}
	if err := seat.SetCard(card); err == nil {
		seat.DistanceToWin = game.DistanceToWin(&card, round.Pattern)
		config.DB.Save(seat)
	}

	if battle.Health <= 0 {
		resolveBossLocked(h, room, round, battle, tierDef, seat, user)
	}
	return tierDef.DamagePerBingo, true
}

// resolveBossLocked pays out a won battle: the wager pool times the
// tier multiplier splits evenly, remainder to the earliest joiner.
func resolveBossLocked(h *roomHandle, room *models.Room, round *models.GameRound, battle *models.BossBattle, tierDef BossTier, seat *models.RoomPlayer, user *models.User) {
	battle.State = models.BossWon
	config.DB.Save(battle)

	var participants []models.BossParticipant
	config.DB.Where("boss_battle_id = ?", battle.ID).Order("id ASC").Find(&participants)
	if len(participants) > 0 {
		pool := int64(float64(battle.WagerTotal) * tierDef.RewardMultiplier)
		share := pool / int64(len(participants))
		remainder := pool - share*int64(len(participants))
		for i := range participants {
			reward := share
			if i == 0 {
				reward += remainder
			}
			participants[i].Reward = reward
			config.DB.Save(&participants[i])
			if err := CreditGems(config.DB, participants[i].UserID, reward, models.BossRewardTransaction); err != nil {
				logger.Errorf("boss reward for user %d: %v", participants[i].UserID, err)
			}
		}
	}

	systemMessage(room.ID, fmt.Sprintf("🏆 %s is defeated! The party splits the spoils", tierDef.Name))
	finishRoundLocked(h, room, round, seat, user)
}

// expireBossVote closes a vote that never reached consensus.
func expireBossVote(roomID, battleID uint) {
	h := handleFor(roomID)
	h.mu.Lock()
	defer h.mu.Unlock()

	var battle models.BossBattle
	if err := config.DB.First(&battle, battleID).Error; err != nil {
		return
	}
	if battle.State != models.BossVoting {
		return
	}
	battle.State = models.BossLost
	config.DB.Save(&battle)
	systemMessage(roomID, "The boss vote expired without consensus")
	go broadcastRoom(roomID)
}

// expireBossBattle resolves a battle the players failed to finish in
// time: wagers are kept, the round ends with no winner.
func expireBossBattle(roomID, battleID uint) {
	h := handleFor(roomID)
	h.mu.Lock()

	var battle models.BossBattle
	if err := config.DB.First(&battle, battleID).Error; err != nil || battle.State != models.BossActive {
		h.mu.Unlock()
		return
	}
	if time.Now().Before(battle.ExpiresAt) {
		h.mu.Unlock()
		return
	}

	battle.State = models.BossLost
	config.DB.Save(&battle)

	var room models.Room
	if err := config.DB.First(&room, roomID).Error; err == nil {
		if round, err := activeRound(roomID); err == nil {
			now := time.Now()
			round.State = game.GameFinished
			round.EndedAt = &now
			config.DB.Save(round)
			cancelCall(round.ID)
		}
		if room.Status.CanTransition(game.RoomFinished) {
			room.Status = game.RoomFinished
			config.DB.Save(&room)
		}
		systemMessage(roomID, "⌛ The boss escaped, the wagers are lost")
	}
	h.mu.Unlock()
	broadcastRoom(roomID)
}

// BossTiers exposes the tier catalog for clients.
func BossTiers() []BossTier {
	return bossTiers
}
