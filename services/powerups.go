package services

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/bingoroyale/bingo-royale-backend/config"
	"github.com/bingoroyale/bingo-royale-backend/game"
	"github.com/bingoroyale/bingo-royale-backend/models"
	"github.com/bingoroyale/bingo-royale-backend/utils/logger"
)

const (
	// PowerupCooldown applies per (round, user, type).
	PowerupCooldown = 60 * time.Second
	freezeDuration  = 7 * time.Second
	shieldDuration  = 30 * time.Second
	// recentUsageWindow drives the transient activity feed.
	recentUsageWindow = 5 * time.Second
)

type powerupDef struct {
	Cost     int64
	Targeted bool
	Title    string
}

var powerupDefs = map[string]powerupDef{
	"quickdaub": {Cost: 30, Title: "Quick Daub"},
	"wild":      {Cost: 50, Title: "Wild Daub"},
	"peek":      {Cost: 20, Title: "Peek"},
	"doublexp":  {Cost: 40, Title: "Double XP"},
	"freeze":    {Cost: 60, Targeted: true, Title: "Freeze"},
	"shuffle":   {Cost: 80, Targeted: true, Title: "Shuffle"},
	"shield":    {Cost: 70, Title: "Shield"},
	"undaub":    {Cost: 90, Targeted: true, Title: "Undaub"},
}

type UsePowerupResult struct {
	Result
	Type         string `json:"type,omitempty"`
	Description  string `json:"description,omitempty"`
	PeekedNumber int    `json:"peeked_number,omitempty"`
}

// UsePowerup validates affordability, cooldown and targeting, then
// applies one effect. Targets are addressed by room-player ID so bots
// can be hit too. A shielded target still costs the actor gems: the
// attack is blocked, not refunded.
func UsePowerup(code string, userID uint, ptype string, targetPlayerID uint) UsePowerupResult {
	def, known := powerupDefs[ptype]
	if !known {
		return UsePowerupResult{Result: fail("unknown power-up %q", ptype)}
	}

	room, err := findRoom(code)
	if err != nil {
		return UsePowerupResult{Result: fail("room not found")}
	}

	h := handleFor(room.ID)
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := config.DB.First(room, room.ID).Error; err != nil || room.Status != game.RoomPlaying {
		return UsePowerupResult{Result: fail("the game has already ended")}
	}
	round, err := activeRound(room.ID)
	if err != nil || round.Over() {
		return UsePowerupResult{Result: fail("the game has already ended")}
	}

	var seat models.RoomPlayer
	if err := config.DB.Where("room_id = ? AND user_id = ? AND is_bot = ?", room.ID, userID, false).
		First(&seat).Error; err != nil {
		return UsePowerupResult{Result: fail("you are not in this room")}
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		return UsePowerupResult{Result: fail("user not found")}
	}

	// Cooldown: latest usage of this type by this user in this round.
	var last models.PowerupUsage
	err = config.DB.Where("game_round_id = ? AND user_id = ? AND type = ?", round.ID, userID, ptype).
		Order("created_at DESC").First(&last).Error
	if err == nil {
		if elapsed := time.Since(last.CreatedAt); elapsed < PowerupCooldown {
			remaining := int((PowerupCooldown - elapsed).Seconds()) + 1
			return UsePowerupResult{Result: fail("%s is on cooldown (%ds remaining)", def.Title, remaining)}
		}
	}

	var target *models.RoomPlayer
	if def.Targeted {
		if targetPlayerID == 0 {
			return UsePowerupResult{Result: fail("%s needs a target", def.Title)}
		}
		var t models.RoomPlayer
		if err := config.DB.Where("room_id = ? AND id = ?", room.ID, targetPlayerID).
			First(&t).Error; err != nil {
			return UsePowerupResult{Result: fail("target is not in this room")}
		}
		target = &t
	}

	// Charge before applying so a failed debit cannot leave a free
	// effect behind.
	if err := DebitGems(config.DB, userID, def.Cost, models.PowerupTransaction); err != nil {
		if err == ErrInsufficientGems {
			return UsePowerupResult{Result: fail("you need %d gems for %s", def.Cost, def.Title)}
		}
		logger.Errorf("powerup debit user %d: %v", userID, err)
		return UsePowerupResult{Result: fail("failed to charge gems")}
	}

	result := UsePowerupResult{Result: ok(), Type: ptype}
	now := time.Now()

	switch ptype {
	case "quickdaub":
		result.Description = daubRandom(&seat, round, 1)
	case "wild":
		result.Description = daubRandom(&seat, round, 2)
	case "peek":
		result.PeekedNumber = round.NextNumber
		result.Description = "you peeked at the upcoming number"
	case "doublexp":
		result.Description = "XP doubled if you win this round"
	case "freeze":
		if target.Shielded(now) {
			result.Description = fmt.Sprintf("%s blocked the freeze with a shield", targetName(target))
		} else {
			until := now.Add(freezeDuration)
			target.FrozenUntil = &until
			config.DB.Save(target)
			result.Description = fmt.Sprintf("%s is frozen for %.0fs", targetName(target), freezeDuration.Seconds())
		}
	case "shuffle":
		if target.Shielded(now) {
			result.Description = fmt.Sprintf("%s blocked the shuffle with a shield", targetName(target))
		} else {
			if card, err := target.GetCard(); err == nil {
				scrambleCard(&card)
				if err := target.SetCard(card); err == nil {
					target.DistanceToWin = game.DistanceToWin(&card, round.Pattern)
					target.ScrambledAt = &now
					config.DB.Save(target)
				}
			}
			result.Description = fmt.Sprintf("%s's undaubed numbers were scrambled", targetName(target))
		}
	case "shield":
		until := now.Add(shieldDuration)
		seat.ShieldUntil = &until
		config.DB.Save(&seat)
		result.Description = fmt.Sprintf("shielded for %.0fs", shieldDuration.Seconds())
	case "undaub":
		if target.Shielded(now) {
			result.Description = fmt.Sprintf("%s blocked the undaub with a shield", targetName(target))
		} else {
			result.Description = undaubRandom(target, round)
		}
	default:
		// Unknown types are rejected above; this branch only narrates.
		result.Description = "nothing happened"
	}

	usage := models.PowerupUsage{
		GameRoundID:    round.ID,
		UserID:         userID,
		TargetPlayerID: targetPlayerID,
		Type:           ptype,
	}
	config.DB.Create(&usage)

	if target != nil {
		systemMessage(room.ID, fmt.Sprintf("%s used %s on %s", user.Name, def.Title, targetName(target)))
	} else {
		systemMessage(room.ID, fmt.Sprintf("%s used %s", user.Name, def.Title))
	}

	go broadcastRoom(room.ID)
	return result
}

// daubRandom daubs up to n random undaubed cells on the seat's card.
func daubRandom(seat *models.RoomPlayer, round *models.GameRound, n int) string {
	card, err := seat.GetCard()
	if err != nil {
		return "card unavailable"
	}

	daubed := 0
	for i := 0; i < n; i++ {
		open := openCells(&card)
		if len(open) == 0 {
			break
		}
		pick := open[rand.Intn(len(open))]
		card[pick[0]][pick[1]].Daubed = true
		daubed++
	}
	if daubed == 0 {
		return "no cells left to daub"
	}

	if err := seat.SetCard(card); err != nil {
		return "card unavailable"
	}
	seat.DistanceToWin = game.DistanceToWin(&card, round.Pattern)
	config.DB.Save(seat)
	return fmt.Sprintf("%d cell(s) daubed for free", daubed)
}

// undaubRandom clears one random daubed, non-free cell.
func undaubRandom(seat *models.RoomPlayer, round *models.GameRound) string {
	card, err := seat.GetCard()
	if err != nil {
		return "card unavailable"
	}

	marked := markedCells(&card)
	if len(marked) == 0 {
		return fmt.Sprintf("%s had nothing to undaub", targetName(seat))
	}
	pick := marked[rand.Intn(len(marked))]
	card[pick[0]][pick[1]].Daubed = false

	if err := seat.SetCard(card); err != nil {
		return "card unavailable"
	}
	seat.DistanceToWin = game.DistanceToWin(&card, round.Pattern)
	config.DB.Save(seat)
	return fmt.Sprintf("one of %s's daubs was removed", targetName(seat))
}

// scrambleCard re-randomizes every undaubed, non-free cell within its
// column's letter-group range, keeping column values distinct.
func scrambleCard(card *game.Card) {
	for col := 0; col < game.Size; col++ {
		kept := map[int]bool{}
		for row := 0; row < game.Size; row++ {
			if card.IsDaubed(row, col) {
				kept[card[row][col].Value] = true
			}
		}
		pool := []int{}
		for v := col*game.ColumnRange + 1; v <= (col+1)*game.ColumnRange; v++ {
			if !kept[v] {
				pool = append(pool, v)
			}
		}
		rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

		next := 0
		for row := 0; row < game.Size; row++ {
			if !card.IsDaubed(row, col) && next < len(pool) {
				card[row][col].Value = pool[next]
				next++
			}
		}
	}
}

// openCells lists undaubed, non-free cell coordinates.
func openCells(card *game.Card) [][2]int {
	var out [][2]int
	for row := 0; row < game.Size; row++ {
		for col := 0; col < game.Size; col++ {
			if !card.IsDaubed(row, col) {
				out = append(out, [2]int{row, col})
			}
		}
	}
	return out
}

// markedCells lists daubed, non-free cell coordinates.
func markedCells(card *game.Card) [][2]int {
	var out [][2]int
	for row := 0; row < game.Size; row++ {
		for col := 0; col < game.Size; col++ {
			if row == game.Size/2 && col == game.Size/2 {
				continue
			}
			if card[row][col].Daubed {
				out = append(out, [2]int{row, col})
			}
		}
	}
	return out
}

func targetName(seat *models.RoomPlayer) string {
	if seat.IsBot {
		return seat.BotName
	}
	var user models.User
	if err := config.DB.First(&user, seat.UserID).Error; err == nil {
		return user.Name
	}
	return "unknown"
}

// RecentPowerups returns the last few seconds of activations for the
// round, for transient UI replay.
func RecentPowerups(roundID uint) []models.PowerupUsage {
	var usages []models.PowerupUsage
	config.DB.Where("game_round_id = ? AND created_at > ?", roundID, time.Now().Add(-recentUsageWindow)).
		Order("created_at ASC").Find(&usages)
	return usages
}
