package storage

import (
	"errors"
	"time"

	"github.com/MERCY1912/oddrealm-sub000/internal/game"
	"gorm.io/gorm"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) CreateBattle(b *game.Battle) error {
	return r.db.Create(b).Error
}

func (r *sqliteRepository) GetBattleByUUID(uuid string) (*game.Battle, error) {
	var b game.Battle
	err := r.db.Preload("Combatants").Where("battle_uuid = ?", uuid).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *sqliteRepository) GetBattleByCombatant(combatantUUID string) (*game.Battle, error) {
	var c game.Combatant
	err := r.db.Where("combatant_uuid = ?", combatantUUID).Order("id DESC").First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var b game.Battle
	if err := r.db.Preload("Combatants").First(&b, c.BattleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// UpdateBattle performs the store-side compare-and-swap: the battle row
// is only written when its version still matches the one the caller
// read. Combatant rows are saved in the same transaction so a round's
// health changes and the battle's round/status advance together.
func (r *sqliteRepository) UpdateBattle(b *game.Battle) error {
	prev := b.Version
	next := prev + 1
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&game.Battle{}).
			Where("id = ? AND version = ?", b.ID, prev).
			Updates(map[string]interface{}{
				"turn_owner_uuid":            b.TurnOwnerUUID,
				"round":                      b.Round,
				"status":                     b.Status,
				"winner_uuid":                b.WinnerUUID,
				"log":                        b.Log,
				"winner_reward_experience":   b.WinnerRewards.Experience,
				"winner_reward_gold":         b.WinnerRewards.Gold,
				"winner_reward_rating_delta": b.WinnerRewards.RatingDelta,
				"loser_reward_experience":    b.LoserRewards.Experience,
				"loser_reward_gold":          b.LoserRewards.Gold,
				"loser_reward_rating_delta":  b.LoserRewards.RatingDelta,
				"version":                    next,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}
		for i := range b.Combatants {
			if err := tx.Save(&b.Combatants[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	b.Version = next
	return nil
}

func (r *sqliteRepository) DeleteBattle(uuid string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var b game.Battle
		if err := tx.Where("battle_uuid = ?", uuid).First(&b).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("battle_id = ?", b.ID).Delete(&game.Combatant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&b).Error
	})
}

func (r *sqliteRepository) FindStaleBattles(cutoff time.Time, limit int) ([]game.Battle, error) {
	if limit <= 0 {
		limit = 20
	}
	var battles []game.Battle
	err := r.db.Preload("Combatants").
		Where("status = ? AND updated_at <= ?", game.BattleStatusAwaitingMoves, cutoff).
		Order("updated_at ASC").
		Limit(limit).
		Find(&battles).Error
	if err != nil {
		return nil, err
	}
	return battles, nil
}

func (r *sqliteRepository) CreateRequest(req *game.ChallengeRequest) error {
	return r.db.Create(req).Error
}

func (r *sqliteRepository) GetRequestByUUID(uuid string) (*game.ChallengeRequest, error) {
	var req game.ChallengeRequest
	err := r.db.Where("request_uuid = ?", uuid).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *sqliteRepository) ListWaitingRequests(now time.Time) ([]game.ChallengeRequest, error) {
	var reqs []game.ChallengeRequest
	err := r.db.
		Where("status = ? AND expires_at > ?", game.RequestStatusWaiting, now).
		Order("created_at ASC").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *sqliteRepository) MarkRequestStatus(uuid, from, to string) error {
	res := r.db.Model(&game.ChallengeRequest{}).
		Where("request_uuid = ? AND status = ?", uuid, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

// AcceptRequestAndCreateBattle relies on the guarded status update for
// its atomicity: under concurrent acceptance only one transaction sees
// a waiting row, so only one battle is ever created.
func (r *sqliteRepository) AcceptRequestAndCreateBattle(requestUUID string, b *game.Battle) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&game.ChallengeRequest{}).
			Where("request_uuid = ? AND status = ?", requestUUID, game.RequestStatusWaiting).
			Update("status", game.RequestStatusAccepted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}
		return tx.Create(b).Error
	})
}

func (r *sqliteRepository) ExpireRequests(now time.Time) (int64, error) {
	res := r.db.Model(&game.ChallengeRequest{}).
		Where("status = ? AND expires_at <= ?", game.RequestStatusWaiting, now).
		Update("status", game.RequestStatusExpired)
	return res.RowsAffected, res.Error
}

func (r *sqliteRepository) UpsertProfile(p *game.Profile) error {
	var existing game.Profile
	err := r.db.Where("combatant_uuid = ?", p.CombatantUUID).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.db.Create(p).Error
		}
		return err
	}
	existing.Name = p.Name
	existing.Level = p.Level
	existing.Class = p.Class
	if err := r.db.Save(&existing).Error; err != nil {
		return err
	}
	*p = existing
	return nil
}

func (r *sqliteRepository) GetProfileByUUID(combatantUUID string) (*game.Profile, error) {
	var p game.Profile
	err := r.db.Where("combatant_uuid = ?", combatantUUID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *sqliteRepository) SaveProfile(p *game.Profile) error {
	return r.db.Save(p).Error
}

func (r *sqliteRepository) GetProfileByName(name string) (*game.Profile, error) {
	var p game.Profile
	err := r.db.Where("name = ?", name).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *sqliteRepository) ApplyBattleRewards(b *game.Battle) error {
	if b.WinnerUUID == "" {
		return nil
	}
	loser := b.OpponentOf(b.WinnerUUID)
	apply := func(uuid string, bundle game.RewardBundle, won bool) error {
		var p game.Profile
		if err := r.db.Where("combatant_uuid = ?", uuid).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// No profile for this combatant; nothing to credit.
				return nil
			}
			return err
		}
		p.Experience += bundle.Experience
		p.Gold += bundle.Gold
		p.Rating += bundle.RatingDelta
		if p.Rating < 0 {
			p.Rating = 0
		}
		if won {
			p.Wins++
		} else {
			p.Losses++
		}
		return r.db.Save(&p).Error
	}
	if err := apply(b.WinnerUUID, b.WinnerRewards, true); err != nil {
		return err
	}
	if loser != nil {
		return apply(loser.CombatantUUID, b.LoserRewards, false)
	}
	return nil
}

func (r *sqliteRepository) GetTopProfiles(limit int) ([]game.Profile, error) {
	if limit <= 0 {
		limit = 10
	}
	var profiles []game.Profile
	err := r.db.Model(&game.Profile{}).
		Order("rating DESC").
		Order("wins DESC").
		Limit(limit).
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}
