package engine

import "github.com/MERCY1912/oddrealm-sub000/internal/game"

// Fixed PvP reward bundles. The winner takes the full bundle; the loser
// a smaller one that still carries a rating penalty. A battle that ends
// with no winner (double knockout, abandonment) awards nothing.
var (
	pvpWinnerRewards = game.RewardBundle{Experience: 50, Gold: 25, RatingDelta: 10}
	pvpLoserRewards  = game.RewardBundle{Experience: 10, Gold: 5, RatingDelta: -10}
)

// PvPRewards returns the winner and loser bundles for a finished battle.
func PvPRewards() (winner, loser game.RewardBundle) {
	return pvpWinnerRewards, pvpLoserRewards
}
