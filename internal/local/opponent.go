package local

import "github.com/MERCY1912/oddrealm-sub000/internal/game"

// randomEnemyMove synthesizes the computer opponent's move: uniformly
// random attack and defense zones, chosen independently.
func randomEnemyMove(s *Session) game.Move {
	return game.Move{
		AttackZone:  game.Zones[s.rng.Intn(len(game.Zones))],
		DefenseZone: game.Zones[s.rng.Intn(len(game.Zones))],
	}
}
