package engine

import (
	"testing"

	"github.com/MERCY1912/oddrealm-sub000/internal/game"
)

func TestResolve_OpenHit(t *testing.T) {
	v := Resolve(game.ZoneHead, game.ZoneLegs, 40, 10, 0, PvPBlockFactor)
	if v.Blocked {
		t.Fatalf("expected open hit, got blocked")
	}
	if v.Damage != 30 {
		t.Fatalf("expected damage 30, got %d", v.Damage)
	}
}

func TestResolve_MinimumDamageFloor(t *testing.T) {
	// A defender with power far exceeding the attacker's still takes 1.
	for _, attack := range game.Zones {
		for _, defense := range game.Zones {
			if attack == defense {
				continue
			}
			v := Resolve(attack, defense, 5, 500, 0, PvEBlockFactor)
			if v.Damage < 1 {
				t.Fatalf("%s vs %s: expected damage >= 1, got %d", attack, defense, v.Damage)
			}
		}
	}
}

func TestResolve_BlockedSameZone(t *testing.T) {
	for _, z := range game.Zones {
		pve := Resolve(z, z, 40, 10, 0, PvEBlockFactor)
		if !pve.Blocked || pve.Damage != 0 {
			t.Fatalf("zone %s: expected PvE block with 0 damage, got %+v", z, pve)
		}
		pvp := Resolve(z, z, 40, 10, 0, PvPBlockFactor)
		if !pvp.Blocked {
			t.Fatalf("zone %s: expected PvP block, got %+v", z, pvp)
		}
		if pvp.Damage != 9 { // round(0.3 * 30)
			t.Fatalf("zone %s: expected PvP block damage 9, got %d", z, pvp.Damage)
		}
	}
}

func TestResolve_NoiseNeverNegative(t *testing.T) {
	v := Resolve(game.ZoneChest, game.ZoneHead, 10, 10, 7, PvEBlockFactor)
	if v.Damage != 7 {
		t.Fatalf("expected noise to carry damage to 7, got %d", v.Damage)
	}
}

func TestPvPPowers(t *testing.T) {
	if got := PvPAttackPower(5); got != 30 {
		t.Fatalf("expected attack power 30 at level 5, got %d", got)
	}
	if got := PvPDefensePower(5); got != 10 {
		t.Fatalf("expected defense power 10 at level 5, got %d", got)
	}
}
