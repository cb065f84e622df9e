package game

import "strings"

// Zone is one of the five body regions used for attack and defense
// targeting.
type Zone string

const (
	ZoneHead    Zone = "head"
	ZoneChest   Zone = "chest"
	ZoneStomach Zone = "stomach"
	ZoneGroin   Zone = "groin"
	ZoneLegs    Zone = "legs"
)

// Zones lists every valid zone in display order.
var Zones = []Zone{ZoneHead, ZoneChest, ZoneStomach, ZoneGroin, ZoneLegs}

// ParseZone normalizes a client-supplied zone string and reports whether
// it names a valid zone. Validation happens at the store/API boundary;
// the engine itself treats unknown zones as a programming error.
func ParseZone(s string) (Zone, bool) {
	z := Zone(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range Zones {
		if z == v {
			return v, true
		}
	}
	return "", false
}

// Move is a complete, atomic declaration of intent for one round.
// Partial moves do not exist.
type Move struct {
	AttackZone  Zone `json:"attack_zone"`
	DefenseZone Zone `json:"defense_zone"`
}

// Valid reports whether both zones name real body regions.
func (m Move) Valid() bool {
	_, aok := ParseZone(string(m.AttackZone))
	_, dok := ParseZone(string(m.DefenseZone))
	return aok && dok
}
