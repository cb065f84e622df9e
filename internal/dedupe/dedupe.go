package dedupe

// Package dedupe provides the shared singleflight group used to collapse
// concurrent battle reads. A forced re-fetch landing on the same tick as
// the steady poll produces a single store query; every waiting caller
// gets the same snapshot.

import "golang.org/x/sync/singleflight"

// BattleGroup deduplicates battle fetches keyed by combatant UUID
// (e.g. "battle:<uuid>").
var BattleGroup singleflight.Group
