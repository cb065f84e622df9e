package config

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"strings"
	"time"

	"github.com/MERCY1912/oddrealm-sub000/internal/local"
	"github.com/MERCY1912/oddrealm-sub000/internal/syncer"
)

// Class is a selectable combatant class with its starting stats.
type Class struct {
	Name      string `json:"name"`
	MaxHealth int    `json:"max_health"`
}

type enemyEntry struct {
	Name         string `json:"name"`
	Level        int    `json:"level"`
	Class        string `json:"class"`
	MaxHealth    int    `json:"max_health"`
	AttackPower  int    `json:"attack_power"`
	DefensePower int    `json:"defense_power"`
	Experience   int    `json:"experience"`
	Gold         int    `json:"gold"`
}

type rawConfig struct {
	Classes []Class      `json:"classes"`
	Enemies []enemyEntry `json:"enemies"`
	Server  *struct {
		Address string `json:"address"`
	} `json:"server"`
	Sync *struct {
		SteadyMs              int   `json:"steady_ms"`
		CriticalMs            int   `json:"critical_ms"`
		CriticalHealthPercent int   `json:"critical_health_percent"`
		RefetchDelaysMs       []int `json:"refetch_delays_ms"`
	} `json:"sync"`
	Requests *struct {
		MinWaitSeconds int `json:"min_wait_seconds"`
		MaxWaitSeconds int `json:"max_wait_seconds"`
	} `json:"requests"`
	Battles *struct {
		IdleTimeoutMinutes int `json:"idle_timeout_minutes"`
	} `json:"battles"`
}

// LoadedConfig is the validated runtime configuration: classes to offer,
// training enemies to seed, the sync cadence handed to clients and the
// server's operational knobs.
type LoadedConfig struct {
	Classes       []Class
	Enemies       []local.Enemy
	ServerAddress string

	Sync syncer.Config

	MinWaitWindow time.Duration
	MaxWaitWindow time.Duration

	BattleIdleTimeout time.Duration
}

// Class returns the class definition by name, case-insensitively.
func (c *LoadedConfig) Class(name string) (Class, bool) {
	for _, cl := range c.Classes {
		if strings.EqualFold(cl.Name, name) {
			return cl, true
		}
	}
	return Class{}, false
}

// LoadConfig reads the configuration file at path and returns the
// validated runtime configuration. It requires the keys `classes` and
// `enemies`; everything else has defaults.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if len(rc.Classes) == 0 {
		return nil, fmt.Errorf("config file %s: classes is empty (provide 'classes' array)", path)
	}
	nameSet := make(map[string]struct{}, len(rc.Classes))
	for _, cl := range rc.Classes {
		if cl.Name == "" {
			return nil, fmt.Errorf("config file %s: class entry missing 'name'", path)
		}
		ln := strings.ToLower(strings.TrimSpace(cl.Name))
		if _, exists := nameSet[ln]; exists {
			return nil, fmt.Errorf("config file %s: duplicate class name '%s'", path, cl.Name)
		}
		nameSet[ln] = struct{}{}
		if cl.MaxHealth <= 0 {
			return nil, fmt.Errorf("config file %s: class '%s' needs a positive max_health", path, cl.Name)
		}
	}

	if len(rc.Enemies) == 0 {
		return nil, fmt.Errorf("config file %s: enemies is empty (provide 'enemies' array)", path)
	}
	enemies := make([]local.Enemy, 0, len(rc.Enemies))
	enemySet := make(map[string]struct{}, len(rc.Enemies))
	for _, e := range rc.Enemies {
		if e.Name == "" {
			return nil, fmt.Errorf("config file %s: enemy entry missing 'name'", path)
		}
		ln := strings.ToLower(strings.TrimSpace(e.Name))
		if _, exists := enemySet[ln]; exists {
			return nil, fmt.Errorf("config file %s: duplicate enemy name '%s'", path, e.Name)
		}
		enemySet[ln] = struct{}{}
		if e.MaxHealth <= 0 || e.AttackPower <= 0 {
			return nil, fmt.Errorf("config file %s: enemy '%s' needs positive max_health and attack_power", path, e.Name)
		}
		enemies = append(enemies, local.Enemy{
			Fighter: local.Fighter{
				Name:          e.Name,
				Level:         e.Level,
				Class:         e.Class,
				CurrentHealth: e.MaxHealth,
				MaxHealth:     e.MaxHealth,
				AttackPower:   e.AttackPower,
				DefensePower:  e.DefensePower,
			},
			ExperienceValue: e.Experience,
			GoldValue:       e.Gold,
		})
	}

	addr := ":8080"
	if rc.Server != nil && rc.Server.Address != "" {
		addr = rc.Server.Address
	}

	sync := syncer.DefaultConfig()
	if rc.Sync != nil {
		if rc.Sync.SteadyMs > 0 {
			sync.SteadyInterval = time.Duration(rc.Sync.SteadyMs) * time.Millisecond
		}
		if rc.Sync.CriticalMs > 0 {
			sync.CriticalInterval = time.Duration(rc.Sync.CriticalMs) * time.Millisecond
		}
		if rc.Sync.CriticalHealthPercent > 0 {
			sync.CriticalHealthPercent = rc.Sync.CriticalHealthPercent
		}
		if len(rc.Sync.RefetchDelaysMs) > 0 {
			delays := make([]time.Duration, 0, len(rc.Sync.RefetchDelaysMs))
			for _, ms := range rc.Sync.RefetchDelaysMs {
				if ms <= 0 {
					return nil, fmt.Errorf("config file %s: refetch_delays_ms entries must be positive", path)
				}
				delays = append(delays, time.Duration(ms)*time.Millisecond)
			}
			sync.RefetchDelays = delays
		}
	}

	minWait, maxWait := time.Minute, 10*time.Minute
	if rc.Requests != nil {
		if rc.Requests.MinWaitSeconds > 0 {
			minWait = time.Duration(rc.Requests.MinWaitSeconds) * time.Second
		}
		if rc.Requests.MaxWaitSeconds > 0 {
			maxWait = time.Duration(rc.Requests.MaxWaitSeconds) * time.Second
		}
	}
	if maxWait < minWait {
		return nil, fmt.Errorf("config file %s: max_wait_seconds below min_wait_seconds", path)
	}

	idle := 30 * time.Minute
	if rc.Battles != nil && rc.Battles.IdleTimeoutMinutes > 0 {
		idle = time.Duration(rc.Battles.IdleTimeoutMinutes) * time.Minute
	}

	return &LoadedConfig{
		Classes:           rc.Classes,
		Enemies:           enemies,
		ServerAddress:     addr,
		Sync:              sync,
		MinWaitWindow:     minWait,
		MaxWaitWindow:     maxWait,
		BattleIdleTimeout: idle,
	}, nil
}
