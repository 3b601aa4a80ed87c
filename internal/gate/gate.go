// Package gate implements the verification gate that throttles anonymous
// watch/download clicks. Every browser session gets a daily allowance of
// free clicks; once it runs out the session is sent through the external
// shortlink flow and earns a timed grace period instead.
//
// The gate is a monetization throttle, not a security boundary. Whenever
// the database can't be read or written the gate degrades to allowing the
// click rather than failing the request.
package gate

import (
	"time"

	"github.com/jellydator/ttlcache/v2"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

// Reason names why a gate decision came out the way it did. FailOpen is
// a first-class outcome so tests can assert the degraded path directly.
type Reason string

const (
	ReasonDisabled Reason = "disabled"
	ReasonVerified Reason = "verified"
	ReasonFree     Reason = "free"
	ReasonGated    Reason = "gated"
	ReasonFailOpen Reason = "fail_open"
)

type Settings struct {
	Enabled      bool `json:"enabled"`
	FreeLimit    int  `json:"free_limit"`
	ValidMinutes int  `json:"valid_minutes"`
}

// State is the per-session ledger view for the current day.
type State struct {
	FreeUsed      int        `json:"free_used"`
	VerifiedUntil *time.Time `json:"verified_until"`
}

type Decision struct {
	Gated         bool       `json:"gated"`
	Reason        Reason     `json:"reason"`
	FreeUsed      int        `json:"free_used"`
	FreeLimit     int        `json:"free_limit"`
	VerifiedUntil *time.Time `json:"verified_until,omitempty"`
}

type Gate struct {
	db    *gorm.DB
	zone  *time.Location
	cache *ttlcache.Cache

	// overridable in tests
	now func() time.Time
}

// New builds a gate against the given database. The day-boundary zone is
// read from verification.timezone and must already be validated by
// config.Setup; a bad zone here falls back to UTC instead of failing.
func New(db *gorm.DB) *Gate {
	zone, err := time.LoadLocation(viper.GetString("verification.timezone"))
	if err != nil {
		zone = time.UTC
	}

	ttl := viper.GetDuration("verification.settings_cache_ttl")
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	cache := ttlcache.NewCache()
	cache.SetTTL(ttl)
	cache.SkipTTLExtensionOnHit(true)

	return &Gate{
		db:    db,
		zone:  zone,
		cache: cache,
		now:   time.Now,
	}
}

// Today returns the current calendar date string in the reference zone.
// Day rollover is driven by this value and nothing else, so it stays
// deterministic across deployments regardless of the host's local zone.
func (g *Gate) Today() string {
	return g.now().In(g.zone).Format("2006-01-02")
}

// Check decides whether the next content access for the session must go
// through verification. It is a pure read: callers that let the click
// through call ConsumeFree afterwards, never before, so the Nth click
// can't both spend the last free slot and pass the check.
func (g *Gate) Check(sessionID string) Decision {
	settings, state, _, open := g.State(sessionID)

	d := Decision{
		FreeUsed:      state.FreeUsed,
		FreeLimit:     settings.FreeLimit,
		VerifiedUntil: state.VerifiedUntil,
	}

	switch {
	case !settings.Enabled:
		d.Reason = ReasonDisabled
	case open:
		d.Reason = ReasonFailOpen
	case state.VerifiedUntil != nil && g.now().Before(*state.VerifiedUntil):
		d.Reason = ReasonVerified
	case state.FreeUsed < settings.FreeLimit:
		d.Reason = ReasonFree
	default:
		d.Gated = true
		d.Reason = ReasonGated
	}

	return d
}
