package gate

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"adiwals/cinegate-api/internal/model"

	"github.com/jellydator/ttlcache/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestGate(t *testing.T) *Gate {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.VerifySettings{},
		&model.SessionLedger{},
		&model.VerifyToken{},
	)
	require.NoError(t, err)

	zone, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	cache := ttlcache.NewCache()
	cache.SetTTL(30 * time.Second)
	cache.SkipTTLExtensionOnHit(true)

	return &Gate{
		db:    db,
		zone:  zone,
		cache: cache,
		now:   time.Now,
	}
}

// freeze pins the gate's clock to a settable instant.
func freeze(g *Gate, at time.Time) *time.Time {
	cur := at
	g.now = func() time.Time { return cur }
	return &cur
}

func TestSettingsDefaultsSeeded(t *testing.T) {
	g := newTestGate(t)

	s := g.Settings()
	assert.True(t, s.Enabled)
	assert.Equal(t, 3, s.FreeLimit)
	assert.Equal(t, 1440, s.ValidMinutes)

	// The first read must leave a persistent row behind
	var row model.VerifySettings
	require.NoError(t, g.db.First(&row, 1).Error)
	assert.Equal(t, 3, row.FreeLimit)
}

func TestUpdateSettingsClampsAndInvalidates(t *testing.T) {
	g := newTestGate(t)

	require.NoError(t, g.UpdateSettings(false, -5, -1))

	s := g.Settings()
	assert.False(t, s.Enabled)
	assert.Equal(t, 0, s.FreeLimit)
	assert.Equal(t, 0, s.ValidMinutes)

	require.NoError(t, g.UpdateSettings(true, 2, 60))

	s = g.Settings()
	assert.True(t, s.Enabled)
	assert.Equal(t, 2, s.FreeLimit)
	assert.Equal(t, 60, s.ValidMinutes)
}

func TestFreeClicksThenGated(t *testing.T) {
	g := newTestGate(t)

	for i := range 3 {
		d := g.Check("sess-1")
		assert.False(t, d.Gated, "click %d should be free", i+1)
		assert.Equal(t, ReasonFree, d.Reason)
		assert.Equal(t, i, d.FreeUsed)

		g.ConsumeFree("sess-1")
	}

	d := g.Check("sess-1")
	assert.True(t, d.Gated)
	assert.Equal(t, ReasonGated, d.Reason)
	assert.Equal(t, 3, d.FreeUsed)

	// Other sessions keep their own allowance
	d = g.Check("sess-2")
	assert.False(t, d.Gated)
	assert.Equal(t, 0, d.FreeUsed)
}

func TestDayRolloverResetsLedger(t *testing.T) {
	g := newTestGate(t)
	cur := freeze(g, time.Date(2026, 1, 5, 10, 0, 0, 0, g.zone))

	for range 3 {
		g.Check("sess-1")
		g.ConsumeFree("sess-1")
	}
	require.True(t, g.Check("sess-1").Gated)

	*cur = cur.Add(24 * time.Hour)

	d := g.Check("sess-1")
	assert.False(t, d.Gated)
	assert.Equal(t, ReasonFree, d.Reason)
	assert.Equal(t, 0, d.FreeUsed)

	// The reset must be written back, not just reported
	var row model.SessionLedger
	require.NoError(t, g.db.Where("session_id = ?", "sess-1").First(&row).Error)
	assert.Equal(t, "2026-01-06", row.Day)
	assert.Equal(t, 0, row.FreeUsed)
	assert.Nil(t, row.VerifiedUntil)
}

func TestGracePeriodExpiry(t *testing.T) {
	g := newTestGate(t)
	cur := freeze(g, time.Date(2026, 1, 5, 10, 0, 0, 0, g.zone))

	require.NoError(t, g.UpdateSettings(true, 1, 30))

	g.Check("sess-1")
	g.ConsumeFree("sess-1")
	require.True(t, g.Check("sess-1").Gated)

	g.MarkVerified("sess-1")

	d := g.Check("sess-1")
	assert.False(t, d.Gated)
	assert.Equal(t, ReasonVerified, d.Reason)
	require.NotNil(t, d.VerifiedUntil)
	assert.Equal(t, cur.Add(30*time.Minute).Unix(), d.VerifiedUntil.Unix())

	*cur = cur.Add(31 * time.Minute)

	d = g.Check("sess-1")
	assert.True(t, d.Gated)
	assert.Equal(t, ReasonGated, d.Reason)
}

func TestGraceUntilMidnightWhenMinutesZero(t *testing.T) {
	g := newTestGate(t)
	cur := freeze(g, time.Date(2026, 1, 5, 22, 0, 0, 0, g.zone))

	require.NoError(t, g.UpdateSettings(true, 0, 0))

	require.True(t, g.Check("sess-1").Gated)

	g.MarkVerified("sess-1")

	d := g.Check("sess-1")
	assert.False(t, d.Gated)
	require.NotNil(t, d.VerifiedUntil)

	midnight := time.Date(2026, 1, 6, 0, 0, 0, 0, g.zone)
	assert.Equal(t, midnight.Unix(), d.VerifiedUntil.Unix())

	// Past midnight the rollover clears the grace along with the counter
	*cur = midnight.Add(time.Minute)

	d = g.Check("sess-1")
	assert.True(t, d.Gated)
}

func TestGraceAcrossMidnightResetsAllowance(t *testing.T) {
	g := newTestGate(t)
	cur := freeze(g, time.Date(2026, 1, 5, 23, 50, 0, 0, g.zone))

	require.NoError(t, g.UpdateSettings(true, 3, 30))

	for range 3 {
		g.Check("sess-1")
		g.ConsumeFree("sess-1")
	}
	require.True(t, g.Check("sess-1").Gated)

	token, err := g.IssueToken("sess-1", "/watch/abc")
	require.NoError(t, err)

	// The shortlink round trip finishes after midnight
	*cur = time.Date(2026, 1, 6, 0, 5, 0, 0, g.zone)

	row, ok := g.RedeemToken(token)
	require.True(t, ok)
	g.MarkVerified(row.SessionID)

	d := g.Check("sess-1")
	assert.False(t, d.Gated)
	assert.Equal(t, ReasonVerified, d.Reason)

	// Granting grace must not drag yesterday's count into the new day
	var ledger model.SessionLedger
	require.NoError(t, g.db.Where("session_id = ?", "sess-1").First(&ledger).Error)
	assert.Equal(t, "2026-01-06", ledger.Day)
	assert.Equal(t, 0, ledger.FreeUsed)

	// Past the grace the session gets its fresh daily allowance
	*cur = cur.Add(31 * time.Minute)

	d = g.Check("sess-1")
	assert.False(t, d.Gated)
	assert.Equal(t, ReasonFree, d.Reason)
	assert.Equal(t, 0, d.FreeUsed)
}

func TestDisabledGateAllowsEverything(t *testing.T) {
	g := newTestGate(t)

	require.NoError(t, g.UpdateSettings(false, 0, 0))

	for range 10 {
		d := g.Check("sess-1")
		assert.False(t, d.Gated)
		assert.Equal(t, ReasonDisabled, d.Reason)
	}
}

func TestTokenRedeemedOnce(t *testing.T) {
	g := newTestGate(t)

	token, err := g.IssueToken("sess-1", "/watch/abc?x=1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	row, ok := g.RedeemToken(token)
	require.True(t, ok)
	assert.Equal(t, "sess-1", row.SessionID)
	assert.Equal(t, "/watch/abc?x=1", row.Next)

	_, ok = g.RedeemToken(token)
	assert.False(t, ok)
}

func TestRedeemUnknownToken(t *testing.T) {
	g := newTestGate(t)

	_, ok := g.RedeemToken("no-such-token")
	assert.False(t, ok)
}

func TestFailOpenWhenStoreUnavailable(t *testing.T) {
	g := newTestGate(t)

	sqlDB, err := g.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	d := g.Check("sess-1")
	assert.False(t, d.Gated)
	assert.Equal(t, ReasonFailOpen, d.Reason)
}
