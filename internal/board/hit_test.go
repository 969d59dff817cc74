package board

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePointerTopTriple(t *testing.T) {
	hit := ResolvePointer(0, -25, BoardRadius)

	assert.Equal(t, 20, hit.Sector)
	assert.Equal(t, 3, hit.Multiplier)
	assert.Equal(t, 60, hit.Score)
	assert.Equal(t, RingTriple, hit.Ring)
	assert.Equal(t, 0, hit.SectorIndex)
	assert.InDelta(t, 50, hit.X, 1e-9)
	assert.InDelta(t, 25, hit.Y, 1e-9)
	assert.Equal(t, "T20", hit.Label())
}

func TestResolvePointerCenterIsInnerBull(t *testing.T) {
	hit := ResolvePointer(0, 0, BoardRadius)

	assert.Equal(t, RingInnerBull, hit.Ring)
	assert.Equal(t, 50, hit.Score)
	assert.Equal(t, 1, hit.Multiplier)
	assert.Zero(t, hit.Sector)
	assert.Equal(t, -1, hit.SectorIndex)
	assert.Equal(t, "BULL", hit.Label())
}

func TestResolvePointerBullPrecedence(t *testing.T) {
	// 軸上の境界値はちょうど半径に一致する
	assert.Equal(t, 50, ResolvePointer(InnerBullRadius, 0, BoardRadius).Score)
	assert.Equal(t, 25, ResolvePointer(0, OuterBullRadius, BoardRadius).Score)

	for deg := 0.0; deg < 360; deg += 7.5 {
		rad := deg * math.Pi / 180
		inner := ResolvePointer(4.99*math.Cos(rad), 4.99*math.Sin(rad), BoardRadius)
		assert.Equal(t, 50, inner.Score, "angle %v", deg)
		assert.Equal(t, 1, inner.Multiplier)

		outer := ResolvePointer(9.99*math.Cos(rad), 9.99*math.Sin(rad), BoardRadius)
		assert.Equal(t, 25, outer.Score, "angle %v", deg)
		assert.Equal(t, RingOuterBull, outer.Ring)

		past := ResolvePointer(5.01*math.Cos(rad), 5.01*math.Sin(rad), BoardRadius)
		assert.Equal(t, 25, past.Score, "angle %v", deg)
	}
}

func TestResolvePointerScalesSurface(t *testing.T) {
	hit := ResolvePointer(0, -100, 200)
	assert.Equal(t, 60, hit.Score)
	assert.InDelta(t, 25, hit.Distance, 1e-9)
}

func TestResolvePointerCompassPoints(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy float64
		sector int
	}{
		{"top", 0, -33, 20},
		{"right", 33, 0, 6},
		{"bottom", 0, 33, 3},
		{"left", -33, 0, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit := ResolvePointer(tt.dx, tt.dy, BoardRadius)
			assert.Equal(t, tt.sector, hit.Sector)
			assert.Equal(t, 1, hit.Multiplier)
			assert.Equal(t, tt.sector, hit.Score)
		})
	}
}

func TestResolvePointerRingBoundsInclusive(t *testing.T) {
	tests := []struct {
		distance   float64
		multiplier int
		offBoard   bool
	}{
		{22.9, 1, false},
		{TripleInnerRadius, 3, false},
		{TripleOuterRadius, 3, false},
		{28.1, 1, false},
		{DoubleInnerRadius, 2, false},
		{DoubleOuterRadius, 2, false},
		{46, 1, false},
		{OuterRimRadius, 1, false},
		{60, 1, true},
	}

	for _, tt := range tests {
		hit := ResolvePointer(0, -tt.distance, BoardRadius)
		assert.Equal(t, 20, hit.Sector, "distance %v", tt.distance)
		assert.Equal(t, tt.multiplier, hit.Multiplier, "distance %v", tt.distance)
		assert.Equal(t, 20*tt.multiplier, hit.Score, "distance %v", tt.distance)
		assert.Equal(t, tt.offBoard, hit.OffBoard, "distance %v", tt.distance)
	}
}

func TestSectorIndexRoundsHalfAwayFromZero(t *testing.T) {
	assert.Equal(t, 0, SectorIndex(0))
	assert.Equal(t, 0, SectorIndex(8.999))
	assert.Equal(t, 1, SectorIndex(9))
	assert.Equal(t, 2, SectorIndex(27))
	assert.Equal(t, 19, SectorIndex(350.999))
	assert.Equal(t, 0, SectorIndex(351))
	assert.Equal(t, 0, SectorIndex(359.9))

	assert.Equal(t, 1, SectorNumber(SectorIndex(9)))
	assert.Equal(t, 18, SectorNumber(SectorIndex(27)))
	assert.Equal(t, 20, SectorNumber(SectorIndex(351)))
}

func TestResolvePointerScoreIsSectorTimesMultiplier(t *testing.T) {
	for deg := 0.0; deg < 360; deg += 3 {
		rad := deg * math.Pi / 180
		for d := 10.5; d <= 55; d += 0.5 {
			hit := ResolvePointer(d*math.Sin(rad), -d*math.Cos(rad), BoardRadius)
			require.NotZero(t, hit.Sector)
			assert.Equal(t, hit.Sector*hit.Multiplier, hit.Score)
			assert.Equal(t, MultiplierAt(hit.Distance), hit.Multiplier)
			assert.Equal(t, SectorNumber(SectorIndex(hit.Angle)), hit.Sector)
		}
	}
}

func TestResolveManual(t *testing.T) {
	hit, err := ResolveManual("20", 3)
	require.NoError(t, err)
	assert.Equal(t, 60, hit.Score)
	assert.Equal(t, RingTriple, hit.Ring)
	assert.True(t, hit.Manual)
	assert.InDelta(t, 50, hit.X, 1e-9)
	assert.InDelta(t, BoardRadius-manualTripleDistance, hit.Y, 1e-9)

	bull, err := ResolveManual("bull", 3)
	require.NoError(t, err)
	assert.Equal(t, 50, bull.Score)
	assert.Equal(t, 1, bull.Multiplier)
	assert.Zero(t, bull.Sector)

	outer, err := ResolveManual(TargetOuterBull, 1)
	require.NoError(t, err)
	assert.Equal(t, 25, outer.Score)
	assert.Equal(t, "OUTER BULL", outer.Label())
}

func TestResolveManualRejectsBadInput(t *testing.T) {
	_, err := ResolveManual("21", 1)
	assert.ErrorIs(t, err, ErrUnknownSector)

	_, err = ResolveManual("treble", 1)
	assert.ErrorIs(t, err, ErrUnknownSector)

	_, err = ResolveManual("5", 4)
	assert.ErrorIs(t, err, ErrInvalidMultiplier)

	_, err = ResolveManual("5", 0)
	assert.ErrorIs(t, err, ErrInvalidMultiplier)
}

func TestManualHitLandsWhereItScores(t *testing.T) {
	for sector := 1; sector <= 20; sector++ {
		for multiplier := 1; multiplier <= 3; multiplier++ {
			manual, err := ResolveManual(strconv.Itoa(sector), multiplier)
			require.NoError(t, err)

			pointer := ResolvePointer(manual.X-BoardRadius, manual.Y-BoardRadius, BoardRadius)
			assert.Equal(t, manual.Score, pointer.Score, "sector %d x%d", sector, multiplier)
			assert.Equal(t, manual.Label(), pointer.Label())
		}
	}
}

func TestHitLabel(t *testing.T) {
	assert.Equal(t, "D16", Hit{Ring: RingDouble, Sector: 16}.Label())
	assert.Equal(t, "S5", Hit{Ring: RingSingle, Sector: 5}.Label())
}

func TestCheckPointer(t *testing.T) {
	assert.NoError(t, CheckPointer(0, -25, BoardRadius))
	assert.NoError(t, CheckPointer(1e6, 1e6, 50), "far off-board still scores")
	assert.NoError(t, CheckPointer(3, 4, 0), "already normalized")

	for _, tt := range []struct{ dx, dy, radius float64 }{
		{3, 4, 5e-324},
		{1e308, 1e308, 1},
		{math.Inf(1), 0, 50},
		{math.NaN(), 0, 50},
	} {
		err := CheckPointer(tt.dx, tt.dy, tt.radius)
		assert.ErrorIs(t, err, ErrInvalidPosition, "%v", tt)
		assert.True(t, IsInputError(err))
	}

	assert.True(t, IsInputError(ErrUnknownSector))
	assert.True(t, IsInputError(ErrInvalidMultiplier))
	assert.False(t, IsInputError(nil))
}
