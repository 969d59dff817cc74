package board

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Ring はヒットした領域の種類
type Ring string

const (
	RingInnerBull Ring = "inner_bull"
	RingOuterBull Ring = "outer_bull"
	RingTriple    Ring = "triple"
	RingDouble    Ring = "double"
	RingSingle    Ring = "single"
)

// 手入力でブルを指定するときのターゲット名
const (
	TargetBull      = "BULL"
	TargetOuterBull = "OUTER_BULL"
)

var (
	ErrUnknownSector     = errors.New("unknown sector")
	ErrInvalidMultiplier = errors.New("multiplier must be 1, 2 or 3")
	ErrInvalidPosition   = errors.New("pointer position is not finite")
)

// IsInputError は入力値が原因のエラーかどうか。状態は変更されていない
func IsInputError(err error) bool {
	return errors.Is(err, ErrUnknownSector) ||
		errors.Is(err, ErrInvalidMultiplier) ||
		errors.Is(err, ErrInvalidPosition)
}

// CheckPointer reports whether ResolvePointer can place (dx, dy) on the board. Far off-board
// points are fine; only offsets whose normalized distance overflows or is NaN are rejected.
func CheckPointer(dx, dy, surfaceRadius float64) error {
	x := Normalize(dx, surfaceRadius)
	y := Normalize(dy, surfaceRadius)
	d := math.Hypot(x, y)
	if math.IsInf(d, 0) || math.IsNaN(d) {
		return fmt.Errorf("%w: dx=%g dy=%g radius=%g", ErrInvalidPosition, dx, dy, surfaceRadius)
	}
	return nil
}

// 手入力のヒットを描画するときの代表距離（各領域の中央）
const (
	manualInnerBullDistance = 0.0
	manualOuterBullDistance = (InnerBullRadius + OuterBullRadius) / 2
	manualTripleDistance    = (TripleInnerRadius + TripleOuterRadius) / 2
	manualDoubleDistance    = (DoubleInnerRadius + DoubleOuterRadius) / 2
	manualSingleDistance    = (TripleOuterRadius + DoubleInnerRadius) / 2
)

// Hit is the result of resolving one throw. Sector is 0 for bull hits.
// Distance, Angle, SectorIndex, X and Y are diagnostics for display only.
type Hit struct {
	Ring        Ring    `json:"ring"`
	Sector      int     `json:"sector,omitempty"`
	Multiplier  int     `json:"multiplier"`
	Score       int     `json:"score"`
	Distance    float64 `json:"distance"`
	Angle       float64 `json:"angle"`
	SectorIndex int     `json:"sectorIndex"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	OffBoard    bool    `json:"offBoard,omitempty"`
	Manual      bool    `json:"manual,omitempty"`
}

// Label はスコア履歴に残す表記（"T20", "D16", "S5", "BULL", "OUTER BULL"）を返す
func (h Hit) Label() string {
	switch h.Ring {
	case RingInnerBull:
		return "BULL"
	case RingOuterBull:
		return "OUTER BULL"
	case RingTriple:
		return fmt.Sprintf("T%d", h.Sector)
	case RingDouble:
		return fmt.Sprintf("D%d", h.Sector)
	default:
		return fmt.Sprintf("S%d", h.Sector)
	}
}

// ResolvePointer maps an offset (dx, dy) from the board center, measured in the units of a
// surface with the given radius and with dy growing downward, to a Hit.
// Points beyond the outer rim are not rejected: they score by angle with multiplier 1.
func ResolvePointer(dx, dy, surfaceRadius float64) Hit {
	x := Normalize(dx, surfaceRadius)
	y := Normalize(dy, surfaceRadius)
	distance := math.Hypot(x, y)
	angle := AngleFromTop(x, y)

	switch {
	case distance <= InnerBullRadius:
		return bullHit(RingInnerBull, distance, angle)
	case distance <= OuterBullRadius:
		return bullHit(RingOuterBull, distance, angle)
	}

	index := SectorIndex(angle)
	multiplier := MultiplierAt(distance)
	hit := sectorHit(index, multiplier, distance, angle)
	hit.OffBoard = distance > OuterRimRadius
	return hit
}

// ResolveManual builds a Hit from an explicit selection. target is "1".."20", "BULL" or
// "OUTER_BULL"; the multiplier is ignored for bulls.
func ResolveManual(target string, multiplier int) (Hit, error) {
	var hit Hit
	switch t := strings.ToUpper(strings.TrimSpace(target)); t {
	case TargetBull:
		hit = bullHit(RingInnerBull, manualInnerBullDistance, 0)
	case TargetOuterBull:
		hit = bullHit(RingOuterBull, manualOuterBullDistance, 0)
	default:
		sector, err := strconv.Atoi(t)
		if err != nil {
			return Hit{}, fmt.Errorf("%w: %q", ErrUnknownSector, target)
		}
		index := SectorIndexOf(sector)
		if index < 0 {
			return Hit{}, fmt.Errorf("%w: %q", ErrUnknownSector, target)
		}
		if multiplier < 1 || multiplier > 3 {
			return Hit{}, fmt.Errorf("%w: got %d", ErrInvalidMultiplier, multiplier)
		}
		hit = sectorHit(index, multiplier, manualDistance(multiplier), float64(index)*SectorWidth)
	}
	hit.Manual = true
	return hit, nil
}

// AngleFromTop converts an offset with a downward y axis into degrees clockwise from the
// board top, in [0, 360).
func AngleFromTop(dx, dy float64) float64 {
	raw := math.Atan2(dy, dx) * 180 / math.Pi
	return math.Mod(raw+90+360, 360)
}

// SectorIndex picks the sector whose center is nearest to angle. Exact half-sector angles
// round away from zero.
func SectorIndex(angle float64) int {
	i := int(math.Round(angle/SectorWidth)) % SectorCount
	if i < 0 {
		i += SectorCount
	}
	return i
}

// MultiplierAt は距離だけで倍率を決める。リングの境界は両端を含む
func MultiplierAt(distance float64) int {
	switch {
	case distance >= TripleInnerRadius && distance <= TripleOuterRadius:
		return 3
	case distance >= DoubleInnerRadius && distance <= DoubleOuterRadius:
		return 2
	default:
		return 1
	}
}

func bullHit(ring Ring, distance, angle float64) Hit {
	score := InnerBullScore
	if ring == RingOuterBull {
		score = OuterBullScore
	}
	x, y := boardPosition(distance, angle)
	return Hit{
		Ring:        ring,
		Multiplier:  1,
		Score:       score,
		Distance:    distance,
		Angle:       angle,
		SectorIndex: -1,
		X:           x,
		Y:           y,
	}
}

func sectorHit(index, multiplier int, distance, angle float64) Hit {
	sector := SectorNumber(index)
	x, y := boardPosition(distance, angle)
	return Hit{
		Ring:        ringFor(multiplier),
		Sector:      sector,
		Multiplier:  multiplier,
		Score:       sector * multiplier,
		Distance:    distance,
		Angle:       angle,
		SectorIndex: index,
		X:           x,
		Y:           y,
	}
}

func ringFor(multiplier int) Ring {
	switch multiplier {
	case 3:
		return RingTriple
	case 2:
		return RingDouble
	default:
		return RingSingle
	}
}

func manualDistance(multiplier int) float64 {
	switch multiplier {
	case 3:
		return manualTripleDistance
	case 2:
		return manualDoubleDistance
	default:
		return manualSingleDistance
	}
}

// 正規化空間での表示座標。表示側はyが下向きなので符号を反転する
func boardPosition(distance, angle float64) (float64, float64) {
	theta := (90 - angle) * math.Pi / 180
	return BoardRadius + distance*math.Cos(theta), BoardRadius - distance*math.Sin(theta)
}
