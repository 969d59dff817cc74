// Package board はダーツボードの幾何モデルと、座標から得点を求めるヒット判定を提供します。
package board

// 正規化ボード空間の半径。表示サイズはすべて displayRadius / BoardRadius の比率で換算する
const BoardRadius = 50.0

// リング半径（正規化空間）
const (
	OuterRimRadius    = 48.0
	DoubleOuterRadius = 44.0
	DoubleInnerRadius = 38.0
	TripleOuterRadius = 28.0
	TripleInnerRadius = 23.0
	OuterBullRadius   = 10.0
	InnerBullRadius   = 5.0
)

// セクター数と1セクターの角度幅（度）
const (
	SectorCount = 20
	SectorWidth = 360.0 / SectorCount
)

// 得点固定のブル
const (
	InnerBullScore = 50
	OuterBullScore = 25
)

// 上端から時計回りのセクター番号
var sectorSequence = [SectorCount]int{20, 1, 18, 4, 13, 6, 10, 15, 2, 17, 3, 19, 7, 16, 8, 11, 14, 9, 12, 5}

// SectorNumber returns the point value of the sector at index i (0 = top, clockwise).
// Indexes outside 0..19 wrap around.
func SectorNumber(i int) int {
	i %= SectorCount
	if i < 0 {
		i += SectorCount
	}
	return sectorSequence[i]
}

// SectorIndexOf returns the index of the sector worth n points, or -1.
func SectorIndexOf(n int) int {
	for i, s := range sectorSequence {
		if s == n {
			return i
		}
	}
	return -1
}

// Normalize は表示面の長さを正規化ボード空間に換算する。
// surfaceRadius が正でない場合は、値がすでに正規化済みとみなす。
func Normalize(v, surfaceRadius float64) float64 {
	if surfaceRadius <= 0 {
		return v
	}
	return v * (BoardRadius / surfaceRadius)
}
