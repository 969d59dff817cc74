package models

import (
	jwt "github.com/dgrijalva/jwt-go"
)

// 接続してくる端末の役割
const (
	RoleScorer = "Scorer" // 得点を入力できる端末
	RoleViewer = "Viewer" // 表示のみ
)

// MyClaims はJWTクレームの構造体定義です。
type MyClaims struct {
	Role     string `json:"role"`
	Nickname string `json:"nickname"`
	jwt.StandardClaims
}
