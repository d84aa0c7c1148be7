package model

import "github.com/golang-jwt/jwt"

// UserClaims is the JWT payload issued by the external session service.
// Issuer carries the local user id.
type UserClaims struct {
	UserName string `json:"user_name"`
	jwt.StandardClaims
}
