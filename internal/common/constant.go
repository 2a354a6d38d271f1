package common

import "time"

// AuthorizationHeaderName is the gRPC metadata key carrying the bearer access
// token on protected calls.
const AuthorizationHeaderName = "authorization"

// BearerPrefix is stripped from presented tokens when present.
const BearerPrefix = "Bearer "

// Token lifetimes are part of the external contract and are not configurable.
const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// RefreshTokenType is the tokenType claim value of refresh tokens. Access
// tokens carry no tokenType.
const RefreshTokenType = "refresh"

// GuestDisplayName is the display name of every guest account.
const GuestDisplayName = "guest"
