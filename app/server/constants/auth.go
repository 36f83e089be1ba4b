package constants

import "time"

const AuthTokenDuration = 12 * time.Hour

const (
	ErrMissingBearerToken = "Missing bearer token"
	ErrUnauthorizedReq    = "Unauthorized request"
)
