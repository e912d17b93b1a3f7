package http

import (
	"github.com/repairtrack-api/internal/infrastructure/dynamo"
	"github.com/repairtrack-api/internal/infrastructure/identity"
	jwtinfra "github.com/repairtrack-api/internal/infrastructure/jwt"
	s3infra "github.com/repairtrack-api/internal/infrastructure/s3"
	"github.com/repairtrack-api/internal/infrastructure/sns"
	"github.com/repairtrack-api/internal/push/apns"
	"github.com/repairtrack-api/internal/push/fcm"
)

// Deps holds all infrastructure dependencies for the router. Everything is
// constructed in main and injected so handlers and services never reach for
// process-wide client instances.
type Deps struct {
	UserRepo     *dynamo.UserRepo
	RepairRepo   *dynamo.RepairRepo
	Identity     *identity.Client
	FCMClient    *fcm.Client
	APNSProvider *apns.Provider
	S3Store      *s3infra.Store
	SMSSender    sns.SMSSender
	JWTProvider  *jwtinfra.Provider
}
