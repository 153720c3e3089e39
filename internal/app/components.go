package app

import (
	"github.com/overtext/splash-server/internal/resolver"
	"github.com/overtext/splash-server/internal/service"
)

// AppComponents groups all application components
//
//nolint:revive // This name is fine
type AppComponents struct {
	// SplashService provides splash business logic
	SplashService service.SplashService

	// Resolver is the cached splash list resolver behind the service
	Resolver *resolver.Resolver
}
