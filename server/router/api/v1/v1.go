package v1

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/ctparse/internal/profile"
	"github.com/hrygo/ctparse/plugin/ctparse"
)

// APIV1Service serves the v1 JSON API.
type APIV1Service struct {
	Profile     *profile.Profile
	TimeService ctparse.TimeService
	// Languages lists the accepted lang values.
	Languages []string

	// now supplies the reference time when a request omits one.
	now func() time.Time
}

func NewAPIV1Service(profile *profile.Profile, timeService ctparse.TimeService, languages []string) *APIV1Service {
	return &APIV1Service{
		Profile:     profile,
		TimeService: timeService,
		Languages:   languages,
		now:         time.Now,
	}
}

// RegisterRoutes registers the v1 handlers with the given Echo instance.
func (s *APIV1Service) RegisterRoutes(echoServer *echo.Echo, middlewares ...echo.MiddlewareFunc) {
	g := echoServer.Group("/api/v1", middlewares...)
	g.POST("/parse", s.Parse)
	g.GET("/languages", s.ListLanguages)
}
