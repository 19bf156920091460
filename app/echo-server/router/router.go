package router

import (
	"marketSense/internal/middleware"
	"marketSense/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupSessionRoutes(api *echo.Group, handler *rest.SessionHandler) {
	api.POST("/sessions", handler.CreateSession)
}

func SetupActivityRoutes(api *echo.Group, activityHandler *rest.ActivityHandler, analyticsHandler *rest.AnalyticsHandler) {
	activities := api.Group("/activities", middleware.IdentityMiddleware())
	activities.POST("", activityHandler.Record)
	activities.GET("", activityHandler.History)
	activities.DELETE("", analyticsHandler.ClearHistory)
}

func SetupRecoRoutes(api *echo.Group, handler *rest.RecoHandler) {
	reco := api.Group("/recommendations", middleware.IdentityMiddleware())
	reco.GET("", handler.Personalized)
	reco.GET("/similar/:id", handler.Similar)
	reco.GET("/trending", handler.Trending)
	reco.GET("/for-you", handler.ForYou)
	reco.POST("/click", handler.TrackClick)
}

func SetupAnalyticsRoutes(api *echo.Group, handler *rest.AnalyticsHandler) {
	analytics := api.Group("/analytics", middleware.IdentityMiddleware())
	analytics.GET("/dashboard", handler.Dashboard)
	analytics.GET("/interests", handler.Interests)
}
