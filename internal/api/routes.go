package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api")
	{
		api.POST("/analyze", handler.Analyze)
		api.GET("/strategies", handler.GetStrategies)

		api.POST("/deals", handler.CreateDeal)
		api.GET("/deals", handler.GetAllDeals)
		api.POST("/deals/batch", handler.QueueDeals)
		api.GET("/deals/map", handler.GetDealMap)
		api.GET("/deals/stats", handler.GetDealStats)
		api.GET("/deals/:id", handler.GetDeal)
		api.PUT("/deals/:id", handler.UpdateDeal)
		api.DELETE("/deals/:id", handler.DeleteDeal)

		api.GET("/tax-profiles", handler.GetTaxProfiles)
		api.PUT("/tax-profiles", handler.UpdateTaxProfile)
		api.DELETE("/tax-profiles/:name", handler.DeleteTaxProfile)
	}
}
