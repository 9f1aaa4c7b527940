package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/clima-laboral-api/api/swagger"
	"github.com/noah-isme/clima-laboral-api/internal/handler"
	"github.com/noah-isme/clima-laboral-api/internal/middleware"
	"github.com/noah-isme/clima-laboral-api/internal/models"
	"github.com/noah-isme/clima-laboral-api/internal/service"
	"github.com/noah-isme/clima-laboral-api/pkg/config"
	"github.com/noah-isme/clima-laboral-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/clima-laboral-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/clima-laboral-api/pkg/middleware/requestid"
)

type routeDeps struct {
	metrics *service.MetricsService
	auth    middleware.TokenValidator
	audit   middleware.AuditRecorder

	survey   *handler.SurveyHandler
	login    *handler.AuthHandler
	stats    *handler.StatsHandler
	history  *handler.HistoryHandler
	timeline *handler.TimelineHandler
	exports  *handler.ExportHandler
	reports  *handler.ReportHandler // nil when reports are disabled
	probes   *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, deps routeDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.metrics, logr, cfg.Log.SlowRequest))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", deps.probes.Health)
	r.GET("/ready", deps.probes.Ready)
	r.GET("/metrics", deps.probes.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.GET("/survey/catalog", deps.survey.Catalog)
	api.POST("/surveys", deps.survey.Submit)
	api.POST("/auth/admin", deps.login.Login)
	if deps.reports != nil {
		api.GET("/export/:token", deps.reports.DownloadReport)
	}

	audit := func(action, resource string) gin.HandlerFunc {
		return middleware.Audit(deps.audit, logr, action, resource)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.JWT(deps.auth), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/stats", deps.stats.Stats)
		admin.GET("/stats/ranking", deps.stats.Ranking)
		admin.GET("/stats/comparison", deps.stats.Comparison)

		admin.GET("/history", deps.history.Get)
		admin.PUT("/history", audit(models.AuditActionHistorySave, "history"), deps.history.Save)
		admin.GET("/history/proposal", deps.history.Proposal)

		admin.GET("/timeline", deps.timeline.Timeline)
		admin.POST("/timeline/archive", audit(models.AuditActionTimelineClose, "timeline"), deps.timeline.Archive)

		admin.GET("/surveys", deps.survey.List)
		admin.GET("/surveys/:id", deps.survey.Get)
		admin.PUT("/surveys/:id", audit(models.AuditActionSurveyUpdate, "survey"), deps.survey.Update)
		admin.DELETE("/surveys/:id", audit(models.AuditActionSurveyDelete, "survey"), deps.survey.Delete)

		admin.GET("/exports/excel", deps.exports.Excel)
		admin.GET("/exports/pdf", deps.exports.PDF)
		admin.GET("/exports/csv", deps.exports.CSV)

		if deps.reports != nil {
			admin.POST("/reports", audit(models.AuditActionReportCreate, "report"), deps.reports.GenerateReport)
			admin.GET("/reports/:id", deps.reports.ReportStatus)
		}

		admin.GET("/metrics/summary", deps.probes.Summary)
	}

	return r
}
