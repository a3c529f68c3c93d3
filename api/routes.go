package api

import (
	"github.com/gin-gonic/gin"

	"github.com/adaudit/adaudit-backend/usecases"
)

func addRoutes(r *gin.Engine, uc usecases.Usecases) {
	r.GET("/liveness", handleLivenessProbe(uc))

	r.POST("/decisions", handlePostDecision(uc))
	r.GET("/decisions", handleListDecisions(uc))
	r.GET("/decisions/:decision_id", handleGetDecision(uc))
	r.PATCH("/decisions/:decision_id", handlePatchDecision(uc))
	r.DELETE("/decisions/:decision_id", handleDeleteDecision(uc))
	r.GET("/decisions/:decision_id/history", handleGetDecisionHistory(uc))
	r.POST("/decisions/:decision_id/approve", handleApproveDecision(uc))
	r.POST("/decisions/:decision_id/rollback", handleRollbackDecision(uc))
	r.POST("/decisions/bulk-approve", handleBulkApproveDecisions(uc))
	r.POST("/decisions/bulk-reject", handleBulkRejectDecisions(uc))

	r.POST("/change-sets", handlePostChangeSet(uc))
	r.GET("/change-sets", handleListChangeSets(uc))
	r.GET("/change-sets/:change_set_id", handleGetChangeSet(uc))
	r.DELETE("/change-sets/:change_set_id", handleDeleteChangeSet(uc))
	r.POST("/change-sets/:change_set_id/decisions", handleAddDecisionsToChangeSet(uc))
	r.DELETE("/change-sets/:change_set_id/decisions/:decision_id", handleRemoveDecisionFromChangeSet(uc))
	r.POST("/change-sets/:change_set_id/approve", handleApproveChangeSet(uc))
	r.GET("/change-sets/:change_set_id/export/preview", handlePreviewChangeSetExport(uc))
	r.POST("/change-sets/:change_set_id/export", handleExportChangeSet(uc))
	r.GET("/change-sets/:change_set_id/export/download", handleDownloadChangeSetExport(uc))
	r.POST("/change-sets/:change_set_id/apply", handleMarkChangeSetApplied(uc))
}
