package router

import (
	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/interfaces/http/handler"
	"github.com/crm/backend/internal/interfaces/http/middleware"
)

// Handlers bundles every HTTP handler mounted under the versioned API
type Handlers struct {
	System       *handler.SystemHandler
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Customer     *handler.CustomerHandler
	Lead         *handler.LeadHandler
	Activity     *handler.ActivityHandler
	Deal         *handler.DealHandler
	Followup     *handler.FollowupHandler
	Opportunity  *handler.OpportunityHandler
	Ticket       *handler.TicketHandler
	Campaign     *handler.CampaignHandler
	Notification *handler.NotificationHandler
	Integration  *handler.IntegrationHandler
	Analytics    *handler.AnalyticsHandler
	Workflow     *handler.WorkflowHandler
}

// DomainGroups builds the route table of every bounded context
func DomainGroups(h Handlers) []*DomainGroup {
	return []*DomainGroup{
		authRoutes(h),
		customerRoutes(h),
		leadRoutes(h),
		activityRoutes(h),
		noteRoutes(h),
		dealRoutes(h),
		followupRoutes(h),
		opportunityRoutes(h),
		ticketRoutes(h),
		campaignRoutes(h),
		notificationRoutes(h),
		integrationRoutes(h),
		analyticsRoutes(h),
		reportRoutes(h),
		workflowRoutes(h),
		systemRoutes(h),
	}
}

func authRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("auth", "/auth")
	g.POST("/register", h.Auth.Register)
	g.POST("/login", h.Auth.Login)
	g.POST("/refresh", h.Auth.Refresh)
	g.POST("/logout", h.Auth.Logout)
	g.GET("/me", h.Auth.Me)
	g.PUT("/me", h.Auth.UpdateProfile)
	g.PUT("/password", h.Auth.ChangePassword)

	canRead := middleware.RequirePermission(identity.PermUserRead)
	canManage := middleware.RequirePermission(identity.PermUserManage)
	g.GET("/users", canRead, h.User.List)
	g.GET("/users/:id", canRead, h.User.GetByID)
	g.PUT("/users/:id/roles", canManage, h.User.SetRoles)
	g.POST("/users/:id/enable", canManage, h.User.Enable)
	g.POST("/users/:id/disable", canManage, h.User.Disable)
	g.GET("/roles", canRead, h.User.ListRoles)
	g.GET("/roles/permissions", canRead, h.User.ListPermissions)
	return g
}

func customerRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("customer", "/customers")
	g.POST("", h.Customer.Create)
	g.GET("", h.Customer.List)
	g.GET("/search", h.Customer.Search)
	g.GET("/count", h.Customer.Count)
	g.GET("/status/:status", h.Customer.ListByStatus)
	g.GET("/:id", h.Customer.GetByID)
	g.GET("/:id/exists", h.Customer.Exists)
	g.PUT("/:id", h.Customer.Update)
	g.DELETE("/:id", h.Customer.Delete)
	return g
}

func leadRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("lead", "/leads")
	g.POST("", h.Lead.Create)
	g.GET("", h.Lead.List)
	g.GET("/count", h.Lead.Count)
	g.GET("/high-score", h.Lead.ListHighScore)
	g.GET("/status/:status", h.Lead.ListByStatus)
	g.GET("/assignee/:user_id", h.Lead.ListByAssignee)
	g.GET("/:id", h.Lead.GetByID)
	g.GET("/:id/history", h.Lead.History)
	g.PUT("/:id", h.Lead.Update)
	g.PATCH("/:id/status", h.Lead.UpdateStatus)
	g.POST("/:id/convert", h.Lead.Convert)
	g.DELETE("/:id", h.Lead.Delete)
	return g
}

func activityRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("activity", "/activities")
	g.POST("", h.Activity.CreateActivity)
	g.GET("/customer/:id", h.Activity.ListByCustomer)
	g.GET("/lead/:id", h.Activity.ListByLead)
	g.DELETE("/:id", h.Activity.DeleteActivity)
	return g
}

func noteRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("note", "/notes")
	g.POST("", h.Activity.CreateNote)
	g.GET("/customer/:id", h.Activity.ListNotes)
	g.PUT("/:id", h.Activity.UpdateNote)
	g.DELETE("/:id", h.Activity.DeleteNote)
	return g
}

func dealRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("deal", "/deals")
	g.POST("", h.Deal.Create)
	g.GET("", h.Deal.List)
	g.GET("/count", h.Deal.Count)
	g.GET("/search", h.Deal.Search)
	g.GET("/pipeline", h.Deal.Pipeline)
	g.GET("/pipeline/value", h.Deal.PipelineValue)
	g.GET("/stage/:stage", h.Deal.ListByStage)
	g.GET("/customer/:id", h.Deal.ListByCustomer)
	g.GET("/assignee/:user_id", h.Deal.ListByAssignee)
	g.GET("/:id", h.Deal.GetByID)
	g.PUT("/:id", h.Deal.Update)
	g.PATCH("/:id/stage", h.Deal.UpdateStage)
	g.DELETE("/:id", h.Deal.Delete)
	return g
}

func followupRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("followup", "/followups")
	g.POST("", h.Followup.Create)
	g.GET("/pending", h.Followup.ListPending)
	g.GET("/mine", h.Followup.ListMine)
	g.GET("/deal/:id", h.Followup.ListByDeal)
	g.POST("/:id/complete", h.Followup.Complete)
	g.DELETE("/:id", h.Followup.Delete)
	return g
}

func opportunityRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("opportunity", "/opportunities")
	g.POST("", h.Opportunity.Create)
	g.GET("", h.Opportunity.List)
	g.GET("/high-probability", h.Opportunity.ListHighProbability)
	g.GET("/status/:status", h.Opportunity.ListByStatus)
	g.GET("/customer/:id", h.Opportunity.ListByCustomer)
	g.GET("/:id", h.Opportunity.GetByID)
	g.PUT("/:id", h.Opportunity.Update)
	g.PATCH("/:id/status", h.Opportunity.UpdateStatus)
	g.DELETE("/:id", h.Opportunity.Delete)
	return g
}

func ticketRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("ticket", "/tickets")
	g.POST("", h.Ticket.Create)
	g.GET("", h.Ticket.List)
	g.GET("/count", h.Ticket.Count)
	g.GET("/status/:status", h.Ticket.ListByStatus)
	g.GET("/priority/:priority", h.Ticket.ListByPriority)
	g.GET("/customer/:id", h.Ticket.ListByCustomer)
	g.GET("/assignee/:user_id", h.Ticket.ListByAssignee)
	g.GET("/:id", h.Ticket.GetByID)
	g.PUT("/:id", h.Ticket.Update)
	g.PATCH("/:id/status", h.Ticket.UpdateStatus)
	g.PATCH("/:id/assign", h.Ticket.Assign)
	g.DELETE("/:id", h.Ticket.Delete)
	g.POST("/:id/responses", h.Ticket.AddResponse)
	g.GET("/:id/responses", h.Ticket.ListResponses)
	return g
}

func campaignRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("campaign", "/campaigns")
	g.POST("", h.Campaign.Create)
	g.GET("", h.Campaign.List)
	g.GET("/status/:status", h.Campaign.ListByStatus)
	g.GET("/:id", h.Campaign.GetByID)
	g.PUT("/:id", h.Campaign.Update)
	g.PATCH("/:id/status", h.Campaign.UpdateStatus)
	g.POST("/:id/metrics", h.Campaign.RecordMetrics)
	g.DELETE("/:id", h.Campaign.Delete)

	templates := g.Group("template", "/templates")
	templates.GET("", h.Campaign.ListTemplates)
	templates.POST("", h.Campaign.CreateTemplate)
	templates.PUT("/:id", h.Campaign.UpdateTemplate)
	templates.DELETE("/:id", h.Campaign.DeleteTemplate)
	templates.POST("/:id/render", h.Campaign.RenderTemplate)

	segments := g.Group("segment", "/segments")
	segments.GET("", h.Campaign.ListSegments)
	segments.POST("", h.Campaign.CreateSegment)
	segments.GET("/:id", h.Campaign.GetSegment)
	segments.PUT("/:id", h.Campaign.UpdateSegment)
	segments.DELETE("/:id", h.Campaign.DeleteSegment)
	segments.POST("/:id/evaluate", h.Campaign.EvaluateSegment)
	return g
}

func notificationRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("notification", "/notifications")
	g.POST("", h.Notification.Create)
	g.GET("", h.Notification.ListMine)
	g.GET("/unread", h.Notification.ListUnread)
	g.GET("/unread/count", h.Notification.UnreadCount)
	g.PATCH("/read-all", h.Notification.MarkAllRead)
	g.PATCH("/:id/read", h.Notification.MarkRead)
	g.DELETE("/:id", h.Notification.Delete)
	return g
}

func integrationRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("integration", "/integrations")
	g.GET("/status", h.Integration.Status)
	g.POST("/email", h.Integration.SendEmail)
	g.POST("/webhook", h.Integration.SendWebhook)
	return g
}

func analyticsRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("analytics", "/analytics")
	g.GET("/dashboard", h.Analytics.Dashboard)
	g.DELETE("/dashboard/cache", h.Analytics.InvalidateDashboard)
	return g
}

func reportRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("report", "/reports")
	g.POST("", h.Analytics.CreateReport)
	g.GET("", h.Analytics.ListReports)
	g.GET("/:id", h.Analytics.GetReport)
	g.PUT("/:id", h.Analytics.UpdateReport)
	g.DELETE("/:id", h.Analytics.DeleteReport)
	g.POST("/:id/generate", h.Analytics.GenerateReport)
	g.POST("/:id/export", h.Analytics.ExportReport)
	return g
}

func workflowRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("workflow", "/workflows")
	canRead := middleware.RequireAnyPermission(identity.PermWorkflowRead, identity.PermWorkflowManage)
	canManage := middleware.RequirePermission(identity.PermWorkflowManage)

	g.POST("/rules", canManage, h.Workflow.CreateRule)
	g.GET("/rules", canRead, h.Workflow.ListRules)
	g.GET("/rules/:id", canRead, h.Workflow.GetRule)
	g.PUT("/rules/:id", canManage, h.Workflow.UpdateRule)
	g.PATCH("/rules/:id/toggle", canManage, h.Workflow.ToggleRule)
	g.DELETE("/rules/:id", canManage, h.Workflow.DeleteRule)

	g.POST("/actions", canManage, h.Workflow.CreateAction)
	g.GET("/actions", canRead, h.Workflow.ListActions)
	g.DELETE("/actions/:id", canManage, h.Workflow.DeleteAction)

	g.GET("/logs", canRead, h.Workflow.RecentLogs)
	g.GET("/logs/rule/:id", canRead, h.Workflow.LogsByRule)
	g.GET("/logs/entity/:entity_type/:entity_id", canRead, h.Workflow.LogsByEntity)

	g.POST("/trigger", canManage, h.Workflow.Trigger)
	return g
}

func systemRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("system", "/system")
	g.GET("/info", h.System.GetSystemInfo)
	g.GET("/ping", h.System.Ping)
	return g
}
