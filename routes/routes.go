package routes

import (
	"github.com/gin-gonic/gin"
	"orbita/backend/config"
	"orbita/backend/controllers"
	"orbita/backend/database"
	"orbita/backend/middlewares"
)

func Register(r *gin.Engine, cfg config.Config) {
	taxStore := database.PGTaxInfoStore{}

	// Public
	r.POST("/api/auth/register", controllers.Register(cfg))
	r.POST("/api/auth/login", controllers.Login(cfg))

	priv := r.Group("/")
	priv.Use(middlewares.Auth(cfg.JWTSecret))
	{
		priv.GET("api/v1/auth/me", controllers.Me())

		// Onboarding wizard
		priv.GET("api/v1/auth/onboarding/status", controllers.OnboardingStatus())
		priv.PATCH("api/v1/auth/onboarding/profile", controllers.OnboardingProfile())
		priv.POST("auth/onboarding/save-all", controllers.OnboardingSaveAll())
		priv.POST("api/v1/auth/onboarding/complete", controllers.OnboardingComplete())

		// Uploads (multipart, field 'file')
		priv.POST("users/me/upload-image", controllers.UploadUserImage(cfg))
		priv.POST("organizations/:id/upload-logo", controllers.UploadOrgLogo(cfg))

		// Fiscal / tax info
		priv.GET("api/v1/fiscal/tax-info", controllers.TaxInfoGet(taxStore))
		priv.POST("api/v1/fiscal/tax-info", controllers.TaxInfoCreate(taxStore))
		priv.PUT("api/v1/fiscal/tax-info", controllers.TaxInfoUpdate(taxStore))
		priv.GET("api/v1/fiscal/brazilian-states", controllers.ListBrazilianStates())
		priv.GET("api/v1/fiscal/brazilian-cities/:stateCode", controllers.ListBrazilianCities(cfg))
		priv.GET("api/v1/fiscal/validate-cpf-cnpj/:value", controllers.ValidateCpfCnpj())

		// Organizations, members, invitations
		priv.GET("api/v1/organizations", controllers.ListOrganizations())
		priv.POST("api/v1/organizations", controllers.CreateOrganization())
		priv.GET("api/v1/organizations/:id", controllers.GetOrganization())
		priv.PUT("api/v1/organizations/:id", controllers.UpdateOrganization())
		priv.DELETE("api/v1/organizations/:id", controllers.DeleteOrganization())
		priv.GET("api/v1/organizations/:id/members", controllers.ListMembers())
		priv.PATCH("api/v1/organizations/:id/members/:userID", controllers.UpdateMemberRole())
		priv.DELETE("api/v1/organizations/:id/members/:userID", controllers.RemoveMember())
		priv.POST("api/v1/organizations/:id/invitations", controllers.CreateInvitation(cfg))
		priv.GET("api/v1/organizations/:id/invitations", controllers.ListInvitations())
		priv.DELETE("api/v1/organizations/:id/invitations/:invID", controllers.RevokeInvitation())
		priv.POST("api/v1/invitations/accept", controllers.AcceptInvitation())

		// Billing
		priv.GET("api/v1/plans", controllers.ListPlans())
		priv.GET("api/v1/subscriptions", controllers.GetSubscription())
		priv.POST("api/v1/subscriptions/checkout", controllers.Checkout(cfg, taxStore))
		priv.POST("api/v1/subscriptions/activate", controllers.ActivateSubscription())
		priv.GET("api/v1/billing/history", controllers.BillingHistory())
		priv.GET("api/v1/billing/history/export", controllers.BillingHistoryExport())

		// AI modules
		priv.POST("api/v1/ai/documents", controllers.DocumentUpload(cfg))
		priv.GET("api/v1/ai/documents", controllers.DocumentList())
		priv.DELETE("api/v1/ai/documents", controllers.DocumentDelete())
		priv.POST("api/v1/ai/chat/send", controllers.ChatSend(cfg))
		priv.POST("api/v1/ai/chat/new", controllers.ChatCreate())
		priv.GET("api/v1/ai/chat", controllers.ChatList())
		priv.GET("api/v1/ai/chat/:id/messages", controllers.ChatGetMessages())
		priv.PUT("api/v1/ai/chat/:id/title", controllers.ChatRename())
		priv.DELETE("api/v1/ai/chat/:id", controllers.ChatDelete())
		priv.POST("api/v1/ai/generate", controllers.Generate(cfg))
		priv.GET("api/v1/ai/generate", controllers.ListGenerations())
		priv.POST("api/v1/ai/analytics/query", controllers.AnalyticsQuery(cfg))

		// Token quotas
		priv.GET("api/v1/tokens/usage", controllers.TokensUsage())
	}
}
