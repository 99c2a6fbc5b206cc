package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"

	"tradeBack/internal/models"
)

func (app *application) JWTMiddlewareWithRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return app.JWTMiddleware(next, requiredRole)
	}
}

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	authMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(""))
	customerMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(models.RoleCustomer))
	tradesmanMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(models.RoleTradesman))

	mux := pat.New()

	// Users
	mux.Post("/user/sign_up", standardMiddleware.ThenFunc(app.userHandler.SignUp))
	mux.Post("/user/sign_in", standardMiddleware.ThenFunc(app.userHandler.SignIn))
	mux.Post("/user/refresh", standardMiddleware.ThenFunc(app.userHandler.RefreshTokens))
	mux.Get("/user/me", authMiddleware.ThenFunc(app.userHandler.Me))
	mux.Put("/user/me", authMiddleware.ThenFunc(app.userHandler.UpdateProfile))
	mux.Post("/user/me/photo", authMiddleware.ThenFunc(app.userHandler.UploadPhoto))
	mux.Get("/user/:id", authMiddleware.ThenFunc(app.userHandler.GetUserByID))

	// Jobs and search
	mux.Post("/job", authMiddleware.ThenFunc(app.jobHandler.CreateJob))
	mux.Get("/job/mine", authMiddleware.ThenFunc(app.jobHandler.ListMyJobs))
	mux.Get("/job/board", tradesmanMiddleware.ThenFunc(app.jobHandler.OpenJobsBoard))
	mux.Get("/job/:id", authMiddleware.ThenFunc(app.jobHandler.GetJobByID))
	mux.Get("/tradesmen/search", authMiddleware.ThenFunc(app.jobHandler.SearchTradesmen))
	mux.Get("/tradesmen/:id/reviews", authMiddleware.ThenFunc(app.jobHandler.ReviewsForTradesman))

	// Job requests
	mux.Post("/request", customerMiddleware.ThenFunc(app.jobRequestHandler.CreateRequest))
	mux.Get("/request/incoming", tradesmanMiddleware.ThenFunc(app.jobRequestHandler.ListIncoming))
	mux.Get("/request/outgoing", customerMiddleware.ThenFunc(app.jobRequestHandler.ListOutgoing))
	mux.Get("/request/:id", authMiddleware.ThenFunc(app.jobRequestHandler.GetRequest))
	mux.Post("/request/:id/complete", tradesmanMiddleware.ThenFunc(app.jobRequestHandler.MarkComplete))
	mux.Post("/request/:id/confirm", customerMiddleware.ThenFunc(app.jobRequestHandler.Confirm))
	mux.Post("/request/:id/review", customerMiddleware.ThenFunc(app.jobRequestHandler.SubmitReview))

	// Open job completions
	mux.Post("/open-job/:job_id/complete", tradesmanMiddleware.ThenFunc(app.openJobHandler.MarkComplete))
	mux.Get("/open-job/:job_id/completions", customerMiddleware.ThenFunc(app.openJobHandler.ListForJob))
	mux.Post("/open-job/completion/:id/confirm", customerMiddleware.ThenFunc(app.openJobHandler.Confirm))

	// Chats
	mux.Post("/chat", authMiddleware.ThenFunc(app.chatHandler.OpenChat))
	mux.Get("/chat", authMiddleware.ThenFunc(app.chatHandler.ListChats))
	mux.Get("/chat/:id/messages", authMiddleware.ThenFunc(app.chatHandler.GetMessages))
	mux.Post("/chat/:id/messages", authMiddleware.ThenFunc(app.chatHandler.PostMessage))
	mux.Post("/chat/:id/job_done", authMiddleware.ThenFunc(app.chatHandler.MarkJobDone))
	mux.Get("/ws", http.HandlerFunc(app.WebSocketHandler))

	// Notifications
	mux.Get("/notifications", authMiddleware.ThenFunc(app.notificationHandler.ListNotifications))
	mux.Post("/notifications/:id/read", authMiddleware.ThenFunc(app.notificationHandler.MarkRead))
	mux.Post("/notifications/push_token", authMiddleware.ThenFunc(app.notificationHandler.SavePushToken))

	// Favourites
	mux.Post("/favourites/:tradesman_id", customerMiddleware.ThenFunc(app.favouriteHandler.Toggle))
	mux.Get("/favourites/check/:tradesman_id", customerMiddleware.ThenFunc(app.favouriteHandler.IsFavourite))
	mux.Get("/favourites", customerMiddleware.ThenFunc(app.favouriteHandler.ListFavourites))

	return mux
}
