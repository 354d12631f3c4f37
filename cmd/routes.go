package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"

	"chazonBack/internal/models"
)

func (app *application) JWTMiddlewareWithRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return app.JWTMiddleware(next, requiredRole)
	}
}

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	authMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(""))
	stewardAuthMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(models.RoleSteward))
	adminAuthMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(models.RoleAdmin))

	// The websocket upgrade must not get the JSON content type.
	wsMiddleware := alice.New(app.recoverPanic, app.logRequest).Append(app.JWTMiddlewareWithRole(""))

	mux := pat.New()

	// Auth
	mux.Post("/auth/signup", standardMiddleware.ThenFunc(app.userHandler.SignUp))
	mux.Post("/auth/signin", standardMiddleware.ThenFunc(app.userHandler.SignIn))

	// Profile and settings
	mux.Get("/users/me", authMiddleware.ThenFunc(app.userHandler.GetProfile))
	mux.Put("/settings/profile", authMiddleware.ThenFunc(app.userHandler.UpdateProfile))
	mux.Post("/settings/change-password", authMiddleware.ThenFunc(app.userHandler.ChangePassword))

	// Steward onboarding
	mux.Post("/steward/apply", authMiddleware.ThenFunc(app.userHandler.ApplySteward))
	mux.Get("/steward/profile", stewardAuthMiddleware.ThenFunc(app.userHandler.GetStewardProfile))

	// Catalog
	mux.Get("/categories", standardMiddleware.ThenFunc(app.categoryHandler.GetCategories))
	mux.Get("/categories/:slug", standardMiddleware.ThenFunc(app.categoryHandler.GetCategory))
	mux.Post("/categories", adminAuthMiddleware.ThenFunc(app.categoryHandler.CreateCategory))
	mux.Get("/services/my", stewardAuthMiddleware.ThenFunc(app.serviceHandler.GetMyServices))
	mux.Get("/services/:id", standardMiddleware.ThenFunc(app.serviceHandler.GetService))
	mux.Get("/services", standardMiddleware.ThenFunc(app.serviceHandler.ListServices))
	mux.Post("/services", stewardAuthMiddleware.ThenFunc(app.serviceHandler.CreateService))
	mux.Put("/services/:id", stewardAuthMiddleware.ThenFunc(app.serviceHandler.UpdateService))

	// Bookings
	mux.Post("/bookings", authMiddleware.ThenFunc(app.bookingHandler.CreateBooking))
	mux.Get("/bookings", authMiddleware.ThenFunc(app.bookingHandler.ListMyBookings))
	mux.Get("/bookings/:id", authMiddleware.ThenFunc(app.bookingHandler.GetBooking))
	mux.Put("/bookings/:id/status", authMiddleware.ThenFunc(app.bookingHandler.TransitionStatus))

	// Payments
	mux.Post("/payments/initiate", authMiddleware.ThenFunc(app.paymentHandler.InitiatePayment))
	mux.Get("/payments/verify", standardMiddleware.ThenFunc(app.paymentHandler.VerifyCallback))
	mux.Get("/payments/history", authMiddleware.ThenFunc(app.paymentHandler.GetHistory))

	// Uploads
	mux.Post("/uploads", stewardAuthMiddleware.ThenFunc(app.uploadHandler.UploadImage))

	// Push tokens
	mux.Post("/notifications/tokens", authMiddleware.ThenFunc(app.notificationHandler.RegisterToken))
	mux.Del("/notifications/tokens/:token", authMiddleware.ThenFunc(app.notificationHandler.DeleteToken))

	// Live booking events
	mux.Get("/ws/bookings", wsMiddleware.ThenFunc(app.WebSocketHandler))

	return mux
}
