package api

import (
	"fmt"
	"net/http"

	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/warble-app/warble-server/internal/api/handlers"
	"github.com/warble-app/warble-server/internal/api/middleware"
	"github.com/warble-app/warble-server/internal/config"
	"github.com/warble-app/warble-server/internal/services"
	"github.com/warble-app/warble-server/internal/session"
)

// SetupRouter wires services, session store and handlers onto the mux.
func SetupRouter(db *gorm.DB) http.Handler {
	mux := http.NewServeMux()
	c := cors.New(config.Envs.CorsConfig)

	sessions := session.NewStore(config.Envs.SessionSecret, config.Envs.Environment == "production")

	userService := services.NewUserService(db)
	socialService := services.NewSocialService(db)
	messageService := services.NewMessageService(db)

	authHandler := handlers.NewAuthHandler(userService, sessions, config.Envs.JWTSecret)
	userHandler := handlers.NewUserHandler(userService, socialService, messageService, sessions)
	messageHandler := handlers.NewMessageHandler(messageService, sessions)

	authGate := &middleware.Auth{Sessions: sessions, JWTSecret: config.Envs.JWTSecret}
	protected := func(h http.HandlerFunc) http.Handler {
		return authGate.RequireUser(h)
	}

	// ---------- PUBLIC ROUTES ----------
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mux.HandleFunc("GET /{$}", userHandler.Home)

	mux.HandleFunc("GET /signup", authHandler.SignupForm)
	mux.HandleFunc("POST /signup", authHandler.Signup)
	mux.HandleFunc("GET /login", authHandler.LoginForm)
	mux.HandleFunc("POST /login", authHandler.Login)
	mux.HandleFunc("GET /auth/google/login", authHandler.GoogleLogin)
	mux.HandleFunc("GET /auth/google/callback", authHandler.GoogleCallback)

	mux.HandleFunc("GET /users", userHandler.List)
	mux.HandleFunc("GET /users/{id}", userHandler.Show)
	mux.HandleFunc("GET /users/{id}/following", userHandler.Following)
	mux.HandleFunc("GET /users/{id}/followers", userHandler.Followers)
	mux.HandleFunc("GET /users/{id}/likes", userHandler.Likes)

	mux.HandleFunc("GET /messages/{id}", messageHandler.Show)

	mux.HandleFunc("GET /media/{key...}", userHandler.MediaImage)

	// ---------- PROTECTED ROUTES ----------
	mux.Handle("POST /logout", protected(authHandler.Logout))

	mux.Handle("GET /users/profile", protected(userHandler.EditForm))
	mux.Handle("POST /users/profile", protected(userHandler.Edit))
	mux.Handle("POST /users/profile/image/presign", protected(userHandler.PresignImage))
	mux.Handle("POST /users/delete", protected(userHandler.Delete))
	mux.Handle("POST /users/follow/{id}", protected(userHandler.Follow))
	mux.Handle("POST /users/stop-following/{id}", protected(userHandler.StopFollowing))

	mux.Handle("POST /messages/new", protected(messageHandler.New))
	mux.Handle("POST /messages/{id}/delete", protected(messageHandler.Delete))
	mux.Handle("POST /messages/{id}/like", protected(messageHandler.Like))
	mux.Handle("POST /messages/{id}/unlike", protected(messageHandler.Unlike))

	log.Info().Msg("Router initialized")
	handler := c.Handler(mux)
	handler = middleware.Logger(handler)
	return handler
}
