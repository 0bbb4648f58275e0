package main

import (
	"database/sql"
	"log"

	"pinecone-be/internal/api"
	"pinecone-be/internal/cart"
	"pinecone-be/internal/config"
	"pinecone-be/internal/db"
	"pinecone-be/internal/logger"
	"pinecone-be/internal/order"
	"pinecone-be/internal/product"
	"pinecone-be/internal/profile"
	"pinecone-be/internal/review"
	"pinecone-be/internal/telegram"
	"pinecone-be/internal/user"

	"github.com/gin-gonic/gin"
)

var initDBFunc = db.InitDB

// newServer wires the repositories, services and handlers into the router.
func newServer(cfg *config.Config, database *sql.DB) *gin.Engine {
	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	reviewRepo := review.NewRepository(database)
	reviewSvc := review.NewService(reviewRepo)

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	profileRepo := profile.NewRepository(database)
	resolver := profile.NewResolver(profileRepo)

	cartStore := cart.NewStore(cart.NewRepository(database))

	tgClient := telegram.NewClient(cfg.TelegramBotToken)
	notifier := telegram.NewNotifier(tgClient)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(cartStore, resolver, orderRepo, notifier)

	bot := telegram.NewBot(tgClient, productSvc, orderSvc, resolver, cfg.WebAppURL)

	handler := api.NewHandler(
		userSvc,
		productSvc,
		reviewSvc,
		cartStore,
		orderSvc,
		resolver,
		bot,
		notifier,
		cfg.TelegramBotToken,
	)

	return api.NewRouter(handler)
}

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	router := newServer(cfg, database)

	log.Printf("server running at http://localhost:%s/", cfg.AppPort)
	log.Fatal(router.Run(":" + cfg.AppPort))
}
