package main

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/watering-store/backend/internal/article"
	"github.com/watering-store/backend/internal/cart"
	"github.com/watering-store/backend/internal/catalog"
	"github.com/watering-store/backend/internal/checkout"
	"github.com/watering-store/backend/internal/order"
	"github.com/watering-store/backend/internal/promo"
	"github.com/watering-store/backend/internal/services"
	"github.com/watering-store/backend/internal/user"
)

func main() {
	_ = godotenv.Load()
	app := fiber.New()
	setupCORS(app)

	db := mustOpenDB()
	defer db.Close()

	ensureSchema(db)

	userRepo := user.NewPostgresRepository(db)
	userHandler := user.NewHandler(user.NewService(userRepo, pickMailer()))

	catalogHandler := catalog.NewHandler(catalog.NewService(catalog.NewPostgresRepository(db)))
	promoHandler := promo.NewHandler(promo.NewService(promo.NewPostgresRepository(db)))
	cartHandler := cart.NewHandler(cart.NewService(cart.NewPostgresRepository(db), catalog.NewPostgresRepository(db)))
	orderHandler := order.NewHandler(order.NewPostgresRepository(db))
	checkoutHandler := checkout.NewHandler(checkout.NewEngine(checkout.NewPostgresStore(db)))
	articleHandler := article.NewHandler(article.NewPostgresRepository(db))
	servicesHandler := services.NewHandler(services.NewPostgresRepository(db), userRepo)

	// public routes must be registered before the JWT middleware
	userHandler.RegisterPublicRoutes(app)
	catalogHandler.RegisterPublicRoutes(app)
	promoHandler.RegisterPublicRoutes(app)
	articleHandler.RegisterPublicRoutes(app)
	servicesHandler.RegisterPublicRoutes(app)

	app.Use(checkMiddleware)
	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(os.Getenv("JWT_SECRET")),
	}))

	userHandler.RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)
	checkoutHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)
	articleHandler.RegisterProtectedRoutes(app)
	servicesHandler.RegisterProtectedRoutes(app)

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}
	app.Listen(addr)
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func mustOpenDB() *sql.DB {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		panic("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		panic(err)
	}

	if err := db.Ping(); err != nil {
		panic(err)
	}

	return db
}

func pickMailer() user.Mailer {
	if os.Getenv("SMTP_HOST") != "" {
		return user.NewSMTPMailerFromEnv()
	}
	return user.LogMailer{}
}

func ensureSchema(db *sql.DB) {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id SERIAL PRIMARY KEY,
			username TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			is_verified BOOLEAN NOT NULL DEFAULT FALSE,
			verification_code TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			item_id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price NUMERIC(12,2) NOT NULL,
			category TEXT,
			image TEXT,
			quantity INT NOT NULL DEFAULT 0,
			in_stock BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS kits (
			kit_id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price NUMERIC(12,2),
			image TEXT,
			quantity INT NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS kit_items (
			kit_item_id SERIAL PRIMARY KEY,
			kit_id INT NOT NULL REFERENCES kits (kit_id),
			item_id INT NOT NULL REFERENCES items (item_id),
			quantity INT NOT NULL DEFAULT 1,
			UNIQUE (kit_id, item_id)
		)`,
		`CREATE TABLE IF NOT EXISTS carts (
			cart_id SERIAL PRIMARY KEY,
			user_id INT NOT NULL UNIQUE REFERENCES users (user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS cart_items (
			cart_item_id SERIAL PRIMARY KEY,
			cart_id INT NOT NULL REFERENCES carts (cart_id),
			item_id INT NOT NULL REFERENCES items (item_id),
			quantity INT NOT NULL,
			UNIQUE (cart_id, item_id)
		)`,
		`CREATE TABLE IF NOT EXISTS promo_codes (
			promo_id SERIAL PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			discount_percent INT NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			order_id SERIAL PRIMARY KEY,
			user_id INT NOT NULL REFERENCES users (user_id),
			total_price NUMERIC(12,2) NOT NULL,
			promo_id INT REFERENCES promo_codes (promo_id) ON DELETE SET NULL,
			created_at TIMESTAMP NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			order_item_id SERIAL PRIMARY KEY,
			order_id INT NOT NULL REFERENCES orders (order_id),
			item_id INT NOT NULL REFERENCES items (item_id),
			quantity INT NOT NULL,
			price_per_item NUMERIC(12,2) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS articles (
			article_id SERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			author_id INT NOT NULL,
			published_at TIMESTAMP NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS comments (
			comment_id SERIAL PRIMARY KEY,
			article_id INT NOT NULL REFERENCES articles (article_id),
			user_id INT NOT NULL REFERENCES users (user_id),
			text TEXT NOT NULL,
			parent_id INT REFERENCES comments (comment_id),
			created_at TIMESTAMP NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS questions (
			question_id SERIAL PRIMARY KEY,
			user_id INT NOT NULL REFERENCES users (user_id),
			question_text TEXT NOT NULL,
			submitted_at TIMESTAMP NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS services (
			service_id SERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price NUMERIC(12,2)
		)`,
		`CREATE TABLE IF NOT EXISTS service_orders (
			service_order_id SERIAL PRIMARY KEY,
			user_id INT NOT NULL REFERENCES users (user_id),
			service_id INT NOT NULL REFERENCES services (service_id),
			name TEXT NOT NULL,
			phone TEXT NOT NULL,
			email TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			panic(err)
		}
	}
}

func checkMiddleware(c *fiber.Ctx) error {
	start := time.Now()
	fmt.Printf("URL = %s, Method = %s, Start Time = %v\n", c.OriginalURL(), c.Method(), start)
	return c.Next()
}
