package main

import (
	"database/sql"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"

	"github.com/tiendaviva/storefront-backend/internal/admin"
	"github.com/tiendaviva/storefront-backend/internal/category"
	"github.com/tiendaviva/storefront-backend/internal/config"
	"github.com/tiendaviva/storefront-backend/internal/middleware"
	"github.com/tiendaviva/storefront-backend/internal/order"
	"github.com/tiendaviva/storefront-backend/internal/product"
	"github.com/tiendaviva/storefront-backend/internal/user"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "app").Logger()

func main() {
	cfg := config.Load()

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()
	ensureSchema(db)

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestID)
	app.Use(middleware.RequestLogger)

	userService := user.NewService(user.NewPostgresRepository(db))
	userHandler := user.NewHandler(userService)

	productService := product.NewService(product.NewPostgresRepository(db))
	productHandler := product.NewHandler(productService)

	categoryHandler := category.NewHandler(category.NewService(category.NewPostgresRepository(db)))

	orderService := order.NewService(order.NewPostgresRepository(db), productService)
	orderHandler := order.NewHandler(orderService, order.NewAssembler(productService), cfg.IsProduction())

	adminHandler := admin.NewHandler(admin.NewService(admin.NewPostgresRepository(db), userService))

	// public surface: auth, catalog browsing, checkout and order tracking
	userHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)
	categoryHandler.RegisterPublicRoutes(app)
	orderHandler.RegisterPublicRoutes(app)

	// everything below is the admin console
	app.Use(jwtware.New(jwtware.Config{SigningKey: []byte(cfg.JWTSecret)}))
	app.Use(user.RequireAdmin)
	orderHandler.RegisterProtectedRoutes(app)
	productHandler.RegisterProtectedRoutes(app)
	categoryHandler.RegisterProtectedRoutes(app)
	userHandler.RegisterProtectedRoutes(app)
	adminHandler.RegisterProtectedRoutes(app)

	logger.Info().Str("addr", cfg.Addr).Str("env", cfg.Env).Msg("starting server")
	if err := app.Listen(cfg.Addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func mustOpenDB(url string) *sql.DB {
	if url == "" {
		logger.Fatal().Msg("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not open database")
	}
	if err := db.Ping(); err != nil {
		logger.Fatal().Err(err).Msg("could not reach database")
	}
	return db
}

// ensureSchema creates the tables on first boot. Statements are idempotent
// so restarting against an existing database is a no-op.
func ensureSchema(db *sql.DB) {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            first_name TEXT NOT NULL,
            last_name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            dni TEXT,
            password TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'user',
            is_active BOOLEAN NOT NULL DEFAULT true,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS categories (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            image_url TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS products (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            price NUMERIC(10,2) NOT NULL,
            price_unit TEXT,
            image_url TEXT,
            old_price NUMERIC(10,2),
            discount INT,
            category TEXT NOT NULL,
            description TEXT,
            presentation TEXT,
            stock INT NOT NULL DEFAULT 0,
            is_active BOOLEAN NOT NULL DEFAULT true,
            is_featured BOOLEAN NOT NULL DEFAULT false,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id VARCHAR(50) PRIMARY KEY,
            user_id INT REFERENCES users(id),
            client_name TEXT NOT NULL,
            client_email TEXT NOT NULL,
            client_phone TEXT NOT NULL,
            shipping_address TEXT NOT NULL,
            total_amount NUMERIC(10,2) NOT NULL,
            status TEXT NOT NULL DEFAULT 'Processing',
            payment_method TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            id SERIAL PRIMARY KEY,
            order_id VARCHAR(50) NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
            product_id INT NOT NULL REFERENCES products(id),
            quantity INT NOT NULL,
            unit_price NUMERIC(10,2) NOT NULL,
            total_price NUMERIC(10,2) NOT NULL,
            product_name TEXT,
            product_image TEXT
        )`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			logger.Fatal().Err(err).Msg("schema bootstrap failed")
		}
	}
}
