// seed prepara una base nueva: crea el primer owner y opcionalmente carga la lista de precios
// desde un CSV exportado de una hoja de cálculo.
//
// Uso:
//
//	go run ./cmd/seed -owner-user admin -owner-pass secreto [-owner-name "Dueño"]
//	go run ./cmd/seed -prices precios.csv [-charset win1252]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/Contabilidad-api/internal/application/auth"
	"github.com/jhoicas/Contabilidad-api/internal/application/usecase"
	"github.com/jhoicas/Contabilidad-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Contabilidad-api/pkg/config"
	"github.com/jhoicas/Contabilidad-api/pkg/logger"
)

func main() {
	ownerUser := flag.String("owner-user", "", "username del primer owner")
	ownerPass := flag.String("owner-pass", "", "contraseña del primer owner")
	ownerName := flag.String("owner-name", "", "nombre visible del primer owner")
	pricesPath := flag.String("prices", "", "CSV code,name,category,brand,price,stock")
	charset := flag.String("charset", "utf8", "codificación del CSV: utf8, latin1 o win1252")
	flag.Parse()

	if *ownerUser == "" && *pricesPath == "" {
		fmt.Fprintln(os.Stderr, "nada que hacer: indicar -owner-user y/o -prices")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if _, err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	if *ownerUser != "" {
		userRepo := postgres.NewUserRepository(pool)
		authUC := auth.NewAuthUseCase(userRepo, postgres.NewTxRunner(pool), auth.Config{
			Secret:     cfg.JWT.Secret,
			Issuer:     cfg.JWT.Issuer,
			BcryptCost: cfg.Security.BcryptCost,
		})
		user, created, err := authUC.BootstrapOwner(ctx, *ownerUser, *ownerPass, *ownerName)
		if err != nil {
			log.Fatal().Err(err).Msg("crear owner")
		}
		if created {
			log.Info().Int64("id", user.ID).Str("username", user.Username).Msg("owner creado")
		} else {
			log.Info().Msg("ya existe un owner; no se creó otro")
		}
	}

	if *pricesPath != "" {
		f, err := os.Open(*pricesPath)
		if err != nil {
			log.Fatal().Err(err).Msg("abrir CSV")
		}
		defer f.Close()

		rows, err := readPrices(f, *charset)
		if err != nil {
			log.Fatal().Err(err).Str("archivo", *pricesPath).Msg("leer CSV")
		}
		priceUC := usecase.NewPriceListUseCase(postgres.NewPriceItemRepository(pool))
		n, err := priceUC.Import(ctx, rows)
		if err != nil {
			log.Fatal().Err(err).Int("importados", n).Msg("importar lista de precios")
		}
		log.Info().Int("importados", n).Str("archivo", *pricesPath).Msg("lista de precios cargada")
	}
}
