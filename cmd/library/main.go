package main

import (
	stdLog "log"
	"time"

	"github.com/adelbaev/lending-service/library/app"
	"github.com/adelbaev/lending-service/library/config"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

// @title			Book Lending Service API
// @version		1.0
// @description	Catalog browsing and the borrow/return ledger.
//
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		stdLog.Println("no .env file, reading environment directly")
	}
	cfg := config.NewConfig(
		config.WithLogLevel(zapcore.DebugLevel),
		config.WithWriteTimeout(time.Minute),
	)

	if err := app.Run(cfg); err != nil {
		stdLog.Fatal(err)
	}
}
