package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/centsible/backend/internal/config"
	"github.com/centsible/backend/internal/controllers"
	"github.com/centsible/backend/internal/mail"
	"github.com/centsible/backend/internal/models"
	"github.com/centsible/backend/internal/notify"
	"github.com/centsible/backend/internal/recurring"
	"github.com/centsible/backend/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()

	// gin uses debug as the default mode, we use release for
	// security reasons
	gin.SetMode(cfg.GinMode)

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	output := io.Writer(os.Stdout)
	if (cfg.LogFormat == "" && gin.IsDebugging()) || cfg.LogFormat == "human" {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	// Create the data directory for the database file
	err := os.MkdirAll(filepath.Dir(cfg.DatabaseFile), os.ModePerm)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Connect to the database and migrate the schema
	err = models.Connect(cfg.DatabaseFile)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	controllers.Notifier = notify.LogNotifier{Logger: log.Logger}

	r, err := router.Router(cfg, mail.LogSender{Logger: log.Logger})
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	poster := recurring.NewPoster(models.DB)
	poster.Start()
	defer poster.Stop()

	if err := r.Run(); err != nil {
		log.Fatal().Msg(err.Error())
	}
}
