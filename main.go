package main

import (
	"context"
	"groupcast/internal/adapters/directory"
	"groupcast/internal/adapters/handler"
	"groupcast/internal/adapters/sender"
	"groupcast/internal/adapters/store"
	"groupcast/internal/core/domain"
	"groupcast/internal/core/domain/command"
	"groupcast/internal/core/port"
	"groupcast/internal/core/service"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log.Info().Msg("starting groupcast...")

	viper.AddConfigPath(".")
	viper.SetConfigType("toml")
	setDefaults()

	log.Info().Msg("reading config file...")
	err := viper.ReadInConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("could not read config file")
	}

	var logLevel zerolog.Level

	switch viper.GetString("bot.log_level") {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	chats, err := store.NewSQLite(ctx, viper.GetString("directory.path"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed opening chat store")
	}
	defer chats.Close()

	membership := handler.NewMembership(chats, viper.GetDuration("handler.timeout"))

	token := viper.GetString("telegram.bot_token")
	opts := []bot.Option{
		bot.WithDefaultHandler(noOpHandler),
		bot.WithMiddlewares(membership.Middleware),
		bot.WithAllowedUpdates(bot.AllowedUpdates{"message", "channel_post", "my_chat_member"}),
	}

	b, err := bot.New(token, opts...)
	if err != nil {
		log.Panic().Err(err).Msg("failed initializing telegram bot")
	}

	s := sender.NewTelegram(b, sender.WithRateLimit(viper.GetFloat64("telegram.sends_per_second")))
	dir := directory.New(chats)

	runner := service.NewRunner(service.RunnerParams{
		Sender:      s,
		Directory:   dir,
		Delay:       viper.GetDuration("broadcast.pacing_delay"),
		SendTimeout: viper.GetDuration("broadcast.send_timeout"),
	})

	jobs := service.NewJobRegistry(context.WithoutCancel(ctx), runner)

	unit, err := domain.ParseUnit(viper.GetString("autosend.default_unit"))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid autosend default unit in config")
	}
	intervals := domain.IntervalParser{DefaultUnit: unit}

	var wizard port.WizardStarter
	var conversation service.Conversation
	if viper.GetBool("autosend.wizard") {
		w := service.NewWizard(jobs, intervals, viper.GetDuration("autosend.wizard_timeout"))
		wizard, conversation = w, w
	}

	auth, err := service.NewAuthorizer()
	if err != nil {
		log.Fatal().Err(err).Msg("failed initializing authorizer")
	}

	verbose := viper.GetBool("dispatch.verbose_failures")
	chunkSize := viper.GetInt("dispatch.chunk_size")

	commandRegistry := &command.Registry{}
	commandRegistry.Register(command.NewSend(runner, "/send", verbose))
	commandRegistry.Register(command.NewSendMulti(runner, "/sendmulti", verbose))
	commandRegistry.Register(command.NewAutoSend(jobs, wizard, "/autosend"))
	commandRegistry.Register(command.NewStopTimers(jobs, "/stoptimers"))
	commandRegistry.Register(command.NewJobs(jobs, "/jobs", chunkSize))
	commandRegistry.Register(command.NewStopJob(jobs, "/stop"))
	commandRegistry.Register(command.NewCancelWizard(wizard, "/cancel"))
	commandRegistry.Register(command.NewHelp("/help"))
	commandRegistry.Register(command.NewStats(s, jobs, "/stats"))
	commandRegistry.Register(command.NewHas(dir, "/has", chunkSize))

	dispatcher := service.NewDispatcher(service.DispatcherParams{
		Auth:           auth,
		Parser:         domain.CommandParser{Intervals: intervals},
		Registry:       commandRegistry,
		Conversation:   conversation,
		DeniedResponse: viper.GetString("dispatch.denied_response"),
	})

	commandHandler := handler.NewCommand(dispatcher, s, viper.GetDuration("handler.timeout"))

	// plain text is routed as well, the autosend wizard consumes it
	b.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, commandHandler.Handle)

	log.Info().Strs("commands", commandRegistry.ListCommands()).Msg("bot listening")
	b.Start(ctx)

	log.Info().Msg("shutting down")
	stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stopCancel()
	jobs.Stop(stopCtx)
}

func noOpHandler(_ context.Context, _ *bot.Bot, _ *models.Update) {}

func setDefaults() {
	viper.SetDefault("bot.log_level", "info")
	viper.SetDefault("telegram.allowed_user_ids", []int64{})
	viper.SetDefault("telegram.sends_per_second", 0)
	viper.SetDefault("dispatch.denied_response", service.DefaultDeniedResponse)
	viper.SetDefault("dispatch.denied_cooldown", "0s")
	viper.SetDefault("dispatch.verbose_failures", false)
	viper.SetDefault("dispatch.chunk_size", command.DefaultChunkSize)
	viper.SetDefault("broadcast.pacing_delay", service.DefaultPacingDelay)
	viper.SetDefault("broadcast.send_timeout", "0s")
	viper.SetDefault("autosend.default_unit", string(domain.Hour))
	viper.SetDefault("autosend.wizard", true)
	viper.SetDefault("autosend.wizard_timeout", "10m")
	viper.SetDefault("handler.timeout", "30s")
	viper.SetDefault("directory.path", "groupcast.db")
}
