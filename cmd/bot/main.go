package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"

	"agendabot/internal/config"
	"agendabot/internal/domain"
	"agendabot/internal/infrastructure/gcal"
	"agendabot/internal/infrastructure/openai"
	"agendabot/internal/infrastructure/whatsapp"
	"agendabot/internal/repository/docstore"
	"agendabot/internal/repository/postgres"
	"agendabot/internal/usecase"
	"agendabot/transport/telegram"
	"agendabot/transport/worker"
)

func main() {
	configPath := flag.String("config", "config.yaml", "ruta del archivo de configuración")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	loc, err := time.LoadLocation(conf.Timezone)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var reminderRepo domain.ReminderRepository
	var userRepo domain.UserRepository
	switch conf.Storage.Backend {
	case "postgres":
		if err := postgres.RunMigrations(conf.Storage.DSN); err != nil {
			log.Fatal(err)
		}
		pool, err := pgxpool.New(ctx, conf.Storage.DSN)
		if err != nil {
			log.Fatal(err)
		}
		defer pool.Close()
		reminderRepo = postgres.NewReminderRepository(pool)
		userRepo = postgres.NewUserRepository(pool)
	default:
		store, err := docstore.Open(conf.Storage.Path)
		if err != nil {
			log.Fatal(err)
		}
		reminderRepo = store
		userRepo = store
	}

	tgClient, err := bot.New(conf.Telegram.Token)
	if err != nil {
		log.Fatal(err)
	}

	var messenger domain.Messenger
	if conf.Channel == "whatsapp" {
		messenger = whatsapp.NewClient(conf.WhatsApp.AccessToken, conf.WhatsApp.PhoneNumberID, conf.WhatsApp.APIVersion)
	} else {
		messenger = telegram.NewMessenger(tgClient)
	}

	classifier := openai.NewClient(conf.OpenAI.APIKey, conf.OpenAI.Model, conf.OpenAI.BaseURL)
	calendar := gcal.NewClient(conf.Calendar.AccessToken, conf.Calendar.CalendarID, conf.Calendar.BaseURL)

	timers := usecase.NewTimerQueue()
	go timers.Run(ctx)

	resolver := usecase.NewIntentResolver(classifier)
	scheduler := usecase.NewEventScheduler(calendar, messenger, timers, conf.Defaults)
	reminders := usecase.NewReminderUsecase(reminderRepo, conf.Defaults.ReminderLead())
	digest := usecase.NewDigestBuilder(calendar, reminderRepo, loc)

	dispatcher := worker.NewDispatcher(reminderRepo, messenger, conf.SweepInterval())
	dispatcher.Start(ctx)

	digestJob := worker.NewDigestJob(digest, userRepo, messenger, loc)
	if err := digestJob.Start(conf.DigestCron); err != nil {
		log.Fatal(err)
	}
	defer digestJob.Stop()

	tgBot := telegram.NewBot(tgClient, resolver, scheduler, reminders, userRepo)
	tgBot.RegisterHandlers()

	slog.Info("bot iniciado",
		"channel", conf.Channel,
		"storage", conf.Storage.Backend,
		"dispatch_interval", conf.SweepInterval().String(),
		"digest_cron", conf.DigestCron,
	)

	tgBot.Start(ctx)
}
