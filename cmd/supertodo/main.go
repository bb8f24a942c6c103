package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/israelkumar/supertodo/internal/bot"
	"github.com/israelkumar/supertodo/internal/config"
	"github.com/israelkumar/supertodo/internal/repository"
	"github.com/israelkumar/supertodo/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("config")
	}

	db, err := repository.NewDB(cfg.DatabaseURL, log)
	if err != nil {
		log.WithError(err).Fatal("db")
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	store := repository.NewRecordStore(db)
	storageSvc := service.NewStorageService(store, cfg.Namespace, log)
	reminderSvc := service.NewReminderService(storageSvc)

	telegramBot, err := bot.New(cfg.TelegramToken, cfg.ChatID, storageSvc, reminderSvc, log)
	if err != nil {
		log.WithError(err).Fatal("bot")
	}

	scheduler := service.NewSchedulerService(time.Local)
	report := func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := telegramBot.SendDailyReport(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Error("report")
		}
	}
	scheduled := false
	switch {
	case cfg.ReportTime != "":
		if _, err := scheduler.ScheduleDaily(cfg.ReportTime, report); err != nil {
			log.WithError(err).Fatal("schedule reports")
		}
		scheduled = true
	case cfg.ReportInterval > 0:
		if _, err := scheduler.ScheduleInterval(cfg.ReportInterval, report); err != nil {
			log.WithError(err).Fatal("schedule reports")
		}
		scheduled = true
	}
	if scheduled {
		scheduler.Start()
		defer scheduler.Stop()
	}

	log.Info("supertodo bot started")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("bot stopped with error")
	}
	log.Info("shutdown complete")
}
