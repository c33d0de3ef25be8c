package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mantelzorg-engine/internal/advice"
	"mantelzorg-engine/internal/config"
	"mantelzorg-engine/internal/evaluator"
	"mantelzorg-engine/internal/export"
	"mantelzorg-engine/internal/notifier"
	"mantelzorg-engine/internal/platform/database"
	"mantelzorg-engine/internal/platform/logger"
	platformredis "mantelzorg-engine/internal/platform/redis"
	"mantelzorg-engine/internal/repository"
	"mantelzorg-engine/internal/scoring"
	"mantelzorg-engine/internal/service"
	"mantelzorg-engine/internal/trends"

	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration.
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logging.
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "mantelzorg-engine")
	if err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer log.Sync()

	// 3. Questionnaire definition.
	if cfg.Questionnaire.DefinitionPath == "" {
		log.Fatal("QUESTIONNAIRE_DEFINITION environment variable is required")
	}
	questionnaire, err := config.LoadQuestionnaire(cfg.Questionnaire.DefinitionPath)
	if err != nil {
		log.Fatal("Failed to load questionnaire definition",
			zap.Error(err),
		)
	}

	// 4. Stores.
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database",
			zap.Error(err),
		)
	}
	defer database.Close(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisClient := platformredis.NewClient(&cfg.Redis)
	if err := platformredis.Ping(ctx, redisClient); err != nil {
		log.Fatal("Failed to connect to redis",
			zap.Error(err),
		)
	}
	defer platformredis.Close(redisClient)

	// 5. Engine wiring.
	thresholds := scoring.Thresholds{
		LowMax:    cfg.Scoring.LowMax,
		MediumMax: cfg.Scoring.MediumMax,
	}

	assessmentsRepo := repository.NewAssessmentsRepository(db, log)
	alarmEventsRepo := repository.NewAlarmEventsRepository(db, log)
	statsRepo := repository.NewStatsRepository(db, log)

	adviceSelector := advice.NewSelector(
		advice.NewRedisKVStore(redisClient),
		cfg.Advice.OverrideKeyPrefix,
		log,
	)

	alarmEvaluator := evaluator.New(evaluator.Config{
		CareHoursWeeklyMax: cfg.Alarm.CareHoursWeeklyMax,
	}, log)

	webhook := notifier.NewWebhookNotifier(
		cfg.Alarm.Webhook.URL,
		cfg.Alarm.Webhook.RetryCount,
		cfg.Alarm.Webhook.TimeoutSec,
		log,
	)

	intakeService := service.NewIntakeService(
		thresholds,
		questionnaire,
		alarmEvaluator,
		adviceSelector,
		assessmentsRepo,
		alarmEventsRepo,
		webhook,
		log,
	)

	calculator := trends.NewCalculator(statsRepo, log)
	statsService := service.NewStatsService(
		calculator,
		statsRepo,
		alarmEventsRepo,
		statsRepo,
		export.NewExcelExporter(log),
		cfg.Privacy.MinimumCohort,
		log,
	)
	triageService := service.NewAlarmTriageService(alarmEventsRepo, log)

	// The surrounding application owns transport and embeds the engine.
	engine := service.NewEngine(intakeService, statsService, triageService)
	_ = engine

	log.Info("Engine ready",
		zap.String("questionnaire", questionnaire.Name),
		zap.Float64("low_max", thresholds.LowMax),
		zap.Float64("medium_max", thresholds.MediumMax),
		zap.Int("minimum_cohort", cfg.Privacy.MinimumCohort),
		zap.Bool("webhook_enabled", webhook.Enabled()),
	)

	// 6. Wait for shutdown.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	log.Info("Received signal, shutting down",
		zap.String("signal", sig.String()),
	)
}
