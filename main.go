package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/vetalione/content-pipeline/ai"
	"github.com/vetalione/content-pipeline/api"
	"github.com/vetalione/content-pipeline/common"
	"github.com/vetalione/content-pipeline/config"
	"github.com/vetalione/content-pipeline/pipeline"
	"github.com/vetalione/content-pipeline/publish"
	"github.com/vetalione/content-pipeline/queue"
	"github.com/vetalione/content-pipeline/store"
	"github.com/vetalione/content-pipeline/types"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	st, err := store.Open(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	tracker, err := queue.NewTracker(queue.TrackerConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Fatalf("Failed to connect job tracker: %v", err)
	}
	defer tracker.Close()

	producer, err := queue.NewProducer(cfg.KafkaBrokers, tracker)
	if err != nil {
		log.Fatalf("Failed to create producer: %v", err)
	}
	defer producer.Close()

	research := ai.NewDefaultResearchProvider()
	if research == nil {
		log.Println("⚠️ No research provider configured (set PERPLEXITY_API_KEY or COHERE_API_KEY); research jobs will fail")
	} else {
		log.Printf("Research provider: %s", research.Name())
	}

	var generator ai.Generator
	var repairer ai.Repairer
	if cfg.OpenAIAPIKey != "" {
		openai := ai.NewOpenAIClient(cfg.OpenAIAPIKey, "", nil)
		generator = openai
		repairer = openai
	} else {
		log.Println("⚠️ OPENAI_API_KEY not set; generation jobs will fail and research JSON repair is disabled")
	}

	var covers pipeline.CoverStorage
	if cfg.S3Bucket != "" {
		bucket, err := common.NewCoverBucket(ctx, common.CoverBucketConfig{
			Bucket:       cfg.S3Bucket,
			Prefix:       cfg.S3Prefix,
			Region:       cfg.S3Region,
			UsePathStyle: cfg.S3UsePathStyle,
		})
		if err != nil {
			log.Fatalf("Failed to init cover bucket: %v", err)
		}
		covers = bucket
	} else {
		log.Println("S3 not configured; cover images keep local paths only")
	}

	sessions, err := publish.NewSessionStore(cfg.SessionsDir)
	if err != nil {
		log.Fatalf("Failed to init session store: %v", err)
	}

	publishers := []publish.Publisher{
		publish.NewTelegramPublisher(os.Getenv("TELEGRAM_BOT_TOKEN"), os.Getenv("TELEGRAM_CHAT_ID"), nil),
	}
	for _, p := range types.AllPlatforms {
		if p == types.PlatformTelegram {
			continue
		}
		publishers = append(publishers, publish.NewBrowserPublisher(p, sessions))
	}
	dispatcher := publish.NewDispatcher(st, publish.NewRegistry(publishers...))

	workers := pipeline.NewWorkers(pipeline.WorkersConfig{
		Store:           st,
		Research:        research,
		Repairer:        repairer,
		Generator:       generator,
		Covers:          covers,
		Tracker:         tracker,
		Publisher:       dispatcher,
		ResearchTimeout: cfg.ResearchTimeout,
	})

	scheduler := publish.NewScheduler(st, dispatcher, cfg.SchedulerInterval)
	go scheduler.Run(ctx)

	consumers := startConsumers(ctx, cfg.KafkaBrokers, workers)
	defer func() {
		for _, c := range consumers {
			_ = c.Close()
		}
	}()

	r := api.NewRouter(api.Deps{
		Store:      st,
		Enqueuer:   producer,
		Jobs:       tracker,
		Dispatcher: dispatcher,
	}, cfg.CORSOrigins)

	addr := ":" + cfg.Port
	log.Printf("Starting API server on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  GET    /health")
	log.Println("  GET    /api/articles")
	log.Println("  POST   /api/articles")
	log.Println("  GET    /api/articles/:id")
	log.Println("  PATCH  /api/articles/:id")
	log.Println("  DELETE /api/articles/:id")
	log.Println("  POST   /api/pipeline/:articleId/research")
	log.Println("  POST   /api/pipeline/:articleId/generate")
	log.Println("  POST   /api/pipeline/:articleId/cover")
	log.Println("  GET    /api/pipeline/:articleId/status")
	log.Println("  POST   /api/publishing/:articleId/publish")
	log.Println("  GET    /api/publishing/:articleId/publications")
	log.Println("  GET    /api/config/templates")
	log.Println("  POST   /api/config/templates")
	log.Println("  GET    /api/config/templates/default")

	srv := &http.Server{Addr: addr, Handler: r}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}

// startConsumers wires one consumer group per stage topic.
func startConsumers(ctx context.Context, brokers []string, workers *pipeline.Workers) []*queue.Consumer {
	specs := []struct {
		topic   string
		group   string
		process func(ctx context.Context, jobID string, job *types.PipelineJob) error
	}{
		{queue.TopicResearch, "pipeline-research-workers", workers.Research},
		{queue.TopicGeneration, "pipeline-generation-workers", workers.Generate},
		{queue.TopicCover, "pipeline-cover-workers", workers.Cover},
		{queue.TopicPublish, "pipeline-publish-workers", workers.Publish},
	}

	var consumers []*queue.Consumer
	for _, spec := range specs {
		c, err := queue.NewConsumer(queue.ConsumerConfig{
			Brokers: brokers,
			Topic:   spec.topic,
			GroupID: spec.group,
			Handler: &queue.JobHandler{Process: spec.process},
		})
		if err != nil {
			log.Fatalf("Failed to create consumer for %s: %v", spec.topic, err)
		}
		if err := c.Start(ctx); err != nil {
			log.Fatalf("Failed to start consumer for %s: %v", spec.topic, err)
		}
		consumers = append(consumers, c)
	}
	return consumers
}
