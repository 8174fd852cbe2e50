package main

import (
	"context"
	"log"
	"time"

	"github.com/bytebuddy/companion/internal/chat"
	"github.com/bytebuddy/companion/internal/config"
	"github.com/bytebuddy/companion/internal/db"
	"github.com/bytebuddy/companion/internal/httpapi"
	"github.com/bytebuddy/companion/internal/logbook"
	"github.com/bytebuddy/companion/internal/models"
	"github.com/bytebuddy/companion/internal/profile"
	"github.com/bytebuddy/companion/internal/store/rabbitmq"
	"github.com/bytebuddy/companion/internal/store/redisstore"
)

func main() {
	cfg := config.Load()

	gdb := db.Connect(cfg.DBDSN)
	if err := gdb.AutoMigrate(
		&models.User{},
		&profile.Profile{},
		&chat.Conversation{},
		&chat.Message{},
		&chat.TitleJob{},
		&logbook.WaterLog{},
		&logbook.MealLog{},
	); err != nil {
		log.Fatalf("automigrate: %v", err)
	}

	// Redis backs only the legacy remote-memory chat path; the app runs
	// without it.
	memory := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := memory.Ping(pingCtx); err != nil {
		log.Printf("redis unavailable, legacy chat disabled addr=%s err=%v", cfg.RedisAddr, err)
		memory = nil
	}
	cancel()

	// Title jobs go through RabbitMQ when it is reachable; otherwise the
	// chat service relabels inline.
	var publisher chat.TitleJobPublisher
	if pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue); err != nil {
		log.Printf("rabbitmq unavailable, title jobs run inline err=%v", err)
	} else {
		defer pub.Close()
		publisher = pub
	}

	r := httpapi.NewRouter(gdb, cfg, memory, publisher)

	log.Printf("server listening addr=%s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
