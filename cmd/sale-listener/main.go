package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ms-boxoffice/internal/analytics"
	"ms-boxoffice/internal/config"
	"ms-boxoffice/internal/kafka"
	"ms-boxoffice/internal/logger"
	"ms-boxoffice/internal/models"
)

// sale-listener follows the sale and seat status topics and keeps a running
// per-event tally of what the box office sold.
func main() {
	_ = godotenv.Load() // Loads .env file if present
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.LogDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	topics := []string{cfg.Kafka.Topics.Sales, cfg.Kafka.Topics.SeatStatus}
	if err := kafka.EnsureTopicsExist(ctx, cfg.Kafka.Brokers, topics, log); err != nil {
		log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
	}

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topics.Sales, cfg.Kafka.Topics.SeatStatus, log)
	defer consumer.Close()

	tally := analytics.NewSalesTally()
	handlers := kafka.Handlers{
		Sale: func(_ context.Context, sale models.SaleEvent) {
			if !tally.Record(sale) {
				log.Debug("SALE", fmt.Sprintf("Duplicate delivery of sale %s ignored", sale.CorrelationID))
				return
			}
			log.LogSale(string(sale.Outcome), sale.EventID, fmt.Sprintf("%d tickets, total %.2f", len(sale.TicketIDs), sale.Total))
		},
		SeatStatus: func(_ context.Context, event models.SeatStatusChangeEvent) {
			log.Info("SEATS", fmt.Sprintf("Event %d seats %v now %s", event.EventID, event.SeatIDs, event.Status))
		},
	}

	go reportTally(ctx, tally, log)

	log.Info("APP", "Sale listener started")
	if err := consumer.Start(ctx, handlers); err != nil {
		log.Error("KAFKA", fmt.Sprintf("Consumer stopped: %v", err))
	}
	log.Info("APP", "Sale listener shut down")
}

func reportTally(ctx context.Context, tally *analytics.SalesTally, log *logger.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			snapshot := tally.Snapshot()
			if len(snapshot) == 0 {
				continue
			}
			data, err := json.Marshal(snapshot)
			if err != nil {
				log.Error("TALLY", fmt.Sprintf("Failed to encode tally: %v", err))
				continue
			}
			log.Info("TALLY", string(data))
		case <-ctx.Done():
			return
		}
	}
}
