package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/you/dockside-market/internal/notify"
	"github.com/you/dockside-market/internal/worker"
	"github.com/you/dockside-market/pkg/mq"
	"github.com/you/dockside-market/pkg/obs"
)

type Cfg struct {
	RabbitURL      string   `envconfig:"RABBIT_URL" required:"true"`
	MarketExchange string   `envconfig:"MARKET_EXCHANGE" default:"market.exchange"`
	Queue          string   `envconfig:"NOTIFY_QUEUE" default:"market.notify.q"`
	Bindings       []string `envconfig:"NOTIFY_BINDINGS" default:"checkout.#,reservation.#,escrow.#,dispute.#,compensation.#,verification.#,sync.#"`
}

func must[T any](v T, err error) T {
	if err != nil {
		log.Fatal(err)
	}
	return v
}

func main() {
	_ = godotenv.Load()
	var cfg Cfg
	must(0, envconfig.Process("", &cfg))

	shutdown := obs.InitTracer("market-notify")
	defer func() { _ = shutdown(context.Background()) }()

	cons := must(mq.NewConsumer(cfg.RabbitURL, cfg.MarketExchange, cfg.Queue, cfg.Bindings))
	defer cons.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := worker.NewConsumer(cons, notify.NewConsole())
	go func() {
		log.Println("[notify] consuming", cfg.Queue)
		if err := w.Run(ctx); err != nil {
			log.Fatal(err)
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	cancel()
	log.Println("[notify] stopped")
}
