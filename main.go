package main

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/spooky-finn/go-gemini-bridge/config"
	"github.com/spooky-finn/go-gemini-bridge/domain"
	"github.com/spooky-finn/go-gemini-bridge/gemini"
	promclient "github.com/spooky-finn/go-gemini-bridge/infrastructure/prometheus"
	"github.com/spooky-finn/go-gemini-bridge/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on the environment")
	}
	conf := config.FromEnv()

	symbol, err := domain.NewMarketSymbol("btc", "usd")
	if err != nil {
		log.Fatal(err)
	}

	stream, err := gemini.StartMarketDataStream(symbol, conf.Sandbox)
	if err != nil {
		log.Fatalf("failed to start market data stream: %s", err)
	}
	stream.OnStreamError = func(err error) {
		// Transport errors are terminal; a fresh instance is needed to resume.
		log.Fatalf("market data stream failed: %s", err)
	}
	defer stream.Close()

	snapshots := usecase.NewMarketSnapshotUseCase(conf.Sandbox)

	g := new(errgroup.Group)
	g.Go(func() error {
		promclient.StartPromClientServer()
		return nil
	})
	g.Go(func() error {
		for range time.Tick(2 * time.Second) {
			bid, ask, err := snapshots.GetSpread(symbol)
			if err != nil {
				// The local book is empty until sequenced frames arrive.
				continue
			}
			fmt.Printf("%s bid=%s ask=%s spread=%s trades=%d\n",
				symbol, bid.Price, ask.Price, ask.Price.Sub(bid.Price), stream.TradeCount())
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}
