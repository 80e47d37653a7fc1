package main

import (
	"context"
	"time"

	"github.com/cardsonbase/cards-tcg-store/config"
	"github.com/cardsonbase/cards-tcg-store/internal/app"
	"github.com/cardsonbase/cards-tcg-store/pkg/sigctx"
)

const closeTimeout = 5 * time.Second

func main() {
	sigCtx, closeApp := sigctx.NotifyContext()
	defer closeApp()

	cfg := config.Load()
	cfg.Print()

	storeService := app.New(sigCtx, cfg)

	storeService.Run(closeApp)

	<-sigCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	storeService.Close(ctx)
}
