// Command storefront serves the local-market storefront HTTP API.
package main

import (
	"context"
	"time"

	"github.com/niksmo/local-market/config"
	"github.com/niksmo/local-market/internal/app"
	"github.com/niksmo/local-market/pkg/sigctx"
)

const closeTimeout = 5 * time.Second

func main() {
	sigCtx, closeApp := sigctx.NotifyContext(context.Background())
	defer closeApp()

	cfg := config.Load()
	cfg.Print()

	storefront := app.New(sigCtx, cfg)

	storefront.Run(closeApp)

	<-sigCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	storefront.Close(ctx)
}
