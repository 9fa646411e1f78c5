package main

import (
	"baredcrawl/cmd/baredcrawl/commands"
	"baredcrawl/internal/serviceutil"
	"context"
)

func main() {
	ctx, cancel := serviceutil.SignalContext(context.Background())
	defer cancel()
	commands.ExecuteContext(ctx)
}
