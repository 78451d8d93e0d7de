package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/andy/clientcomptage/internal/cli"
	"github.com/tliron/kutil/util"
)

func main() {
	// An interrupt cancels the run; the connection is still closed before exit
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := cli.Execute(ctx, os.Args)
	stop()
	util.Exit(code)
}
