package main

import (
	"context"

	"bggclient/cmd/bgg/cmd"
	"bggclient/lib/util/serviceutil"
)

func main() {
	cmd.ExecuteContext(serviceutil.SignalContext(context.Background()))
}
