package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"formprices/cmd/formprices/commands"
	"formprices/lib/osutil"

	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error: load .env: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := osutil.SignalContext(context.Background())
	defer stop()
	commands.ExecuteContext(ctx)
}
