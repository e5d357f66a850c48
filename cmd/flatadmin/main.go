package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/flatfinder/internal/admincli"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if err := admincli.NewRootCmd(admincli.OpenPostgres).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
