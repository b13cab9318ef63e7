package main

import (
	"os"

	"github.com/ch1kulya/logger"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}
