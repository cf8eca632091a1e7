package main

import (
	"flag"
	"log"

	"github.com/hrterry/STImage-WebAPP/cmd/app"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML configuration file")
	flag.Parse()

	if err := app.Run(*configPath); err != nil {
		log.Fatalf("Failed to start server: %s", err)
	}
}
