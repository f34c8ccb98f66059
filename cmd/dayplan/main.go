package main

import (
	"os"

	"dayplan/internal/commands"
	appLog "dayplan/internal/log"
)

func main() {
	if err := commands.New().Execute(); err != nil {
		appLog.Error("command failed", err)
		os.Exit(1)
	}
}
