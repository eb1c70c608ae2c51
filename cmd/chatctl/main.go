package main

import (
	"os"

	"github.com/Irfan-Alaam/chat-app/cmd/chatctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
