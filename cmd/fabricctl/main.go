package main

import (
	"fmt"
	"os"
	"time"

	"github.com/serviceops-labs/fabric-studio/internal/adapters/driven/api"
	"github.com/serviceops-labs/fabric-studio/internal/adapters/driven/config/file"
	"github.com/serviceops-labs/fabric-studio/internal/adapters/driving/cli"
	"github.com/serviceops-labs/fabric-studio/internal/core/services"
)

// version is injected at build time via -ldflags "-X main.version=...".
var version string

func main() {
	store, err := file.NewConfigStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open config: %v\n", err)
		os.Exit(1)
	}

	client := api.NewClient(api.Config{
		BaseURL: store.GetString(file.KeyBaseURL),
	})

	registry := services.NewRegistryService(client, store.GetBool(file.KeyAllowMultipleSources))
	chat := services.NewChatService(client, registry)
	connections := services.NewConnectionService(client)

	interval := time.Duration(store.GetInt(file.KeyPollIntervalMs)) * time.Millisecond
	if interval <= 0 {
		interval = services.DefaultPollInterval
	}
	poller := services.NewBuildPoller(registry, interval)
	registry.OnChange(poller.Notify)

	if llm := store.GetString(file.KeyDefaultLLM); llm != "" {
		chat.SetLLM(llm)
	}
	if temp := store.GetFloat(file.KeyChatTemperature); temp > 0 {
		if err := chat.SetTemperature(temp); err != nil {
			fmt.Fprintf(os.Stderr, "ignoring configured temperature: %v\n", err)
		}
	}
	if tokens := store.GetInt(file.KeyChatMaxTokens); tokens > 0 {
		if err := chat.SetMaxTokens(tokens); err != nil {
			fmt.Fprintf(os.Stderr, "ignoring configured max tokens: %v\n", err)
		}
	}

	cli.SetVersion(version)
	cli.SetServices(cli.Config{
		Registry:     registry,
		Chat:         chat,
		Connections:  connections,
		Poller:       poller,
		ConfigStore:  store,
		PollInterval: interval,
	})

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
