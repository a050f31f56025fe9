package commands

import (
	"context"
	"fmt"

	"PassVault/internal/agent/api"
	"PassVault/internal/config"
)

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Проверить авторизацию на сервере" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	client := api.New(cfg.ServerURL, cfg.TokenFile)
	result, err := client.Status(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Server: %s\nStatus: %s\n", cfg.ServerURL, result)
	return nil
}

func init() { RegisterCmd(statusCmd{}) }
