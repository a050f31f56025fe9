package commands

import (
	"context"
	"fmt"

	"PassVault/internal/agent/api"
	"PassVault/internal/config"
)

type registerCmd struct{}

func (registerCmd) Name() string        { return "register" }
func (registerCmd) Description() string { return "Зарегистрировать аккаунт" }
func (registerCmd) Usage() string       { return "register <login> <password>" }

func (registerCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	client := api.New(cfg.ServerURL, cfg.TokenFile)
	if err := client.Register(ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Аккаунт создан, вход выполнен")
	return nil
}

func init() { RegisterCmd(registerCmd{}) }
