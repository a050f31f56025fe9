package commands

import (
	"context"
	"fmt"

	"PassVault/internal/agent/api"
	"PassVault/internal/config"
)

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Войти в хранилище" }
func (loginCmd) Usage() string       { return "login <login> <password>" }

func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	client := api.New(cfg.ServerURL, cfg.TokenFile)
	if err := client.Login(ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Вход выполнен")
	return nil
}

func init() { RegisterCmd(loginCmd{}) }
