package commands

import (
	"context"
	"fmt"

	"PassVault/internal/agent/api"
	"PassVault/internal/config"
)

type listCmd struct{}

func (listCmd) Name() string        { return "list" }
func (listCmd) Description() string { return "Показать все записи хранилища" }
func (listCmd) Usage() string       { return "list" }

func (listCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	client := api.New(cfg.ServerURL, cfg.TokenFile)
	list, err := client.ListCredentials(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(Out, "Нет записей")
		return nil
	}
	for _, c := range list {
		pin := ""
		if c.Pinned {
			pin = " *"
		}
		// сам секрет в терминал не выводим
		fmt.Fprintf(Out, "- %s  %s (%s)%s\n", c.ID, c.Site, c.LoginName, pin)
	}
	fmt.Fprintf(Out, "Всего: %d\n", len(list))
	return nil
}

func init() { RegisterCmd(listCmd{}) }
