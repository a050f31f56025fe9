package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"PassVault/internal/agent/api"
	"PassVault/internal/agent/autofill"
	"PassVault/internal/agent/dom"
	"PassVault/internal/config"

	"go.uber.org/zap"
)

type fillCmd struct{}

func (fillCmd) Name() string        { return "fill" }
func (fillCmd) Description() string { return "Заполнить форму входа на целевой странице" }
func (fillCmd) Usage() string {
	return "fill -url <target-url> (-token <one-time-token> | -id <credential-id>)"
}

// Run — агентская половина передачи учётных данных между контекстами:
// дашборд выдал одноразовый токен, агент гасит его и выполняет
// автозаполнение против целевой страницы. Альтернатива для ручного
// запуска — -id: токен выпускается и тут же гасится самим агентом.
func (fillCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("fill", flag.ContinueOnError)
	targetURL := fs.String("url", "", "адрес страницы входа")
	oneTime := fs.String("token", "", "одноразовый токен от дашборда")
	credID := fs.String("id", "", "id записи хранилища")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	if *targetURL == "" || (*oneTime == "" && *credID == "") {
		return ErrUsage
	}

	client := api.New(cfg.ServerURL, cfg.TokenFile)

	tok := *oneTime
	if tok == "" {
		// ручной сценарий: найдём запись и проведём её через брокер токенов,
		// тем же путём, каким ходит дашборд
		list, err := client.ListCredentials(ctx)
		if err != nil {
			return err
		}
		var found *api.Credential
		for i := range list {
			if list[i].ID == *credID {
				found = &list[i]
				break
			}
		}
		if found == nil {
			return fmt.Errorf("credential %s not found", *credID)
		}
		tok, err = client.IssueToken(ctx, api.TokenPayload{
			Site:      found.Site,
			LoginName: found.LoginName,
			Secret:    found.Secret,
		})
		if err != nil {
			return err
		}
	}

	payload, err := client.ClaimToken(ctx, tok)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return fmt.Errorf("token not found or expired")
		}
		return err
	}

	doc, err := dom.NewPageDocument(ctx, *targetURL, nil, time.Second)
	if err != nil {
		return fmt.Errorf("load target page: %w", err)
	}

	inj := autofill.New(zap.NewNop().Sugar())
	res, err := inj.Fill(ctx, doc, autofill.Credentials{
		LoginName: payload.LoginName,
		Secret:    payload.Secret,
	})
	if err != nil {
		if errors.Is(err, autofill.ErrTimeout) {
			// заметка пользователю, без повторов — попытка одноразовая
			fmt.Fprintln(Out, "Autofill: timed out waiting for login fields on the page.")
			return nil
		}
		return err
	}

	switch res {
	case autofill.FilledSingleStep:
		fmt.Fprintln(Out, "Форма входа заполнена (логин и пароль на одной странице).")
	case autofill.FilledMultiStep:
		fmt.Fprintln(Out, "Форма входа заполнена (пароль появился на следующем шаге).")
	}
	printFillReport(doc)
	return nil
}

// printFillReport показывает, какие поля страницы были заполнены.
// Секрет в терминал не выводится.
func printFillReport(doc *dom.PageDocument) {
	for _, el := range doc.Inputs() {
		if el.Value() == "" {
			continue
		}
		name := el.Attr("name")
		if name == "" {
			name = el.Attr("id")
		}
		val := el.Value()
		if el.Attr("type") == "password" || el.Attr("autocomplete") == "current-password" {
			val = "********"
		}
		fmt.Fprintf(Out, "  %s = %s\n", name, val)
	}
}

func init() { RegisterCmd(fillCmd{}) }
