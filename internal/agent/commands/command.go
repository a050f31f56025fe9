package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"PassVault/internal/config"
)

// Out — поток вывода команд (подменяется в тестах).
var Out io.Writer = os.Stdout

// ErrUsage — команда вызвана с неверными аргументами.
var ErrUsage = errors.New("usage")

// Command — одна команда агента.
type Command interface {
	Name() string
	Description() string
	Usage() string
	Run(ctx context.Context, cfg *config.Config, args []string) error
}

var registry = map[string]Command{}

// RegisterCmd добавляет команду в реестр (вызывается из init()).
func RegisterCmd(c Command) {
	registry[c.Name()] = c
}

// Get возвращает команду по имени.
func Get(name string) (Command, bool) {
	c, ok := registry[name]
	return c, ok
}

// FormatGlobalUsage собирает общую справку по всем командам.
func FormatGlobalUsage() string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("PassVault agent\n\nCommands:\n")
	for _, n := range names {
		fmt.Fprintf(&b, "  %-10s %s\n", n, registry[n].Description())
	}
	b.WriteString("\nRun 'pvagent help <command>' for details.\n")
	return b.String()
}
