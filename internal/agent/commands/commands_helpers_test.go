package commands

import (
	"bytes"
	"path/filepath"
	"runtime"
	"testing"

	"PassVault/internal/config"
)

// withTempConfig переопределяет пользовательский конфиг‑каталог на время
// теста, чтобы артефакты (auth‑токен) создавались в temp.
func withTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("APPDATA", dir)
	} else {
		t.Setenv("XDG_CONFIG_HOME", dir)
	}
	return dir
}

// testCfg возвращает конфиг агента, указывающий на тестовый сервер
// и файл токена внутри temp‑каталога.
func testCfg(t *testing.T, serverURL string) *config.Config {
	t.Helper()
	return &config.Config{
		ServerURL: serverURL,
		TokenFile: filepath.Join(t.TempDir(), "tok"),
	}
}

// перехват stdout на время теста
func withStdoutCapture(t *testing.T, fn func()) string {
	t.Helper()
	old := Out
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}
