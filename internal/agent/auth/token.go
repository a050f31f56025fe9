package auth

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// FileStore хранит авторизационный токен агента в файле.
// Пустой Path — файл auth_token в каталоге конфигурации пользователя.
type FileStore struct {
	Path string
}

// tokenPath возвращает полный путь к файлу токена, создавая каталог.
func (s FileStore) tokenPath() (string, error) {
	if s.Path != "" {
		if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
			return "", err
		}
		return s.Path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, "PassVault")
	if err := os.MkdirAll(p, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(p, "auth_token"), nil
}

// Save записывает токен с ограниченными правами доступа.
func (s FileStore) Save(token string) error {
	p, err := s.tokenPath()
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(token), 0o600)
}

// Load читает токен из файла.
func (s FileStore) Load() (string, error) {
	p, err := s.tokenPath()
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	token := strings.TrimRight(string(b), "\r\n ")
	if token == "" {
		return "", errors.New("empty token file")
	}
	return token, nil
}
