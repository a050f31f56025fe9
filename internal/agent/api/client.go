package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"PassVault/internal/agent/auth"
)

// Credential — запись хранилища в том виде, в каком её отдаёт сервер
// (секрет уже расшифрован для владельца).
type Credential struct {
	ID        string `json:"_id"`
	Site      string `json:"site"`
	LoginName string `json:"loginName"`
	Secret    string `json:"secret"`
	Pinned    bool   `json:"pinned"`
	UpdatedAt string `json:"updatedAt"`
}

// TokenPayload — учётные данные, выданные по одноразовому токену.
type TokenPayload struct {
	Site      string `json:"site"`
	LoginName string `json:"loginName"`
	Secret    string `json:"secret"`
}

// Client — HTTP-клиент API хранилища для агента.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Tokens  auth.FileStore
}

// New создаёт клиента с базовым URL сервера.
func New(baseURL string, tokenFile string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    http.DefaultClient,
		Tokens:  auth.FileStore{Path: tokenFile},
	}
}

// postJSON отправляет JSON POST. Непустой token уходит auth-cookie.
func (c *Client) postJSON(ctx context.Context, path string, payload any, token string) (*http.Response, []byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Cookie", "auth_token="+token)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, body, nil
}

// getJSON выполняет GET и декодирует JSON-ответ в out.
func (c *Client) getJSON(ctx context.Context, path string, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Cookie", "auth_token="+token)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("unauthorized: run `pvagent login` first")
	}
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ErrNotFound — ресурс не найден (или токен уже погашен/просрочен).
var ErrNotFound = fmt.Errorf("not found")

// persistAuthFromResponse извлекает auth cookie из ответа и сохраняет её
// через файловое хранилище.
func (c *Client) persistAuthFromResponse(resp *http.Response) error {
	for _, ck := range resp.Cookies() {
		if ck.Name == "auth_token" && ck.Value != "" {
			return c.Tokens.Save(ck.Value)
		}
	}
	return fmt.Errorf("no auth cookie in response")
}

// Register регистрирует аккаунт и сохраняет auth-cookie.
func (c *Client) Register(ctx context.Context, login, password string) error {
	resp, body, err := c.postJSON(ctx, "/api/user/register", map[string]string{"login": login, "password": password}, "")
	if err != nil {
		return err
	}
	switch resp.StatusCode {
	case http.StatusOK:
		return c.persistAuthFromResponse(resp)
	case http.StatusConflict:
		return fmt.Errorf("login already taken")
	default:
		return fmt.Errorf("register failed: status %d: %s", resp.StatusCode, string(body))
	}
}

// Login выполняет вход и сохраняет auth-cookie.
func (c *Client) Login(ctx context.Context, login, password string) error {
	resp, body, err := c.postJSON(ctx, "/api/user/login", map[string]string{"login": login, "password": password}, "")
	if err != nil {
		return err
	}
	switch resp.StatusCode {
	case http.StatusOK:
		return c.persistAuthFromResponse(resp)
	case http.StatusUnauthorized:
		return fmt.Errorf("invalid login or password")
	default:
		return fmt.Errorf("login failed: status %d: %s", resp.StatusCode, string(body))
	}
}

// Status возвращает строку статуса авторизации.
func (c *Client) Status(ctx context.Context) (string, error) {
	token, _ := c.Tokens.Load()
	resp, body, err := c.postJSON(ctx, "/api/user/test", map[string]string{}, token)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status failed: %d", resp.StatusCode)
	}
	var out struct {
		Result string `json:"result"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", err
	}
	return out.Result, nil
}

// ListCredentials возвращает записи владельца с расшифрованными секретами.
func (c *Client) ListCredentials(ctx context.Context) ([]Credential, error) {
	token, err := c.Tokens.Load()
	if err != nil {
		return nil, fmt.Errorf("not logged in: %w", err)
	}
	var out []Credential
	if err := c.getJSON(ctx, "/api/passwords", token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// IssueToken просит сервер выдать одноразовый токен на учётные данные.
func (c *Client) IssueToken(ctx context.Context, p TokenPayload) (string, error) {
	token, err := c.Tokens.Load()
	if err != nil {
		return "", fmt.Errorf("not logged in: %w", err)
	}
	resp, body, err := c.postJSON(ctx, "/api/passwords/generate-token", p, token)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("issue token failed: status %d", resp.StatusCode)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// ClaimToken гасит одноразовый токен и возвращает учётные данные.
// Аутентификация не нужна: предъявитель токена и есть получатель.
func (c *Client) ClaimToken(ctx context.Context, token string) (TokenPayload, error) {
	var p TokenPayload
	if err := c.getJSON(ctx, "/api/passwords/get-credentials/"+token, "", &p); err != nil {
		return TokenPayload{}, err
	}
	return p, nil
}
