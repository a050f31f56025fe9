package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
)

const (
	// keyLen — длина ключа для AES‑256 (в байтах).
	keyLen = 32
	// nonceLen — стандартный размер nonce для GCM.
	nonceLen = 12
	// tagLen — размер тега аутентификации GCM.
	tagLen = 16
)

var (
	// ErrInvalidKey — ключ не равен 32 байтам.
	ErrInvalidKey = errors.New("invalid master key length")
	// ErrInvalidEncoding — битый base64, короткий шифртекст или неверный nonce.
	ErrInvalidEncoding = errors.New("invalid ciphertext encoding")
	// ErrAuthenticationFailed — тег не сошёлся: данные подменены,
	// ключ не тот или nonce повреждён. Открытый текст не возвращается.
	ErrAuthenticationFailed = errors.New("ciphertext authentication failed")
)

// Encrypt шифрует секрет AES‑256‑GCM под мастер-ключом.
// На каждый вызов генерируется свежий случайный nonce; возвращаются
// base64(шифртекст ‖ тег) и base64(nonce) — транспортный формат хранилища.
func Encrypt(plaintext string, key []byte) (cipherB64, nonceB64 string, err error) {
	if len(key) != keyLen {
		return "", "", ErrInvalidKey
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", "", ErrInvalidKey
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", "", err
	}
	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", "", err
	}
	// Seal возвращает шифртекст с тегом в хвосте — ровно тот вид,
	// который уходит в base64 целиком.
	out := gcm.Seal(nil, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(out),
		base64.StdEncoding.EncodeToString(nonce),
		nil
}

// Decrypt расшифровывает транспортную пару (шифртекст, nonce) и проверяет тег.
// Любая ошибка аутентификации обрывает чтение: частичный или
// неаутентифицированный открытый текст наружу не отдаётся.
func Decrypt(cipherB64, nonceB64 string, key []byte) (string, error) {
	if len(key) != keyLen {
		return "", ErrInvalidKey
	}
	data, err := base64.StdEncoding.DecodeString(cipherB64)
	if err != nil {
		return "", ErrInvalidEncoding
	}
	if len(data) < tagLen {
		return "", ErrInvalidEncoding
	}
	nonce, err := base64.StdEncoding.DecodeString(nonceB64)
	if err != nil {
		return "", ErrInvalidEncoding
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", ErrInvalidKey
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	if len(nonce) != gcm.NonceSize() {
		return "", ErrInvalidEncoding
	}
	plain, err := gcm.Open(nil, nonce, data, nil)
	if err != nil {
		return "", ErrAuthenticationFailed
	}
	return string(plain), nil
}
