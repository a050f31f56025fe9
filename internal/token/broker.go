package token

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Payload — открытые учётные данные на время передачи между контекстами.
// Живут только в памяти брокера, в долговременное хранилище не попадают.
type Payload struct {
	Site      string `json:"site"`
	LoginName string `json:"loginName"`
	Secret    string `json:"secret"`
}

type entry struct {
	payload   Payload
	expiresAt time.Time
}

// Broker выдаёт одноразовые короткоживущие токены для переноса учётных
// данных через границу контекстов (страница → привилегированный агент).
// Явный экземпляр, а не глобальная таблица: в тестах создаётся заново.
type Broker struct {
	mu      sync.Mutex
	entries map[string]entry

	ttl    time.Duration
	now    func() time.Time
	logger *zap.SugaredLogger
}

// NewBroker создаёт брокер с заданным TTL токена.
func NewBroker(ttl time.Duration, logger *zap.SugaredLogger) *Broker {
	return &Broker{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
		logger:  logger,
	}
}

// Issue генерирует токен (16 случайных байт, hex) и кладёт payload в таблицу
// до первого чтения или истечения TTL.
func (b *Broker) Issue(p Payload) (string, error) {
	raw := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	tok := hex.EncodeToString(raw)

	b.mu.Lock()
	b.entries[tok] = entry{payload: p, expiresAt: b.now().Add(b.ttl)}
	b.mu.Unlock()
	return tok, nil
}

// Consume — разрушающее чтение: запись удаляется под тем же захватом мьютекса,
// что и поиск, поэтому успешным может быть не больше одного чтения.
// Истёкший токен неотличим от никогда не существовавшего.
func (b *Broker) Consume(tok string) (Payload, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[tok]
	if !ok {
		return Payload{}, false
	}
	delete(b.entries, tok)
	if b.now().After(e.expiresAt) {
		return Payload{}, false
	}
	return e.payload, true
}

// Run запускает фоновую чистку истёкших токенов: один проход сразу,
// дальше по тикеру до отмены контекста.
func (b *Broker) Run(ctx context.Context, interval time.Duration) {
	b.sweep()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.sweep()
		}
	}
}

func (b *Broker) sweep() {
	now := b.now()
	b.mu.Lock()
	removed := 0
	for tok, e := range b.entries {
		if now.After(e.expiresAt) {
			delete(b.entries, tok)
			removed++
		}
	}
	b.mu.Unlock()
	if removed > 0 && b.logger != nil {
		b.logger.Infow("expired autofill tokens purged", "count", removed)
	}
}

// Len возвращает текущее число живых записей (для тестов и метрик).
func (b *Broker) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}
