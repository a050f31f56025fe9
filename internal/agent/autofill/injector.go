package autofill

import (
	"context"
	"errors"
	"time"

	"PassVault/internal/agent/dom"

	"go.uber.org/zap"
)

// Credentials — открытая пара для заполнения формы входа.
type Credentials struct {
	LoginName string
	Secret    string
}

// Result — каким путём завершилось заполнение.
type Result int

const (
	// FilledSingleStep — логин и пароль были на одной странице.
	FilledSingleStep Result = iota + 1
	// FilledMultiStep — поле пароля появилось на следующем шаге формы.
	FilledMultiStep
)

// ErrTimeout — поле так и не нашлось в отведённое окно ожидания.
// Попытка одноразовая: повторов автозаполнение не делает.
var ErrTimeout = errors.New("timed out waiting for login fields")

const (
	defaultLoginWait    = 10 * time.Second
	defaultPasswordWait = 15 * time.Second
	defaultPollInterval = 100 * time.Millisecond
)

// Injector — машина состояний одной попытки автозаполнения:
// ожидание поля логина (опрос) → заполнение → немедленная проверка пароля →
// либо готово, либо ожидание поля пароля по мутациям документа.
type Injector struct {
	// LoginWait — окно ожидания поля логина (по умолчанию 10 секунд).
	LoginWait time.Duration
	// PasswordWait — окно ожидания отложенного поля пароля (15 секунд).
	PasswordWait time.Duration
	// PollInterval — шаг опроса при ожидании поля логина.
	PollInterval time.Duration

	Logger *zap.SugaredLogger
}

// New создаёт инжектор с таймаутами по умолчанию.
func New(logger *zap.SugaredLogger) *Injector {
	return &Injector{Logger: logger}
}

func (inj *Injector) loginWait() time.Duration {
	if inj.LoginWait > 0 {
		return inj.LoginWait
	}
	return defaultLoginWait
}

func (inj *Injector) passwordWait() time.Duration {
	if inj.PasswordWait > 0 {
		return inj.PasswordWait
	}
	return defaultPasswordWait
}

func (inj *Injector) pollInterval() time.Duration {
	if inj.PollInterval > 0 {
		return inj.PollInterval
	}
	return defaultPollInterval
}

// Fill выполняет одну попытку заполнения формы на документе.
// Оба ожидания жёстко ограничены по времени; наблюдатель документа
// снимается на каждом терминальном исходе.
func (inj *Injector) Fill(ctx context.Context, doc dom.Document, creds Credentials) (Result, error) {
	loginField, err := inj.waitForField(ctx, doc, LoginQueries, inj.loginWait())
	if err != nil {
		return 0, err
	}
	dom.WriteValue(loginField, creds.LoginName)
	if inj.Logger != nil {
		inj.Logger.Debugw("login field filled")
	}

	// одношаговая форма: пароль уже на странице
	if pw, ok := doc.Find(PasswordQueries); ok {
		dom.WriteValue(pw, creds.Secret)
		return FilledSingleStep, nil
	}

	// многошаговая форма: ждём появления поля пароля по мутациям
	changes, stop := doc.Observe()
	defer stop()

	deadline := time.NewTimer(inj.passwordWait())
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-deadline.C:
			return 0, ErrTimeout
		case _, ok := <-changes:
			if !ok {
				return 0, ErrTimeout
			}
			if pw, found := doc.Find(PasswordQueries); found {
				dom.WriteValue(pw, creds.Secret)
				return FilledMultiStep, nil
			}
		}
	}
}

// waitForField опрашивает документ до появления подходящего поля
// или истечения окна ожидания.
func (inj *Injector) waitForField(ctx context.Context, doc dom.Document, queries []dom.Query, wait time.Duration) (dom.Element, error) {
	if el, ok := doc.Find(queries); ok {
		return el, nil
	}

	ticker := time.NewTicker(inj.pollInterval())
	defer ticker.Stop()
	deadline := time.NewTimer(wait)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, ErrTimeout
		case <-ticker.C:
			if el, ok := doc.Find(queries); ok {
				return el, nil
			}
		}
	}
}
