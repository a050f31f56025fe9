package dom

import "strings"

// Query — один селектор из приоритетного списка: атрибут инпута и ожидаемое
// значение, точное или по подстроке. Аналог CSS-селекторов вида
// input[autocomplete="username"] и input[name*="user"].
type Query struct {
	Attr      string
	Value     string
	Substring bool
}

// Element — поле ввода на целевой странице.
type Element interface {
	// Attr возвращает значение атрибута или пустую строку.
	Attr(name string) string
	// SetValue — прямое присваивание значения (запасной путь стратегии).
	SetValue(value string)
	// Value возвращает текущее значение поля.
	Value() string
}

// NativeValueSetter — элемент, у которого доступен нативный сеттер значения.
// Реактивные фреймворки страницы подменяют обычное присваивание, и чтобы
// их внутреннее состояние увидело изменение, писать нужно через него.
type NativeValueSetter interface {
	SetValueNative(value string)
}

// InputDispatcher — элемент, умеющий рассылать синтетическое событие input.
type InputDispatcher interface {
	DispatchInput()
}

// WriteValue записывает значение по двухшаговой стратегии: нативный сеттер,
// если элемент его предоставляет, иначе прямое присваивание — и всегда
// событие input следом, чтобы слушатели страницы заметили изменение.
func WriteValue(el Element, value string) {
	if ns, ok := el.(NativeValueSetter); ok {
		ns.SetValueNative(value)
	} else {
		el.SetValue(value)
	}
	if d, ok := el.(InputDispatcher); ok {
		d.DispatchInput()
	}
}

// Document — минимальный контракт страницы для автозаполнения:
// поиск полей и подписка на изменения DOM.
type Document interface {
	// Find возвращает первый инпут, подходящий под список запросов.
	// Запросы проверяются в порядке приоритета списка.
	Find(queries []Query) (Element, bool)

	// Observe возвращает канал, сигналящий об изменениях документа,
	// и функцию остановки наблюдения. Остановка обязательна на каждом
	// терминальном исходе — иначе наблюдатель живёт вечно.
	Observe() (<-chan struct{}, func())
}

// Matches проверяет элемент на соответствие запросу.
func Matches(el Element, q Query) bool {
	v := el.Attr(q.Attr)
	if q.Substring {
		return v != "" && strings.Contains(v, q.Value)
	}
	return v == q.Value
}

// FindIn — общий обход для реализаций Document: первый элемент,
// подходящий под самый приоритетный запрос.
func FindIn(elements []Element, queries []Query) (Element, bool) {
	for _, q := range queries {
		for _, el := range elements {
			if Matches(el, q) {
				return el, true
			}
		}
	}
	return nil, false
}
