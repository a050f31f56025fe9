package dom

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/net/html"
)

// fetchTimeout — таймаут одной загрузки страницы.
const fetchTimeout = 5 * time.Second

// PageElement — инпут, разобранный из HTML целевой страницы.
// Значение живёт в памяти агента: страница не под нашим контролем,
// поэтому агент отчитывается, какие поля и чем были бы заполнены.
type PageElement struct {
	mu    sync.Mutex
	attrs map[string]string
	value string
}

func (e *PageElement) Attr(name string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.attrs[name]
}

func (e *PageElement) SetValue(value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.value = value
}

func (e *PageElement) Value() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value
}

// signature — ключ идентичности инпута между перезагрузками страницы.
func (e *PageElement) signature() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.attrs["id"] + "|" + e.attrs["name"] + "|" + e.attrs["type"] + "|" + e.attrs["autocomplete"]
}

// PageDocument — документ живой страницы. Повторная загрузка по интервалу
// служит аналогом наблюдения за мутациями DOM: многошаговые формы входа
// показывают поле пароля на следующем снимке.
type PageDocument struct {
	url          string
	client       *http.Client
	refetchEvery time.Duration

	mu       sync.Mutex
	elements []*PageElement
}

// NewPageDocument загружает страницу и разбирает её поля ввода.
func NewPageDocument(ctx context.Context, url string, client *http.Client, refetchEvery time.Duration) (*PageDocument, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if refetchEvery <= 0 {
		refetchEvery = time.Second
	}
	d := &PageDocument{url: url, client: client, refetchEvery: refetchEvery}
	if err := d.refetch(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// refetch загружает страницу и добавляет новые инпуты; уже известные
// (и, возможно, заполненные) элементы сохраняются.
func (d *PageDocument) refetch(ctx context.Context) error {
	cctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(cctx, http.MethodGet, d.url, nil)
	if err != nil {
		return err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status %d", d.url, resp.StatusCode)
	}

	root, err := html.Parse(resp.Body)
	if err != nil {
		return fmt.Errorf("parse %s: %w", d.url, err)
	}
	parsed := collectInputs(root)

	d.mu.Lock()
	defer d.mu.Unlock()
	known := make(map[string]struct{}, len(d.elements))
	for _, el := range d.elements {
		known[el.signature()] = struct{}{}
	}
	for _, el := range parsed {
		if _, ok := known[el.signature()]; !ok {
			d.elements = append(d.elements, el)
		}
	}
	return nil
}

func collectInputs(n *html.Node) []*PageElement {
	var out []*PageElement
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "input" {
			attrs := make(map[string]string, len(n.Attr))
			for _, a := range n.Attr {
				attrs[a.Key] = a.Val
			}
			out = append(out, &PageElement{attrs: attrs})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func (d *PageDocument) Find(queries []Query) (Element, bool) {
	d.mu.Lock()
	els := make([]Element, len(d.elements))
	for i, el := range d.elements {
		els[i] = el
	}
	d.mu.Unlock()
	return FindIn(els, queries)
}

// Observe перезагружает страницу по интервалу и сигналит после каждого
// нового снимка. Функция остановки завершает цикл и обязана быть вызвана
// на каждом терминальном исходе автозаполнения.
func (d *PageDocument) Observe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		ticker := time.NewTicker(d.refetchEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// ошибка одной перезагрузки не фатальна — следующий тик повторит
				if err := d.refetch(ctx); err != nil {
					continue
				}
				select {
				case ch <- struct{}{}:
				default:
				}
			}
		}
	}()

	var once sync.Once
	stop := func() { once.Do(cancel) }
	return ch, stop
}

// Inputs возвращает снимок всех известных полей (для отчёта агента).
func (d *PageDocument) Inputs() []Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Element, len(d.elements))
	for i, el := range d.elements {
		out[i] = el
	}
	return out
}
