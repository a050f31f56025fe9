package dom

import "sync"

// MemElement — инпут в памяти: обычное поле без нативного сеттера.
type MemElement struct {
	mu    sync.Mutex
	attrs map[string]string
	value string
}

// NewMemElement создаёт элемент с заданными атрибутами.
func NewMemElement(attrs map[string]string) *MemElement {
	cp := make(map[string]string, len(attrs))
	for k, v := range attrs {
		cp[k] = v
	}
	return &MemElement{attrs: cp}
}

func (e *MemElement) Attr(name string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.attrs[name]
}

func (e *MemElement) SetValue(value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.value = value
}

func (e *MemElement) Value() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value
}

// ReactiveMemElement — инпут «реактивного фреймворка»: прямое присваивание
// его внутреннее состояние не видит, изменение фиксируется только после
// нативного сеттера и события input.
type ReactiveMemElement struct {
	MemElement
	mu             sync.Mutex
	pending        string
	frameworkValue string
}

// NewReactiveMemElement создаёт реактивный элемент с заданными атрибутами.
func NewReactiveMemElement(attrs map[string]string) *ReactiveMemElement {
	cp := make(map[string]string, len(attrs))
	for k, v := range attrs {
		cp[k] = v
	}
	return &ReactiveMemElement{MemElement: MemElement{attrs: cp}}
}

func (e *ReactiveMemElement) SetValueNative(value string) {
	e.MemElement.SetValue(value)
	e.mu.Lock()
	e.pending = value
	e.mu.Unlock()
}

func (e *ReactiveMemElement) DispatchInput() {
	e.mu.Lock()
	e.frameworkValue = e.pending
	e.mu.Unlock()
}

// FrameworkValue — значение, которое «увидел» фреймворк страницы.
func (e *ReactiveMemElement) FrameworkValue() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frameworkValue
}

// MemDocument — изменяемый документ в памяти для тестов автозаполнения:
// элементы можно добавлять по ходу, имитируя многошаговые формы входа.
type MemDocument struct {
	mu        sync.Mutex
	elements  []Element
	observers map[int]chan struct{}
	nextObsID int
}

func NewMemDocument(elements ...Element) *MemDocument {
	return &MemDocument{
		elements:  elements,
		observers: make(map[int]chan struct{}),
	}
}

func (d *MemDocument) Find(queries []Query) (Element, bool) {
	d.mu.Lock()
	els := append([]Element(nil), d.elements...)
	d.mu.Unlock()
	return FindIn(els, queries)
}

// AddElement добавляет элемент и будит наблюдателей — аналог мутации DOM.
func (d *MemDocument) AddElement(el Element) {
	d.mu.Lock()
	d.elements = append(d.elements, el)
	obs := make([]chan struct{}, 0, len(d.observers))
	for _, ch := range d.observers {
		obs = append(obs, ch)
	}
	d.mu.Unlock()

	for _, ch := range obs {
		select {
		case ch <- struct{}{}:
		default: // наблюдатель ещё не разобрал прошлый сигнал
		}
	}
}

func (d *MemDocument) Observe() (<-chan struct{}, func()) {
	d.mu.Lock()
	id := d.nextObsID
	d.nextObsID++
	ch := make(chan struct{}, 1)
	d.observers[id] = ch
	d.mu.Unlock()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.observers, id)
			d.mu.Unlock()
		})
	}
	return ch, stop
}

// ObserverCount — число активных наблюдателей (для проверки, что все сняты).
func (d *MemDocument) ObserverCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.observers)
}
