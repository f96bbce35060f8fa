package filter

import (
	"strings"
	"sync"
)

// LocationListener получает новую строку запроса после каждой замены
type LocationListener func(query string)

// Location адресуемое положение страницы (query string без ведущего "?")
// Replace меняет запись без перезагрузки и уведомляет подписчиков даже при совпадающей строке
type Location interface {
	Query() string
	Replace(query string)
	Subscribe(fn LocationListener) func()
}

type locationEntry struct {
	id int
	fn LocationListener
}

// MemoryLocation Location в памяти процесса
type MemoryLocation struct {
	mu        sync.Mutex
	query     string
	nextID    int
	listeners []locationEntry
}

// NewMemoryLocation создает Location с начальной строкой запроса
func NewMemoryLocation(initial string) *MemoryLocation {
	return &MemoryLocation{query: strings.TrimPrefix(initial, "?")}
}

func (l *MemoryLocation) Query() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.query
}

func (l *MemoryLocation) Replace(query string) {
	l.mu.Lock()
	l.query = strings.TrimPrefix(query, "?")
	current := l.query
	listeners := make([]LocationListener, 0, len(l.listeners))
	for _, e := range l.listeners {
		listeners = append(listeners, e.fn)
	}
	l.mu.Unlock()

	for _, fn := range listeners {
		fn(current)
	}
}

func (l *MemoryLocation) Subscribe(fn LocationListener) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	id := l.nextID
	l.listeners = append(l.listeners, locationEntry{id: id, fn: fn})

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		for i, e := range l.listeners {
			if e.id == id {
				l.listeners = append(l.listeners[:i], l.listeners[i+1:]...)
				return
			}
		}
	}
}
