package auth

import (
	"sync"
	"time"
)

// Tipos de evento de sesión.
const (
	EventRegistered = "registered"
	EventLogin      = "login"
	EventLogout     = "logout"
)

// Event es un cambio de estado de sesión observable.
type Event struct {
	Type  string
	Email string
	At    time.Time
}

// Notifier publica cambios de estado de sesión a suscriptores explícitos.
// Subscribe devuelve un canal y una función de cancelación determinista:
// después de llamarla no se entrega ningún evento más por ese canal.
type Notifier struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

// NewNotifier construye el notificador.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]chan Event)}
}

// Subscribe registra un suscriptor. El canal tiene buffer; si el suscriptor no
// drena a tiempo, los eventos excedentes se descartan en vez de bloquear al
// publicador. La función devuelta cancela la suscripción y cierra el canal.
func (n *Notifier) Subscribe() (<-chan Event, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.next
	n.next++
	ch := make(chan Event, 16)
	n.subs[id] = ch

	unsubscribe := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if c, ok := n.subs[id]; ok {
			delete(n.subs, id)
			close(c)
		}
	}
	return ch, unsubscribe
}

// Publish entrega el evento a todos los suscriptores activos sin bloquear.
func (n *Notifier) Publish(ev Event) {
	if n == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
