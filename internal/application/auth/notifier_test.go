package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/cotizador-pro/internal/application/auth"
)

func TestNotifier_PublicaYRecibe(t *testing.T) {
	n := auth.NewNotifier()
	ch, unsubscribe := n.Subscribe()
	defer unsubscribe()

	n.Publish(auth.Event{Type: auth.EventLogin, Email: "user@acme.co", At: time.Now()})

	select {
	case ev := <-ch:
		assert.Equal(t, auth.EventLogin, ev.Type)
		assert.Equal(t, "user@acme.co", ev.Email)
	case <-time.After(time.Second):
		t.Fatal("el suscriptor no recibió el evento")
	}
}

// Después de cancelar la suscripción no llega ningún evento más: el canal
// queda cerrado y los publish posteriores no lo tocan.
func TestNotifier_TrasCancelar_NoEntregaMas(t *testing.T) {
	n := auth.NewNotifier()
	ch, unsubscribe := n.Subscribe()

	unsubscribe()
	n.Publish(auth.Event{Type: auth.EventLogout, Email: "user@acme.co"})

	ev, open := <-ch
	assert.False(t, open, "el canal debe estar cerrado tras cancelar")
	assert.Empty(t, ev.Type)
}

func TestNotifier_CancelarDosVeces_NoPanic(t *testing.T) {
	n := auth.NewNotifier()
	_, unsubscribe := n.Subscribe()

	unsubscribe()
	assert.NotPanics(t, unsubscribe)
}

func TestNotifier_SinSuscriptores_PublishInocuo(t *testing.T) {
	n := auth.NewNotifier()
	assert.NotPanics(t, func() {
		n.Publish(auth.Event{Type: auth.EventRegistered})
	})
}

func TestNotifier_SuscriptorLento_NoBloqueaAlPublicador(t *testing.T) {
	n := auth.NewNotifier()
	ch, unsubscribe := n.Subscribe()
	defer unsubscribe()

	// Nadie drena el canal: al llenarse el buffer los eventos se descartan.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			n.Publish(auth.Event{Type: auth.EventLogin})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish bloqueó con un suscriptor lento")
	}

	// Los primeros eventos sí quedaron en el buffer.
	require.NotEmpty(t, <-ch)
}

func TestNotifier_MultiplesSuscriptores_TodosReciben(t *testing.T) {
	n := auth.NewNotifier()
	ch1, un1 := n.Subscribe()
	ch2, un2 := n.Subscribe()
	defer un1()
	defer un2()

	n.Publish(auth.Event{Type: auth.EventRegistered, Email: "a@acme.co"})

	for _, ch := range []<-chan auth.Event{ch1, ch2} {
		select {
		case ev := <-ch:
			assert.Equal(t, auth.EventRegistered, ev.Type)
		case <-time.After(time.Second):
			t.Fatal("un suscriptor no recibió el evento")
		}
	}
}
