// Package bus implementa el canal de notificaciones de precios en proceso:
// cada inserción se publica a los suscriptores interesados en la empresa.
// La API sigue lista en el stream SSE aunque un suscriptor esté lento: los
// envíos nunca bloquean, un suscriptor saturado pierde eventos.
package bus

import (
	"sync"

	"github.com/jhoicas/PrecoMonitor-api/internal/domain/entity"
)

// PriceEvent notificación de una observación de precio nueva.
type PriceEvent struct {
	CompanyID string
	Record    *entity.PriceRecord
}

// PriceBus pub/sub en memoria de observaciones de precio, filtrado por empresa.
type PriceBus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]*subscriber
}

type subscriber struct {
	companyID string // vacío = todas las empresas
	ch        chan PriceEvent
}

// NewPriceBus construye el bus.
func NewPriceBus() *PriceBus {
	return &PriceBus{subs: make(map[int]*subscriber)}
}

// PublishPrice entrega el evento a los suscriptores de la empresa (y a los
// globales). Envío no bloqueante: si el buffer del suscriptor está lleno el
// evento se descarta para ese suscriptor.
func (b *PriceBus) PublishPrice(companyID string, record *entity.PriceRecord) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ev := PriceEvent{CompanyID: companyID, Record: record}
	for _, sub := range b.subs {
		if sub.companyID != "" && sub.companyID != companyID {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
		}
	}
}

// Subscribe registra un suscriptor. companyID vacío recibe todos los eventos.
// El canal devuelto se cierra al cancelar.
func (b *PriceBus) Subscribe(companyID string) (<-chan PriceEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	sub := &subscriber{companyID: companyID, ch: make(chan PriceEvent, 16)}
	b.subs[id] = sub

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if s, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(s.ch)
		}
	}
	return sub.ch, cancel
}
