package planner

import (
	"context"
	"errors"
	"sync"

	"example.com/ai-trip-planner/backend/internal/models"
)

var ErrNotReady = errors.New("generation is still in progress")

// Pending описывает незавершенную генерацию.
type Pending struct {
	once      sync.Once
	done      chan struct{}
	itinerary models.Itinerary
	err       error
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

// Resolved возвращает уже завершенный Pending.
func Resolved(itinerary models.Itinerary, err error) *Pending {
	pending := newPending()
	pending.resolve(itinerary, err)
	return pending
}

func (p *Pending) resolve(itinerary models.Itinerary, err error) {
	p.once.Do(func() {
		p.itinerary = itinerary
		p.err = err
		close(p.done)
	})
}

// Done закрывается по завершении генерации.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Ready сообщает, завершена ли генерация.
func (p *Pending) Ready() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Result возвращает результат без ожидания или ErrNotReady.
func (p *Pending) Result() (models.Itinerary, error) {
	if !p.Ready() {
		return models.Itinerary{}, ErrNotReady
	}
	return p.itinerary, p.err
}

// Wait ждет результат. Если контекст завершится раньше, генерация
// продолжится в фоне, а вызывающий получит ошибку контекста.
func (p *Pending) Wait(ctx context.Context) (models.Itinerary, error) {
	select {
	case <-p.done:
		return p.itinerary, p.err
	case <-ctx.Done():
		return models.Itinerary{}, ctx.Err()
	}
}
