package sse

import (
	"context"
	"sync"

	"ms-boxoffice/internal/models"
)

// SubscriberBuffer is how many updates a slow subscriber may lag behind
// before updates to it are dropped.
const SubscriberBuffer = 10

// SeatEventEmitter manages SSE connections and broadcasts seat status
// changes to the subscribers of each event.
type SeatEventEmitter struct {
	// key: eventID, value: subscriber channels
	eventClients     map[int64][]chan models.SeatStatusChangeEvent
	eventClientMutex sync.RWMutex
}

func NewSeatEventEmitter() *SeatEventEmitter {
	return &SeatEventEmitter{
		eventClients: make(map[int64][]chan models.SeatStatusChangeEvent),
	}
}

// Subscribe adds a client to the event's seat updates. The channel is closed
// once ctx is done.
func (e *SeatEventEmitter) Subscribe(ctx context.Context, eventID int64) <-chan models.SeatStatusChangeEvent {
	clientChan := make(chan models.SeatStatusChangeEvent, SubscriberBuffer)

	e.eventClientMutex.Lock()
	e.eventClients[eventID] = append(e.eventClients[eventID], clientChan)
	e.eventClientMutex.Unlock()

	go func() {
		<-ctx.Done()
		e.removeEventClient(eventID, clientChan)
	}()

	return clientChan
}

// Emit broadcasts a seat status change without blocking on slow clients.
func (e *SeatEventEmitter) Emit(event models.SeatStatusChangeEvent) {
	// hold the read lock while sending so removeEventClient cannot close a
	// channel under us
	e.eventClientMutex.RLock()
	defer e.eventClientMutex.RUnlock()

	for _, clientChan := range e.eventClients[event.EventID] {
		select {
		case clientChan <- event:
		default:
			// buffer full, drop for this client
		}
	}
}

func (e *SeatEventEmitter) removeEventClient(eventID int64, clientChan chan models.SeatStatusChangeEvent) {
	e.eventClientMutex.Lock()
	defer e.eventClientMutex.Unlock()

	clients := e.eventClients[eventID]
	for i, ch := range clients {
		if ch == clientChan {
			e.eventClients[eventID] = append(clients[:i], clients[i+1:]...)
			close(clientChan)
			break
		}
	}

	if len(e.eventClients[eventID]) == 0 {
		delete(e.eventClients, eventID)
	}
}

// ClientCount returns the number of clients currently subscribed to an event
func (e *SeatEventEmitter) ClientCount(eventID int64) int {
	e.eventClientMutex.RLock()
	defer e.eventClientMutex.RUnlock()
	return len(e.eventClients[eventID])
}
