// internal/core/ports/notifier.go
package ports

import (
	"context"
	"time"

	"passhunt/internal/core/domain"
)

// Notifier es el port para notificaciones de eventos de la búsqueda.
// Desacopla el motor de la presentación (UI, logs, reportes).
type Notifier interface {
	// Notify envía una notificación para un evento
	Notify(ctx context.Context, event Event) error

	// Close cierra el notifier y libera recursos
	Close() error
}

// Event representa un evento del sistema.
type Event struct {
	// Type tipo de evento
	Type EventType

	// Timestamp momento del evento
	Timestamp time.Time

	// Source componente que generó el evento
	Source string

	// Target archivo relacionado (opcional)
	Target string

	// Data datos específicos del evento
	Data interface{}

	// Severity severidad del evento
	Severity EventSeverity
}

// EventType define los tipos de eventos del sistema.
type EventType string

const (
	EventTypeSearchStarted   EventType = "search.started"
	EventTypeSearchFound     EventType = "search.found"
	EventTypeSearchExhausted EventType = "search.exhausted"
	EventTypeSearchAborted   EventType = "search.aborted"

	EventTypeProgressSample EventType = "progress.sample"

	EventTypeSystemWarning EventType = "system.warning"
)

// EventSeverity define la severidad de un evento.
type EventSeverity string

const (
	EventSeverityInfo    EventSeverity = "info"
	EventSeverityWarning EventSeverity = "warning"
	EventSeverityError   EventSeverity = "error"
)

// NewEvent crea un nuevo evento.
func NewEvent(eventType EventType, source string, data interface{}) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    source,
		Data:      data,
		Severity:  EventSeverityInfo,
	}
}

// TerminalEventType mapea un estado terminal a su evento.
func TerminalEventType(status domain.Status) EventType {
	switch status {
	case domain.StatusFound:
		return EventTypeSearchFound
	case domain.StatusExhausted:
		return EventTypeSearchExhausted
	default:
		return EventTypeSearchAborted
	}
}

// SearchStartedEvent datos para el evento de inicio.
type SearchStartedEvent struct {
	SearchID string
	Target   domain.Target
	Oracle   string
	Workers  int

	// Total candidatos conocidos (-1 = stream)
	Total int64
}

// ProgressSample es la muestra periódica del Progress Reporter.
type ProgressSample struct {
	Attempted int64
	Total     int64
	Remaining int64
	Errors    int64
	Rate      float64
	Elapsed   time.Duration
	Last      string
	Status    domain.Status
}

// Percent retorna el porcentaje completado o -1 si el total es desconocido.
func (p ProgressSample) Percent() float64 {
	if p.Total <= 0 {
		return -1
	}
	return float64(p.Attempted) / float64(p.Total) * 100
}

// NotifierFunc adapta una función a Notifier.
type NotifierFunc func(ctx context.Context, event Event) error

// Notify implementa Notifier.
func (f NotifierFunc) Notify(ctx context.Context, event Event) error { return f(ctx, event) }

// Close implementa Notifier.
func (f NotifierFunc) Close() error { return nil }
