package domain

import (
	"context"
	"errors"
)

var (
	ErrInvalidDate  = errors.New("fecha inválida")
	ErrParseFailure = errors.New("no se pudo interpretar la respuesta del clasificador")
)

type IntentKind string

const (
	IntentCalendarEvent IntentKind = "evento_calendario"
	IntentLocalReminder IntentKind = "recordatorio_local"
	IntentChitchat      IntentKind = "charla"
	IntentNone          IntentKind = "ninguna"
)

// Intent is the structured classification of one inbound message. It is
// produced per message and never persisted.
type Intent struct {
	Kind        IntentKind
	Summary     string
	Description string
	StartISO    string
	EndISO      string
	Attendees   []string
}

// Classifier is the LLM collaborator. It is untrusted: Complete returns
// whatever text the model produced and callers must parse defensively.
type Classifier interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
