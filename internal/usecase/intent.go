package usecase

import (
	"context"
	"encoding/json"
	"strings"

	"agendabot/internal/domain"
)

// classifierInstruction pins the classifier to the 3-way taxonomy and to
// JSON-only output. The model is still untrusted; Resolve parses whatever
// comes back defensively.
const classifierInstruction = `Sos el clasificador de intenciones de un asistente de agenda.
Respondé únicamente con un objeto JSON, sin texto adicional, con esta forma exacta:
{"accion":"evento_calendario|recordatorio_local|charla","resumen":"...","descripcion":"...","inicio":"fecha ISO 8601 o vacío","fin":"fecha ISO 8601 o vacío","invitados":["correo@ejemplo.com"]}
Reglas:
- Si el mensaje pide agendar, una reunión, un turno o una cita, e incluye fecha u hora explícita: accion=evento_calendario.
- Si el mensaje pide que lo recuerdes (recordame, recordatorio) sin fecha u hora resoluble: accion=recordatorio_local.
- Si pide un recordatorio pero trae una hora precisa: accion=evento_calendario.
- Saludos, agradecimientos o preguntas generales: accion=charla.`

const chatInstruction = `Sos un asistente personal amable y conciso. Respondé en el idioma del usuario.`

// IntentResolver wraps the classifier collaborator behind the fixed intent
// taxonomy. It degrades safely: any collaborator or parse failure yields
// the empty chitchat intent together with ErrParseFailure, never a panic
// and never a propagated collaborator error.
type IntentResolver struct {
	classifier domain.Classifier
}

func NewIntentResolver(classifier domain.Classifier) *IntentResolver {
	return &IntentResolver{classifier: classifier}
}

type classifierPayload struct {
	Accion      string   `json:"accion"`
	Resumen     string   `json:"resumen"`
	Descripcion string   `json:"descripcion"`
	Inicio      string   `json:"inicio"`
	Fin         string   `json:"fin"`
	Invitados   []string `json:"invitados"`
}

// Resolve classifies text into an Intent. On failure the returned intent is
// the safe chitchat fallback and the error is ErrParseFailure.
func (r *IntentResolver) Resolve(ctx context.Context, text string) (domain.Intent, error) {
	raw, err := r.classifier.Complete(ctx, classifierInstruction, text)
	if err != nil {
		return fallbackIntent(), domain.ErrParseFailure
	}

	var payload classifierPayload
	if err := json.Unmarshal([]byte(stripFences(raw)), &payload); err != nil {
		return fallbackIntent(), domain.ErrParseFailure
	}

	kind, ok := intentKind(payload.Accion)
	if !ok {
		return fallbackIntent(), domain.ErrParseFailure
	}

	return domain.Intent{
		Kind:        kind,
		Summary:     strings.TrimSpace(payload.Resumen),
		Description: strings.TrimSpace(payload.Descripcion),
		StartISO:    strings.TrimSpace(payload.Inicio),
		EndISO:      strings.TrimSpace(payload.Fin),
		Attendees:   payload.Invitados,
	}, nil
}

// Chat is the passthrough branch for chitchat: a plain completion without
// the classifier contract.
func (r *IntentResolver) Chat(ctx context.Context, text string) (string, error) {
	return r.classifier.Complete(ctx, chatInstruction, text)
}

func fallbackIntent() domain.Intent {
	return domain.Intent{Kind: domain.IntentNone}
}

func intentKind(accion string) (domain.IntentKind, bool) {
	switch domain.IntentKind(strings.ToLower(strings.TrimSpace(accion))) {
	case domain.IntentCalendarEvent:
		return domain.IntentCalendarEvent, true
	case domain.IntentLocalReminder:
		return domain.IntentLocalReminder, true
	case domain.IntentChitchat:
		return domain.IntentChitchat, true
	case domain.IntentNone:
		return domain.IntentNone, true
	}
	return domain.IntentNone, false
}

// stripFences removes a ```json ... ``` wrapper some models add despite the
// JSON-only instruction.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
