package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/motonorte/storefront-go/internal/infrastructure/observability/logging"
	"github.com/motonorte/storefront-go/internal/infrastructure/observability/performance"
	"github.com/motonorte/storefront-go/internal/infrastructure/persistence/kv"
	"github.com/motonorte/storefront-go/internal/infrastructure/security"
)

// contactHistoryLimit caps how many submissions are retained per profile,
// newest first.
const contactHistoryLimit = 50

// ContactInput is the contact form payload.
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Validate checks every contact field and returns the first failure.
// Phone is optional; the rest are required.
func (in *ContactInput) Validate() *ValidationError {
	if len([]rune(strings.TrimSpace(in.Name))) < 2 {
		return &ValidationError{Field: "name", Message: "Por favor ingresa tu nombre completo"}
	}
	if !emailPattern.MatchString(strings.TrimSpace(in.Email)) {
		return &ValidationError{Field: "email", Message: "Por favor ingresa un email válido"}
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" && len(phone) < 10 {
		return &ValidationError{Field: "phone", Message: "El teléfono debe tener al menos 10 dígitos"}
	}
	if strings.TrimSpace(in.Subject) == "" {
		return &ValidationError{Field: "subject", Message: "Por favor selecciona un asunto"}
	}
	if len([]rune(strings.TrimSpace(in.Message))) < 10 {
		return &ValidationError{Field: "message", Message: "El mensaje debe tener al menos 10 caracteres"}
	}
	return nil
}

// ContactMessage is one stored contact form submission.
type ContactMessage struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submittedAt"`
	Read        bool      `json:"read"`
}

// ContactService records contact form submissions per profile.
type ContactService struct {
	store   kv.Store
	logger  *logging.ChanneledLogger
	tracker *performance.Tracker
}

// NewContactService creates a contact service.
func NewContactService(store kv.Store, logger *logging.ChanneledLogger, tracker *performance.Tracker) *ContactService {
	return &ContactService{store: store, logger: logger, tracker: tracker}
}

// Submit validates the form and prepends the submission to the stored
// history, keeping at most the newest fifty messages.
func (s *ContactService) Submit(profileID string, in ContactInput, origin string) (*ContactMessage, error) {
	marker := s.tracker.StartOperation("contact_submit", profileID)
	defer marker.Complete()

	if verr := in.Validate(); verr != nil {
		marker.SetError(verr)
		return nil, verr
	}

	msg := ContactMessage{
		ID:          "msg_" + security.GenerateULID(),
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.TrimSpace(in.Email),
		Phone:       strings.TrimSpace(in.Phone),
		Subject:     strings.TrimSpace(in.Subject),
		Message:     strings.TrimSpace(in.Message),
		SubmittedAt: time.Now().UTC(),
	}

	history := s.History(profileID)
	history = append([]ContactMessage{msg}, history...)
	if len(history) > contactHistoryLimit {
		history = history[:contactHistoryLimit]
	}

	data, err := json.Marshal(history)
	if err != nil {
		marker.SetError(err)
		return nil, fmt.Errorf("failed to encode contact history: %w", err)
	}
	if err := s.store.Set(profileID, kv.KeyContactHistory, string(data), origin); err != nil {
		marker.SetError(err)
		return nil, err
	}

	s.logger.System().Info("Contact message recorded", "profileId", profileID, "subject", msg.Subject)
	marker.SetSuccess(true)
	return &msg, nil
}

// History returns the stored submissions, newest first. Absent or
// unparseable data reads as an empty history.
func (s *ContactService) History(profileID string) []ContactMessage {
	raw, ok := s.store.Get(profileID, kv.KeyContactHistory)
	if !ok {
		return nil
	}
	var history []ContactMessage
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		s.logger.Storage().Warn("Contact history unparseable, treating as empty",
			"profileId", profileID, "error", err.Error())
		return nil
	}
	return history
}
