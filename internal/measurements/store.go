package measurements

import (
	"context"
	"errors"
	"sync"
)

//go:generate mockgen -source=$GOFILE -destination=store_mocks_test.go -package=measurements_test

var ErrDocumentNotFound = errors.New("patient document not found")

// PatientDocument is the stored per-patient document. Sexo is kept raw, as
// written by the signup flow ("Hombre", "Mujer", ...).
type PatientDocument struct {
	Sexo         string  `json:"sexo"`
	Measurements History `json:"measurements"`
}

// DocumentStore is the persistence collaborator: read one document, or
// overwrite its whole measurements array. There is no partial update and
// no version check, the last writer wins.
type DocumentStore interface {
	ReadDocument(ctx context.Context, userID string) (*PatientDocument, error)
	OverwriteMeasurements(ctx context.Context, userID string, history History) error
}

var _ DocumentStore = (*MemoryStore)(nil)

// MemoryStore keeps documents in process. Used by tests and by the memory
// store mode of the service.
type MemoryStore struct {
	mutex sync.RWMutex
	docs  map[string]PatientDocument

	// CreateMissing makes OverwriteMeasurements create documents that do not
	// exist yet, with an empty sexo. Used by the memory mode of the service.
	CreateMissing bool

	// fault injection for failure path tests
	FailReads  error
	FailWrites error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]PatientDocument),
	}
}

// Put creates or replaces the whole document of userID.
func (s *MemoryStore) Put(userID string, doc PatientDocument) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	doc.Measurements = doc.Measurements.Clone()
	s.docs[userID] = doc
}

func (s *MemoryStore) ReadDocument(_ context.Context, userID string) (*PatientDocument, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.FailReads != nil {
		return nil, s.FailReads
	}

	doc, ok := s.docs[userID]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	doc.Measurements = doc.Measurements.Clone()
	return &doc, nil
}

func (s *MemoryStore) OverwriteMeasurements(_ context.Context, userID string, history History) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.FailWrites != nil {
		return s.FailWrites
	}

	doc, ok := s.docs[userID]
	if !ok && !s.CreateMissing {
		return ErrDocumentNotFound
	}
	doc.Measurements = history.Clone()
	s.docs[userID] = doc
	return nil
}
