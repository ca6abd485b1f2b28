package service_test

import (
	"context"
	"sort"
	"sync"

	appErrors "github.com/unclebandit/relief-campaign/internal/errors"
	"github.com/unclebandit/relief-campaign/internal/model"
	"github.com/unclebandit/relief-campaign/internal/transport"
)

func strPtr(s string) *string { return &s }

// MockBackend returns a canned completion
type MockBackend struct {
	mu       sync.Mutex
	Response string
	Err      error
	Calls    int
	Prompts  []string
}

func (m *MockBackend) Complete(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	m.Prompts = append(m.Prompts, prompt)
	return m.Response, m.Err
}

// MockContactRepo stores contacts in memory
type MockContactRepo struct {
	Contacts map[int]model.Contact
	Err      error
}

func (m *MockContactRepo) Create(ctx context.Context, c model.NewContact) (int, error) {
	id := len(m.Contacts) + 1
	m.Contacts[id] = model.Contact{ID: id, Name: c.Name, Email: c.Email, Phone: c.Phone}
	return id, nil
}

func (m *MockContactRepo) GetByID(ctx context.Context, id int) (*model.Contact, error) {
	c, ok := m.Contacts[id]
	if !ok {
		return nil, appErrors.NewContactNotFound(id)
	}
	return &c, nil
}

func (m *MockContactRepo) GetByIDs(ctx context.Context, ids []int) ([]model.Contact, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	seen := map[int]bool{}
	out := []model.Contact{}
	for _, id := range ids {
		if c, ok := m.Contacts[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// MockEmail records every message and fails for addresses in Fail
type MockEmail struct {
	Sent    []transport.Message
	Fail    map[string]bool
	PanicOn string
}

func (m *MockEmail) Dispatch(ctx context.Context, msg transport.Message) bool {
	if msg.To == m.PanicOn {
		panic("boom")
	}
	m.Sent = append(m.Sent, msg)
	return !m.Fail[msg.To]
}

// MockSMS records every job and fails for numbers in Fail
type MockSMS struct {
	Jobs []model.SMSJob
	Fail map[string]bool
}

func (m *MockSMS) Dispatch(ctx context.Context, job model.SMSJob) bool {
	m.Jobs = append(m.Jobs, job)
	return !m.Fail[job.To]
}

// MockGateway is an SMSSender for the worker
type MockGateway struct {
	Jobs []model.SMSJob
	Err  error
}

func (m *MockGateway) Send(ctx context.Context, job model.SMSJob) error {
	m.Jobs = append(m.Jobs, job)
	return m.Err
}
