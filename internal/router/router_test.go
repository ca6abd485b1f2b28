package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/relief-campaign/internal/config"
	"github.com/unclebandit/relief-campaign/internal/controller"
	"github.com/unclebandit/relief-campaign/internal/db"
	"github.com/unclebandit/relief-campaign/internal/handler"
	"github.com/unclebandit/relief-campaign/internal/logger"
	"github.com/unclebandit/relief-campaign/internal/middleware"
	"github.com/unclebandit/relief-campaign/internal/model"
	"github.com/unclebandit/relief-campaign/internal/queue"
	"github.com/unclebandit/relief-campaign/internal/repository"
	"github.com/unclebandit/relief-campaign/internal/router"
	"github.com/unclebandit/relief-campaign/internal/service"
	"github.com/unclebandit/relief-campaign/internal/transport"
)

type staticBackend struct{ response string }

func (b staticBackend) Complete(ctx context.Context, prompt string) (string, error) {
	return b.response, nil
}

type inbox struct{ messages []transport.Message }

func (i *inbox) Send(ctx context.Context, msg transport.Message) error {
	i.messages = append(i.messages, msg)
	return nil
}

type app struct {
	handler http.Handler
	inbox   *inbox
	sms     []model.SMSJob
}

func newApp(t *testing.T, withLLM bool) *app {
	t.Helper()

	database, err := db.Open(config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, database.MigrateUp())

	log := logger.Nop()
	a := &app{inbox: &inbox{}}

	var gen *service.ContentGenerator
	if withLLM {
		gen = service.NewContentGenerator(staticBackend{response: `{"research_summary":"Rivers burst.","message_template":"Please help Houston. [Donation Link]","verification":"Needed."}`}, log)
	} else {
		gen = service.NewContentGenerator(nil, log)
	}

	q := queue.NewInMemoryQueue()
	q.Subscribe("sms_outbound", func(ctx context.Context, payload []byte) error {
		var job model.SMSJob
		if err := json.Unmarshal(payload, &job); err != nil {
			return err
		}
		a.sms = append(a.sms, job)
		return nil
	})

	contacts := &repository.ContactRepository{DB: database.DB}
	campaigns := &service.CampaignService{
		Generator:    gen,
		ContactRepo:  contacts,
		Email:        transport.NewEmailDispatcher(a.inbox, log),
		SMS:          transport.NewSMSDispatcher(&transport.QueueSMS{Publisher: q, Topic: "sms_outbound"}, log),
		DonationLink: "https://give.example.org",
		Log:          log,
	}

	a.handler = router.New(
		&controller.CampaignController{CampaignService: campaigns, Log: log},
		&controller.ContactController{ContactRepo: contacts, Log: log},
		&handler.HealthHandler{DB: database, Generator: gen, Email: "smtp", SMS: "simulate", Log: log},
		middleware.New(log),
	)
	return a
}

func (a *app) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, httptest.NewRequest(method, path, &buf))
	return rec
}

func TestContacts(t *testing.T) {
	a := newApp(t, true)

	rec := a.do(t, http.MethodPost, "/contacts/", map[string]interface{}{"name": "Aditya Chan", "email": "aditya@example.com"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created model.Contact
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Aditya Chan", created.Name)
	assert.Nil(t, created.Phone)

	rec = a.do(t, http.MethodGet, "/contacts/1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"name":"Aditya Chan","email":"aditya@example.com","phone":null}`, rec.Body.String())

	rec = a.do(t, http.MethodPost, "/contacts/", map[string]interface{}{"name": "Copy", "email": "aditya@example.com"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = a.do(t, http.MethodPost, "/contacts/", map[string]interface{}{"name": "Nobody", "email": nil, "phone": nil})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"At least one of email or phone must be provided."}`, rec.Body.String())

	rec = a.do(t, http.MethodGet, "/contacts/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Contact not found"}`, rec.Body.String())

	rec = a.do(t, http.MethodGet, "/contacts/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTriggerCampaign(t *testing.T) {
	a := newApp(t, true)

	require.Equal(t, http.StatusCreated, a.do(t, http.MethodPost, "/contacts/", map[string]interface{}{"name": "Aditya Chan", "email": "aditya@example.com"}).Code)
	require.Equal(t, http.StatusCreated, a.do(t, http.MethodPost, "/contacts/", map[string]interface{}{"name": "King Chan", "phone": "+15550002"}).Code)

	rec := a.do(t, http.MethodPost, "/campaign/trigger/", map[string]interface{}{
		"flood_location":     "Houston, Texas",
		"target_contact_ids": []int{1, 2},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result model.CampaignResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "Campaign trigger processed", result.Status)
	assert.Equal(t, 2, result.ContactsFound)
	assert.Equal(t, 1, result.EmailsSent)
	assert.Equal(t, 1, result.ContactsSkippedNoEmail)
	assert.Equal(t, 1, result.SMSSent)
	assert.Equal(t, "https://give.example.org", result.DonationLink)

	require.Len(t, a.inbox.messages, 1)
	assert.Equal(t, "Urgent: Support Needed for Houston, Texas Flood Relief", a.inbox.messages[0].Subject)
	assert.Contains(t, a.inbox.messages[0].Body, "https://give.example.org")
	require.Len(t, a.sms, 1)
	assert.Equal(t, "+15550002", a.sms[0].To)
}

func TestTriggerCampaign_Errors(t *testing.T) {
	a := newApp(t, false)

	rec := a.do(t, http.MethodPost, "/campaign/trigger/", map[string]interface{}{"flood_location": "Houston"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"detail":"LLM service is not available. Cannot generate campaign content."}`, rec.Body.String())

	rec = a.do(t, http.MethodPost, "/campaign/trigger/", map[string]interface{}{"flood_location": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/campaign/trigger/", bytes.NewBufferString("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	a := newApp(t, false)

	rec := a.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","services":{"database":"healthy","llm":"unavailable","email":"smtp","sms":"simulate"}}`, rec.Body.String())

	rec = a.do(t, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
