// internal/controller/contact_controller.go
package controller

import (
    "encoding/json"
    "errors"
    "net/http"
    "strconv"

    "github.com/go-chi/chi/v5"

    appErrors "github.com/unclebandit/relief-campaign/internal/errors"
    "github.com/unclebandit/relief-campaign/internal/logger"
    "github.com/unclebandit/relief-campaign/internal/model"
    "github.com/unclebandit/relief-campaign/internal/repository"
)

type ContactController struct {
    ContactRepo repository.ContactRepositoryInterface
    Log         *logger.Logger
}

func (c *ContactController) CreateContact(w http.ResponseWriter, r *http.Request) {
    var body model.NewContact
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
        return
    }

    id, err := c.ContactRepo.Create(r.Context(), body)
    if err != nil {
        var vErr *appErrors.ValidationError
        var uErr *appErrors.UniqueViolationError
        switch {
        case errors.As(err, &vErr):
            writeError(w, http.StatusBadRequest, vErr.Reason)
        case errors.As(err, &uErr):
            writeError(w, http.StatusConflict, uErr.Error())
        default:
            c.Log.Error().Err(err).Msg("failed to create contact")
            writeError(w, http.StatusInternalServerError, "Internal Server Error")
        }
        return
    }

    contact, err := c.ContactRepo.GetByID(r.Context(), id)
    if err != nil {
        c.Log.Error().Err(err).Int("contact_id", id).Msg("failed to retrieve created contact")
        writeError(w, http.StatusInternalServerError, "Failed to retrieve created contact after insert.")
        return
    }

    c.Log.Info().Int("contact_id", id).Str("name", contact.Name).Msg("contact created")
    writeJSON(w, http.StatusCreated, contact)
}

func (c *ContactController) GetContact(w http.ResponseWriter, r *http.Request) {
    id, err := strconv.Atoi(chi.URLParam(r, "id"))
    if err != nil {
        writeError(w, http.StatusBadRequest, "invalid contact id")
        return
    }

    contact, err := c.ContactRepo.GetByID(r.Context(), id)
    if err != nil {
        var nf *appErrors.ErrContactNotFound
        if errors.As(err, &nf) {
            writeError(w, http.StatusNotFound, "Contact not found")
            return
        }
        c.Log.Error().Err(err).Int("contact_id", id).Msg("failed to fetch contact")
        writeError(w, http.StatusInternalServerError, "Internal Server Error")
        return
    }

    writeJSON(w, http.StatusOK, contact)
}
