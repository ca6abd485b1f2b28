// internal/controller/campaign_controller.go
package controller

import (
    "context"
    "encoding/json"
    "errors"
    "net/http"

    appErrors "github.com/unclebandit/relief-campaign/internal/errors"
    "github.com/unclebandit/relief-campaign/internal/logger"
    "github.com/unclebandit/relief-campaign/internal/model"
)

// CampaignRunner is satisfied by *service.CampaignService
type CampaignRunner interface {
    Run(ctx context.Context, req model.CampaignRequest) (*model.CampaignResult, error)
}

type CampaignController struct {
    CampaignService CampaignRunner
    Log             *logger.Logger
}

// TriggerCampaign runs a campaign synchronously and returns its summary.
func (c *CampaignController) TriggerCampaign(w http.ResponseWriter, r *http.Request) {
    var body model.CampaignRequest
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
        return
    }

    result, err := c.CampaignService.Run(r.Context(), body)
    if err != nil {
        var vErr *appErrors.ValidationError
        switch {
        case errors.Is(err, appErrors.ErrServiceUnavailable):
            writeError(w, http.StatusServiceUnavailable, "LLM service is not available. Cannot generate campaign content.")
        case errors.As(err, &vErr):
            writeError(w, http.StatusBadRequest, vErr.Error())
        default:
            c.Log.Error().Err(err).Str("location", body.FloodLocation).Msg("campaign trigger failed")
            writeError(w, http.StatusInternalServerError, "Internal Server Error")
        }
        return
    }

    writeJSON(w, http.StatusOK, result)
}
