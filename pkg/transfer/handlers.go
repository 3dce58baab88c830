package transfer

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"

	"github.com/hauskeep/hauskeep/pkg/cloud"
	"github.com/hauskeep/hauskeep/pkg/errcodes"
)

type handler struct {
	orchestrator *Orchestrator
}

// available is the capability probe the UI uses to decide whether to show
// the cloud transfer entry point at all.
func (h *handler) available(c echo.Context) error {
	return errors.WithStack(c.JSON(http.StatusOK, AvailableResponse{Available: true}))
}

// authenticate logs into or registers the cloud account. Cloud-side
// failures come back as a 200 with success=false; the UI shows the message
// inline rather than treating it as a request error.
func (h *handler) authenticate(c echo.Context) error {
	ctx := c.Request().Context()

	params := AuthenticatePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	firstName := ""
	if params.FirstName != nil {
		firstName = *params.FirstName
	}
	lastName := ""
	if params.LastName != nil {
		lastName = *params.LastName
	}

	err := h.orchestrator.Authenticate(ctx, params.Email, params.Password, params.IsRegistration, firstName, lastName)
	if err != nil {
		log := logger.FromContext(ctx)
		log.Err(err).Error("cloud authenticate error")

		msg := remoteMessage(err)
		return errors.WithStack(c.JSON(http.StatusOK, AuthenticateResponse{
			Success:      false,
			ErrorMessage: &msg,
		}))
	}

	email := params.Email
	return errors.WithStack(c.JSON(http.StatusOK, AuthenticateResponse{
		Success:        true,
		CloudUserEmail: &email,
	}))
}

func (h *handler) summary(c echo.Context) error {
	ctx := c.Request().Context()

	counts, err := h.orchestrator.Summary(ctx)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, SummaryResponse{Categories: counts}))
}

func (h *handler) session(c echo.Context) error {
	ctx := c.Request().Context()

	session, err := h.orchestrator.SessionInfo(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		return errors.WithStack(c.JSON(http.StatusOK, SessionInfoResponse{}))
	}

	startedAt := session.StartedAt
	return errors.WithStack(c.JSON(http.StatusOK, SessionInfoResponse{
		HasIncompleteSession: true,
		SessionID:            &session.ID,
		CurrentCategory:      session.CurrentCategory,
		StartedAt:            &startedAt,
	}))
}

func (h *handler) start(c echo.Context) error {
	ctx := c.Request().Context()

	params := StartPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	sessionID, err := h.orchestrator.Start(ctx, params.IncludeHistory, params.Resume)
	if err != nil {
		codeErr := &errcodes.Error{}
		if errors.As(err, &codeErr) {
			return err
		}
		// A failed credential restore is a remote-side problem, not a bad
		// request. Anything else (ledger writes, category setup) is a
		// server error and goes through the normal handler.
		remoteErr := &cloud.RemoteError{}
		if errors.As(err, &remoteErr) {
			return errcodes.Unauthorized(remoteErr.Message)
		}
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, StartResponse{SessionID: sessionID}))
}

func (h *handler) progress(c echo.Context) error {
	progress, ok := h.orchestrator.Progress()
	if !ok {
		return errors.WithStack(c.NoContent(http.StatusNoContent))
	}

	return errors.WithStack(c.JSON(http.StatusOK, progress))
}

func (h *handler) cancel(c echo.Context) error {
	h.orchestrator.Cancel()
	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func (h *handler) results(c echo.Context) error {
	ctx := c.Request().Context()

	results, err := h.orchestrator.Results(ctx)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, ResultsResponse{Categories: results}))
}
