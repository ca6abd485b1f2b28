package transport

import (
	"errors"
	"io"
	"net"
	"net/textproto"
	"syscall"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

// FailureReason labels why a send failed. It only affects logging.
type FailureReason string

const (
	ReasonAuth          FailureReason = "authentication"
	ReasonDisconnected  FailureReason = "disconnected"
	ReasonRefused       FailureReason = "connection_refused"
	ReasonNotConfigured FailureReason = "not_configured"
	ReasonNoRecipient   FailureReason = "no_recipient"
	ReasonOther         FailureReason = "other"
)

// Classify maps a transport error onto a FailureReason.
func Classify(err error) FailureReason {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotConfigured):
		return ReasonNotConfigured
	case errors.Is(err, ErrNoRecipient):
		return ReasonNoRecipient
	case errors.Is(err, syscall.ECONNREFUSED):
		return ReasonRefused
	case errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, net.ErrClosed),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.EPIPE):
		return ReasonDisconnected
	}

	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		switch tpErr.Code {
		case 530, 534, 535:
			return ReasonAuth
		case 421:
			return ReasonDisconnected
		}
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && (apiErr.Code == 401 || apiErr.Code == 403) {
		return ReasonAuth
	}

	var tokenErr *oauth2.RetrieveError
	if errors.As(err, &tokenErr) {
		return ReasonAuth
	}

	return ReasonOther
}
