package services

import (
	"context"
	"errors"
	"net"
	"net/url"

	"github.com/athebyme/gomarket-stocksync/internal/domain/models"
)

// Виды ошибок для логов, метрик и событий
const (
	ErrorKindTimeout    = "timeout"
	ErrorKindConnection = "connection"
	ErrorKindHTTPStatus = "http_status"
	ErrorKindDecode     = "decode"
	ErrorKindParse      = "parse"
	ErrorKindOther      = "other"
)

type httpStatusError interface {
	HTTPStatus() int
}

// ClassifyError определяет вид ошибки цели
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return ErrorKindTimeout
	}

	var statusErr httpStatusError
	if errors.As(err, &statusErr) {
		return ErrorKindHTTPStatus
	}

	switch {
	case errors.Is(err, models.ErrMalformedResponse):
		return ErrorKindDecode
	case errors.Is(err, models.ErrParse):
		return ErrorKindParse
	}

	var (
		opErr  *net.OpError
		dnsErr *net.DNSError
		urlErr *url.Error
	)
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) {
		return ErrorKindConnection
	}
	if errors.As(err, &urlErr) && !errors.Is(err, context.Canceled) {
		return ErrorKindConnection
	}

	return ErrorKindOther
}
