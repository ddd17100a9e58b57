package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/adbroadcast/website-backend/internal/cart"
	pkgerrors "github.com/adbroadcast/website-backend/pkg/errors"
	"github.com/adbroadcast/website-backend/pkg/logger"
)

const (
	EmptyCartMessage        = "Please add at least one item to your request list."
	MissingContactMessage   = "Name, email and phone are required."
	InFlightMessage         = "Your request is already being sent."
	DefaultAcceptedMessage  = "Thank you. Your request has been received. We will reach out as soon as possible."
	DefaultRejectedMessage  = "We could not confirm if the request was sent. Please try again or contact us directly."
	TransportFailureMessage = "There was a problem sending your request. Please try again later or contact us by phone."

	maxResponseBytes = 64 << 10
)

// Status is the caller-facing result of a submission.
type Status string

const (
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusFailed   Status = "failed"
)

// Outcome reports how the intake endpoint answered.
type Outcome struct {
	Status     Status `json:"status"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"`
}

// Accepted reports whether the request was recorded.
func (o Outcome) Accepted() bool {
	return o.Status == StatusAccepted
}

// Submitter posts cart contents to the shop intake endpoint. Only one
// submission may be in flight at a time.
type Submitter struct {
	endpoint string
	client   *http.Client
	logg     *logger.Logger
	inFlight atomic.Bool
}

// NewSubmitter builds a submitter for endpoint.
func NewSubmitter(endpoint string, client *http.Client, logg *logger.Logger) (*Submitter, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout endpoint is required")
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Submitter{endpoint: endpoint, client: client, logg: logg}, nil
}

// InFlight reports whether a submission is currently being sent.
func (s *Submitter) InFlight() bool {
	return s.inFlight.Load()
}

// Submit validates the cart and contact locally, then posts the request.
// Local validation failures and concurrent submissions return an error and
// never reach the network; every other result is described by the Outcome.
func (s *Submitter) Submit(ctx context.Context, c *cart.Cart, contact Contact) (Outcome, error) {
	if c == nil || c.IsEmpty() {
		return Outcome{}, pkgerrors.New(pkgerrors.CodeValidation, EmptyCartMessage)
	}
	contact = contact.Trimmed()
	if contact.Name == "" || contact.Email == "" || contact.Phone == "" {
		return Outcome{}, pkgerrors.New(pkgerrors.CodeValidation, MissingContactMessage)
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		return Outcome{}, pkgerrors.New(pkgerrors.CodeConflict, InFlightMessage)
	}
	defer s.inFlight.Store(false)

	outcome := s.send(ctx, BuildRequest(c.Lines(), contact))
	if outcome.Err != nil {
		s.logg.WarnErr(s.logg.WithFields(ctx, map[string]any{
			"endpoint":    s.endpoint,
			"http_status": outcome.HTTPStatus,
		}), "checkout.transport_failed", outcome.Err)
	}
	return outcome, nil
}

func (s *Submitter) send(ctx context.Context, payload Request) Outcome {
	body, err := json.Marshal(payload)
	if err != nil {
		return failed(0, fmt.Errorf("encode checkout request: %w", err))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return failed(0, fmt.Errorf("build checkout request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return failed(0, fmt.Errorf("post checkout request: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return failed(resp.StatusCode, fmt.Errorf("read checkout response: %w", err))
	}
	return interpret(resp.StatusCode, raw)
}

type intakeReply struct {
	flag    *bool
	message string
}

func parseReply(raw []byte) (intakeReply, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return intakeReply{}, err
	}
	if fields == nil {
		return intakeReply{}, errors.New("response is not a JSON object")
	}
	var reply intakeReply
	for _, key := range []string{"ok", "success"} {
		v, present := fields[key]
		if !present {
			continue
		}
		flag := truthy(v)
		if reply.flag == nil || flag {
			reply.flag = &flag
		}
	}
	if v, present := fields["message"]; present {
		_ = json.Unmarshal(v, &reply.message)
	}
	reply.message = strings.TrimSpace(reply.message)
	return reply, nil
}

// truthy reads a flag loosely: false, null, 0 and "" are false, anything
// else is true.
func truthy(raw json.RawMessage) bool {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	}
	return true
}

// interpret maps an intake response onto an Outcome. Server errors and
// unreadable bodies are transport failures; client errors carry the
// server's explanation back to the user.
func interpret(status int, raw []byte) Outcome {
	success := status >= 200 && status < 300
	if status >= 500 {
		return failed(status, fmt.Errorf("intake responded with status %d", status))
	}
	reply, err := parseReply(raw)
	if err != nil {
		return failed(status, fmt.Errorf("decode checkout response: %w", err))
	}

	accepted := success
	if reply.flag != nil {
		accepted = *reply.flag && success
	}
	if accepted {
		return Outcome{Status: StatusAccepted, Message: orDefault(reply.message, DefaultAcceptedMessage), HTTPStatus: status}
	}
	return Outcome{Status: StatusRejected, Message: orDefault(reply.message, DefaultRejectedMessage), HTTPStatus: status}
}

func failed(status int, err error) Outcome {
	return Outcome{Status: StatusFailed, Message: TransportFailureMessage, HTTPStatus: status, Err: err}
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
