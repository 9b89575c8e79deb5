package model

type DeliveryStatus string

const (
	StatusSent     DeliveryStatus = "sent"
	StatusMockSent DeliveryStatus = "mock_sent"
	StatusFailed   DeliveryStatus = "failed"
)

func (s DeliveryStatus) String() string {
	return string(s)
}

func (s DeliveryStatus) Valid() bool {
	return s == StatusSent || s == StatusMockSent || s == StatusFailed
}

type MessageKind string

const (
	KindTemplate MessageKind = "template"
	KindText     MessageKind = "text"
)

// OutboundMessage is either a pre-approved template with ordered params
// or a freeform text body.
type OutboundMessage struct {
	Kind         MessageKind
	TemplateName string
	Params       []string
	Body         string
}

func TemplateMessage(name string, params ...string) OutboundMessage {
	return OutboundMessage{Kind: KindTemplate, TemplateName: name, Params: params}
}

func TextMessage(body string) OutboundMessage {
	return OutboundMessage{Kind: KindText, Body: body}
}

// DeliveryResult is the per-recipient outcome of one dispatch attempt.
// Dispatch never returns an error to the caller; failures surface here.
type DeliveryResult struct {
	Status DeliveryStatus
	Detail string // provider error or raw payload snippet, empty on success
}
