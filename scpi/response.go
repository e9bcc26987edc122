package scpi

// ResponseKind classifies the outcome of one command exchange.
type ResponseKind uint8

const (
	// ResponseText indicates a response line was read from the device.
	// The text may legitimately be empty if the device sent only whitespace.
	ResponseText ResponseKind = iota
	// ResponseNone indicates a query produced no data: the device closed the
	// stream or returned zero bytes before the read deadline elapsed.
	ResponseNone
	// ResponseAck is the synthetic acknowledgement for set commands, which
	// never trigger a read on the wire.
	ResponseAck
)

// String returns string representation of the response kind.
func (k ResponseKind) String() string {
	switch k {
	case ResponseText:
		return "text"
	case ResponseNone:
		return "none"
	case ResponseAck:
		return "ack"
	default:
		return "unknown"
	}
}

// Textual renderings for the non-text response kinds.
//
// NoResponseMarker is deliberately distinct from a genuine empty response
// string, so observers can tell "the device answered with nothing" apart from
// "the device answered with an empty line".
const (
	NoResponseMarker = "no response"
	AckMarker        = "OK"
)

// Response is the result of sending one Command.
type Response struct {
	// Kind classifies the response; Text is only meaningful for ResponseText.
	Kind ResponseKind
	// Text is the whitespace-trimmed response line read from the device.
	Text string
}

// TextResponse returns a Response carrying a response line read from the device.
func TextResponse(text string) Response {
	return Response{Kind: ResponseText, Text: text}
}

// NoResponse returns the explicit no-data Response for queries.
func NoResponse() Response {
	return Response{Kind: ResponseNone}
}

// AckResponse returns the synthetic acknowledgement for set commands.
func AckResponse() Response {
	return Response{Kind: ResponseAck}
}

// HasText reports whether the response carries a line read from the device.
func (r Response) HasText() bool { return r.Kind == ResponseText }

// String renders the response for display: the response text for ResponseText,
// the "no response" marker for ResponseNone, and "OK" for ResponseAck.
func (r Response) String() string {
	switch r.Kind {
	case ResponseNone:
		return NoResponseMarker
	case ResponseAck:
		return AckMarker
	default:
		return r.Text
	}
}
