package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// View is the payload of a page render: the template the page corresponds to,
// the values it displays, and the flashes consumed by this render.
type View struct {
	Template string `json:"template"`
	Values   any    `json:"values,omitempty"`
	Flashes  any    `json:"flashes"`
}
