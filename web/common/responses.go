package common

type ErrorResponse struct {
	Message string `json:"message"`
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		Message: message,
	}
}

// MessageResponse is used where the API reports an outcome with an
// optional payload alongside a human-readable message.
type MessageResponse struct {
	Message string      `json:"message"`
	Record  interface{} `json:"record,omitempty"`
}

func NewMessageResponse(message string, record interface{}) *MessageResponse {
	return &MessageResponse{
		Message: message,
		Record:  record,
	}
}
