package ezviz

import (
	"errors"
	"fmt"
)

// ErrMissingSerial - не указан серийный номер устройства
var ErrMissingSerial = errors.New("device serial is required")

// TransportError - сетевая ошибка, таймаут или нечитаемый ответ
type TransportError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("ezviz %s: http status %d: %v", e.Endpoint, e.Status, e.Err)
	}
	return fmt.Sprintf("ezviz %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ApplicationError - облако ответило, но с кодом, отличным от "200"
type ApplicationError struct {
	Endpoint string
	Code     string
	Msg      string
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("ezviz %s: code %s: %s", e.Endpoint, e.Code, e.Msg)
}
