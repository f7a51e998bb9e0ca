package keyboard

import (
	"errors"
	"fmt"
	"strings"
)

const (
	CallbackDataSeparator  = ":"
	CallbackDataLimitBytes = 64
)

// EncodeCallback joins an action and its payload into Telegram callback data.
func EncodeCallback(action, data string) (string, error) {
	if action == "" {
		return "", errors.New("callback action is empty")
	}

	payload := action
	if data != "" {
		payload = action + CallbackDataSeparator + data
	}

	if len(payload) > CallbackDataLimitBytes {
		return "", fmt.Errorf("callback data exceeds %d byte limit: got %d", CallbackDataLimitBytes, len(payload))
	}

	return payload, nil
}

// DecodeCallback splits callback data at the first separator. The payload may itself contain separators.
func DecodeCallback(callbackData string) (action, data string, err error) {
	if callbackData == "" {
		return "", "", errors.New("callback data is empty")
	}

	action, data, _ = strings.Cut(callbackData, CallbackDataSeparator)
	return action, data, nil
}
