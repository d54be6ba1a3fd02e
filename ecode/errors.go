package ecode

import (
	"fmt"
)

const (
	emptyMsg    = "empty"
	requiredMsg = "required"
	invalidMsg  = "invalid"
	failedMsg   = "failed"
	expiredMsg  = "expired"
)

// FieldIsRequired returns field required message
func FieldIsRequired(k ...string) string {
	if len(k) > 0 {
		return fmt.Sprintf("%s %s", k[0], requiredMsg)
	}
	return requiredMsg
}

// FieldIsEmpty returns field empty message
func FieldIsEmpty(k ...string) string {
	if len(k) > 0 {
		return fmt.Sprintf("%s %s", k[0], emptyMsg)
	}
	return emptyMsg
}

// FieldIsInvalid returns field invalid message
func FieldIsInvalid(k ...string) string {
	if len(k) > 0 {
		return fmt.Sprintf("%s %s", k[0], invalidMsg)
	}
	return invalidMsg
}

// Failed returns failed message
func Failed(k ...string) string {
	if len(k) > 0 {
		return fmt.Sprintf("%s %s", k[0], failedMsg)
	}
	return failedMsg
}

// Expired returns expired message
func Expired(k ...string) string {
	if len(k) > 0 {
		return fmt.Sprintf("%s %s", k[0], expiredMsg)
	}
	return expiredMsg
}
