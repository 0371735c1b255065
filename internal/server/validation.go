package server

import (
	"errors"
	"fmt"
	"strings"
)

const (
	maxNameLength  = 64
	maxTopicLength = 280
)

func validateName(label, name string) (string, error) {
	trimmed := normalizeText(name)
	if trimmed == "" {
		return "", fmt.Errorf("%s is required", label)
	}
	if len(trimmed) > maxNameLength {
		return "", fmt.Errorf("%s must be %d characters or fewer", label, maxNameLength)
	}
	return trimmed, nil
}

func validateTopic(topic string) (string, error) {
	trimmed := normalizeText(topic)
	if trimmed == "" {
		return "", errors.New("topic is required")
	}
	if len(trimmed) > maxTopicLength {
		return "", fmt.Errorf("topic must be %d characters or fewer", maxTopicLength)
	}
	return trimmed, nil
}

func normalizeText(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	return strings.Join(fields, " ")
}
