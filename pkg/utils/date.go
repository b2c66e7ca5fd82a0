package utils

import (
	"fmt"
	"strings"
	"time"
)

// DateLayouts são os formatos de data aceitos na entrada, em ordem de tentativa
var DateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"2006-01",
}

// ParseDate interpreta a data usando o primeiro layout compatível.
// Uma string vazia retorna a data zero sem erro.
func ParseDate(dateStr string) (*time.Time, error) {
	var date time.Time

	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return &date, nil
	}

	for _, layout := range DateLayouts {
		incomingDate, err := time.Parse(layout, dateStr)
		if err == nil {
			return &incomingDate, nil
		}
	}

	return nil, fmt.Errorf("data em formato não reconhecido: %q", dateStr)
}
