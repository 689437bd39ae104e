package response

import (
	"time"
)

type Receipt struct {
	OrderID     string    `json:"orderId,omitempty"`
	Status      string    `json:"status,omitempty"`
	Message     string    `json:"message,omitempty"`
	ProcessedAt time.Time `json:"processedAt,omitempty"`
}
