package domain

import "time"

// AuditFields holds standard audit information carried by every persisted
// entity. LastUpdatedAt doubles as the fallback timestamp for revision
// tokens when the storage engine does not maintain its own row timestamp.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}
