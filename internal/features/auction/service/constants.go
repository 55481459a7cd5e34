package service

import "time"

const (
	// PersistTimeout bounds a single durable write triggered by a bid or a
	// finalization.
	PersistTimeout = 10 * time.Second

	// RenderTimeout bounds a best-effort card render or announcement.
	RenderTimeout = 15 * time.Second
)
