package domain

// Label keys put on every container logrelay starts.
const (
	LabelManaged = "logrelay.managed"
	LabelImage   = "logrelay.image"
	LabelCommand = "logrelay.command"
	LabelCreated = "logrelay.created"
)
