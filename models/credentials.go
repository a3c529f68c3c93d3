package models

// Credentials carries the opaque actor identity supplied by the upstream
// identity collaborator. The core never authenticates, it only stamps.
type Credentials struct {
	ActorId string
}
