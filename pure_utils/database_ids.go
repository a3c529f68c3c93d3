package pure_utils

import (
	"github.com/google/uuid"
)

func NewPrimaryKey() string {
	return uuid.NewString()
}
