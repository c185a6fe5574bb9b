package carrier

import (
	"time"

	"github.com/google/uuid"
)

// Carrier represents an outside carrier loads can be brokered to.
type Carrier struct {
	ID        uuid.UUID
	Name      string
	MCNumber  *string
	Phone     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
