// File: lixenwraith/cascade/id.go
package cascade

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TempID is the sentinel game config id for a game that has not been
// persisted yet. A stack built with it carries a memory-only temporary
// level until AssignGameID promotes it.
const TempID = "TEMP_CONFIG"

var (
	idMu   sync.Mutex
	lastID string
)

// NewConfigID returns a unique config id for a newly created game,
// "<slug>-<unix-seconds>". Two calls within the same second get a short
// random suffix so ids never clash.
func NewConfigID(slug string) string {
	idMu.Lock()
	defer idMu.Unlock()

	id := fmt.Sprintf("%s-%d", slug, time.Now().Unix())
	if id == lastID {
		id = fmt.Sprintf("%s-%s", id, uuid.NewString()[:8])
	} else {
		lastID = id
	}
	return id
}

// NewConfigID returns a config id for slug whose backing file does not
// already exist under the games directory, so two processes sharing one
// config root cannot mint the same id.
func (p Paths) NewConfigID(slug string) string {
	id := NewConfigID(slug)
	for {
		if _, err := os.Stat(p.Game(id)); err != nil {
			return id
		}
		id = fmt.Sprintf("%s-%d-%s", slug, time.Now().Unix(), uuid.NewString()[:8])
	}
}
