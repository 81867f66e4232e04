package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("POSTIFY_TEST_MODE") == "" {
			_ = os.Setenv("POSTIFY_TEST_MODE", "1")
		}
	})
}
