package iostore

import (
	"fmt"

	"github.com/mfofanah/dhistat/schema"
)

// PrintStoreStatus prints results store status information.
func PrintStoreStatus(status schema.StoreStatus) {
	fmt.Printf("Store Backend: %s\n", status.Backend)
	if status.Location != "" {
		fmt.Printf("Location: %s\n", status.Location)
	}
	fmt.Printf("Total Runs: %d\n", status.RunCount)
	fmt.Printf("Total Level Values: %d\n", status.ValueCount)
	if status.RunCount > 0 {
		fmt.Printf("Last Run: %s\n", status.LastRun.Format("2006-01-02 15:04:05"))
	}
}
