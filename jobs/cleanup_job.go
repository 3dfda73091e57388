package jobs

import (
	"log"
	"time"

	"github.com/findlessons/backend/database"
	"github.com/findlessons/backend/models"
)

// PruneExpiredAvailability removes slots whose timestamp has passed. They can
// never be booked; keeping them out of the ledger keeps listings and the
// calendar honest.
func PruneExpiredAvailability() {
	log.Println("Running job: PruneExpiredAvailability...")

	res := database.DB.
		Where("date < ?", time.Now()).
		Delete(&models.AvailabilitySlot{})
	if res.Error != nil {
		log.Printf("Error pruning expired availability: %v", res.Error)
		return
	}

	if res.RowsAffected > 0 {
		log.Printf("Pruned %d expired availability slot(s).", res.RowsAffected)
	}
}
