package cronjob

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/modelify-app/modelify-backend/internal/projects/service"
)

// staleCheckoutAge is how long a project may sit in "paiement_attente"
// before its abandoned checkout is released.
const staleCheckoutAge = 24 * time.Hour

type Scheduler struct {
	lifecycle *service.Lifecycle
}

func NewScheduler(lifecycle *service.Lifecycle) *Scheduler {
	return &Scheduler{lifecycle: lifecycle}
}

// Start initializes cron tasks
func (s *Scheduler) Start() {
	c := cron.New(cron.WithSeconds())

	// every 30 minutes
	_, err := c.AddFunc("0 */30 * * * *", func() {
		s.releaseStaleCheckouts()
	})

	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Println("Cron scheduler started (stale checkout sweep every 30 minutes)")
	c.Start()
}

func (s *Scheduler) releaseStaleCheckouts() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	released, err := s.lifecycle.ReleaseStaleCheckouts(ctx, staleCheckoutAge)
	if err != nil {
		log.Printf("Stale checkout sweep failed: %v", err)
		return
	}
	if released > 0 {
		log.Printf("Released %d stale checkout(s) back to devis_envoyé", released)
	}
}
