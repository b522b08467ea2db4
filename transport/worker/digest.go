package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"agendabot/internal/domain"
	"agendabot/internal/usecase"
)

// DigestJob fans the daily digest out to every known identity at a fixed
// local time.
type DigestJob struct {
	digest    *usecase.DigestBuilder
	users     domain.UserRepository
	messenger domain.Messenger
	cron      *cron.Cron
}

func NewDigestJob(digest *usecase.DigestBuilder, users domain.UserRepository, messenger domain.Messenger, loc *time.Location) *DigestJob {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	c := cron.New(
		cron.WithParser(parser),
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	return &DigestJob{
		digest:    digest,
		users:     users,
		messenger: messenger,
		cron:      c,
	}
}

// Start registers spec (minute-precision cron syntax) and begins firing.
func (j *DigestJob) Start(spec string) error {
	if _, err := j.cron.AddFunc(spec, j.run); err != nil {
		return err
	}
	j.cron.Start()
	return nil
}

// Stop halts the trigger and waits for a running fan-out to finish.
func (j *DigestJob) Stop() {
	<-j.cron.Stop().Done()
}

func (j *DigestJob) run() {
	ctx := context.Background()

	identities, err := j.users.Identities(ctx)
	if err != nil {
		slog.Error("no se pudieron listar las identidades para el resumen", "error", err)
		return
	}

	for _, identity := range identities {
		text := j.digest.Digest(ctx, identity)
		if err := j.messenger.Send(ctx, identity, text, ""); err != nil {
			slog.Warn("no se pudo enviar el resumen diario", "identity", identity, "error", err)
		}
	}
}
