package app

import (
	"context"
	"time"

	"goTrayWatch/internal/monitor"
)

// CheckOnce applies the configuration in manual-only mode, takes one sample
// and returns the resulting display snapshot.
func (a *App) CheckOnce(ctx context.Context) (DisplaySnapshot, monitor.Status, error) {
	ctrl, err := a.oneShot()
	if err != nil {
		return DisplaySnapshot{}, monitor.StatusStopped, err
	}
	defer ctrl.Shutdown()

	if err := ctrl.CheckNow(ctx); err != nil {
		return DisplaySnapshot{}, monitor.StatusStopped, err
	}
	snap := ctrl.Snapshot()
	return BuildDisplay(a.version, snap, a.details.read(ctx, snap.Watched), time.Now()), snap.Status, nil
}

// KillOnce finds the watched process and terminates it.
func (a *App) KillOnce(ctx context.Context) error {
	ctrl, err := a.oneShot()
	if err != nil {
		return err
	}
	defer ctrl.Shutdown()
	return ctrl.TerminateWatchedProcess(ctx)
}

func (a *App) oneShot() (*monitor.Controller, error) {
	mc, err := a.cfg.ToMonitor()
	if err != nil {
		return nil, err
	}
	mc.ManualOnly = true
	ctrl := a.newController(nil)
	if err := ctrl.Apply(mc); err != nil {
		ctrl.Shutdown()
		return nil, err
	}
	return ctrl, nil
}
