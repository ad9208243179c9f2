package services

import (
	"context"

	"warehouse/internal/dataservice"
	"warehouse/internal/domain"
	"warehouse/internal/notify"
	"warehouse/internal/staged"
	"warehouse/internal/view"
)

// WorkerData drives one worker profile page.
type WorkerData struct {
	ID       string
	Svc      dataservice.WorkerService
	Notifier notify.Notifier
	Session  domain.Session

	loader *staged.Loader
}

func NewWorkerData(svc dataservice.WorkerService, notifier notify.Notifier, session domain.Session, id string) *WorkerData {
	d := &WorkerData{ID: id, Svc: svc, Notifier: notifier, Session: session}

	d.loader = staged.NewLoader(
		staged.Section{Name: secBasicInfo, Phase: staged.PhaseBasic, Critical: true, Fetch: func(ctx context.Context) (any, error) {
			rec, err := svc.Get(ctx, d.ID)
			if err != nil {
				return nil, err
			}
			return d.BasicInfo().Merge(rec), nil
		}},
		staged.Section{Name: secAssignments, Phase: staged.PhaseDetail, Fetch: func(ctx context.Context) (any, error) {
			items, err := svc.Assignments(ctx, d.ID)
			if err != nil {
				return nil, err
			}
			return items, nil
		}},
		staged.Section{Name: secPerformance, Phase: staged.PhaseDetail, Fetch: func(ctx context.Context) (any, error) {
			rec, err := svc.Performance(ctx, d.ID)
			if err != nil {
				return nil, err
			}
			return rec, nil
		}},
		staged.Section{Name: secActions, Phase: staged.PhaseDetail, Fetch: func(ctx context.Context) (any, error) {
			return d.AvailableActions(), nil
		}},
	)
	return d
}

func (d *WorkerData) Load(ctx context.Context) {
	if d.ID == "" {
		return
	}
	d.loader.Load(ctx)
}

func (d *WorkerData) RefreshBasicInfo(ctx context.Context) { d.loader.RefreshBasic(ctx) }

func (d *WorkerData) RefreshAll(ctx context.Context) {
	if d.ID == "" {
		return
	}
	d.loader.RefreshAll(ctx)
}

func (d *WorkerData) Close() { d.loader.Close() }

func (d *WorkerData) Snapshot() staged.Snapshot { return d.loader.Snapshot() }

func (d *WorkerData) BasicInfo() domain.Record {
	if rec, ok := d.loader.Data(secBasicInfo).(domain.Record); ok {
		return rec
	}
	return nil
}

func (d *WorkerData) Status() domain.Status {
	return domain.Status(d.BasicInfo().String("status"))
}

func (d *WorkerData) AvailableActions() []string {
	return domain.WorkerTransitions.ActionsFor(d.Status())
}

func (d *WorkerData) refreshDerivedActions() {
	d.loader.Set(secActions, d.AvailableActions())
}

func (d *WorkerData) UpdateWorker(ctx context.Context, patch domain.Record) domain.ActionResult {
	if d.ID == "" {
		return domain.Fail("no worker loaded")
	}
	prev := d.loader.Update(secBasicInfo, func(old any) any {
		rec, _ := old.(domain.Record)
		return rec.Merge(patch)
	})
	d.refreshDerivedActions()

	rec, err := d.Svc.Update(ctx, d.ID, patch)
	if err != nil {
		d.loader.Set(secBasicInfo, prev)
		d.refreshDerivedActions()
		d.Notifier.Notify(notify.Notification{Type: notify.Error, Message: "Worker update failed", Description: err.Error()})
		return actionFailure(err)
	}

	d.loader.Update(secBasicInfo, func(old any) any {
		cur, _ := old.(domain.Record)
		return cur.Merge(rec)
	})
	d.refreshDerivedActions()
	d.Notifier.Notify(notify.Notification{Type: notify.Success, Message: "Worker updated"})
	return domain.OK(rec)
}

func (d *WorkerData) UpdateStatus(ctx context.Context, to domain.Status) domain.ActionResult {
	if d.ID == "" {
		return domain.Fail("no worker loaded")
	}
	from := d.Status()
	if !domain.WorkerTransitions.CanTransition(from, to) {
		return domain.Fail("status change " + string(from) + " -> " + string(to) + " is not allowed")
	}

	prev := d.loader.Update(secBasicInfo, func(old any) any {
		rec, _ := old.(domain.Record)
		return rec.Merge(domain.Record{"status": string(to)})
	})
	d.refreshDerivedActions()

	if err := d.Svc.UpdateStatus(ctx, d.ID, to); err != nil {
		d.loader.Set(secBasicInfo, prev)
		d.refreshDerivedActions()
		d.Notifier.Notify(notify.Notification{Type: notify.Error, Message: "Status change failed", Description: err.Error()})
		return actionFailure(err)
	}

	d.Notifier.Notify(notify.Notification{Type: notify.Success, Message: "Worker " + string(to)})
	return domain.OK(nil)
}

func (d *WorkerData) Page() view.PageView {
	return view.Compose(d.Snapshot(), view.Components{}, view.Options{
		BackRoute: "/workers",
		SectionData: map[view.SectionKey]string{
			view.KeyDetails:   secPerformance,
			view.KeyItemsList: secAssignments,
		},
	})
}
