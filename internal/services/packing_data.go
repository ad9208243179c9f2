package services

import (
	"context"

	"warehouse/internal/dataservice"
	"warehouse/internal/domain"
	"warehouse/internal/notify"
	"warehouse/internal/staged"
	"warehouse/internal/view"
)

// PackingData drives one packing task detail page.
type PackingData struct {
	ID       string
	Svc      dataservice.PackingService
	Notifier notify.Notifier
	Session  domain.Session

	loader *staged.Loader
}

func NewPackingData(svc dataservice.PackingService, notifier notify.Notifier, session domain.Session, id string) *PackingData {
	d := &PackingData{ID: id, Svc: svc, Notifier: notifier, Session: session}

	d.loader = staged.NewLoader(
		staged.Section{Name: secBasicInfo, Phase: staged.PhaseBasic, Critical: true, Fetch: func(ctx context.Context) (any, error) {
			rec, err := svc.Get(ctx, d.ID)
			if err != nil {
				return nil, err
			}
			return d.BasicInfo().Merge(rec), nil
		}},
		staged.Section{Name: secItems, Phase: staged.PhaseDetail, Fetch: func(ctx context.Context) (any, error) {
			items, err := svc.Items(ctx, d.ID)
			if err != nil {
				return nil, err
			}
			return items, nil
		}},
		staged.Section{Name: secWorkerDetails, Phase: staged.PhaseDetail, Fetch: func(ctx context.Context) (any, error) {
			rec, err := svc.WorkerDetails(ctx, d.ID)
			if err != nil {
				return nil, err
			}
			return rec, nil
		}},
		staged.Section{Name: secActions, Phase: staged.PhaseDetail, Fetch: func(ctx context.Context) (any, error) {
			return d.AvailableActions(), nil
		}},
		staged.Section{Name: secHistory, Phase: staged.PhaseOnDemand, Fetch: func(ctx context.Context) (any, error) {
			entries, err := svc.History(ctx, d.ID)
			if err != nil {
				return nil, err
			}
			return entries, nil
		}},
	)
	return d
}

func (d *PackingData) Load(ctx context.Context) {
	if d.ID == "" {
		return
	}
	d.loader.Load(ctx)
}

func (d *PackingData) RefreshBasicInfo(ctx context.Context) { d.loader.RefreshBasic(ctx) }

func (d *PackingData) RefreshAll(ctx context.Context) {
	if d.ID == "" {
		return
	}
	d.loader.RefreshAll(ctx)
}

func (d *PackingData) LoadHistory(ctx context.Context) {
	d.loader.LoadSection(ctx, secHistory)
}

func (d *PackingData) Close() { d.loader.Close() }

func (d *PackingData) Snapshot() staged.Snapshot { return d.loader.Snapshot() }

func (d *PackingData) BasicInfo() domain.Record {
	if rec, ok := d.loader.Data(secBasicInfo).(domain.Record); ok {
		return rec
	}
	return nil
}

func (d *PackingData) Status() domain.Status {
	return domain.Status(d.BasicInfo().String("status"))
}

func (d *PackingData) AvailableActions() []string {
	return domain.PackingTransitions.ActionsFor(d.Status())
}

func (d *PackingData) refreshDerivedActions() {
	d.loader.Set(secActions, d.AvailableActions())
}

// UpdateStatus transitions the task, gated by the packing table.
func (d *PackingData) UpdateStatus(ctx context.Context, to domain.Status) domain.ActionResult {
	if d.ID == "" {
		return domain.Fail("no packing task loaded")
	}
	from := d.Status()
	if !domain.PackingTransitions.CanTransition(from, to) {
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

	d.Notifier.Notify(notify.Notification{Type: notify.Success, Message: "Packing task " + string(to)})
	return domain.OK(nil)
}

// AssignWorker attaches a worker and refreshes the worker section from the
// server's response.
func (d *PackingData) AssignWorker(ctx context.Context, workerID string) domain.ActionResult {
	if d.ID == "" {
		return domain.Fail("no packing task loaded")
	}
	rec, err := d.Svc.AssignWorker(ctx, d.ID, workerID)
	if err != nil {
		d.Notifier.Notify(notify.Notification{Type: notify.Error, Message: "Worker assignment failed", Description: err.Error()})
		return actionFailure(err)
	}
	d.loader.Set(secWorkerDetails, rec)
	d.loader.Update(secBasicInfo, func(old any) any {
		cur, _ := old.(domain.Record)
		return cur.Merge(domain.Record{"worker_id": workerID})
	})
	d.Notifier.Notify(notify.Notification{Type: notify.Success, Message: "Worker assigned"})
	return domain.OK(rec)
}

// UpdateTask sends a partial update with optimistic local merge and rollback.
func (d *PackingData) UpdateTask(ctx context.Context, patch domain.Record) domain.ActionResult {
	if d.ID == "" {
		return domain.Fail("no packing task loaded")
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
		d.Notifier.Notify(notify.Notification{Type: notify.Error, Message: "Packing update failed", Description: err.Error()})
		return actionFailure(err)
	}

	d.loader.Update(secBasicInfo, func(old any) any {
		cur, _ := old.(domain.Record)
		return cur.Merge(rec)
	})
	d.refreshDerivedActions()
	d.Notifier.Notify(notify.Notification{Type: notify.Success, Message: "Packing task updated"})
	return domain.OK(rec)
}

func (d *PackingData) Page() view.PageView {
	return view.Compose(d.Snapshot(), view.Components{}, view.Options{
		BackRoute: "/packing",
		SectionData: map[view.SectionKey]string{
			view.KeyDetails: secWorkerDetails,
		},
		Progress: func(basic any) any {
			rec, _ := basic.(domain.Record)
			return domain.Record{
				"status": rec.String("status"),
				"packed": rec["packed_count"],
				"total":  rec["item_count"],
			}
		},
	})
}
