package services

import (
	"context"
	"time"

	"github.com/amorty/cafe-admin/form"
	"github.com/amorty/cafe-admin/models"
	"github.com/amorty/cafe-admin/schema"
	"github.com/amorty/cafe-admin/store"
)

type Dialog int

const (
	DialogClosed Dialog = iota
	DialogAdd
	DialogEdit
)

func (d Dialog) String() string {
	switch d {
	case DialogAdd:
		return "add"
	case DialogEdit:
		return "edit"
	}
	return "closed"
}

// ChangeFunc is told about every successful mutation.
type ChangeFunc func(kind *schema.Kind, action, key string)

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Dashboard is the per-session view over one entity table at a time plus the
// add/edit dialog for it.
type Dashboard struct {
	store    store.Store
	actor    models.Actor
	now      func() time.Time
	OnChange ChangeFunc

	tab     *schema.Kind
	dialog  Dialog
	form    *form.State
	editKey string
	rows    []models.Record
}

func NewDashboard(s store.Store, actor models.Actor) *Dashboard {
	tab := schema.Customer
	if !actor.IsAdmin() {
		tab = schema.Menu
	}
	return &Dashboard{
		store: s,
		actor: actor,
		now:   time.Now,
		tab:   tab,
		form:  form.New(tab),
	}
}

// WithClock sets the clock used for date defaults in drafts.
func (d *Dashboard) WithClock(now func() time.Time) *Dashboard {
	d.now = now
	d.form.WithClock(now)
	return d
}

func (d *Dashboard) Actor() models.Actor { return d.actor }
func (d *Dashboard) Tab() *schema.Kind { return d.tab }
func (d *Dashboard) Dialog() Dialog { return d.dialog }
func (d *Dashboard) Form() *form.State { return d.form }

// Rows returns the last loaded view of the current table.
func (d *Dashboard) Rows() []models.Record {
	out := make([]models.Record, len(d.rows))
	for i, r := range d.rows {
		out[i] = r.Clone()
	}
	return out
}

// SelectTab switches the current table. An open dialog is closed and its
// draft discarded.
func (d *Dashboard) SelectTab(ctx context.Context, name string) error {
	kind, ok := schema.Lookup(name)
	if !ok {
		return models.ErrUnknownKind
	}
	if !d.canRead(kind) {
		return models.ErrNoPermission
	}
	rows, err := d.load(ctx, kind)
	if err != nil {
		return err
	}
	d.Close()
	d.tab = kind
	d.form = form.New(kind).WithClock(d.now)
	d.rows = rows
	return nil
}

// Refresh reloads the current table.
func (d *Dashboard) Refresh(ctx context.Context) error {
	rows, err := d.load(ctx, d.tab)
	if err != nil {
		return err
	}
	d.rows = rows
	return nil
}

// Get returns one record of the current table.
func (d *Dashboard) Get(ctx context.Context, key string) (models.Record, error) {
	if !d.canRead(d.tab) {
		return nil, models.ErrNoPermission
	}
	rec, err := d.store.Get(ctx, d.tab, key)
	if err != nil {
		return nil, err
	}
	if !d.owns(d.tab, rec) {
		return nil, &models.NotFoundError{Kind: d.tab.Name, Key: key}
	}
	return rec, nil
}

// OpenAdd opens an empty draft with kind defaults.
func (d *Dashboard) OpenAdd() error {
	if !d.canCreate(d.tab) {
		return models.ErrNoPermission
	}
	d.form.Clear()
	if !d.actor.IsAdmin() {
		if d.actor.CustomerID == "" {
			return models.ErrEmptyCustomer
		}
		if err := d.form.SetField("customer_id", d.actor.CustomerID); err != nil {
			return err
		}
	}
	d.dialog = DialogAdd
	d.editKey = ""
	return nil
}

// OpenEdit opens a draft seeded from rec.
func (d *Dashboard) OpenEdit(rec models.Record) error {
	if !d.actor.IsAdmin() {
		return models.ErrNoPermission
	}
	key := d.tab.KeyOf(rec)
	if key == "" {
		return &models.ValidationError{Field: schema.KeyField, Message: "is required"}
	}
	d.form.Populate(rec)
	d.dialog = DialogEdit
	d.editKey = key
	return nil
}

// Close drops the dialog and its draft.
func (d *Dashboard) Close() {
	d.dialog = DialogClosed
	d.editKey = ""
	d.form.Clear()
}

// SetField edits the open draft.
func (d *Dashboard) SetField(name, value string) error {
	if d.dialog == DialogClosed {
		return models.ErrDialogClosed
	}
	return d.form.SetField(name, value)
}

// Save writes the open draft. On success the dialog closes and the rows are
// reloaded. On failure the dialog stays open with the draft intact and the
// rows are left as they were.
func (d *Dashboard) Save(ctx context.Context) (models.Record, error) {
	var (
		saved  models.Record
		action string
		err    error
	)
	switch d.dialog {
	case DialogAdd:
		saved, err = d.create(ctx)
		action = models.ActionInsert
	case DialogEdit:
		saved, err = d.update(ctx)
		action = models.ActionUpdate
	default:
		return nil, models.ErrDialogClosed
	}
	if err != nil {
		return nil, err
	}

	d.notify(d.tab, action, d.tab.KeyOf(saved))
	if d.tab == schema.Pesanan && action == models.ActionInsert {
		d.notify(schema.Meja, models.ActionUpdate, saved.String("meja_id"))
	}
	d.Close()
	d.refreshQuietly(ctx)
	return saved, nil
}

// Delete removes key from the current table.
func (d *Dashboard) Delete(ctx context.Context, key string) error {
	if !d.actor.IsAdmin() {
		return models.ErrNoPermission
	}
	if err := d.store.Delete(ctx, d.tab, key); err != nil {
		return err
	}
	d.notify(d.tab, models.ActionDelete, key)
	d.refreshQuietly(ctx)
	return nil
}

// Options lists the values a foreign key field of the current table may take.
func (d *Dashboard) Options(ctx context.Context, field string) ([]Option, error) {
	f, ok := d.tab.Field(field)
	if !ok || f.Kind != schema.ForeignKey {
		return nil, &models.ValidationError{Field: field, Message: "not a reference field"}
	}
	target, ok := schema.Lookup(f.Ref)
	if !ok {
		return nil, models.ErrUnknownKind
	}
	if !d.actor.IsAdmin() && !d.canRead(target) {
		return nil, models.ErrNoPermission
	}

	rows, err := d.store.List(ctx, target)
	if err != nil {
		return nil, err
	}
	out := make([]Option, 0, len(rows))
	for _, r := range rows {
		if !d.owns(target, r) {
			continue
		}
		if !d.actor.IsAdmin() && target == schema.Meja && r.String("status") != schema.MejaAvailable {
			continue
		}
		out = append(out, Option{Value: target.KeyOf(r), Label: optionLabel(target, r)})
	}
	return out, nil
}

func (d *Dashboard) create(ctx context.Context) (models.Record, error) {
	kind := d.tab
	build := func(tx store.Store, key string) (models.Record, error) {
		rec, err := d.form.ToRecord(key)
		if err != nil {
			return nil, err
		}
		if err := CheckReferences(ctx, tx, kind, rec); err != nil {
			return nil, err
		}
		if !d.actor.IsAdmin() {
			if rec.String("customer_id") != d.actor.CustomerID {
				return nil, models.ErrNoPermission
			}
			if err := RequireAvailableTable(ctx, tx, rec.String("meja_id")); err != nil {
				return nil, err
			}
		}
		return rec, nil
	}

	if kind == schema.Pesanan {
		return PlaceOrder(ctx, d.store, build)
	}
	return store.Create(ctx, d.store, kind, build)
}

func (d *Dashboard) update(ctx context.Context) (models.Record, error) {
	kind, key := d.tab, d.editKey
	var saved models.Record
	err := d.store.Atomic(ctx, func(tx store.Store) error {
		rec, err := d.form.ToRecord(key)
		if err != nil {
			return err
		}
		if err := CheckReferences(ctx, tx, kind, rec); err != nil {
			return err
		}
		saved, err = tx.Update(ctx, kind, key, rec)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (d *Dashboard) load(ctx context.Context, kind *schema.Kind) ([]models.Record, error) {
	rows, err := d.store.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	if d.actor.IsAdmin() {
		return rows, nil
	}
	out := rows[:0]
	for _, r := range rows {
		if d.owns(kind, r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// refreshQuietly reloads rows after a committed write. A failed reload keeps
// the previous view; the write itself already succeeded.
func (d *Dashboard) refreshQuietly(ctx context.Context) {
	_ = d.Refresh(ctx)
}

func (d *Dashboard) notify(kind *schema.Kind, action, key string) {
	if d.OnChange != nil && key != "" {
		d.OnChange(kind, action, key)
	}
}

func (d *Dashboard) canRead(kind *schema.Kind) bool {
	return CanRead(d.actor, kind)
}

func (d *Dashboard) canCreate(kind *schema.Kind) bool {
	return CanCreate(d.actor, kind)
}

func (d *Dashboard) owns(kind *schema.Kind, rec models.Record) bool {
	return Owns(d.actor, kind, rec)
}

func optionLabel(kind *schema.Kind, r models.Record) string {
	key := kind.KeyOf(r)
	switch {
	case r.String("name") != "":
		return key + " - " + r.String("name")
	case kind == schema.Meja:
		return key + " - Meja " + r.String("number") + " (" + r.String("status") + ")"
	}
	return key
}
